// Package analyzer converts per-source payloads into a bounded score and
// partial category statistics. Every analyzer is a pure function of its
// payload, the evaluation time and the thresholds it is given.
package analyzer

import (
	"time"

	"github.com/dbsmedya/stackburn/internal/config"
	"github.com/dbsmedya/stackburn/internal/filetype"
	"github.com/dbsmedya/stackburn/internal/payload"
	"github.com/dbsmedya/stackburn/internal/types"
)

// Score contributions and caps.
const (
	cloudMediaShareThreshold = 40.0 // percent of files
	cloudMediaPoints         = 10.0
	cloudOtherShareThreshold = 30.0
	cloudOtherPoints         = 5.0
	cloudStaleCap            = 20.0

	localDuplicatePoints = 2.0
	localDuplicateCap    = 30.0
	localLargeCap        = 20.0
	localUnusedCap       = 20.0

	codeStalePoints    = 3.0
	codeStaleCap       = 30.0
	codeArchivedPoints = 2.0
	codeArchivedCap    = 20.0
	codeForkPoints     = 2.0
	codeForkCap        = 20.0

	maxScore = 100.0

	// duplicateSamplesPerGroup bounds how many redundant paths one group contributes.
	duplicateSamplesPerGroup = 3
)

// Analysis is the outcome of analyzing one source.
type Analysis struct {
	Source     string
	Score      float64
	Categories types.FileCategories
	TotalFiles int64
	TotalBytes int64
}

// Analyzer holds the thresholds shared by the three analyzers.
type Analyzer struct {
	StaleDays      int
	LargeFileBytes int64
	SampleLimit    int
	Now            func() time.Time
}

// New creates an Analyzer from configuration.
func New(cfg *config.Config) *Analyzer {
	return &Analyzer{
		StaleDays:      cfg.Thresholds.StaleDays,
		LargeFileBytes: cfg.Thresholds.LargeFileBytes,
		SampleLimit:    cfg.Scoring.SampleLimit,
		Now:            time.Now,
	}
}

func (a *Analyzer) cutoff() time.Time {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	return config.ThresholdsConfig{StaleDays: a.StaleDays}.StaleCutoff(now())
}

// AnalyzeLocal scores a local scanner payload.
//
// Each duplicate group contributes every member but the keeper and hard
// links to the duplicates count, and its wasted size to the duplicates size.
// Largest files at or above the large file threshold count as large_unused,
// unused files as stale and temporary files as temporary.
func (a *Analyzer) AnalyzeLocal(p *payload.Local) Analysis {
	out := Analysis{Source: types.SourceLocal}
	if p == nil {
		return out
	}
	out.TotalFiles = nonNegative(p.TotalFiles)
	out.TotalBytes = nonNegative(p.TotalSize)

	cats := &out.Categories
	var score float64

	for _, group := range p.Duplicates {
		if len(group.Files) < 2 {
			continue
		}
		sampled := 0
		for _, f := range group.Files[1:] {
			if f.HardLink {
				continue
			}
			cats.Duplicates.Count++
			if sampled < duplicateSamplesPerGroup {
				cats.Duplicates.Sample(f.Path, a.SampleLimit)
				sampled++
			}
		}
		cats.Duplicates.TotalSizeGB += types.BytesToGB(group.TotalSize)
	}
	score += capped(float64(cats.Duplicates.Count)*localDuplicatePoints, localDuplicateCap)

	for _, f := range p.LargestFiles {
		if f.Size < a.LargeFileBytes {
			continue
		}
		cats.LargeUnused.Record(types.BytesToGB(f.Size), f.Label(), a.SampleLimit)
	}
	score += capped(float64(cats.LargeUnused.Count), localLargeCap)

	for _, f := range p.UnusedFiles {
		cats.Stale.Record(types.BytesToGB(f.Size), f.Label(), a.SampleLimit)
	}
	score += capped(float64(len(p.UnusedFiles)), localUnusedCap)

	for _, f := range p.TemporaryFiles {
		cats.Temporary.Record(types.BytesToGB(f.Size), f.Label(), a.SampleLimit)
	}

	out.Score = clamp(score)
	return out
}

// AnalyzeCloud scores a cloud file store payload.
//
// A media bucket ("Videos" or "Images") holding more than 40% of all files
// adds 10 points each; "Other" above 30% adds 5. Every sampled oldest file
// modified before the stale cutoff counts as stale and adds one point, up to
// 20. Unparseable timestamps are skipped.
func (a *Analyzer) AnalyzeCloud(p *payload.Cloud) Analysis {
	out := Analysis{Source: types.SourceCloud}
	if p == nil {
		return out
	}
	out.TotalFiles = nonNegative(p.TotalFiles)
	out.TotalBytes = nonNegative(p.TotalSize)

	var score float64

	if p.TotalFiles > 0 {
		total := float64(p.TotalFiles)
		for bucket, count := range p.FileTypes {
			share := float64(count) / total * 100
			switch bucket {
			case filetype.Videos, filetype.Images:
				if share > cloudMediaShareThreshold {
					score += cloudMediaPoints
				}
			case filetype.Other:
				if share > cloudOtherShareThreshold {
					score += cloudOtherPoints
				}
			}
		}
	}

	cutoff := a.cutoff()
	stale := &out.Categories.Stale
	for _, f := range p.OldestFiles {
		modified, err := payload.ParseTime(f.ModifiedTime)
		if err != nil || !modified.Before(cutoff) {
			continue
		}
		stale.Record(types.BytesToGB(f.Size), f.Name, a.SampleLimit)
	}
	score += capped(float64(stale.Count), cloudStaleCap)

	out.Score = clamp(score)
	return out
}

// AnalyzeCodeHosting scores a code hosting payload. Repository sizes are in
// kilobytes.
func (a *Analyzer) AnalyzeCodeHosting(p *payload.CodeHosting) Analysis {
	out := Analysis{Source: types.SourceCodeHosting}
	if p == nil {
		return out
	}
	out.TotalFiles = nonNegative(p.TotalRepos)
	out.TotalBytes = nonNegative(p.TotalSizeKB) * 1024

	cats := &out.Categories
	var score float64

	for _, r := range p.StaleRepos {
		cats.Stale.Record(types.KBToGB(r.Size), r.Label(), a.SampleLimit)
	}
	score += capped(float64(len(p.StaleRepos))*codeStalePoints, codeStaleCap)

	for _, r := range p.ArchivedRepos {
		cats.Archived.Record(types.KBToGB(r.Size), r.Label(), a.SampleLimit)
	}
	score += capped(float64(len(p.ArchivedRepos))*codeArchivedPoints, codeArchivedCap)

	for _, r := range p.InactiveForks {
		cats.Versioned.Record(types.KBToGB(r.Size), r.Label(), a.SampleLimit)
	}
	score += capped(float64(len(p.InactiveForks))*codeForkPoints, codeForkCap)

	out.Score = clamp(score)
	return out
}

func capped(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

func nonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

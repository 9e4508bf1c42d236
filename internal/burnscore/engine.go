// Package burnscore merges per-source analyses into one burn score result:
// aggregated categories, a weighted overall score, bloat and savings totals,
// and a prioritized recommendation list.
package burnscore

import (
	"errors"
	"time"

	"github.com/dbsmedya/stackburn/internal/analyzer"
	"github.com/dbsmedya/stackburn/internal/config"
	"github.com/dbsmedya/stackburn/internal/logger"
	"github.com/dbsmedya/stackburn/internal/payload"
	"github.com/dbsmedya/stackburn/internal/types"
)

// Input holds the decoded payloads of up to three sources. A nil payload
// means the source is not present.
type Input struct {
	Local       *payload.Local
	Cloud       *payload.Cloud
	CodeHosting *payload.CodeHosting
}

// RawInput holds undecoded JSON payloads. A nil slice means the source is
// not present.
type RawInput struct {
	Local       []byte
	Cloud       []byte
	CodeHosting []byte
}

// Engine computes burn score results.
type Engine struct {
	scoring   config.ScoringConfig
	staleDays int
	analyzer  *analyzer.Analyzer
	logger    *logger.Logger
	now       func() time.Time
}

// New creates an Engine from configuration.
func New(cfg *config.Config, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.NewDefault()
	}
	e := &Engine{
		scoring:   cfg.Scoring,
		staleDays: cfg.Thresholds.StaleDays,
		analyzer:  analyzer.New(cfg),
		logger:    log,
		now:       time.Now,
	}
	e.analyzer.Now = e.clock
	return e
}

func (e *Engine) clock() time.Time {
	return e.now()
}

// SetClock replaces the evaluation clock used for stale cutoffs and the
// result timestamp.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Calculate analyzes every present source and builds the result.
func (e *Engine) Calculate(in Input) *types.BurnScoreResult {
	var analyses []analyzer.Analysis

	if in.Local != nil {
		analyses = append(analyses, e.analyzer.AnalyzeLocal(in.Local))
	}
	if in.Cloud != nil {
		analyses = append(analyses, e.analyzer.AnalyzeCloud(in.Cloud))
	}
	if in.CodeHosting != nil {
		analyses = append(analyses, e.analyzer.AnalyzeCodeHosting(in.CodeHosting))
	}

	return e.Build(analyses)
}

// CalculateRaw decodes each present payload and calculates the result over
// the sources that decoded. A payload that fails to decode is left out and
// reported both as a result warning and in the returned error, which joins
// one *payload.SourceError per failed source. The result is never nil.
func (e *Engine) CalculateRaw(raw RawInput) (*types.BurnScoreResult, error) {
	var (
		in   Input
		errs []error
	)

	if raw.Local != nil {
		p, err := payload.DecodeLocal(raw.Local)
		if err != nil {
			errs = append(errs, err)
		}
		in.Local = p
	}
	if raw.Cloud != nil {
		p, err := payload.DecodeCloud(raw.Cloud)
		if err != nil {
			errs = append(errs, err)
		}
		in.Cloud = p
	}
	if raw.CodeHosting != nil {
		p, err := payload.DecodeCodeHosting(raw.CodeHosting)
		if err != nil {
			errs = append(errs, err)
		}
		in.CodeHosting = p
	}

	result := e.Calculate(in)
	for _, err := range errs {
		log := e.logger
		var srcErr *payload.SourceError
		if errors.As(err, &srcErr) {
			log = log.WithSource(srcErr.Source)
		}
		log.Warnf("Ignoring source: %v", err)
		result.Warnings = append(result.Warnings, err.Error())
	}

	return result, errors.Join(errs...)
}

// Build assembles a result from per-source analyses.
func (e *Engine) Build(analyses []analyzer.Analysis) *types.BurnScoreResult {
	scores := make(map[string]float64, len(analyses))
	var (
		totalFiles int64
		totalBytes int64
	)
	for _, a := range analyses {
		scores[a.Source] = a.Score
		totalFiles += a.TotalFiles
		totalBytes += a.TotalBytes
	}

	categories := Aggregate(analyses...)
	ApplyPercentages(&categories, types.BytesToGB(totalBytes))

	result := &types.BurnScoreResult{
		OverallScore:      OverallScore(scores, e.scoring.Weights),
		CategoryScores:    scores,
		TotalBloatSize:    TotalBloat(categories),
		TotalFilesScanned: totalFiles,
		FileCategories:    categories,
		PotentialSavings:  PotentialSavings(categories, e.scoring.Savings),
		CalculatedAt:      e.now().UTC(),
	}
	result.Recommendations = Recommend(categories, e.scoring.Recommendations, e.staleDays)

	e.logger.Debugf("Burn score %.2f from %d sources, %d recommendations",
		result.OverallScore, len(analyses), len(result.Recommendations))
	return result
}

// Aggregate merges the categories of every analysis. Counts and sizes are
// summed and samples concatenated in argument order.
func Aggregate(analyses ...analyzer.Analysis) types.FileCategories {
	var merged types.FileCategories
	for _, a := range analyses {
		merged.Merge(a.Categories)
	}
	for _, c := range types.AllCategories {
		if stats := merged.Get(c); stats.Items == nil {
			stats.Items = []string{}
		}
	}
	return merged
}

// ApplyPercentages sets each category's share of the total scanned size.
// All shares are zero when nothing was scanned.
func ApplyPercentages(categories *types.FileCategories, totalGB float64) {
	for _, c := range types.AllCategories {
		stats := categories.Get(c)
		if totalGB <= 0 {
			stats.PercentageOfTotal = 0
			continue
		}
		stats.PercentageOfTotal = stats.TotalSizeGB / totalGB * 100
	}
}

// OverallScore is the weighted mean of the per-source scores. Sources
// without a positive weight are excluded from both numerator and
// denominator; with no weighted source the score is 0.
func OverallScore(scores, weights map[string]float64) float64 {
	var total, weightSum float64
	for source, score := range scores {
		w := weights[source]
		if w <= 0 {
			continue
		}
		total += score * w
		weightSum += w
	}
	if weightSum == 0 {
		return 0
	}
	return total / weightSum
}

// TotalBloat sums the sizes of all six categories.
func TotalBloat(categories types.FileCategories) float64 {
	return categories.TotalSizeGB()
}

// PotentialSavings applies each category's removability coefficient once.
// large_unused is surfaced for review only and never counted.
func PotentialSavings(categories types.FileCategories, s config.SavingsConfig) float64 {
	return categories.Duplicates.TotalSizeGB*s.Duplicates +
		categories.Stale.TotalSizeGB*s.Stale +
		categories.Archived.TotalSizeGB*s.Archived +
		categories.Versioned.TotalSizeGB*s.Versioned +
		categories.Temporary.TotalSizeGB*s.Temporary
}

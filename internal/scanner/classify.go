package scanner

import (
	"context"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dbsmedya/stackburn/internal/config"
	"github.com/dbsmedya/stackburn/internal/dupes"
	"github.com/dbsmedya/stackburn/internal/payload"
	"github.com/dbsmedya/stackburn/internal/types"
)

// Classification is the large, unused and temporary split of a traversal.
type Classification struct {
	Largest   []types.FileRecord
	Unused    []types.FileRecord
	Temporary []types.FileRecord
	Groups    []types.DuplicateGroup
	FileTypes map[string]int64
}

// Classify splits the records of res into the categories reported in the
// local payload.
//
// Largest keeps the top LargestLimit files at or above the large file
// threshold, biggest first. Unused keeps files whose last use (the later of
// access and modification) is older than StaleDays, oldest first, capped at
// UnusedLimit. Temporary keeps files whose name matches a temporary pattern,
// capped at TemporaryLimit.
func (s *Scanner) Classify(res *Result) Classification {
	cutoff := config.ThresholdsConfig{StaleDays: s.opts.StaleDays}.StaleCutoff(res.ScannedAt)

	c := Classification{
		Largest:   make([]types.FileRecord, 0),
		Unused:    make([]types.FileRecord, 0),
		Temporary: make([]types.FileRecord, 0),
		Groups:    dupes.Group(res.Index, s.strategy),
		FileTypes: make(map[string]int64),
	}

	for _, rec := range res.Records {
		c.FileTypes[rec.Bucket]++

		if rec.Size >= s.opts.LargeFileBytes {
			c.Largest = append(c.Largest, rec)
		}
		if rec.LastUsed().Before(cutoff) {
			c.Unused = append(c.Unused, rec)
		}
		if s.isTemporary(rec.Name) {
			c.Temporary = append(c.Temporary, rec)
		}
	}

	sort.SliceStable(c.Largest, func(i, j int) bool {
		if c.Largest[i].Size != c.Largest[j].Size {
			return c.Largest[i].Size > c.Largest[j].Size
		}
		return c.Largest[i].Path < c.Largest[j].Path
	})
	sort.SliceStable(c.Unused, func(i, j int) bool {
		return c.Unused[i].LastUsed().Before(c.Unused[j].LastUsed())
	})

	c.Largest = limit(c.Largest, s.opts.LargestLimit)
	c.Unused = limit(c.Unused, s.opts.UnusedLimit)
	c.Temporary = limit(c.Temporary, s.opts.TemporaryLimit)

	return c
}

func (s *Scanner) isTemporary(name string) bool {
	for _, pattern := range s.opts.TemporaryPatterns {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// Payload builds the local source payload from a traversal result.
func (s *Scanner) Payload(res *Result) *payload.Local {
	c := s.Classify(res)
	s.logger.Infof("Found %d duplicate groups: %d redundant files, %d bytes reclaimable",
		len(c.Groups), dupes.RedundantCount(c.Groups), dupes.TotalWasted(c.Groups))

	return &payload.Local{
		TotalFiles:       int64(len(res.Records)),
		TotalDirectories: res.Directories,
		TotalSize:        res.TotalSize(),
		FileTypes:        c.FileTypes,
		LargestFiles:     payload.FilesFromRecords(c.Largest),
		Duplicates:       payload.DuplicatesFromGroups(c.Groups),
		UnusedFiles:      payload.FilesFromRecords(c.Unused),
		TemporaryFiles:   payload.FilesFromRecords(c.Temporary),
		Warnings:         res.Warnings,
		ScanTimestamp:    payload.FormatTime(res.ScannedAt),
	}
}

// ScanPayload scans roots and builds the local payload in one step. A
// canceled scan still yields the payload of what was visited.
func (s *Scanner) ScanPayload(ctx context.Context, roots []string) (*payload.Local, error) {
	res, err := s.Scan(ctx, roots)
	if res == nil {
		return nil, err
	}
	return s.Payload(res), err
}

func limit(records []types.FileRecord, n int) []types.FileRecord {
	if n > 0 && len(records) > n {
		return records[:n]
	}
	return records
}

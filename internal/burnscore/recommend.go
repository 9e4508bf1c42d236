package burnscore

import (
	"fmt"
	"sort"

	"github.com/dbsmedya/stackburn/internal/config"
	"github.com/dbsmedya/stackburn/internal/types"
)

// Recommend emits at most one recommendation per non-empty enabled category,
// sorted by priority then impact descending. Impact is the raw category size
// times the rule's coefficient.
func Recommend(categories types.FileCategories, cfg config.RecommendationsConfig, staleDays int) []types.Recommendation {
	recs := make([]types.Recommendation, 0)

	for _, name := range cfg.Enabled {
		category := types.Category(name)
		stats := categories.Get(category)
		if stats == nil || stats.Count == 0 {
			continue
		}
		if rec, ok := recommendation(category, *stats, cfg, staleDays); ok {
			recs = append(recs, rec)
		}
	}

	SortRecommendations(recs)
	return recs
}

func recommendation(c types.Category, s types.CategoryStats, cfg config.RecommendationsConfig, staleDays int) (types.Recommendation, bool) {
	switch c {
	case types.CategoryDuplicates:
		priority := types.PriorityHigh
		if s.TotalSizeGB > cfg.DuplicatesCriticalGB {
			priority = types.PriorityCritical
		}
		return types.Recommendation{
			Priority: priority,
			Category: "Duplicates",
			Action:   "Remove duplicate files",
			ImpactGB: s.TotalSizeGB * cfg.DuplicatesCoefficient,
			Effort:   types.EffortEasy,
			Details: fmt.Sprintf("Found %d duplicate files taking up %.2f GB. Keep one copy of each and remove the rest.",
				s.Count, s.TotalSizeGB),
		}, true

	case types.CategoryStale:
		priority := types.PriorityMedium
		if s.Count > cfg.StaleHighCount {
			priority = types.PriorityHigh
		}
		return types.Recommendation{
			Priority: priority,
			Category: "Stale Files",
			Action:   "Archive or delete old files",
			ImpactGB: s.TotalSizeGB * cfg.StaleCoefficient,
			Effort:   types.EffortModerate,
			Details: fmt.Sprintf("%d items have not been used in over %d days (%.2f GB). Review and archive or delete.",
				s.Count, staleDays, s.TotalSizeGB),
		}, true

	case types.CategoryLargeUnused:
		return types.Recommendation{
			Priority: types.PriorityMedium,
			Category: "Large Files",
			Action:   "Review large files",
			ImpactGB: s.TotalSizeGB * cfg.LargeUnusedCoefficient,
			Effort:   types.EffortModerate,
			Details: fmt.Sprintf("%d large files found (%.2f GB total). Consider compressing them or moving them to cold storage.",
				s.Count, s.TotalSizeGB),
		}, true

	case types.CategoryTemporary:
		return types.Recommendation{
			Priority: types.PriorityMedium,
			Category: "Temporary Files",
			Action:   "Clear temporary files",
			ImpactGB: s.TotalSizeGB * cfg.TemporaryCoefficient,
			Effort:   types.EffortEasy,
			Details:  fmt.Sprintf("%d temporary or partial files found (%.2f GB). They can usually be deleted.", s.Count, s.TotalSizeGB),
		}, true

	case types.CategoryArchived:
		return types.Recommendation{
			Priority: types.PriorityLow,
			Category: "Archived Repositories",
			Action:   "Delete or export archived repositories",
			ImpactGB: s.TotalSizeGB * cfg.ArchivedCoefficient,
			Effort:   types.EffortEasy,
			Details:  fmt.Sprintf("%d archived repositories hold %.2f GB.", s.Count, s.TotalSizeGB),
		}, true

	case types.CategoryVersioned:
		return types.Recommendation{
			Priority: types.PriorityLow,
			Category: "Inactive Forks",
			Action:   "Remove inactive forks",
			ImpactGB: s.TotalSizeGB * cfg.VersionedCoefficient,
			Effort:   types.EffortModerate,
			Details:  fmt.Sprintf("%d forks have no recent activity (%.2f GB). Delete those that are no longer needed.", s.Count, s.TotalSizeGB),
		}, true
	}
	return types.Recommendation{}, false
}

// SortRecommendations orders by priority (Critical first) then impact
// descending. The sort is stable.
func SortRecommendations(recs []types.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Priority != recs[j].Priority {
			return recs[i].Priority < recs[j].Priority
		}
		return recs[i].ImpactGB > recs[j].ImpactGB
	})
}

// Package dupes turns a digest index into duplicate groups with a
// deterministic keeper and wasted-space accounting.
package dupes

import (
	"fmt"
	"sort"

	"github.com/dbsmedya/stackburn/internal/types"
)

// KeepStrategy decides which member of a group is kept (placed first).
type KeepStrategy string

const (
	KeepLexical  KeepStrategy = "lexical"
	KeepShortest KeepStrategy = "shortest"
	KeepOldest   KeepStrategy = "oldest"
	KeepNewest   KeepStrategy = "newest"
)

// ParseStrategy converts a configuration value into a KeepStrategy.
// An empty string selects KeepLexical.
func ParseStrategy(s string) (KeepStrategy, error) {
	switch KeepStrategy(s) {
	case "", KeepLexical:
		return KeepLexical, nil
	case KeepShortest, KeepOldest, KeepNewest:
		return KeepStrategy(s), nil
	default:
		return "", fmt.Errorf("unknown keep strategy %q", s)
	}
}

// Group builds duplicate groups from a digest index. Entries with fewer than
// two members, or whose members are all hard links to one inode, are
// discarded. Members are ordered so that Files[0] is the keeper, and groups
// are ordered by wasted size descending then digest. Hard links stay in
// Files but add nothing to TotalSize.
func Group(index map[string][]types.FileRecord, strategy KeepStrategy) []types.DuplicateGroup {
	groups := make([]types.DuplicateGroup, 0)

	for digest, members := range index {
		if len(members) < 2 {
			continue
		}

		files := make([]types.FileRecord, len(members))
		copy(files, members)
		sortMembers(files, strategy)

		group := types.DuplicateGroup{Hash: digest, Files: files}
		reclaimable := len(group.Reclaimable())
		if reclaimable == 0 {
			// Every member is a hard link to the keeper.
			continue
		}
		group.TotalSize = types.WastedSize(files[0].Size, reclaimable+1)
		groups = append(groups, group)
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].TotalSize != groups[j].TotalSize {
			return groups[i].TotalSize > groups[j].TotalSize
		}
		return groups[i].Hash < groups[j].Hash
	})

	return groups
}

// TotalWasted sums the wasted size of all groups.
func TotalWasted(groups []types.DuplicateGroup) int64 {
	var total int64
	for _, g := range groups {
		total += g.TotalSize
	}
	return total
}

// RedundantCount returns the number of files whose removal frees space:
// every member except the keeper and its hard links.
func RedundantCount(groups []types.DuplicateGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Reclaimable())
	}
	return n
}

// sortMembers orders files so that files[0] is the keeper.
func sortMembers(files []types.FileRecord, strategy KeepStrategy) {
	sort.Slice(files, func(i, j int) bool {
		f1 := files[i]
		f2 := files[j]

		switch strategy {
		case KeepShortest:
			if len(f1.Path) != len(f2.Path) {
				return len(f1.Path) < len(f2.Path)
			}

		case KeepOldest:
			if !f1.ModifiedTime.Equal(f2.ModifiedTime) {
				return f1.ModifiedTime.Before(f2.ModifiedTime)
			}

		case KeepNewest:
			if !f1.ModifiedTime.Equal(f2.ModifiedTime) {
				return f1.ModifiedTime.After(f2.ModifiedTime)
			}
		}

		// Tie-breakers: shorter path for the time based strategies, then
		// alphabetical so the order is total.
		if strategy == KeepOldest || strategy == KeepNewest {
			if len(f1.Path) != len(f2.Path) {
				return len(f1.Path) < len(f2.Path)
			}
		}
		return f1.Path < f2.Path
	})
}

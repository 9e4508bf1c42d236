// Package report renders burn score results for people: a markdown document
// and terminal tables. Rendering never changes the result.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"

	"github.com/dbsmedya/stackburn/internal/types"
)

// TopRecommendations is how many recommendations the markdown report lists.
const TopRecommendations = 5

// DetailsWidth bounds the details column of the recommendations table.
const DetailsWidth = 72

var sourceLabels = func() *orderedmap.OrderedMap[string, string] {
	m := orderedmap.NewOrderedMap[string, string]()
	m.Set(types.SourceLocal, "Local")
	m.Set(types.SourceCloud, "Cloud")
	m.Set(types.SourceCodeHosting, "Code Hosting")
	return m
}()

var categoryLabels = func() *orderedmap.OrderedMap[types.Category, string] {
	m := orderedmap.NewOrderedMap[types.Category, string]()
	m.Set(types.CategoryDuplicates, "Duplicates")
	m.Set(types.CategoryStale, "Stale Files")
	m.Set(types.CategoryLargeUnused, "Large Files")
	m.Set(types.CategoryTemporary, "Temporary Files")
	m.Set(types.CategoryArchived, "Archived")
	m.Set(types.CategoryVersioned, "Versioned")
	return m
}()

// CategoryLabel returns the display name of a category.
func CategoryLabel(c types.Category) string {
	return categoryLabels.GetOrDefault(c, string(c))
}

// SourceLabel returns the display name of a source key.
func SourceLabel(source string) string {
	return sourceLabels.GetOrDefault(source, source)
}

// orderedScores returns the per-source scores with known sources first in
// their fixed order, followed by any other keys alphabetically.
func orderedScores(scores map[string]float64) *orderedmap.OrderedMap[string, float64] {
	out := orderedmap.NewOrderedMap[string, float64]()
	for _, source := range sourceLabels.Keys() {
		if score, ok := scores[source]; ok {
			out.Set(source, score)
		}
	}

	var extra []string
	for source := range scores {
		if _, known := sourceLabels.Get(source); !known {
			extra = append(extra, source)
		}
	}
	sort.Strings(extra)
	for _, source := range extra {
		out.Set(source, scores[source])
	}
	return out
}

// Markdown renders the result as a markdown document.
func Markdown(r *types.BurnScoreResult) string {
	var b strings.Builder

	b.WriteString("# StackBurn Analysis Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", r.CalculatedAt.UTC().Format("2006-01-02 15:04:05 UTC"))

	fmt.Fprintf(&b, "## Overall Burn Score: %.1f/100\n\n", r.OverallScore)
	b.WriteString("Higher scores indicate more digital bloat.\n\n")

	b.WriteString("## Summary Statistics\n")
	fmt.Fprintf(&b, "- Total files scanned: %d\n", r.TotalFilesScanned)
	fmt.Fprintf(&b, "- Total bloat identified: %.2f GB\n", r.TotalBloatSize)
	fmt.Fprintf(&b, "- Potential savings: %.2f GB\n\n", r.PotentialSavings)

	b.WriteString("## Category Breakdown\n")
	for el := orderedScores(r.CategoryScores).Front(); el != nil; el = el.Next() {
		fmt.Fprintf(&b, "- %s: %.1f/100\n", SourceLabel(el.Key), el.Value)
	}
	b.WriteString("\n")

	b.WriteString("## File Categories\n")
	for el := categoryLabels.Front(); el != nil; el = el.Next() {
		stats := r.FileCategories.Get(el.Key)
		if stats.Count == 0 && el.Key != types.CategoryDuplicates && el.Key != types.CategoryStale {
			continue
		}
		fmt.Fprintf(&b, "### %s\n", el.Value)
		fmt.Fprintf(&b, "- Count: %d\n", stats.Count)
		fmt.Fprintf(&b, "- Size: %.2f GB\n\n", stats.TotalSizeGB)
	}

	b.WriteString("## Top Recommendations\n")
	for i, rec := range r.Recommendations {
		if i == TopRecommendations {
			break
		}
		fmt.Fprintf(&b, "%d. **%s** - %s\n", i+1, rec.Action, rec.Details)
		fmt.Fprintf(&b, "   - Impact: %.2f GB | Effort: %s\n", rec.ImpactGB, rec.Effort)
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n## Warnings\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}

// Table writes the score, category and recommendation tables to w.
func Table(w io.Writer, r *types.BurnScoreResult) error {
	fmt.Fprintf(w, "Burn score: %s  (calculated %s)\n\n",
		ScoreColor(r.OverallScore).Sprintf("%.1f/100", r.OverallScore),
		r.CalculatedAt.UTC().Format(time.RFC3339))

	scores := tablewriter.NewWriter(w)
	scores.Header("Source", "Score")
	for el := orderedScores(r.CategoryScores).Front(); el != nil; el = el.Next() {
		if err := scores.Append(SourceLabel(el.Key), fmt.Sprintf("%.1f", el.Value)); err != nil {
			return fmt.Errorf("failed to append score row: %w", err)
		}
	}
	if err := scores.Render(); err != nil {
		return fmt.Errorf("failed to render scores: %w", err)
	}

	cats := tablewriter.NewWriter(w)
	cats.Header("Category", "Items", "Size (GB)", "Share")
	for el := categoryLabels.Front(); el != nil; el = el.Next() {
		stats := r.FileCategories.Get(el.Key)
		if err := cats.Append(el.Value, fmt.Sprintf("%d", stats.Count),
			fmt.Sprintf("%.2f", stats.TotalSizeGB), fmt.Sprintf("%.1f%%", stats.PercentageOfTotal)); err != nil {
			return fmt.Errorf("failed to append category row: %w", err)
		}
	}
	cats.Footer("Total bloat", "", fmt.Sprintf("%.2f", r.TotalBloatSize), fmt.Sprintf("saves ~%.2f GB", r.PotentialSavings))
	if err := cats.Render(); err != nil {
		return fmt.Errorf("failed to render categories: %w", err)
	}

	if len(r.Recommendations) == 0 {
		fmt.Fprintln(w, "No recommendations.")
	} else {
		recs := tablewriter.NewWriter(w)
		recs.Header("Priority", "Action", "Impact (GB)", "Effort", "Details")
		for _, rec := range r.Recommendations {
			if err := recs.Append(rec.Priority.String(), rec.Action, fmt.Sprintf("%.2f", rec.ImpactGB),
				rec.Effort.String(), runewidth.Truncate(rec.Details, DetailsWidth, "...")); err != nil {
				return fmt.Errorf("failed to append recommendation row: %w", err)
			}
		}
		if err := recs.Render(); err != nil {
			return fmt.Errorf("failed to render recommendations: %w", err)
		}
	}

	for _, warning := range r.Warnings {
		fmt.Fprintln(w, color.Yellow.Sprint("warning: "+warning))
	}
	return nil
}

// ScoreColor picks the display color for a burn score.
func ScoreColor(score float64) color.Color {
	switch {
	case score >= 60:
		return color.Red
	case score >= 30:
		return color.Yellow
	default:
		return color.Green
	}
}

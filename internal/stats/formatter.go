package stats

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/perceptua/backend/internal/models"
)

// Detail is one labeled slice of a formatted distribution.
type Detail struct {
	Label   string `json:"label"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

// FormattedDistribution is the presentation shape of a raw accumulator:
// per-label counts folded into percentages plus a one-line summary.
type FormattedDistribution struct {
	Summary string   `json:"summary"`
	Details []Detail `json:"details"`
}

// FormatDistribution folds a raw accumulator into percentages and a summary.
// labels maps stimulus ids to display labels for the select types; ids
// without a label are shown as-is. Pure; any ratio with a zero denominator
// yields 0.
func FormatDistribution(acc Accumulator, labels map[string]string) (*FormattedDistribution, error) {
	switch a := acc.(type) {
	case *BinaryCounts:
		return formatBinary(a), nil
	case *RatingCounts:
		return formatRating(a), nil
	case *MultiSelectCounts:
		return formatSelect(a.Selections, labels, true), nil
	case *SingleSelectCounts:
		return formatSelect(a.Selection, labels, false), nil
	}
	return nil, fmt.Errorf("%w: %T", models.ErrUnknownComparisonType, acc)
}

func formatBinary(a *BinaryCounts) *FormattedDistribution {
	total := a.Yes + a.No
	yesPct := pct(a.Yes, total)
	return &FormattedDistribution{
		Summary: fmt.Sprintf("%d%% Yes", yesPct),
		Details: []Detail{
			{Label: "Yes", Count: a.Yes, Percent: yesPct},
			{Label: "No", Count: a.No, Percent: pct(a.No, total)},
		},
	}
}

func formatRating(a *RatingCounts) *FormattedDistribution {
	type starCount struct {
		star  int
		count int
	}
	entries := make([]starCount, 0, len(a.Ratings))
	total := 0
	weighted := 0
	for key, count := range a.Ratings {
		star, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		entries = append(entries, starCount{star: star, count: count})
		total += count
		weighted += star * count
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].star > entries[j].star })

	average := 0.0
	if total > 0 {
		average = float64(weighted) / float64(total)
	}
	details := make([]Detail, 0, len(entries))
	for _, e := range entries {
		details = append(details, Detail{
			Label:   fmt.Sprintf("%d★", e.star),
			Count:   e.count,
			Percent: pct(e.count, total),
		})
	}
	return &FormattedDistribution{
		Summary: fmt.Sprintf("%.1f average rating", average),
		Details: details,
	}
}

// formatSelect shapes multi- and single-select counts. Details are sorted by
// count descending (label ascending on ties, keeping output stable). The
// multi-select summary names the top two slices and counts the rest.
func formatSelect(counts map[string]int, labels map[string]string, multi bool) *FormattedDistribution {
	total := 0
	details := make([]Detail, 0, len(counts))
	for id, count := range counts {
		label := labels[id]
		if label == "" {
			label = id
		}
		details = append(details, Detail{Label: label, Count: count})
		total += count
	}
	for i := range details {
		details[i].Percent = pct(details[i].Count, total)
	}
	sort.Slice(details, func(i, j int) bool {
		if details[i].Count != details[j].Count {
			return details[i].Count > details[j].Count
		}
		return details[i].Label < details[j].Label
	})

	summary := ""
	switch {
	case len(details) == 0:
		summary = "No responses"
	case !multi:
		summary = details[0].Label
	default:
		var b strings.Builder
		top := details
		if len(top) > 2 {
			top = top[:2]
		}
		for i, d := range top {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s (%d%%)", d.Label, d.Percent)
		}
		if rest := len(details) - len(top); rest > 0 {
			fmt.Fprintf(&b, " +%d more", rest)
		}
		summary = b.String()
	}
	return &FormattedDistribution{Summary: summary, Details: details}
}

// pct rounds count/total to the nearest whole percent; zero totals yield 0.
func pct(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/perceptua/backend/internal/models"
	"github.com/perceptua/backend/internal/stats"
)

// BuildWorkbook renders an aggregate report into a spreadsheet: an overview
// sheet, the demographic fan-out, and one row group per comparison with its
// formatted all-respondents distribution.
func BuildWorkbook(report *stats.AggregateStats, comparisons []models.Comparison) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeOverview(f, report); err != nil {
		return nil, err
	}
	if err := writeDemographics(f, report); err != nil {
		return nil, err
	}
	if err := writeComparisons(f, report, comparisons); err != nil {
		return nil, err
	}

	// Drop the default sheet created by NewFile.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	return f, nil
}

func writeOverview(f *excelize.File, report *stats.AggregateStats) error {
	const sheet = "Overview"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Study ID", report.StudyID.String()},
		{"Total sessions", report.TotalSessions},
		{"Completed sessions", report.CompletedSessions},
		{"Incomplete sessions", report.IncompleteSessions},
		{"Computed at", report.ComputedAt.Format("2006-01-02 15:04:05 UTC")},
	}
	if d := report.SessionDurations; d != nil {
		rows = append(rows,
			[]interface{}{"Mean duration (s)", d.MeanSeconds},
			[]interface{}{"Median duration (s)", d.MedianSeconds},
			[]interface{}{"P90 duration (s)", d.P90Seconds},
		)
	}
	return writeRows(f, sheet, 1, rows)
}

func writeDemographics(f *excelize.File, report *stats.AggregateStats) error {
	const sheet = "Demographics"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]interface{}{{"Dimension", "Label", "Completed sessions"}}
	for _, dim := range models.Dimensions {
		for label, count := range report.DemographicData[dim] {
			rows = append(rows, []interface{}{dim, label, count})
		}
	}
	return writeRows(f, sheet, 1, rows)
}

func writeComparisons(f *excelize.File, report *stats.AggregateStats, comparisons []models.Comparison) error {
	const sheet = "Comparisons"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	labelsByComparison := make(map[string]map[string]string, len(comparisons))
	for i := range comparisons {
		labelsByComparison[comparisons[i].ID.String()] = comparisons[i].OptionLabels()
	}

	rows := [][]interface{}{{"Comparison", "Type", "Responses", "Summary", "Option", "Count", "Percent"}}
	for _, cs := range report.ComparisonStats {
		if cs.Overall == nil {
			rows = append(rows, []interface{}{cs.Title, string(cs.Type), cs.ResponseCount, "", "", "", ""})
			continue
		}
		formatted, err := stats.FormatDistribution(cs.Overall, labelsByComparison[cs.ComparisonID.String()])
		if err != nil {
			return fmt.Errorf("format %s: %w", cs.ComparisonID, err)
		}
		if len(formatted.Details) == 0 {
			rows = append(rows, []interface{}{cs.Title, string(cs.Type), cs.ResponseCount, formatted.Summary, "", "", ""})
			continue
		}
		for i, d := range formatted.Details {
			row := []interface{}{"", "", "", "", d.Label, d.Count, d.Percent}
			if i == 0 {
				row[0], row[1], row[2], row[3] = cs.Title, string(cs.Type), cs.ResponseCount, formatted.Summary
			}
			rows = append(rows, row)
		}
	}
	return writeRows(f, sheet, 1, rows)
}

func writeRows(f *excelize.File, sheet string, startRow int, rows [][]interface{}) error {
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, startRow+r)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

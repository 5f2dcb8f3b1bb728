package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BarCut/internal/model"
	"github.com/piwi3910/BarCut/internal/report"
)

// Sheet names of the exported workbook.
const (
	SheetResults = "Results"
	SheetUnmet   = "Unmet"
)

var (
	cutColumns   = []interface{}{"Bar", "Seq", "Demand ID", "Label", "Length", "Offset"}
	unmetColumns = []interface{}{"Method", "Demand ID", "Label", "Length", "Quantity", "Reason"}
)

// ExportExcel writes a workbook with the results table on the first sheet,
// one sheet per method listing its cuts in sawing order, and the unmet
// demand of every method on a final sheet.
func ExportExcel(path string, rep *model.ComparisonReport) error {
	if rep == nil || len(rep.Results) == 0 {
		return fmt.Errorf("no results to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetResults); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	records := report.Render(rep).Records()
	results := make([][]interface{}, len(records))
	for i, rec := range records {
		results[i] = make([]interface{}, len(rec))
		for j, v := range rec {
			results[i][j] = v
		}
	}
	if err := writeRows(f, SheetResults, results, header); err != nil {
		return err
	}

	for _, res := range rep.Ordered() {
		if len(res.Placements) == 0 {
			continue
		}
		if _, err := f.NewSheet(res.Method); err != nil {
			return fmt.Errorf("creating sheet %s: %w", res.Method, err)
		}
		rows := [][]interface{}{cutColumns}
		for _, l := range CollectLabelInfos(res) {
			rows = append(rows, []interface{}{l.Bar, l.Sequence, l.DemandID, l.Label, l.Length, l.Offset})
		}
		if err := writeRows(f, res.Method, rows, header); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SheetUnmet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", SheetUnmet, err)
	}
	unmet := [][]interface{}{unmetColumns}
	for _, res := range rep.Ordered() {
		for _, u := range res.Unmet {
			unmet = append(unmet, []interface{}{res.Method, u.DemandID, u.Label, u.Length, u.Quantity, u.Reason})
		}
	}
	if err := writeRows(f, SheetUnmet, unmet, header); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// writeRows fills a sheet from A1 and styles the first row as a header.
func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, headerStyle)
}

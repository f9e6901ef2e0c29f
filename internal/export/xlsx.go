// Package export writes dashboard results as a workbook download.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jengzang/roads-dashboard-go/internal/models"
	"github.com/jengzang/roads-dashboard-go/internal/stats"
)

// Sheet names of the exported workbook
const (
	SheetData    = "Data"
	SheetSummary = "Ringkasan"
	SheetGroups  = "Grafik"
)

// WriteWorkbook writes the filtered rows, the summary and the grouped tables as xlsx
func WriteWorkbook(w io.Writer, res stats.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetData); err != nil {
		return fmt.Errorf("failed to name data sheet: %w", err)
	}
	if err := writeData(f, res); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	if err := writeSummary(f, res.Summary); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetGroups); err != nil {
		return fmt.Errorf("failed to add grouping sheet: %w", err)
	}
	if err := writeGroups(f, res); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// writeData keeps the source header vocabulary and only the columns the source had
func writeData(f *excelize.File, res stats.Result) error {
	cols := res.Schema.Columns()

	header := make([]interface{}, len(cols))
	for i, c := range cols {
		header[i] = c.Header()
	}
	if err := f.SetSheetRow(SheetData, "A1", &header); err != nil {
		return fmt.Errorf("failed to write data header: %w", err)
	}

	for i, rec := range res.Rows {
		row := make([]interface{}, len(cols))
		for j, c := range cols {
			if c.IsText() {
				if v, ok := rec.Text(c); ok {
					row[j] = v
				}
				continue
			}
			if v, ok := rec.Number(c); ok {
				row[j] = v
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetData, cell, &row); err != nil {
			return fmt.Errorf("failed to write data row %d: %w", rec.Row, err)
		}
	}
	return nil
}

func writeSummary(f *excelize.File, s models.Summary) error {
	pct := stats.DisplayPercentages(s.Percentages)
	rows := [][]interface{}{
		{"Kondisi", "Panjang (meter)", "Persentase (%)"},
		{"Baik", s.Totals.Good, pct.Good},
		{"Rusak Ringan", s.Totals.LightDamage, pct.LightDamage},
		{"Rusak Sedang", s.Totals.ModerateDamage, pct.ModerateDamage},
		{"Rusak Berat", s.Totals.SevereDamage, pct.SevereDamage},
		{"Total Rusak", s.TotalDamaged, stats.Round1(pct.LightDamage + pct.ModerateDamage + pct.SevereDamage)},
		{"Total Panjang Jalan", s.TotalLength, nil},
		{"Total Ruas Jalan", s.SegmentCount, nil},
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SheetSummary, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return f.SetColWidth(SheetSummary, "A", "C", 20)
}

func writeGroups(f *excelize.File, res stats.Result) error {
	if res.Grouping == nil {
		return f.SetCellValue(SheetGroups, "A1", "Data tidak mencukupi untuk membuat grafik.")
	}

	g := res.Grouping
	header := []interface{}{g.Label}
	for _, c := range models.ConditionColumns {
		header = append(header, c.Header())
	}
	header = append(header, "TOTAL (meter)")
	for _, c := range models.ConditionColumns {
		header = append(header, c.Header()+" %")
	}
	if err := f.SetSheetRow(SheetGroups, "A1", &header); err != nil {
		return fmt.Errorf("failed to write grouping header: %w", err)
	}

	for i, row := range g.Rows {
		out := []interface{}{row.Key}
		for _, v := range row.Lengths.Values() {
			out = append(out, v)
		}
		out = append(out, row.Total)
		for _, v := range stats.DisplayPercentages(row.Percentages).Values() {
			out = append(out, v)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetGroups, cell, &out); err != nil {
			return fmt.Errorf("failed to write grouping row %q: %w", row.Key, err)
		}
	}
	return nil
}

package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"contractlens/internal/domain"
)

// Sheet names in the XLSX report.
const (
	SheetSimplified = "Simplified"
	SheetRisks      = "Risks"
	SheetFairness   = "Fairness"
)

// WriteXLSX writes a workbook with one sheet per analysis part. Header rows
// are bold and frozen.
func WriteXLSX(w io.Writer, a *domain.Analysis) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	sheets := []struct {
		name    string
		columns []string
		rows    [][]string
		widths  []float64
	}{
		{SheetSimplified, simplifiedColumns, simplifiedRows(a), []float64{60, 60, 60}},
		{SheetRisks, risksColumns, riskRows(a), []float64{60, 20, 60, 12}},
		{SheetFairness, fairnessColumns, [][]string{fairnessRow(a)}, []float64{16, 24, 80}},
	}

	// A new workbook starts with "Sheet1"; rename it rather than leave it empty.
	if err := f.SetSheetName("Sheet1", sheets[0].name); err != nil {
		return fmt.Errorf("renaming default sheet: %w", err)
	}

	for i, s := range sheets {
		if i > 0 {
			if _, err := f.NewSheet(s.name); err != nil {
				return fmt.Errorf("creating sheet %s: %w", s.name, err)
			}
		}
		if err := writeSheet(f, s.name, s.columns, s.rows, s.widths, bold); err != nil {
			return fmt.Errorf("writing sheet %s: %w", s.name, err)
		}
	}

	// Fairness is a single row; store the score as a number.
	if err := f.SetCellFloat(SheetFairness, "A2", a.Fairness.Score, -1, 64); err != nil {
		return fmt.Errorf("writing fairness score: %w", err)
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, columns []string, rows [][]string, widths []float64, headerStyle int) error {
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheet, cell, col); err != nil {
			return err
		}
	}

	last, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

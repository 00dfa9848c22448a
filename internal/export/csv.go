package export

import (
	"encoding/csv"
	"io"

	"contractlens/internal/domain"
)

// BOM is the UTF-8 byte order mark; Excel on Windows needs it to detect UTF-8.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the BOM followed by three sections (simplified clauses,
// risks, fairness) separated by a blank row. Each section starts with a title
// row and then its column header.
func WriteCSV(w io.Writer, a *domain.Analysis) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	sections := []struct {
		title   string
		columns []string
		rows    [][]string
	}{
		{"Simplified Clauses", simplifiedColumns, simplifiedRows(a)},
		{"Risks", risksColumns, riskRows(a)},
		{"Fairness", fairnessColumns, [][]string{fairnessRow(a)}},
	}

	for i, s := range sections {
		if i > 0 {
			if err := cw.Write([]string{}); err != nil {
				return err
			}
		}
		if err := cw.Write([]string{s.title}); err != nil {
			return err
		}
		if err := cw.Write(s.columns); err != nil {
			return err
		}
		if err := cw.WriteAll(s.rows); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

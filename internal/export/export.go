// Package export renders a contract analysis as a downloadable CSV or XLSX
// report.
package export

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"contractlens/internal/domain"
)

// Format is a report file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ContentTypes maps each format to its response MIME type.
var ContentTypes = map[Format]string{
	FormatCSV:  "text/csv; charset=utf-8",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := ContentTypes[f]; !ok {
		return "", fmt.Errorf("%w: unknown export format %q", domain.ErrInvalidRequest, s)
	}
	return f, nil
}

// Section header rows. The CSV and XLSX reports share them.
var (
	simplifiedColumns = []string{"Original", "Simplified", "Explanation"}
	risksColumns      = []string{"Clause", "Risk Type", "Reason", "Severity"}
	fairnessColumns   = []string{"Fairness Score", "Favored Party", "Reason"}
)

// Write renders a in the given format.
func Write(w io.Writer, f Format, a *domain.Analysis) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, a)
	case FormatXLSX:
		return WriteXLSX(w, a)
	default:
		return fmt.Errorf("%w: unknown export format %q", domain.ErrInvalidRequest, f)
	}
}

func simplifiedRows(a *domain.Analysis) [][]string {
	rows := make([][]string, 0, len(a.SimplifiedClauses))
	for _, c := range a.SimplifiedClauses {
		rows = append(rows, []string{c.Original, c.Simplified, c.Explanation})
	}
	return rows
}

func riskRows(a *domain.Analysis) [][]string {
	rows := make([][]string, 0, len(a.Risks))
	for _, r := range a.Risks {
		rows = append(rows, []string{r.Clause, r.RiskType, r.Reason, string(r.Severity)})
	}
	return rows
}

func fairnessRow(a *domain.Analysis) []string {
	return []string{formatScore(a.Fairness.Score), a.Fairness.FavoredParty, a.Fairness.Reason}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans an uploaded file name for use in
// Content-Disposition. The extension is dropped.
func SanitizeFilename(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "contract_analysis"
	}
	return s
}

// BuildFilename returns {sanitized_name}_{YYYY-MM-DD}.{ext}.
func BuildFilename(fileName string, f Format, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(fileName), now.Format("2006-01-02"), f)
}

// Package web embeds the HTML templates and static assets served by the
// server, so the binary runs without any files next to it.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"contractlens/internal/domain"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// Template names rendered by the page handlers.
const (
	IndexTemplate     = "index.html"
	DashboardTemplate = "dashboard.html"
)

// FuncMap holds the helpers available inside templates.
var FuncMap = template.FuncMap{
	"severityClass": SeverityClass,
	"formatScore":   FormatScore,
	"add":           func(a, b int) int { return a + b },
}

// Templates parses every embedded page and partial.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap).ParseFS(templateFiles, "templates/*.html")
}

// StaticFS returns the embedded static assets with the static folder as root.
func StaticFS() (fs.FS, error) {
	return fs.Sub(staticFiles, "static")
}

// SeverityClass maps a risk severity to its badge CSS class. Unrecognized
// values share the "unknown" style.
func SeverityClass(sev domain.RiskSeverity) string {
	for _, known := range domain.Severities {
		if strings.EqualFold(string(sev), string(known)) {
			return "severity-" + strings.ToLower(string(known))
		}
	}
	return "severity-unknown"
}

// FormatScore renders a fairness score with one decimal place.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.1f", score)
}

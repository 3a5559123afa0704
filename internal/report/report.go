// Package report renders simulation results as markdown for terminals and
// files.
package report

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
)

//go:embed templates/*.md
var templates embed.FS

var funcs = template.FuncMap{
	"usd":     USD,
	"pct":     Percent,
	"frac":    Fraction,
	"optFrac": OptionalFraction,
	"month":   func(t time.Time) string { return t.Format("2006-01") },
	"day":     func(t time.Time) string { return t.Format("2006-01-02") },
}

var tmpl = template.Must(template.New("report").Funcs(funcs).ParseFS(templates, "templates/*.md"))

// SimulationData is the input of the simulation report.
type SimulationData struct {
	Title     string
	Portfolio model.Target
	Start     time.Time
	End       time.Time
	Result    model.SimulationResult
}

// ComparisonData is the input of the comparison report.
type ComparisonData struct {
	Title   string
	Start   time.Time
	End     time.Time
	Results []model.ScenarioResult
}

// Simulation renders one simulation run: allocation, summary metrics, the
// monthly trajectory and any warnings.
func Simulation(data SimulationData) (string, error) {
	return render("simulation.md", data)
}

// Comparison renders scenarios side by side in request order.
func Comparison(data ComparisonData) (string, error) {
	return render("comparison.md", data)
}

func render(name string, data any) (string, error) {
	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return b.String(), nil
}

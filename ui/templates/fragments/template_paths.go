// Package fragments provides template path constants for the dashboard
package fragments

// Template path constants
const (
	// Pages
	IndexPage = "index.html"

	// Fragments swapped in by HTMX
	ChartPanel   = "chart_panel.html"
	SummaryPanel = "summary_panel.html"
)

// GetAllTemplatePaths returns all template paths for registration
func GetAllTemplatePaths() []string {
	return []string{
		IndexPage,
		ChartPanel,
		SummaryPanel,
	}
}

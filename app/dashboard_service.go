package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"beerdash/domain/brewery"
	"beerdash/domain/core"
	"beerdash/internal/chart"
	"beerdash/internal/dataset"
	"beerdash/internal/errors"
	"beerdash/ports"
)

// Render is the reactive pipeline: filter the table by the selection and
// build the chart. It holds no state.
func Render(sel brewery.SelectionState, t *dataset.Table) chart.Spec {
	return chart.Build(dataset.Filter(t, sel.Breweries), sel.Metric)
}

// DashboardService owns the derived table and answers every read the
// dashboard and API need
type DashboardService struct {
	table    *dataset.Table
	rows     []brewery.Row
	report   ports.IngestReport
	summary  dataset.Summary
	renderer ports.ChartRenderer
	loadedAt time.Time
}

// LoadDashboard reads the source once and derives the table. An empty
// source is fatal.
func LoadDashboard(ctx context.Context, source ports.RowSource, renderer ports.ChartRenderer) (*DashboardService, error) {
	start := time.Now()

	result, err := source.ReadRows(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read rows from %s", source.Name())
	}
	if result == nil || len(result.Rows) == 0 {
		return nil, errors.Wrapf(core.ErrEmptyInput, "source %s produced no rows", source.Name())
	}

	svc, err := NewDashboardService(result.Rows, result.Report, renderer)
	if err != nil {
		return nil, err
	}

	log.Printf("[DashboardService] Loaded %d rows (%d rejected) into %d breweries from %s in %v",
		result.Report.Accepted, result.Report.Rejected, svc.table.Len(), source.Name(), time.Since(start))
	return svc, nil
}

// NewDashboardService derives the table from already loaded rows
func NewDashboardService(rows []brewery.Row, report ports.IngestReport, renderer ports.ChartRenderer) (*DashboardService, error) {
	table, err := dataset.NewTable(rows)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build brewery table")
	}

	summary := dataset.Summarize(rows, table)
	summary.Rejected = report.Rejected

	return &DashboardService{
		table:    table,
		rows:     rows,
		report:   report,
		summary:  summary,
		renderer: renderer,
		loadedAt: time.Now(),
	}, nil
}

// Table returns the derived table
func (s *DashboardService) Table() *dataset.Table { return s.table }

// Options lists brewery names for the selection widget
func (s *DashboardService) Options() []string { return s.table.Options() }

// Stats returns every brewery entry in name order
func (s *DashboardService) Stats() []brewery.Entry { return s.table.Entries() }

// Summary returns the dataset summary
func (s *DashboardService) Summary() dataset.Summary { return s.summary }

// Report returns the ingestion report
func (s *DashboardService) Report() ports.IngestReport { return s.report }

// LoadedAt is when the table was derived
func (s *DashboardService) LoadedAt() time.Time { return s.loadedAt }

// RowCount is the number of accepted source rows
func (s *DashboardService) RowCount() int { return len(s.rows) }

// ChartSpec runs the pipeline for a selection
func (s *DashboardService) ChartSpec(sel brewery.SelectionState) chart.Spec {
	return Render(sel, s.table)
}

// Pipeline adapts the service to the session package's recompute hook
func (s *DashboardService) Pipeline() func(brewery.SelectionState) chart.Spec {
	return s.ChartSpec
}

// SelectionHash identifies the rendered output of a selection, for caching
func (s *DashboardService) SelectionHash(sel brewery.SelectionState, format ports.ImageFormat) core.Hash {
	return core.ComputeSelectionHash(s.table.Fingerprint(), sel.Breweries, sel.Metric.Key(), string(format))
}

// RenderImage draws spec with the configured renderer
func (s *DashboardService) RenderImage(ctx context.Context, spec chart.Spec, format ports.ImageFormat, w io.Writer) error {
	if s.renderer == nil {
		return errors.InternalError("no chart renderer configured")
	}
	if err := s.renderer.Render(ctx, spec, format, w); err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to render %s chart", format))
	}
	return nil
}

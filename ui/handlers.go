package ui

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
	"strings"

	"beerdash/adapters/excel"
	"beerdash/domain/brewery"
	"beerdash/internal/chart"
	"beerdash/internal/dataset"
	"beerdash/internal/errors"
	"beerdash/internal/session"
	"beerdash/ports"
	"beerdash/ui/templates/fragments"
)

type optionView struct {
	Name     string
	Selected bool
}

type metricView struct {
	Key     string
	Label   string
	Checked bool
}

type chartView struct {
	chart.Spec
	Empty   bool
	Version string
}

type indexView struct {
	Title       string
	Heading     string
	Options     []optionView
	Metrics     []metricView
	Chart       chartView
	Description template.HTML
	Summary     dataset.Summary
}

// session resolves the cookie to a session, creating one when needed
func (a *App) session(w http.ResponseWriter, r *http.Request) *session.Session {
	var raw string
	if c, err := r.Cookie(sessionCookie); err == nil {
		raw = c.Value
	}
	s, created := a.sessions.GetOrCreate(raw)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    s.ID().String(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return s
}

func (a *App) chartView(s *session.Session, spec chart.Spec) chartView {
	return chartView{
		Spec:    spec,
		Empty:   len(spec.Bars) == 0,
		Version: a.dashboard.SelectionHash(s.State(), ports.FormatSVG).Short(),
	}
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)
	state := s.State()
	selected := state.Set()

	options := a.dashboard.Options()
	view := indexView{
		Title:       pageTitle,
		Heading:     pageHeading,
		Options:     make([]optionView, len(options)),
		Metrics:     make([]metricView, len(brewery.Metrics)),
		Chart:       a.chartView(s, s.Chart()),
		Description: a.description,
		Summary:     a.dashboard.Summary(),
	}
	for i, name := range options {
		_, ok := selected[name]
		view.Options[i] = optionView{Name: name, Selected: ok}
	}
	for i, m := range brewery.Metrics {
		view.Metrics[i] = metricView{Key: m.Key(), Label: m.Label(), Checked: m == state.Metric}
	}

	a.renderTemplate(w, http.StatusOK, fragments.IndexPage, view)
}

func (a *App) handleSelectBreweries(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.renderError(w, errors.InvalidInput("malformed form"))
		return
	}
	s := a.session(w, r)
	spec := s.SetSelectedBreweries(r.PostForm["brewery"])
	a.renderTemplate(w, http.StatusOK, fragments.ChartPanel, a.chartView(s, spec))
}

func (a *App) handleSelectMetric(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.renderError(w, errors.InvalidInput("malformed form"))
		return
	}
	metric, err := brewery.ParseMetric(r.PostForm.Get("metric"))
	if err != nil {
		a.renderError(w, errors.Wrap(err, "invalid metric"))
		return
	}
	s := a.session(w, r)
	spec := s.SetMetric(metric)
	a.renderTemplate(w, http.StatusOK, fragments.ChartPanel, a.chartView(s, spec))
}

func (a *App) handleChartImage(w http.ResponseWriter, r *http.Request) {
	format := ports.FormatSVG
	if strings.HasSuffix(r.URL.Path, ".png") {
		format = ports.FormatPNG
	}

	s := a.session(w, r)
	spec := s.Chart()
	etag := `"` + a.dashboard.SelectionHash(s.State(), format).Short() + `"`
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	var buf bytes.Buffer
	if err := a.dashboard.RenderImage(r.Context(), spec, format, &buf); err != nil {
		a.renderError(w, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "private, no-cache")
	w.Header().Set("ETag", etag)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[Dashboard] Error writing chart image: %v", err)
	}
}

func (a *App) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := excel.WriteStats(&buf, a.dashboard.Stats()); err != nil {
		a.renderError(w, errors.Wrap(err, "failed to export breweries"))
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="breweries.xlsx"`)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[Dashboard] Error writing export: %v", err)
	}
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

package api

import (
	"bytes"
	"net/http"
	"strings"

	"beerdash/app"
	"beerdash/domain/brewery"
	"beerdash/domain/core"
	"beerdash/internal/chart"
	apperrors "beerdash/internal/errors"
	"beerdash/internal/session"
	"beerdash/ports"

	"github.com/gin-gonic/gin"
)

// ChartHandler serves the dashboard data and per-session selections as JSON
type ChartHandler struct {
	dashboard *app.DashboardService
	sessions  *session.Manager
}

// NewChartHandler creates a new chart handler
func NewChartHandler(dashboard *app.DashboardService, sessions *session.Manager) *ChartHandler {
	return &ChartHandler{
		dashboard: dashboard,
		sessions:  sessions,
	}
}

// SessionResponse is the state and chart of one session
type SessionResponse struct {
	ID    string                 `json:"id"`
	State brewery.SelectionState `json:"state"`
	Chart chart.Spec             `json:"chart"`
}

type breweriesRequest struct {
	Breweries []string `json:"breweries"`
}

type metricRequest struct {
	Metric string `json:"metric" binding:"required"`
}

// RegisterRoutes mounts the handler on a gin router group
func (h *ChartHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/breweries", h.ListBreweries)
	r.GET("/breweries/stats", h.ListStats)
	r.GET("/summary", h.GetSummary)
	r.GET("/chart", h.GetChart)

	r.POST("/sessions", h.CreateSession)
	r.GET("/sessions/:id", h.GetSession)
	r.DELETE("/sessions/:id", h.DeleteSession)
	r.PUT("/sessions/:id/breweries", h.SetBreweries)
	r.PUT("/sessions/:id/metric", h.SetMetric)
	r.GET("/sessions/:id/chart", h.GetSessionChart)
}

// ListBreweries returns the selectable brewery names in first-appearance order
func (h *ChartHandler) ListBreweries(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"breweries": h.dashboard.Options()})
}

// ListStats returns the per-brewery table in name order
func (h *ChartHandler) ListStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stats": h.dashboard.Stats()})
}

// GetSummary returns the dataset summary and the ingestion report
func (h *ChartHandler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"summary":   h.dashboard.Summary(),
		"ingestion": h.dashboard.Report(),
		"loaded_at": h.dashboard.LoadedAt(),
	})
}

// GetChart builds a chart for the selection in the query string without
// touching any session. Without brewery parameters the defaults are used.
func (h *ChartHandler) GetChart(c *gin.Context) {
	sel := h.sessions.Defaults()
	if names, ok := c.GetQueryArray("brewery"); ok {
		sel.Breweries = splitNames(names)
	}
	if raw := c.Query("metric"); raw != "" {
		m, err := brewery.ParseMetric(raw)
		if err != nil {
			respondError(c, apperrors.Wrap(err, "invalid metric"))
			return
		}
		sel.Metric = m
	}

	h.writeChart(c, sel, h.dashboard.ChartSpec(sel))
}

// CreateSession starts a session with the default selection
func (h *ChartHandler) CreateSession(c *gin.Context) {
	s := h.sessions.Create()
	c.JSON(http.StatusCreated, newSessionResponse(s, s.Chart()))
}

// GetSession returns a session's state and current chart
func (h *ChartHandler) GetSession(c *gin.Context) {
	s, err := h.lookup(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(s, s.Chart()))
}

// DeleteSession ends a session
func (h *ChartHandler) DeleteSession(c *gin.Context) {
	s, err := h.lookup(c)
	if err != nil {
		respondError(c, err)
		return
	}
	h.sessions.Delete(s.ID())
	c.Status(http.StatusNoContent)
}

// SetBreweries replaces the session's brewery selection and returns the rebuilt chart
func (h *ChartHandler) SetBreweries(c *gin.Context) {
	s, err := h.lookup(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var req breweriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}
	spec := s.SetSelectedBreweries(req.Breweries)
	c.JSON(http.StatusOK, newSessionResponse(s, spec))
}

// SetMetric replaces the session's metric and returns the rebuilt chart
func (h *ChartHandler) SetMetric(c *gin.Context) {
	s, err := h.lookup(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var req metricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}
	m, err := brewery.ParseMetric(req.Metric)
	if err != nil {
		respondError(c, apperrors.Wrap(err, "invalid metric"))
		return
	}
	spec := s.SetMetric(m)
	c.JSON(http.StatusOK, newSessionResponse(s, spec))
}

// GetSessionChart returns the session's chart as JSON, SVG or PNG
func (h *ChartHandler) GetSessionChart(c *gin.Context) {
	s, err := h.lookup(c)
	if err != nil {
		respondError(c, err)
		return
	}
	h.writeChart(c, s.State(), s.Chart())
}

func (h *ChartHandler) lookup(c *gin.Context) (*session.Session, error) {
	raw := c.Param("id")
	id, err := core.ParseSessionID(raw)
	if err != nil {
		return nil, apperrors.Wrap(core.NewNotFoundError("session", raw), err.Error())
	}
	s, err := h.sessions.Get(id)
	if err != nil {
		return nil, apperrors.Wrapf(err, "session %s", id)
	}
	return s, nil
}

// writeChart answers with the chart as JSON, or an image when format asks for one
func (h *ChartHandler) writeChart(c *gin.Context, sel brewery.SelectionState, spec chart.Spec) {
	var format ports.ImageFormat
	switch strings.ToLower(c.DefaultQuery("format", "json")) {
	case "json":
		c.JSON(http.StatusOK, spec)
		return
	case "svg":
		format = ports.FormatSVG
	case "png":
		format = ports.FormatPNG
	default:
		respondError(c, apperrors.InvalidInput("format must be json, svg or png"))
		return
	}

	var buf bytes.Buffer
	if err := h.dashboard.RenderImage(c.Request.Context(), spec, format, &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Header("ETag", `"`+h.dashboard.SelectionHash(sel, format).Short()+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func newSessionResponse(s *session.Session, spec chart.Spec) SessionResponse {
	return SessionResponse{ID: s.ID().String(), State: s.State(), Chart: spec}
}

// splitNames accepts repeated parameters as well as ';' separated lists
func splitNames(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, name := range strings.Split(v, ";") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{
		"error": err.Error(),
		"code":  apperrors.GetCode(err),
	})
}

package ui

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"time"

	"beerdash/app"
	"beerdash/internal/session"
	"beerdash/ui/templates/fragments"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

//go:embed templates/*.html static/* description.md
var embeddedFiles embed.FS

const (
	pageTitle     = "Beer"
	pageHeading   = "Breweries"
	sessionCookie = "beerdash_session"
)

// App represents the dashboard application
type App struct {
	router      *chi.Mux
	dashboard   *app.DashboardService
	sessions    *session.Manager
	templates   *template.Template
	description template.HTML
	config      Config
}

// Config holds UI application configuration
type Config struct {
	Port            string
	ShutdownTimeout time.Duration
}

// NewApp creates a new dashboard application
func NewApp(config Config, dashboard *app.DashboardService, sessions *session.Manager) (*App, error) {
	if dashboard == nil || sessions == nil {
		return nil, fmt.Errorf("dashboard and session manager are required")
	}

	funcMap := template.FuncMap{
		"pct": func(v float64) string { return strconv.FormatFloat(v*100, 'f', 2, 64) + "%" },
		"formatValue": func(v float64) string {
			if v == float64(int64(v)) {
				return strconv.FormatInt(int64(v), 10)
			}
			return strconv.FormatFloat(v, 'f', 4, 64)
		},
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	for _, name := range fragments.GetAllTemplatePaths() {
		if templates.Lookup(name) == nil {
			return nil, fmt.Errorf("template %s not defined", name)
		}
	}

	description, err := renderDescription()
	if err != nil {
		return nil, err
	}

	a := &App{
		router:      chi.NewRouter(),
		dashboard:   dashboard,
		sessions:    sessions,
		templates:   templates,
		description: description,
		config:      config,
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a, nil
}

// renderDescription turns the embedded markdown into the accordion body
func renderDescription() (template.HTML, error) {
	md, err := embeddedFiles.ReadFile("description.md")
	if err != nil {
		return "", fmt.Errorf("failed to read description: %w", err)
	}
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return template.HTML(markdown.ToHTML(md, p, renderer)), nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)

	// One endpoint per widget; each call is one selection event
	a.router.Post("/selection/breweries", a.handleSelectBreweries)
	a.router.Post("/selection/metric", a.handleSelectMetric)

	a.router.Get("/chart.svg", a.handleChartImage)
	a.router.Get("/chart.png", a.handleChartImage)
	a.router.Get("/export.xlsx", a.handleExport)
	a.router.Get("/healthz", a.handleHealth)

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		log.Printf("[setupRoutes] Error creating static filesystem: %v", err)
		return
	}
	a.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
}

// Handler exposes the router, mainly for tests
func (a *App) Handler() http.Handler {
	return a.router
}

// Start serves the dashboard until ctx is cancelled
func (a *App) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.config.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting dashboard server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := a.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	log.Printf("Shutting down dashboard server")
	return srv.Shutdown(shutdownCtx)
}

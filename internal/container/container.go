package container

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"beerdash/adapters/api"
	"beerdash/adapters/datareadiness/coercer"
	"beerdash/adapters/excel"
	"beerdash/adapters/postgres"
	"beerdash/adapters/render"
	"beerdash/app"
	"beerdash/domain/brewery"
	"beerdash/domain/core"
	"beerdash/internal"
	"beerdash/internal/config"
	"beerdash/internal/session"
	"beerdash/ports"

	"github.com/jmoiron/sqlx"
)

// PostgresSource is the DATA_SOURCE value selecting the database table
const PostgresSource = config.PostgresSource

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	Source    ports.RowSource
	Renderer  ports.ChartRenderer
	Dashboard *app.DashboardService
	Sessions  *session.Manager
}

// New creates a new dependency injection container. Nothing is loaded
// until Load is called.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	return &Container{
		Config:   cfg,
		Logger:   internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel)).With("Container"),
		Renderer: render.NewGoChartRenderer(cfg.Chart.Width, cfg.Chart.Height),
	}, nil
}

// Load opens the configured row source, derives the brewery table once and
// sets up session handling. An empty source is fatal.
func (c *Container) Load(ctx context.Context) error {
	source, err := c.openSource(ctx)
	if err != nil {
		return err
	}
	c.Source = source

	dashboard, err := app.LoadDashboard(ctx, source, c.Renderer)
	if err != nil {
		return err
	}
	c.Dashboard = dashboard

	report := dashboard.Report()
	if report.Rejected > 0 {
		c.Logger.Warn("%d of %d rows from %s were rejected", report.Rejected, report.Read, report.Source)
		if c.Logger.GetLevel() >= internal.LogLevelDebug {
			for _, problem := range report.Problems {
				c.Logger.Debug("rejected: %s", problem)
			}
		}
	}

	defaults := brewery.SelectionState{
		Breweries: c.Config.Dashboard.DefaultBreweries,
		Metric:    brewery.MetricBeerCount,
	}
	c.Sessions = session.NewManager(defaults, dashboard.Pipeline(), c.Config.Dashboard.SessionTTL)

	c.Logger.Info("initialized: source=%s breweries=%d defaults=%v",
		source.Name(), dashboard.Table().Len(), defaults.Breweries)
	return nil
}

func (c *Container) openSource(ctx context.Context) (ports.RowSource, error) {
	if c.Config.Data.Source == PostgresSource {
		db, err := postgres.Connect(ctx, c.Config.Database.URL)
		if err != nil {
			return nil, err
		}
		c.DB = db
		return postgres.NewRowSource(db, c.Config.Database.Table), nil
	}
	return NewFileOrRemoteSource(c.Config.Data)
}

// NewFileOrRemoteSource picks the reader for a file path or http(s) URL
func NewFileOrRemoteSource(cfg config.DataConfig) (ports.RowSource, error) {
	src := strings.TrimSpace(cfg.Source)
	lower := strings.ToLower(src)

	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		remote := api.DefaultRemoteConfig(src)
		if cfg.FetchTimeout > 0 {
			remote.Timeout = cfg.FetchTimeout
		}
		return api.NewRemoteReader(remote, coercer.DefaultCoercionConfig()), nil
	case strings.EqualFold(src, PostgresSource):
		return nil, fmt.Errorf("%w: %q needs a database connection", core.ErrUnsupportedSource, src)
	}

	switch strings.ToLower(filepath.Ext(src)) {
	case ".csv", ".xlsx", ".xlsm":
		fileCfg := excel.DefaultExcelConfig()
		fileCfg.FilePath = src
		return excel.NewDataReader(fileCfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedSource, src)
	}
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"beerdash/internal/errors"
)

// DefaultDataSource is the public beers table the dashboard was built around
const DefaultDataSource = "https://raw.githubusercontent.com/plotly/datasets/master/beers.csv"

// PostgresSource is the DATA_SOURCE value selecting the database table
const PostgresSource = "postgres"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Database  DatabaseConfig
	Dashboard DashboardConfig
	Chart     ChartConfig
	Profiling ProfilingConfig
	LogLevel  string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	APIPort         string
	GinMode         string
	ShutdownTimeout time.Duration
}

// DataConfig holds the row source settings. Source is a file path
// (.csv/.xlsx), an http(s) URL or "postgres".
type DataConfig struct {
	Source       string
	FetchTimeout time.Duration
}

// DatabaseConfig holds database connection settings for the postgres source
type DatabaseConfig struct {
	URL   string
	Table string
}

// DashboardConfig holds the widget defaults and session handling
type DashboardConfig struct {
	DefaultBreweries []string
	SessionTTL       time.Duration
}

// ChartConfig holds rendered image dimensions
type ChartConfig struct {
	Width  int
	Height int
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		Data:      *loadDataConfig(),
		Database:  *loadDatabaseConfig(),
		Dashboard: *loadDashboardConfig(),
		Chart:     *loadChartConfig(),
		Profiling: *loadProfilingConfig(),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		APIPort:         getEnvOrDefault("API_PORT", "8081"),
		GinMode:         getEnvOrDefault("GIN_MODE", "release"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		Source:       normalizeSource(getEnvOrDefault("DATA_SOURCE", DefaultDataSource)),
		FetchTimeout: getEnvDurationOrDefault("FETCH_TIMEOUT", 30*time.Second),
	}
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL:   getEnvOrDefault("DATABASE_URL", ""),
		Table: getEnvOrDefault("BEERS_TABLE", "beers"),
	}
}

func loadDashboardConfig() *DashboardConfig {
	return &DashboardConfig{
		DefaultBreweries: splitList(getEnvOrDefault("DEFAULT_BREWERIES", "Big Muddy Brewing;Moab Brewery")),
		SessionTTL:       getEnvDurationOrDefault("SESSION_TTL", 30*time.Minute),
	}
}

func loadChartConfig() *ChartConfig {
	return &ChartConfig{
		Width:  getEnvIntOrDefault("CHART_WIDTH", 1024),
		Height: getEnvIntOrDefault("CHART_HEIGHT", 640),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if config.Server.APIPort == config.Server.Port {
		return errors.ConfigInvalid("API_PORT must differ from PORT")
	}
	if config.Data.Source == "" {
		return errors.ConfigInvalid("DATA_SOURCE is required")
	}
	if config.Data.Source == PostgresSource && config.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required when DATA_SOURCE=postgres")
	}
	if config.Chart.Width <= 0 || config.Chart.Height <= 0 {
		return errors.ConfigInvalid("chart dimensions must be positive")
	}
	if config.Dashboard.SessionTTL <= 0 {
		return errors.ConfigInvalid("SESSION_TTL must be positive")
	}
	return nil
}

// normalizeSource trims the value and folds any casing of "postgres"
func normalizeSource(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, PostgresSource) {
		return PostgresSource
	}
	return value
}

// splitList splits a ';' separated list; brewery names may contain commas
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ";") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

package api

import (
	"time"
)

// RemoteConfig describes an HTTP(S) row source
type RemoteConfig struct {
	URL       string            `json:"url"`
	Timeout   time.Duration     `json:"timeout"`
	Headers   map[string]string `json:"headers,omitempty"`
	AuthToken string            `json:"-"`
	// DataPath is a gjson path to the record array in JSON responses;
	// empty means the document root
	DataPath string `json:"data_path,omitempty"`
	// MaxBodyBytes caps how much of the response is read
	MaxBodyBytes int64 `json:"max_body_bytes"`
}

// DefaultRemoteConfig returns sensible defaults for remote ingestion
func DefaultRemoteConfig(url string) RemoteConfig {
	return RemoteConfig{
		URL:          url,
		Timeout:      30 * time.Second,
		Headers:      map[string]string{"Accept": "text/csv, application/json;q=0.9, */*;q=0.5"},
		MaxBodyBytes: 64 << 20,
	}
}

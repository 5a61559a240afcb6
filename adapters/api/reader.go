package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"sort"
	"strings"
	"time"

	"beerdash/adapters/datareadiness/coercer"
	"beerdash/adapters/excel"
	apperrors "beerdash/internal/errors"
	"beerdash/ports"

	"github.com/tidwall/gjson"
)

// RemoteReader fetches the beer table from a URL. CSV and JSON bodies are
// both accepted.
type RemoteReader struct {
	config     RemoteConfig
	httpClient *http.Client
	coercer    *coercer.RowCoercer
}

var _ ports.RowSource = (*RemoteReader)(nil)

// NewRemoteReader creates a new remote reader
func NewRemoteReader(config RemoteConfig, coercion coercer.CoercionConfig) *RemoteReader {
	return &RemoteReader{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		coercer: coercer.NewRowCoercer(coercion),
	}
}

// Name identifies the source in logs and ingest reports
func (r *RemoteReader) Name() string {
	return r.config.URL
}

// ReadRows downloads the table and validates every row
func (r *RemoteReader) ReadRows(ctx context.Context) (*ports.IngestResult, error) {
	startTime := time.Now()

	req, err := r.buildRequest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.ExternalServiceError(r.config.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.config.MaxBodyBytes+1))
	if err != nil {
		return nil, apperrors.ExternalServiceError(r.config.URL, fmt.Errorf("failed to read response: %w", err))
	}
	if int64(len(body)) > r.config.MaxBodyBytes {
		return nil, apperrors.ExternalServiceError(r.config.URL,
			fmt.Errorf("response exceeds %d bytes", r.config.MaxBodyBytes))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.ExternalServiceError(r.config.URL,
			fmt.Errorf("returned status %d: %s", resp.StatusCode, truncate(string(body), 200)))
	}

	log.Printf("[RemoteReader] Fetched %d bytes from %s in %v", len(body), r.config.URL, time.Since(startTime))

	if r.isJSON(resp, body) {
		headers, records, err := r.parseJSON(body)
		if err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		// JSON records have no line numbers; report 1-based positions
		return r.coercer.CoerceAll(r.Name(), headers, records, 1)
	}

	data, err := excel.ReadCSV(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return r.coercer.CoerceAll(r.Name(), data.Headers, data.Records(), 2)
}

// buildRequest creates an HTTP request with configured headers
func (r *RemoteReader) buildRequest(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.config.URL, nil)
	if err != nil {
		return nil, err
	}

	for k, v := range r.config.Headers {
		req.Header.Set(k, v)
	}
	if r.config.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+r.config.AuthToken)
	}

	return req, nil
}

func (r *RemoteReader) isJSON(resp *http.Response, body []byte) bool {
	if mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil {
		if mediaType == "application/json" || strings.HasSuffix(mediaType, "+json") {
			return true
		}
		if mediaType == "text/csv" {
			return false
		}
	}
	if strings.HasSuffix(strings.ToLower(r.config.URL), ".json") {
		return true
	}
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') && gjson.ValidBytes(trimmed)
}

// parseJSON extracts string records from an array of objects
func (r *RemoteReader) parseJSON(body []byte) ([]string, []map[string]string, error) {
	var data gjson.Result
	if r.config.DataPath == "" {
		data = gjson.ParseBytes(body)
	} else {
		data = gjson.GetBytes(body, r.config.DataPath)
		if !data.Exists() {
			return nil, nil, fmt.Errorf("data path '%s' not found in response", r.config.DataPath)
		}
	}
	if !data.IsArray() {
		return nil, nil, fmt.Errorf("expected an array of records, got %s", data.Type)
	}

	seen := make(map[string]struct{})
	var records []map[string]string
	var parseErr error
	data.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			parseErr = fmt.Errorf("record %d is not an object", len(records)+1)
			return false
		}
		record := make(map[string]string)
		item.ForEach(func(key, value gjson.Result) bool {
			k := key.String()
			seen[k] = struct{}{}
			if value.Type != gjson.Null {
				record[k] = value.String()
			}
			return true
		})
		records = append(records, record)
		return true
	})
	if parseErr != nil {
		return nil, nil, parseErr
	}

	headers := make([]string, 0, len(seen))
	for k := range seen {
		headers = append(headers, k)
	}
	sort.Strings(headers)
	return headers, records, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Package api implements the HTTP client for the AdvancedRAG backend.
// Metric payloads are passed through as opaque JSON; the client only
// verifies that a response is valid JSON and not an error envelope.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/logger"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/models"
)

// Endpoint paths, relative to the API base URL.
const (
	healthPath    = "/api/health"
	dashboardBase = "/api/dashboard/"
)

// metricPaths maps each metric to its dashboard endpoint.
var metricPaths = map[models.Metric]string{
	models.MetricUsageStats:        dashboardBase + "usage-stats",
	models.MetricCreditConsumption: dashboardBase + "credit-consumption",
	models.MetricQueryDistribution: dashboardBase + "query-distribution",
	models.MetricTopDocuments:      dashboardBase + "top-documents",
	models.MetricActivityLog:       dashboardBase + "activity-log",
}

// TokenSource supplies the bearer token for authenticated requests.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource wrapping a fixed string, for tests and
// one-off tooling.
type StaticToken string

// Token returns the wrapped token.
func (s StaticToken) Token() string { return string(s) }

// Client talks to the AdvancedRAG REST API.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// NewClient creates an API client for the given base URL.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetTransport replaces the underlying transport. Used by tests.
func (c *Client) SetTransport(rt http.RoundTripper) {
	c.httpClient.Transport = rt
}

// FetchMetric retrieves one metric payload for the given time range.
// The payload is returned unparsed.
func (c *Client) FetchMetric(ctx context.Context, metric models.Metric, timeRange models.TimeRange) (json.RawMessage, error) {
	path, ok := metricPaths[metric]
	if !ok {
		return nil, fmt.Errorf("no endpoint for metric %s", metric)
	}

	endpoint := c.baseURL + path + "?timeRange=" + url.QueryEscape(timeRange.Param())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", metric, err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s failed: %w", metric, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "metric", metric.String(), "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", metric, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s failed (status %d): %s",
			metric, resp.StatusCode, apiErrorMessage(body))
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("fetch %s returned invalid JSON", metric)
	}
	if msg := gjson.GetBytes(body, "error"); msg.Exists() {
		return nil, fmt.Errorf("fetch %s failed: %s", metric, msg.String())
	}

	return json.RawMessage(body), nil
}

// Ping probes the API health endpoint. A nil return means the backend
// is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return fmt.Errorf("failed to create health request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health probe failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close health response body", "error", err)
		}
	}()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("health probe failed (status %d)", resp.StatusCode)
	}
	return nil
}

// setHeaders applies auth and content headers to a request.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

// apiErrorMessage extracts a useful message from an error response
// body, falling back to the raw body.
func apiErrorMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "error"); msg.Exists() {
		return msg.String()
	}
	if msg := gjson.GetBytes(body, "message"); msg.Exists() {
		return msg.String()
	}
	const maxLen = 200
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}
	return s
}

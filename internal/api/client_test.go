package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/models"
)

// MockRoundTripper implements http.RoundTripper for testing
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newTestClient(rt http.RoundTripper) *Client {
	c := NewClient("https://api.advancedrag.test", StaticToken("test-token"), 5*time.Second)
	c.SetTransport(rt)
	return c
}

func TestFetchMetric(t *testing.T) {
	var gotURL, gotAuth string
	client := newTestClient(&MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			gotURL = req.URL.String()
			gotAuth = req.Header.Get("Authorization")
			return jsonResponse(http.StatusOK, `{"totalQueries": 42}`), nil
		},
	})

	payload, err := client.FetchMetric(context.Background(), models.MetricUsageStats, models.TimeRangeWeek)
	if err != nil {
		t.Fatalf("FetchMetric failed: %v", err)
	}

	if string(payload) != `{"totalQueries": 42}` {
		t.Errorf("payload altered in transit: %s", payload)
	}
	want := "https://api.advancedrag.test/api/dashboard/usage-stats?timeRange=week"
	if gotURL != want {
		t.Errorf("request URL = %s, want %s", gotURL, want)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestFetchMetricEndpointsDistinct(t *testing.T) {
	seen := make(map[string]bool)
	client := newTestClient(&MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			seen[req.URL.Path] = true
			return jsonResponse(http.StatusOK, `{}`), nil
		},
	})

	for _, m := range models.AllMetrics() {
		if _, err := client.FetchMetric(context.Background(), m, models.TimeRangeDay); err != nil {
			t.Fatalf("FetchMetric(%s) failed: %v", m, err)
		}
	}

	if len(seen) != len(models.AllMetrics()) {
		t.Errorf("expected %d distinct endpoints, got %d", len(models.AllMetrics()), len(seen))
	}
}

func TestFetchMetricHTTPError(t *testing.T) {
	client := newTestClient(&MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusBadGateway, `{"error": "upstream unavailable"}`), nil
		},
	})

	_, err := client.FetchMetric(context.Background(), models.MetricActivityLog, models.TimeRangeMonth)
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
	if !strings.Contains(err.Error(), "upstream unavailable") {
		t.Errorf("error should carry the API message, got: %v", err)
	}
}

func TestFetchMetricNetworkError(t *testing.T) {
	client := newTestClient(&MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		},
	})

	_, err := client.FetchMetric(context.Background(), models.MetricTopDocuments, models.TimeRangeWeek)
	if err == nil {
		t.Fatal("expected error when transport fails")
	}
}

func TestFetchMetricInvalidJSON(t *testing.T) {
	client := newTestClient(&MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `<html>gateway timeout</html>`), nil
		},
	})

	_, err := client.FetchMetric(context.Background(), models.MetricUsageStats, models.TimeRangeWeek)
	if err == nil {
		t.Fatal("expected error for non-JSON body")
	}
}

func TestFetchMetricErrorEnvelope(t *testing.T) {
	client := newTestClient(&MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"error": "quota exceeded"}`), nil
		},
	})

	_, err := client.FetchMetric(context.Background(), models.MetricCreditConsumption, models.TimeRangeWeek)
	if err == nil {
		t.Fatal("expected error for an error envelope with 200 status")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error should carry the envelope message, got: %v", err)
	}
}

func TestPing(t *testing.T) {
	client := newTestClient(&MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			if req.URL.Path != "/api/health" {
				t.Errorf("Ping hit %s, want /api/health", req.URL.Path)
			}
			return jsonResponse(http.StatusOK, `{"status":"ok"}`), nil
		},
	})

	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestPingServerError(t *testing.T) {
	client := newTestClient(&MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusServiceUnavailable, `{}`), nil
		},
	})

	if err := client.Ping(context.Background()); err == nil {
		t.Error("Ping should fail on 5xx")
	}
}

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eldadfux/isAWSback/internal/config"
	"github.com/eldadfux/isAWSback/internal/constants"
)

func newTestServer(t *testing.T, feedBody string) *Server {
	t.Helper()

	feedTS := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(constants.HeaderContentType, "application/json; charset=utf-8")
		_, _ = w.Write([]byte(feedBody))
	}))
	t.Cleanup(feedTS.Close)

	cfg := config.DefaultConfig()
	cfg.Feed.URL = feedTS.URL
	cfg.Observability.Logging.Level = "error"
	cfg.Observability.Metrics.Enabled = false

	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func TestStatusEndpointOperational(t *testing.T) {
	s := newTestServer(t, `[]`)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + constants.PathStatus)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, constants.ContentTypeJSON, resp.Header.Get(constants.HeaderContentType))

	var body struct {
		Status      string `json:"status"`
		LastUpdated string `json:"lastUpdated"`
		Details     string `json:"details"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "yes", body.Status)
	assert.Equal(t, "All services operational", body.Details)
	assert.NotEmpty(t, body.LastUpdated)
}

func TestStatusEndpointDegraded(t *testing.T) {
	payload := `[{"impacted_services": {"a": {"service_name":"S3","current":"2","max":"5"}}}]`
	s := newTestServer(t, payload)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + constants.PathStatus)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body struct {
		Status  string `json:"status"`
		Details string `json:"details"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "no", body.Status)
	assert.Equal(t, "1 service impacted", body.Details)
}

func TestStatusEndpointMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, `[]`)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+constants.PathStatus, constants.ContentTypeJSON, nil)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, `[]`)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + constants.PathHealth)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health struct {
		Status string          `json:"status"`
		Checks map[string]bool `json:"checks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "healthy", health.Status)
	assert.True(t, health.Checks["checker"])
}

func TestReadyEndpoint(t *testing.T) {
	s := newTestServer(t, `[]`)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + constants.PathReady)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRootDocumentation(t *testing.T) {
	s := newTestServer(t, `[]`)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var doc struct {
		Endpoints map[string]string `json:"endpoints"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, constants.PathStatus, doc.Endpoints["status"])
}

func TestUnknownPathNotFound(t *testing.T) {
	s := newTestServer(t, `[]`)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCORSHeaders(t *testing.T) {
	s := newTestServer(t, `[]`)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL+constants.PathStatus, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "*", resp.Header.Get(constants.HeaderAccessControlAllowOrigin))
}

func TestStatusServedFromCache(t *testing.T) {
	var fetches int
	feedTS := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		_, _ = w.Write([]byte(`[]`))
	}))
	defer feedTS.Close()

	cfg := config.DefaultConfig()
	cfg.Feed.URL = feedTS.URL
	cfg.Observability.Logging.Level = "error"

	s, err := New(cfg)
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	for i := 0; i < 5; i++ {
		resp, err := http.Get(ts.URL + constants.PathStatus)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	assert.Equal(t, 1, fetches)
}

package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/water-health-alerting/internal/adapter/http"
	"github.com/couchcryptid/water-health-alerting/internal/domain"
	"github.com/couchcryptid/water-health-alerting/internal/rules"
	"github.com/couchcryptid/water-health-alerting/internal/store"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

var testRef = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func newTestServer(readyErr error) (*httpadapter.Server, *store.Store) {
	window := store.New(72 * time.Hour)
	srv := httpadapter.NewServer(
		":0",
		&mockReadiness{err: readyErr},
		window,
		rules.NewEngine(),
		clockwork.NewFakeClockAt(testRef),
		slog.Default(),
	)
	return srv, window
}

func TestHealthzReturns200(t *testing.T) {
	srv, _ := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv, _ := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv, _ := newTestServer(fmt.Errorf("not ready yet"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "not ready yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestIngestSignalsAcceptsValidRejectsInvalid(t *testing.T) {
	srv, window := newTestServer(nil)

	body := `[
		{"village":"Riverside","severity":"high","symptoms":["fever"],"timestamp":"2025-06-10T09:00:00","comment_id":1},
		{"village":"","severity":"high","timestamp":"2025-06-10T09:00:00","comment_id":2},
		{"village":"Lakeview","severity":"medium","timestamp":"not-a-time","comment_id":3}
	]`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/signals", strings.NewReader(body))

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Accepted int `json:"accepted"`
		Rejected int `json:"rejected"`
		Errors   []struct {
			Index     int    `json:"index"`
			CommentID int64  `json:"comment_id"`
			Error     string `json:"error"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Accepted)
	assert.Equal(t, 2, resp.Rejected)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, 1, resp.Errors[0].Index)
	assert.Equal(t, int64(2), resp.Errors[0].CommentID)
	assert.Equal(t, 2, resp.Errors[1].Index)

	assert.Equal(t, 1, window.Len())
}

func TestIngestSignalsAllInvalidReturns422(t *testing.T) {
	srv, window := newTestServer(nil)

	body := `[{"village":"","severity":"high","timestamp":"2025-06-10T09:00:00"}]`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/signals", strings.NewReader(body))

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 0, window.Len())
}

func TestIngestSignalsBadBodyReturns400(t *testing.T) {
	srv, _ := newTestServer(nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/signals", strings.NewReader(`{"not":"an array"}`))

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSignals(t *testing.T) {
	srv, window := newTestServer(nil)
	window.Add(domain.Signal{
		Village:   "Riverside",
		Severity:  domain.SeverityHigh,
		Timestamp: testRef.Add(-time.Hour),
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/signals", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count   int               `json:"count"`
		Signals []json.RawMessage `json:"signals"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Signals, 1)
	assert.Contains(t, string(resp.Signals[0]), `"village":"Riverside"`)
}

func TestAlertsEvaluatesCurrentWindow(t *testing.T) {
	srv, window := newTestServer(nil)
	// Five medium reports within 24h fire both the volume and the repeated
	// medium rules, which escalates all of Lakeview's alerts to HIGH.
	for i := 0; i < 5; i++ {
		window.Add(domain.Signal{
			Village:   "Lakeview",
			Severity:  domain.SeverityMedium,
			Timestamp: testRef.Add(-time.Duration(i+1) * time.Hour),
			CommentID: int64(i + 1),
		})
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/alerts", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var batch domain.AlertBatch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batch))
	assert.NotEmpty(t, batch.RunID)
	assert.True(t, batch.GeneratedAt.Equal(testRef))
	assert.Equal(t, 5, batch.SignalCount)
	require.NotEmpty(t, batch.Alerts)
	for _, a := range batch.Alerts {
		assert.Equal(t, "Lakeview", a.Village)
		assert.Equal(t, domain.LevelHigh, a.Level)
		assert.Contains(t, a.Reason, "(multiple rules triggered)")
	}
}

func TestAlertsLimitTruncates(t *testing.T) {
	srv, window := newTestServer(nil)
	for i := 0; i < 5; i++ {
		window.Add(domain.Signal{
			Village:   "Lakeview",
			Severity:  domain.SeverityMedium,
			Timestamp: testRef.Add(-time.Duration(i+1) * time.Hour),
		})
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/alerts?limit=1", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var batch domain.AlertBatch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batch))
	assert.Len(t, batch.Alerts, 1)
}

func TestAlertsBadLimitReturns400(t *testing.T) {
	srv, _ := newTestServer(nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/alerts?limit=-1", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

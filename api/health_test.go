package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llmgateway/config"
	"llmgateway/health"
)

func TestHealthListReportsEveryProvider(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.UpsertProvider(config.Provider{Name: "p0", Protocol: config.ProtocolO, Endpoint: "http://p0"}))
	require.NoError(t, store.UpsertProvider(config.Provider{Name: "p1", Protocol: config.ProtocolO, Endpoint: "http://p1"}))

	tracker := health.NewTracker()
	tracker.RecordError("p0", 429)

	r := newTestRouter(t)
	a := NewHealthAPI(store, tracker)
	r.GET("/admin/api/health", a.List)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var out map[string]providerHealth
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Contains(t, out, "p0")
	require.Contains(t, out, "p1")
	assert.Equal(t, 1, out["p0"].RecentErrorCount)
	assert.InDelta(t, 200.0, out["p0"].Current, 0.0001)
	assert.Equal(t, 0, out["p1"].RecentErrorCount)
}

func TestHealthGetUnknownProvider(t *testing.T) {
	store := newTestStore(t)
	r := newTestRouter(t)
	a := NewHealthAPI(store, health.NewTracker())
	r.GET("/admin/api/health/:provider", a.Get)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/health/ghost", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthResetOneClearsPenalty(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.UpsertProvider(config.Provider{Name: "p0", Protocol: config.ProtocolO, Endpoint: "http://p0"}))

	tracker := health.NewTracker()
	tracker.RecordError("p0", 500)

	r := newTestRouter(t)
	a := NewHealthAPI(store, tracker)
	r.POST("/admin/api/health/:provider/reset", a.ResetOne)

	req := httptest.NewRequest(http.MethodPost, "/admin/api/health/p0/reset", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, 1000.0, tracker.Weight("p0", 1000))
}

func TestHealthResetAll(t *testing.T) {
	tracker := health.NewTracker()
	tracker.RecordError("p0", 500)
	tracker.RecordError("p1", 500)

	r := newTestRouter(t)
	a := NewHealthAPI(newTestStore(t), tracker)
	r.POST("/admin/api/health/reset", a.ResetAll)

	req := httptest.NewRequest(http.MethodPost, "/admin/api/health/reset", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, 1000.0, tracker.Weight("p0", 1000))
	assert.Equal(t, 1000.0, tracker.Weight("p1", 1000))
}

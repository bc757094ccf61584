package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llmgateway/config"
)

func newTestStore(t *testing.T) *config.Store {
	t.Helper()
	store, err := config.Open(t.TempDir())
	require.NoError(t, err)
	return store
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestProvidersUpsertAndList(t *testing.T) {
	store := newTestStore(t)
	r := newTestRouter(t)
	a := NewProvidersAPI(store)
	r.POST("/admin/api/providers", a.Upsert)
	r.GET("/admin/api/providers", a.List)

	body, _ := json.Marshal(config.Provider{Name: "p0", Protocol: config.ProtocolO, Endpoint: "http://example.test"})
	req := httptest.NewRequest(http.MethodPost, "/admin/api/providers", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/api/providers", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var providers []config.Provider
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &providers))
	require.Len(t, providers, 1)
	assert.Equal(t, "p0", providers[0].Name)
}

func TestProvidersUpsertRejectsMissingName(t *testing.T) {
	store := newTestStore(t)
	r := newTestRouter(t)
	a := NewProvidersAPI(store)
	r.POST("/admin/api/providers", a.Upsert)

	body, _ := json.Marshal(config.Provider{Endpoint: "http://example.test"})
	req := httptest.NewRequest(http.MethodPost, "/admin/api/providers", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProvidersDeleteNotFound(t *testing.T) {
	store := newTestStore(t)
	r := newTestRouter(t)
	a := NewProvidersAPI(store)
	r.DELETE("/admin/api/providers/:name", a.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/admin/api/providers/ghost", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProvidersDeleteExisting(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.UpsertProvider(config.Provider{Name: "p0", Protocol: config.ProtocolO, Endpoint: "http://example.test"}))

	r := newTestRouter(t)
	a := NewProvidersAPI(store)
	r.DELETE("/admin/api/providers/:name", a.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/admin/api/providers/p0", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, ok := store.GetProvider("p0")
	assert.False(t, ok)
}

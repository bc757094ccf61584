package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llmgateway/config"
)

func TestKeysUpsertGeneratesToken(t *testing.T) {
	store := newTestStore(t)
	r := newTestRouter(t)
	a := NewKeysAPI(store)
	r.POST("/admin/api/keys", a.Upsert)

	body, _ := json.Marshal(config.AccessKey{Name: "ci"})
	req := httptest.NewRequest(http.MethodPost, "/admin/api/keys", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var saved config.AccessKey
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.NotEmpty(t, saved.ID)
	assert.Regexp(t, `^sk-`, saved.Token)
}

func TestKeysListRoundTripsToken(t *testing.T) {
	store := newTestStore(t)
	_, err := store.UpsertKey(config.AccessKey{Name: "ci", Token: "sk-fixed"})
	require.NoError(t, err)

	r := newTestRouter(t)
	a := NewKeysAPI(store)
	r.GET("/admin/api/keys", a.List)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/keys", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var keys []config.AccessKey
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &keys))
	require.Len(t, keys, 1)
	assert.Equal(t, "sk-fixed", keys[0].Token)
}

func TestKeysDeleteNotFound(t *testing.T) {
	store := newTestStore(t)
	r := newTestRouter(t)
	a := NewKeysAPI(store)
	r.DELETE("/admin/api/keys/:id", a.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/admin/api/keys/ghost", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

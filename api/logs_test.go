package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llmgateway/requestlog"
)

func writeTodayLog(t *testing.T, dir string, traces []requestlog.Trace) {
	t.Helper()
	path := filepath.Join(dir, time.Now().Format("2006-01-02")+".log")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	for _, tr := range traces {
		line, err := json.Marshal(tr)
		require.NoError(t, err)
		_, err = f.Write(append(line, '\n'))
		require.NoError(t, err)
	}
}

func TestLogsQueryReturnsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	writeTodayLog(t, dir, []requestlog.Trace{
		{ID: "t1", FinalStatus: 200},
		{ID: "t2", FinalStatus: 200},
		{ID: "t3", FinalStatus: 502},
	})

	r := newTestRouter(t)
	a := NewLogsAPI(dir)
	r.GET("/admin/api/logs", a.Query)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/logs", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Logs     []requestlog.Trace `json:"logs"`
		HasMore  bool               `json:"hasMore"`
		Total    int                `json:"total"`
		Loaded   int                `json:"loaded"`
		Filtered int                `json:"filtered"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Logs, 3)
	assert.Equal(t, "t3", out.Logs[0].ID)
	assert.Equal(t, "t1", out.Logs[2].ID)
	assert.False(t, out.HasMore)
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, 3, out.Filtered)
}

func TestLogsQueryErrorOnlyFilter(t *testing.T) {
	dir := t.TempDir()
	writeTodayLog(t, dir, []requestlog.Trace{
		{ID: "t1", FinalStatus: 200},
		{ID: "t2", FinalStatus: 502},
	})

	r := newTestRouter(t)
	a := NewLogsAPI(dir)
	r.GET("/admin/api/logs", a.Query)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/logs?errorOnly=true", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var out struct {
		Logs []requestlog.Trace `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Logs, 1)
	assert.Equal(t, "t2", out.Logs[0].ID)
}

func TestLogsQueryPaginationHasMore(t *testing.T) {
	dir := t.TempDir()
	writeTodayLog(t, dir, []requestlog.Trace{
		{ID: "t1", FinalStatus: 200},
		{ID: "t2", FinalStatus: 200},
		{ID: "t3", FinalStatus: 200},
	})

	r := newTestRouter(t)
	a := NewLogsAPI(dir)
	r.GET("/admin/api/logs", a.Query)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/logs?limit=2", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var out struct {
		Logs    []requestlog.Trace `json:"logs"`
		HasMore bool               `json:"hasMore"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Logs, 2)
	assert.Equal(t, "t3", out.Logs[0].ID)
	assert.Equal(t, "t2", out.Logs[1].ID)
	assert.True(t, out.HasMore)
}

func TestLogsClearToday(t *testing.T) {
	dir := t.TempDir()
	writeTodayLog(t, dir, []requestlog.Trace{{ID: "t1"}})

	r := newTestRouter(t)
	a := NewLogsAPI(dir)
	r.POST("/admin/api/logs/clear", a.Clear)

	req := httptest.NewRequest(http.MethodPost, "/admin/api/logs/clear", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err := os.Stat(todayLogPath(dir))
	assert.True(t, os.IsNotExist(err))
}

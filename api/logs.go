package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"llmgateway/requestlog"
)

// LogsAPI exposes log clearing and the filtered/paginated log query.
type LogsAPI struct {
	dir string
}

// NewLogsAPI creates a LogsAPI over the trace log directory.
func NewLogsAPI(dir string) *LogsAPI {
	return &LogsAPI{dir: dir}
}

func todayLogPath(dir string) string {
	return filepath.Join(dir, time.Now().Format("2006-01-02")+".log")
}

// Clear handles POST /admin/api/logs/clear?scope=today|all. scope defaults
// to "today".
func (a *LogsAPI) Clear(c *gin.Context) {
	scope := c.DefaultQuery("scope", "today")

	if scope == "all" {
		matches, err := filepath.Glob(filepath.Join(a.dir, "*.log"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		for _, path := range matches {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}
		c.Status(http.StatusNoContent)
		return
	}

	if err := os.Remove(todayLogPath(a.dir)); err != nil && !os.IsNotExist(err) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// readToday parses today's log file line by line, skipping malformed lines.
func (a *LogsAPI) readToday() ([]requestlog.Trace, error) {
	f, err := os.Open(todayLogPath(a.dir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var traces []requestlog.Trace
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		var t requestlog.Trace
		if err := json.Unmarshal(scanner.Bytes(), &t); err != nil {
			continue
		}
		traces = append(traces, t)
	}
	return traces, scanner.Err()
}

func matchesKeyword(t requestlog.Trace, keyword string) bool {
	keyword = strings.ToLower(keyword)

	fields := []string{t.KeyName, t.Routing.Model, t.Request.Path, strconv.Itoa(t.FinalStatus)}
	for _, a := range t.Attempts {
		fields = append(fields, a.Provider, a.Error, fmt.Sprintf("%v", a.ResponseBody))
	}

	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), keyword) {
			return true
		}
	}
	return false
}

func isErrorStatus(status int) bool {
	return !(status >= 200 && status < 300)
}

// Query handles GET /admin/api/logs.
func (a *LogsAPI) Query(c *gin.Context) {
	traces, err := a.readToday()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	keyword := c.Query("keyword")
	errorOnly := c.Query("errorOnly") == "true"
	refresh := c.Query("refresh") == "true"
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	var filtered []requestlog.Trace
	for _, t := range traces {
		if errorOnly && !isErrorStatus(t.FinalStatus) {
			continue
		}
		if keyword != "" && !matchesKeyword(t, keyword) {
			continue
		}
		filtered = append(filtered, t)
	}

	total := len(traces)
	n := len(filtered)

	if refresh {
		start := n - limit
		if start < 0 {
			start = 0
		}
		page := reverseTraces(filtered[start:n])
		c.JSON(http.StatusOK, gin.H{"logs": page})
		return
	}

	endIndex := n - offset
	if endIndex > n {
		endIndex = n
	}
	if endIndex < 0 {
		endIndex = 0
	}
	startIndex := endIndex - limit
	if startIndex < 0 {
		startIndex = 0
	}

	page := reverseTraces(filtered[startIndex:endIndex])

	c.JSON(http.StatusOK, gin.H{
		"logs":     page,
		"hasMore":  startIndex > 0,
		"total":    total,
		"loaded":   len(page),
		"filtered": n,
	})
}

func reverseTraces(in []requestlog.Trace) []requestlog.Trace {
	out := make([]requestlog.Trace, len(in))
	for i, t := range in {
		out[len(in)-1-i] = t
	}
	return out
}

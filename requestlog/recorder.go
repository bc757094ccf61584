package requestlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"llmgateway/logger"
)

const slowWriteThreshold = 50 * time.Millisecond

// Recorder owns the daily trace log file under a directory, rotating to a
// new file named by the wall-clock date whenever the day changes. Every
// Record call appends exactly one JSON line; write failures are logged and
// swallowed, never surfaced to the caller's HTTP response.
type Recorder struct {
	dir string

	mu      sync.Mutex
	day     string
	file    *os.File
}

// NewRecorder creates a Recorder writing under dir, creating dir if absent.
func NewRecorder(dir string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	return &Recorder{dir: dir}, nil
}

// Record appends t as a single JSON line to today's log file. Failures are
// logged to the structured logger and swallowed.
func (r *Recorder) Record(t Trace) {
	t.Request.Body = Sanitize(t.Request.Body)
	t.FinalBody = Sanitize(t.FinalBody)
	for i := range t.Attempts {
		t.Attempts[i].ResponseBody = Sanitize(t.Attempts[i].ResponseBody)
	}

	line, err := json.Marshal(t)
	if err != nil {
		logger.Error("failed to marshal trace", "id", t.ID, "error", err.Error())
		return
	}
	line = append(line, '\n')

	start := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureFileLocked(); err != nil {
		logger.Error("failed to open trace log", "error", err.Error())
		return
	}

	if _, err := r.file.Write(line); err != nil {
		logger.Error("failed to write trace", "id", t.ID, "error", err.Error())
		return
	}

	if elapsed := time.Since(start); elapsed > slowWriteThreshold {
		logger.Warn("slow trace write", "id", t.ID, "duration", elapsed.String())
	}
}

// ensureFileLocked opens (or rotates to) today's log file. Caller must hold r.mu.
func (r *Recorder) ensureFileLocked() error {
	today := time.Now().Format("2006-01-02")
	if r.file != nil && r.day == today {
		return nil
	}

	if r.file != nil {
		r.file.Close()
	}

	path := filepath.Join(r.dir, today+".log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	r.file = f
	r.day = today
	return nil
}

// Close releases the currently open log file, if any.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

package proxy

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"llmgateway/logger"
	"llmgateway/requestlog"
)

// streamResponse pipes resp's body to the client as bytes arrive while
// simultaneously accumulating them into a buffer for the trace, per spec.md's
// streaming-with-simultaneous-capture requirement. A mid-stream read error
// finalizes the attempt with the partial buffer and closes the client
// stream; it is never retried, since bytes are already on the wire.
func (h *Handler) streamResponse(c *gin.Context, resp *http.Response, attempt *requestlog.Attempt, trace *requestlog.Trace, attemptStart time.Time) {
	defer resp.Body.Close()

	copyUpstreamHeaders(c.Writer.Header(), resp.Header)
	c.Writer.WriteHeader(resp.StatusCode)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		logger.Error("streaming not supported by response writer")
	}

	var captured bytes.Buffer
	reader := bufio.NewReader(resp.Body)
	buf := make([]byte, 4096)

	for {
		n, readErr := reader.Read(buf)
		if n > 0 {
			captured.Write(buf[:n])
			if _, writeErr := c.Writer.Write(buf[:n]); writeErr != nil {
				logger.Error("error writing to client stream", "error", writeErr.Error())
				break
			}
			if flusher != nil {
				flusher.Flush()
			}
		}

		if readErr != nil {
			if !errors.Is(readErr, io.EOF) {
				attempt.Error = classifyStreamError(attempt.Provider, readErr).Error()
			}
			break
		}
	}

	attempt.UpstreamStatus = resp.StatusCode
	attempt.UpstreamHeaders = map[string][]string(resp.Header)
	attempt.ResponseBody = captured.String()
	attempt.DurationMs = time.Since(attemptStart).Milliseconds()
	trace.Attempts = append(trace.Attempts, *attempt)

	trace.FinalBody = captured.String()
	trace.FinalStatus = resp.StatusCode
}

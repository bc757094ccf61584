// Package proxy implements the forwarding engine: the attempt loop that
// turns one inbound chat-completion request into an ordered sequence of
// upstream attempts, with streaming tee capture and trace construction.
package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"llmgateway/auth"
	"llmgateway/config"
	"llmgateway/front"
	"llmgateway/health"
	"llmgateway/logger"
	"llmgateway/provider"
	"llmgateway/requestlog"
	"llmgateway/router"
)

// Handler is the forwarding engine shared by the O and A protocol routes.
type Handler struct {
	store    *config.Store
	tracker  *health.Tracker
	selector *router.Selector
	clients  *provider.Manager
	recorder *requestlog.Recorder
}

// NewHandler wires the forwarding engine's collaborators.
func NewHandler(store *config.Store, tracker *health.Tracker, selector *router.Selector, clients *provider.Manager, recorder *requestlog.Recorder) *Handler {
	return &Handler{store: store, tracker: tracker, selector: selector, clients: clients, recorder: recorder}
}

// HandleChatCompletions serves protocol-O requests at /v1/chat/completions.
func (h *Handler) HandleChatCompletions(c *gin.Context) {
	h.forward(c, config.ProtocolO)
}

// HandleMessages serves protocol-A requests at /v1/messages.
func (h *Handler) HandleMessages(c *gin.Context) {
	h.forward(c, config.ProtocolA)
}

func (h *Handler) forward(c *gin.Context, protocol config.Protocol) {
	started := time.Now()
	traceID := uuid.NewString()

	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		if front.IsBodyTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON in request body"})
		return
	}

	model, _ := payload["model"].(string)
	streaming, _ := payload["stream"].(bool)

	trace := requestlog.Trace{
		ID:        traceID,
		StartedAt: started,
		KeyName:   auth.KeyName(c),
		Request: requestlog.CapturedRequest{
			Method:  c.Request.Method,
			Path:    c.Request.URL.Path,
			Headers: map[string][]string(c.Request.Header),
			Body:    payload,
		},
	}

	group, candidates, err := h.selector.Select(model, protocol)
	if err != nil {
		status, message := routingErrorResponse(err)
		trace.FinalStatus = status
		trace.TotalDuration = time.Since(started).Milliseconds()
		h.recorder.Record(trace)
		c.JSON(status, gin.H{"error": message})
		return
	}

	trace.Routing = requestlog.RoutingDecision{Model: model, Group: group}
	for _, cand := range candidates {
		trace.Routing.Candidates = append(trace.Routing.Candidates, requestlog.Candidate{
			Provider: cand.Provider.Name,
			Weight:   cand.Weight,
		})
	}

	baseHeaders := sanitizeInbound(c.Request.Header)

	var lastErrMessage string
	for _, cand := range candidates {
		outBody, err := provider.RewriteModel(rawBody, cand.Provider)
		if err != nil {
			lastErrMessage = err.Error()
			continue
		}

		outHeaders := baseHeaders.Clone()
		provider.InjectAuth(outHeaders, cand.Provider)

		attempt := requestlog.Attempt{
			Provider:        cand.Provider.Name,
			Weight:          cand.Weight,
			IsStreaming:     streaming,
			OutgoingHeaders: map[string][]string(outHeaders),
		}
		attemptStart := time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), provider.RequestTimeout)
		resp, err := h.clients.Do(ctx, cand.Provider, outHeaders, outBody)
		if err != nil {
			cancel()
			attempt.Error = classifyTransportError(cand.Provider.Name, err).Error()
			attempt.DurationMs = time.Since(attemptStart).Milliseconds()
			trace.Attempts = append(trace.Attempts, attempt)
			lastErrMessage = attempt.Error
			h.recordFailure(cand.Provider.Name, 0)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			cancel()

			classified := classifyStatusError(cand.Provider.Name, resp.StatusCode)
			attempt.UpstreamStatus = resp.StatusCode
			attempt.UpstreamHeaders = map[string][]string(resp.Header)
			attempt.ResponseBody = decodeOrString(body)
			attempt.Error = classified.Error()
			attempt.DurationMs = time.Since(attemptStart).Milliseconds()
			trace.Attempts = append(trace.Attempts, attempt)
			lastErrMessage = attempt.Error

			h.recordFailure(cand.Provider.Name, resp.StatusCode)
			continue
		}

		// 2xx: this attempt serves the client response.
		if streaming {
			h.streamResponse(c, resp, &attempt, &trace, attemptStart)
		} else {
			h.unaryResponse(c, resp, &attempt, &trace, attemptStart)
		}
		cancel()

		trace.TotalDuration = time.Since(started).Milliseconds()
		h.recorder.Record(trace)
		return
	}

	if lastErrMessage == "" {
		lastErrMessage = "no candidates available"
	}
	logger.Error("all providers failed", "model", model, "group", group)

	trace.FinalStatus = http.StatusBadGateway
	trace.TotalDuration = time.Since(started).Milliseconds()
	h.recorder.Record(trace)

	c.JSON(http.StatusBadGateway, gin.H{
		"error":      "All providers failed",
		"last_error": lastErrMessage,
	})
}

func (h *Handler) recordFailure(providerName string, status int) {
	h.store.IncrementFailure(providerName)
	if health.Penalizes(status) {
		h.tracker.RecordError(providerName, status)
	}
}

func (h *Handler) unaryResponse(c *gin.Context, resp *http.Response, attempt *requestlog.Attempt, trace *requestlog.Trace, attemptStart time.Time) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		attempt.Error = classifyStreamError(attempt.Provider, err).Error()
		attempt.DurationMs = time.Since(attemptStart).Milliseconds()
		trace.Attempts = append(trace.Attempts, *attempt)
		trace.FinalStatus = http.StatusBadGateway
		c.JSON(http.StatusBadGateway, gin.H{"error": "All providers failed", "last_error": err.Error()})
		return
	}

	copyUpstreamHeaders(c.Writer.Header(), resp.Header)

	decoded := decodeOrString(body)
	attempt.UpstreamStatus = resp.StatusCode
	attempt.UpstreamHeaders = map[string][]string(resp.Header)
	attempt.ResponseBody = decoded
	attempt.DurationMs = time.Since(attemptStart).Milliseconds()
	trace.Attempts = append(trace.Attempts, *attempt)

	trace.FinalBody = decoded
	trace.FinalStatus = resp.StatusCode

	c.Data(resp.StatusCode, resp.Header.Get("Content-Type"), body)
}

func decodeOrString(body []byte) interface{} {
	var decoded interface{}
	if err := json.Unmarshal(body, &decoded); err == nil {
		return decoded
	}
	return string(body)
}

func routingErrorResponse(err error) (int, string) {
	switch {
	case err == router.ErrModelNotFound:
		return http.StatusNotFound, "model not found"
	case err == router.ErrProtocolMismatch:
		return http.StatusBadRequest, "group protocol does not match request path"
	case err == router.ErrNoProviders:
		return http.StatusBadGateway, fmt.Sprintf("no resolvable providers: %v", err)
	default:
		return http.StatusBadGateway, err.Error()
	}
}

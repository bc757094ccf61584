// Package provider builds outbound HTTP requests to configured upstreams:
// per-provider transports (honoring an optional outbound proxy), protocol-
// specific header injection, and the real-model-id body substitution.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"llmgateway/config"
)

// RequestTimeout bounds a single upstream attempt end to end, per spec.md's
// 60-second total timeout.
const RequestTimeout = 60 * time.Second

// httpClient is the subset of *http.Client that Manager depends on, so tests
// can substitute a mock transport without opening real sockets.
type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Manager hands out an *http.Client per provider, reusing one keyed by
// outbound proxy URL so providers sharing a proxy (or sharing "no proxy")
// share a connection pool.
type Manager struct {
	mu       sync.Mutex
	clients  map[string]*http.Client
	override httpClient // test seam; bypasses clientFor when set
}

// NewManager creates an empty client manager.
func NewManager() *Manager {
	return &Manager{clients: make(map[string]*http.Client)}
}

func (m *Manager) clientFor(proxyURL string) (*http.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.clients[proxyURL]; ok {
		return c, nil
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("parsing proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(parsed)
	}

	client := &http.Client{
		Timeout:   RequestTimeout,
		Transport: transport,
	}
	m.clients[proxyURL] = client
	return client, nil
}

// Do builds and issues the outbound POST to p's endpoint, applying header
// hygiene's injection step and carrying the already-sanitized inbound
// headers given in headers. The caller is responsible for closing the
// returned response's body.
func (m *Manager) Do(ctx context.Context, p config.Provider, headers http.Header, body []byte) (*http.Response, error) {
	var client httpClient
	if m.override != nil {
		client = m.override
	} else {
		c, err := m.clientFor(p.ProxyURL)
		if err != nil {
			return nil, err
		}
		client = c
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building upstream request: %w", err)
	}
	req.Header = headers.Clone()
	InjectAuth(req.Header, p)

	return client.Do(req)
}

// InjectAuth sets Content-Type and the provider's credential headers on h,
// per spec.md's header hygiene injection step.
func InjectAuth(h http.Header, p config.Provider) {
	h.Set("Content-Type", "application/json")

	switch p.Protocol {
	case config.ProtocolA:
		h.Set("x-api-key", p.APIKey)
		h.Set("Authorization", "Bearer "+p.APIKey)
		h.Set("anthropic-version", "2023-06-01")
	default: // config.ProtocolO
		h.Set("Authorization", "Bearer "+p.APIKey)
	}
}

// RewriteModel decodes body as a JSON object and, if p.RealModel is set,
// substitutes it into the "model" field, re-encoding the result. With no
// RealModel configured, body is returned unchanged.
func RewriteModel(body []byte, p config.Provider) ([]byte, error) {
	if p.RealModel == "" {
		return body, nil
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decoding request body: %w", err)
	}
	payload["model"] = p.RealModel

	out, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding rewritten body: %w", err)
	}
	return out, nil
}

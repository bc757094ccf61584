package proxy

import (
	"fmt"
)

// ErrorType classifies an upstream failure for logging and trace purposes.
type ErrorType string

const (
	ErrorTypeNetwork   ErrorType = "network_error"
	ErrorTypeAuth      ErrorType = "authentication_error"
	ErrorTypeRateLimit ErrorType = "rate_limit_error"
	ErrorTypeClient    ErrorType = "client_error"
	ErrorTypeServer    ErrorType = "server_error"
	ErrorTypeStream    ErrorType = "stream_error"
)

// UpstreamError describes one failed attempt against a single provider.
type UpstreamError struct {
	Type       ErrorType
	StatusCode int
	Provider   string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Provider, e.Type, e.Err)
	}
	return fmt.Sprintf("[%s] %s: status %d", e.Provider, e.Type, e.StatusCode)
}

// classifyTransportError wraps a network-level failure (timeout, DNS, connect).
func classifyTransportError(provider string, err error) *UpstreamError {
	return &UpstreamError{Type: ErrorTypeNetwork, Provider: provider, Err: err}
}

// classifyStatusError classifies a non-2xx upstream status code.
func classifyStatusError(provider string, status int) *UpstreamError {
	e := &UpstreamError{StatusCode: status, Provider: provider}
	switch {
	case status == 401 || status == 403:
		e.Type = ErrorTypeAuth
	case status == 429:
		e.Type = ErrorTypeRateLimit
	case status >= 400 && status < 500:
		e.Type = ErrorTypeClient
	default:
		e.Type = ErrorTypeServer
	}
	return e
}

// classifyStreamError wraps a failure that occurred mid-stream, after a 2xx
// was already committed to the client.
func classifyStreamError(provider string, err error) *UpstreamError {
	return &UpstreamError{Type: ErrorTypeStream, Provider: provider, Err: err}
}


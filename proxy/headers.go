package proxy

import (
	"net/http"
	"strings"
)

var hopByHop = map[string]bool{
	"host":              true,
	"content-length":    true,
	"connection":        true,
	"transfer-encoding": true,
}

var inboundCredentials = map[string]bool{
	"authorization":     true,
	"x-api-key":         true,
	"anthropic-version": true,
}

var corsResponseHeaders = map[string]bool{
	"access-control-allow-origin":  true,
	"access-control-allow-methods": true,
	"access-control-allow-headers": true,
}

// sanitizeInbound strips the hop-by-hop set and any inbound credentials from
// the client's headers, producing the base set the engine injects
// provider-specific auth headers into.
func sanitizeInbound(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for k, v := range h {
		lower := http.CanonicalHeaderKey(k)
		if hopByHop[strings.ToLower(k)] || inboundCredentials[strings.ToLower(k)] {
			continue
		}
		out[lower] = v
	}
	return out
}

// copyUpstreamHeaders copies resp headers to w, excluding hop-by-hop headers
// and the gateway's own CORS response headers.
func copyUpstreamHeaders(dst http.Header, src http.Header) {
	for k, v := range src {
		if hopByHop[strings.ToLower(k)] || corsResponseHeaders[strings.ToLower(k)] {
			continue
		}
		for _, vv := range v {
			dst.Add(k, vv)
		}
	}
}

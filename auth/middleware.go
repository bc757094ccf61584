// Package auth authenticates inbound client requests against the configured
// access keys, and protects the admin surface with HTTP Basic Auth.
package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"llmgateway/config"
)

const contextKeyName = "authKeyName"

// ClientAuth validates the bearer token on inbound chat/messages requests
// against store's access keys and annotates the request context with the
// matching key's display name for the trace recorder to pick up.
func ClientAuth(store *config.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "missing authorization header")
			return
		}

		token := extractBearerToken(authHeader)
		if token == "" {
			unauthorized(c, "invalid authorization header format, expected 'Bearer <token>'")
			return
		}

		key, ok := store.MatchToken(token)
		if !ok {
			unauthorized(c, "invalid API key")
			return
		}

		c.Set(contextKeyName, key.Name)
		c.Next()
	}
}

// KeyName returns the display name of the access key that authenticated the
// request, or "" if none is set (e.g. in tests that bypass ClientAuth).
func KeyName(c *gin.Context) string {
	v, _ := c.Get(contextKeyName)
	name, _ := v.(string)
	return name
}

func unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"type":    "authentication_error",
			"message": message,
		},
	})
	c.Abort()
}

func extractBearerToken(authHeader string) string {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

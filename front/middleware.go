// Package front holds the front-controller middleware: panic recovery that
// emits 503 with the error's message, the 10 MB request-body ceiling, and
// the gateway's own permissive CORS policy.
package front

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"llmgateway/logger"
)

// MaxBodyBytes is the ceiling above which a request body is rejected with 413.
const MaxBodyBytes = 10 << 20 // 10 MB

// BodyLimit wraps the request body in a reader that errors once more than
// MaxBodyBytes has been read; handlers reading the body (proxy.Handler.forward)
// translate that error into a 413.
func BodyLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
		c.Next()
	}
}

// IsBodyTooLarge reports whether err came from a body read exceeding MaxBodyBytes.
func IsBodyTooLarge(err error) bool {
	if err == nil {
		return false
	}
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge)
}

// CORS sets the gateway's own permissive CORS policy when enabled is true,
// answering preflight requests directly.
func CORS(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if enabled {
			setPermissiveCORS(c)
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func setPermissiveCORS(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, x-api-key, anthropic-version")
}

// Recovery recovers from a panic anywhere in the pipeline and responds 503
// with the panic's message, unconditionally setting permissive CORS headers
// first so the browser can surface the real error regardless of the --no-cors
// flag.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				setPermissiveCORS(c)
				logger.Error("panic recovered in HTTP handler",
					"error", fmt.Sprintf("%v", r),
					"path", c.Request.URL.Path)
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
					"error": fmt.Sprintf("%v", r),
				})
			}
		}()
		c.Next()
	}
}

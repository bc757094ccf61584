package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"llmgateway/logger"
)

// defaultAdminUser/defaultAdminPasswordHash are the built-in admin Basic
// Auth credentials. They are intentionally insecure defaults: documented as
// such, intended to be replaced by an operator before exposing the admin
// surface beyond localhost. The hash below is bcrypt("changeme").
const defaultAdminUser = "admin"

var defaultAdminPasswordHash = []byte("$2a$12$jHaADOyjbC6xcfUDWhJiiO5bJ0lpuf7W79aB0ZGun2NLGa6AidJGK")

// AdminAuth protects the admin surface with HTTP Basic Auth against a single
// built-in user/password pair, comparing the password via bcrypt so the
// hash (not the plaintext) is what lives in the binary.
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if !ok || user != defaultAdminUser {
			challenge(c)
			return
		}

		if err := bcrypt.CompareHashAndPassword(defaultAdminPasswordHash, []byte(pass)); err != nil {
			logger.Warn("admin basic auth failed", "user", user)
			challenge(c)
			return
		}

		c.Next()
	}
}

func challenge(c *gin.Context) {
	c.Header("WWW-Authenticate", `Basic realm="admin"`)
	c.JSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"type":    "authentication_error",
			"message": "invalid admin credentials",
		},
	})
	c.Abort()
}

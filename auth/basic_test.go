package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func runAdminAuth(user, pass string, setAuth bool) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/api/providers", AdminAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/api/providers", nil)
	if setAuth {
		req.SetBasicAuth(user, pass)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAdminAuthMissingCredentials(t *testing.T) {
	rec := runAdminAuth("", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
}

func TestAdminAuthWrongPassword(t *testing.T) {
	rec := runAdminAuth(defaultAdminUser, "wrong", true)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthWrongUser(t *testing.T) {
	rec := runAdminAuth("someoneelse", "changeme", true)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthSuccess(t *testing.T) {
	rec := runAdminAuth(defaultAdminUser, "changeme", true)
	assert.Equal(t, http.StatusOK, rec.Code)
}

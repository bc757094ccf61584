// Package api implements the admin surface: CRUD over providers, groups, and
// access keys, aggregate stats and health inspection, log clearing/query,
// and the upstream model-list probe. Every route here sits behind
// auth.AdminAuth.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"llmgateway/config"
)

// ProvidersAPI exposes provider CRUD.
type ProvidersAPI struct {
	store *config.Store
}

// NewProvidersAPI creates a ProvidersAPI over store.
func NewProvidersAPI(store *config.Store) *ProvidersAPI {
	return &ProvidersAPI{store: store}
}

// List handles GET /admin/api/providers.
func (a *ProvidersAPI) List(c *gin.Context) {
	c.JSON(http.StatusOK, a.store.ListProviders())
}

// Upsert handles POST /admin/api/providers: create or replace, keyed by name.
func (a *ProvidersAPI) Upsert(c *gin.Context) {
	var p config.Provider
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.store.UpsertProvider(p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /admin/api/providers/:name.
func (a *ProvidersAPI) Delete(c *gin.Context) {
	name := c.Param("name")
	if err := a.store.DeleteProvider(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"llmgateway/config"
)

// KeysAPI exposes access-key CRUD.
type KeysAPI struct {
	store *config.Store
}

// NewKeysAPI creates a KeysAPI over store.
func NewKeysAPI(store *config.Store) *KeysAPI {
	return &KeysAPI{store: store}
}

// List handles GET /admin/api/keys.
func (a *KeysAPI) List(c *gin.Context) {
	c.JSON(http.StatusOK, a.store.ListKeys())
}

// Upsert handles POST /admin/api/keys. A missing id generates one; a missing
// token is synthesized as sk-<9 random chars>.
func (a *KeysAPI) Upsert(c *gin.Context) {
	var k config.AccessKey
	if err := c.ShouldBindJSON(&k); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := a.store.UpsertKey(k)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, saved)
}

// Delete handles DELETE /admin/api/keys/:id.
func (a *KeysAPI) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := a.store.DeleteKey(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"llmgateway/config"
)

// GroupsAPI exposes group CRUD.
type GroupsAPI struct {
	store *config.Store
}

// NewGroupsAPI creates a GroupsAPI over store.
func NewGroupsAPI(store *config.Store) *GroupsAPI {
	return &GroupsAPI{store: store}
}

// List handles GET /admin/api/groups.
func (a *GroupsAPI) List(c *gin.Context) {
	c.JSON(http.StatusOK, a.store.ListGroups())
}

// Upsert handles POST /admin/api/groups: create or replace, keyed by name;
// rejects a request with no name.
func (a *GroupsAPI) Upsert(c *gin.Context) {
	var g config.Group
	if err := c.ShouldBindJSON(&g); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.store.UpsertGroup(g); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, g)
}

// Delete handles DELETE /admin/api/groups/:name.
func (a *GroupsAPI) Delete(c *gin.Context) {
	name := c.Param("name")
	if err := a.store.DeleteGroup(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

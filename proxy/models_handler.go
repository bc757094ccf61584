package proxy

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"llmgateway/config"
)

// ModelsHandler serves GET /v1/models, listing configured groups as the
// model ids clients may request.
type ModelsHandler struct {
	store *config.Store
}

// NewModelsHandler creates a models handler over store.
func NewModelsHandler(store *config.Store) *ModelsHandler {
	return &ModelsHandler{store: store}
}

// HandleListModels handles GET /v1/models.
func (h *ModelsHandler) HandleListModels(c *gin.Context) {
	groups := h.store.ListGroups()

	now := time.Now().UnixMilli()

	data := make([]map[string]interface{}, 0, len(groups))
	for _, g := range groups {
		data = append(data, map[string]interface{}{
			"id":       g.Name,
			"object":   "model",
			"created":  now,
			"owned_by": "gateway",
			"protocol": g.Protocol,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   data,
	})
}

package api

import (
	"github.com/gin-gonic/gin"

	"llmgateway/auth"
	"llmgateway/config"
	"llmgateway/health"
)

// RegisterRoutes mounts the admin surface under /admin/api, behind
// auth.AdminAuth.
func RegisterRoutes(r *gin.Engine, store *config.Store, tracker *health.Tracker, logDir string) {
	providers := NewProvidersAPI(store)
	groups := NewGroupsAPI(store)
	keys := NewKeysAPI(store)
	stats := NewStatsAPI(store)
	healthAPI := NewHealthAPI(store, tracker)
	logs := NewLogsAPI(logDir)
	probe := NewProbeAPI(store)

	admin := r.Group("/admin/api", auth.AdminAuth())

	admin.GET("/providers", providers.List)
	admin.POST("/providers", providers.Upsert)
	admin.DELETE("/providers/:name", providers.Delete)
	admin.GET("/providers/:name/models", probe.Probe)

	admin.GET("/groups", groups.List)
	admin.POST("/groups", groups.Upsert)
	admin.DELETE("/groups/:name", groups.Delete)

	admin.GET("/keys", keys.List)
	admin.POST("/keys", keys.Upsert)
	admin.DELETE("/keys/:id", keys.Delete)

	admin.GET("/stats", stats.Get)

	admin.GET("/health", healthAPI.List)
	admin.GET("/health/:provider", healthAPI.Get)
	admin.POST("/health/reset", healthAPI.ResetAll)
	admin.POST("/health/:provider/reset", healthAPI.ResetOne)

	admin.GET("/logs", logs.Query)
	admin.POST("/logs/clear", logs.Clear)
}

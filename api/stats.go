package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"llmgateway/config"
)

// StatsAPI exposes the read-only aggregate-stats snapshot.
type StatsAPI struct {
	store *config.Store
}

// NewStatsAPI creates a StatsAPI over store.
func NewStatsAPI(store *config.Store) *StatsAPI {
	return &StatsAPI{store: store}
}

// Get handles GET /admin/api/stats.
func (a *StatsAPI) Get(c *gin.Context) {
	c.JSON(http.StatusOK, a.store.GetStats())
}

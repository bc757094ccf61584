package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"llmgateway/config"
	"llmgateway/health"
)

// referenceBaseWeight is the weight health status is reported against. It is
// not tied to any group's position-dependent base weight (§4.1); it is a
// fixed reference so a provider's ratio is comparable across groups.
const referenceBaseWeight = 1000.0

// HealthAPI exposes health-tracker inspection and reset operations.
type HealthAPI struct {
	store   *config.Store
	tracker *health.Tracker
}

// NewHealthAPI creates a HealthAPI over store and tracker.
func NewHealthAPI(store *config.Store, tracker *health.Tracker) *HealthAPI {
	return &HealthAPI{store: store, tracker: tracker}
}

type providerHealth struct {
	Base             float64         `json:"base"`
	Current          float64         `json:"current"`
	Ratio            float64         `json:"ratio"`
	RecentErrorCount int             `json:"recentErrorCount"`
	LastError        *string         `json:"lastError"`
	TotalFailures    int64           `json:"totalFailures"`
	WindowMs         int64           `json:"windowMs"`
}

func (a *HealthAPI) snapshot(name string) providerHealth {
	stats := a.tracker.Stats(name)
	current := a.tracker.Weight(name, referenceBaseWeight)

	var lastError *string
	if stats.LastError != nil {
		s := stats.LastError.Format("2006-01-02T15:04:05Z07:00")
		lastError = &s
	}

	allStats := a.store.GetStats()
	var totalFailures int64
	if st, ok := allStats[name]; ok {
		totalFailures = st.Failures
	}

	return providerHealth{
		Base:             referenceBaseWeight,
		Current:          current,
		Ratio:            current / referenceBaseWeight,
		RecentErrorCount: stats.RecentErrorCount,
		LastError:        lastError,
		TotalFailures:    totalFailures,
		WindowMs:         stats.WindowMs,
	}
}

// List handles GET /admin/api/health: a per-provider snapshot for every
// configured provider.
func (a *HealthAPI) List(c *gin.Context) {
	providers := a.store.ListProviders()
	out := make(map[string]providerHealth, len(providers))
	for _, p := range providers {
		out[p.Name] = a.snapshot(p.Name)
	}
	c.JSON(http.StatusOK, out)
}

// Get handles GET /admin/api/health/:provider, the per-provider convenience
// endpoint: the same snapshot scoped to one provider.
func (a *HealthAPI) Get(c *gin.Context) {
	name := c.Param("provider")
	if _, ok := a.store.GetProvider(name); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "provider not found"})
		return
	}
	c.JSON(http.StatusOK, a.snapshot(name))
}

// ResetOne handles POST /admin/api/health/:provider/reset.
func (a *HealthAPI) ResetOne(c *gin.Context) {
	a.tracker.Reset(c.Param("provider"))
	c.Status(http.StatusNoContent)
}

// ResetAll handles POST /admin/api/health/reset.
func (a *HealthAPI) ResetAll(c *gin.Context) {
	a.tracker.ResetAll()
	c.Status(http.StatusNoContent)
}

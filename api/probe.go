package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"llmgateway/config"
	"llmgateway/provider"
)

const probeTimeout = 10 * time.Second

// ProbeAPI probes a configured provider's own /v1/models endpoint.
type ProbeAPI struct {
	store *config.Store
}

// NewProbeAPI creates a ProbeAPI over store.
func NewProbeAPI(store *config.Store) *ProbeAPI {
	return &ProbeAPI{store: store}
}

type probeModel struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// Probe handles GET /admin/api/providers/:name/models: GET
// <endpoint.origin>/v1/models with a 10s timeout, normalized into
// {object:"list", data:[...]}.
func (a *ProbeAPI) Probe(c *gin.Context) {
	name := c.Param("name")
	p, ok := a.store.GetProvider(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "provider not found"})
		return
	}

	endpoint, err := url.Parse(p.Endpoint)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "invalid provider endpoint"})
		return
	}
	origin := endpoint.Scheme + "://" + endpoint.Host

	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/v1/models", nil)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	provider.InjectAuth(req.Header, p)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream model probe failed", "status": resp.StatusCode})
		return
	}

	var raw struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not parse upstream model list"})
		return
	}

	models := make([]probeModel, 0, len(raw.Data))
	for _, m := range raw.Data {
		id, _ := m["id"].(string)
		if id == "" {
			continue
		}

		created, _ := m["created"].(float64)
		createdMs := int64(created)
		if createdMs == 0 {
			createdMs = time.Now().UnixMilli()
		}

		models = append(models, probeModel{ID: id, Object: "model", Created: createdMs, OwnedBy: name})
	}

	c.JSON(http.StatusOK, gin.H{"object": "list", "data": models})
}

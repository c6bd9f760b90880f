package api

import (
	"errors"
	"net/http"

	appmonitor "ipwatch/internal/application/monitor"
	"ipwatch/internal/domain/inventory"
	"ipwatch/internal/domain/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"     // swagger embed files
	ginSwagger "github.com/swaggo/gin-swagger" // gin-swagger middleware

	_ "ipwatch/docs" // swagger docs
)

// Handler handles HTTP requests for the utilization API
type Handler struct {
	collector *appmonitor.Service
	store     *appmonitor.SnapshotStore
	wsManager *WebSocketManager
}

// NewHandler creates a new API handler
func NewHandler(collector *appmonitor.Service, store *appmonitor.SnapshotStore) *Handler {
	return &Handler{
		collector: collector,
		store:     store,
		wsManager: NewWebSocketManager(),
	}
}

// WSManager exposes the websocket manager so the runner can broadcast
// snapshots to subscribers.
func (h *Handler) WSManager() *WebSocketManager { return h.wsManager }

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	api := r.Group("/api/v1")
	{
		networks := api.Group("/networks", authMiddleware)
		{
			networks.GET("/:networkId/utilization", h.GetUtilization)
			networks.GET("/:networkId/utilization/latest", h.GetLatestUtilization)
		}

		api.GET("/ws/:networkId", h.HandleWebSocket)
		api.GET("/health", h.Health)
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// GetUtilization godoc
//
// @Summary      Collect network utilization now
// @Description  Runs a collection pass against the inventory, publishes the metrics batch and returns the detailed report
// @Tags         networks
// @Produce      json
// @Param        networkId  path string true "Network identifier"
// @Success      200 {object} monitor.UtilizationSnapshot
// @Failure      404 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Security     BearerAuth
// @Router       /networks/{networkId}/utilization [get]
func (h *Handler) GetUtilization(c *gin.Context) {
	networkID := c.Param("networkId")

	snap, err := h.collector.Run(c.Request.Context(), networkID)
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrNetworkNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "network not found"})
			return
		case errors.Is(err, metrics.ErrPublishFailed) && snap != nil:
			// The snapshot is complete; only the sink write failed.
			log.Warn().Err(err).Str("network_id", networkID).Msg("on-demand snapshot not published")
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	h.store.Put(snap)
	c.JSON(http.StatusOK, snap)
}

// GetLatestUtilization godoc
//
// @Summary      Latest collected utilization
// @Description  Returns the most recent snapshot recorded by the scheduled runner without triggering a new pass
// @Tags         networks
// @Produce      json
// @Param        networkId  path string true "Network identifier"
// @Success      200 {object} monitor.UtilizationSnapshot
// @Failure      404 {object} map[string]string
// @Security     BearerAuth
// @Router       /networks/{networkId}/utilization/latest [get]
func (h *Handler) GetLatestUtilization(c *gin.Context) {
	networkID := c.Param("networkId")

	snap := h.store.Latest(networkID)
	if snap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot collected yet"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Health godoc
//
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/brand-mentions/internal/http/middleware"
	"github.com/tbourn/brand-mentions/internal/hub"
)

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status               string  `json:"status" example:"healthy"`
	Version              string  `json:"version" example:"1.0.0"`
	MonitoringActive     bool    `json:"monitoring_active"`
	CurrentBrand         *string `json:"current_brand"`
	PlatformsCount       int     `json:"platforms_count"`
	WebsocketConnections int     `json:"websocket_connections"`
}

// Health godoc
// @ID          health
// @Summary     Liveness and monitoring summary
// @Tags        System
// @Produce     json
// @Success     200  {object}  handlers.HealthResponse
// @Router      /health [get]
func (h *Handlers) Health(c *gin.Context) {
	st := h.monitoring.Status(c.Request.Context())
	resp := HealthResponse{
		Status:           "healthy",
		Version:          h.version,
		MonitoringActive: st.IsActive,
		CurrentBrand:     st.CurrentBrand,
		PlatformsCount:   st.PlatformsCount,
	}
	if h.hub != nil {
		resp.WebsocketConnections = h.hub.Count()
	}
	ok(c, http.StatusOK, resp)
}

// WebSocket godoc
// @ID          websocket
// @Summary     Live mention feed
// @Description Upgrades to a WebSocket that receives {type, data} frames: connected, mention, status, error, ping.
// @Tags        System
// @Success     101  "Switching Protocols"
// @Router      /ws [get]
func (h *Handlers) WebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		middleware.LoggerFrom(c).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	st := h.monitoring.Status(c.Request.Context())
	h.hub.Serve(c.Request.Context(), hub.NewWSListener(conn, h.wsWriteTimeout), hub.ConnectedEvent(st.Platforms))
}

package handler

import (
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/yashvavaliya/DBC-new-section/internal/sse"
	"github.com/yashvavaliya/DBC-new-section/internal/utils"
)

// pingInterval keeps idle SSE connections alive through proxies.
const pingInterval = 30 * time.Second

// SSEHandler streams catalog updates to connected admin clients.
type SSEHandler struct {
	hub *sse.Hub
}

// NewSSEHandler creates a new SSEHandler.
func NewSSEHandler(hub *sse.Hub) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// Stream handles GET /v1/admin/events?token=<jwt>
// The EventSource API cannot set custom headers, so the JWT arrives as a
// query parameter instead of an Authorization header.
func (h *SSEHandler) Stream(c *gin.Context) {
	claims, err := utils.ValidateJWT(c.Query("token"))
	if err != nil {
		utils.Error(c, 401, "INVALID_TOKEN", "Missing, invalid or expired token")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable nginx buffering

	clientID := fmt.Sprintf("admin-%d-%d", claims.UserID, time.Now().UnixNano())
	client := h.hub.Register(clientID)
	defer h.hub.Unregister(clientID)

	c.SSEvent("connected", gin.H{
		"clientId":  clientID,
		"timestamp": time.Now().Format(time.RFC3339),
	})
	c.Writer.Flush()

	log.Info().Str("client_id", clientID).Int("user_id", claims.UserID).Msg("Admin SSE stream started")

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case data, ok := <-client.Events:
			if !ok {
				return false
			}
			c.SSEvent(string(sse.EventCatalogUpdated), string(data))
			return true
		case <-ping.C:
			c.SSEvent("ping", gin.H{"timestamp": time.Now().Format(time.RFC3339)})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

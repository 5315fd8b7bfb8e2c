package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/botanica-backend/internal/observability"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
	"github.com/yungbote/botanica-backend/internal/realtime"
)

type RealtimeHandler struct {
	log     *logger.Logger
	hub     *realtime.SSEHub
	metrics *observability.Metrics
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub, metrics *observability.Metrics) *RealtimeHandler {
	return &RealtimeHandler{log: log, hub: hub, metrics: metrics}
}

// GET /api/live-updates/stream?projectId=
// Every stream receives the public impact feed; projectId adds that project's
// status and milestone events.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	sid := sessionID(c)
	client := h.hub.NewSSEClient(sid)
	h.hub.AddChannel(client, realtime.ChannelImpact)
	if projectID := c.Query("projectId"); projectID != "" {
		h.hub.AddChannel(client, realtime.ProjectChannel(projectID))
	}
	h.metrics.SSEClientConnected()
	h.log.Debug("SSE stream open", "session_id", sid, "client_id", client.ID.String())

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.hub.CloseClient(client)
	h.metrics.SSEClientDisconnected()
	h.log.Debug("SSE stream closed", "session_id", sid, "client_id", client.ID.String())
}

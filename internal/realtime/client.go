package realtime

import (
	"github.com/google/uuid"

	"github.com/yungbote/botanica-backend/internal/platform/logger"
)

// outboundBuffer is how many messages a slow client may lag before drops start.
const outboundBuffer = 16

type SSEClient struct {
	ID        uuid.UUID
	SessionID string
	Channels  map[string]bool
	Outbound  chan SSEMessage
	done      chan struct{}
	Logger    *logger.Logger
}

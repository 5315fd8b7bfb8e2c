// Package bus carries realtime messages between service instances so every
// instance's SSE hub sees every event.
package bus

import (
	"context"

	"github.com/yungbote/botanica-backend/internal/realtime"
)

type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	// StartForwarder delivers every published message to onMsg until ctx ends.
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}

package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/botanica-backend/internal/config"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
	"github.com/yungbote/botanica-backend/internal/realtime/bus"
)

var newRedisBus = bus.NewRedisBus

// wireBus picks the redis fan-out when REDIS_ADDR is set and the in-process
// loopback otherwise.
func wireBus(ctx context.Context, log *logger.Logger, cfg *config.Config) (bus.Bus, error) {
	log.Info("Wiring realtime bus...")
	addr := strings.TrimSpace(cfg.Redis.Addr)
	if addr == "" {
		log.Info("Realtime bus is local; events stay in this instance")
		return bus.NewLocalBus(), nil
	}
	b, err := newRedisBus(ctx, log, bus.RedisOptions{Addr: addr, Channel: cfg.Redis.Channel})
	if err != nil {
		return nil, fmt.Errorf("init redis SSE bus: %w", err)
	}
	log.Info("Realtime bus connected", "redis_addr", addr, "channel", cfg.Redis.Channel)
	return b, nil
}

package bus

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yungbote/botanica-backend/internal/platform/logger"
	"github.com/yungbote/botanica-backend/internal/realtime"
)

func TestLocalBus_ForwardsUntilCancelled(t *testing.T) {
	b := NewLocalBus()
	t.Cleanup(func() { _ = b.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan realtime.SSEMessage, 4)
	if err := b.StartForwarder(ctx, func(m realtime.SSEMessage) { got <- m }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}

	msg := realtime.SSEMessage{Channel: realtime.ChannelImpact, Event: realtime.SSEEventLiveUpdate}
	if err := b.Publish(context.Background(), msg); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	select {
	case m := <-got:
		if m.Event != realtime.SSEEventLiveUpdate {
			t.Fatalf("event: want=%s got=%s", realtime.SSEEventLiveUpdate, m.Event)
		}
	case <-time.After(time.Second):
		t.Fatalf("message not forwarded")
	}

	cancel()
	deadline := time.Now().Add(time.Second)
	for {
		lb := b.(*localBus)
		lb.mu.RLock()
		n := len(lb.handlers)
		lb.mu.RUnlock()
		if n == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("forwarder not removed after cancel")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if err := b.Publish(context.Background(), msg); err != nil {
		t.Fatalf("Publish after cancel: %v", err)
	}
	select {
	case m := <-got:
		t.Fatalf("unexpected delivery after cancel: %+v", m)
	default:
	}
}

func TestLocalBus_RejectsAfterClose(t *testing.T) {
	b := NewLocalBus()
	_ = b.Close()
	if err := b.Publish(context.Background(), realtime.SSEMessage{Channel: "x"}); err == nil {
		t.Fatalf("expected publish on closed bus to fail")
	}
	if err := b.StartForwarder(context.Background(), func(realtime.SSEMessage) {}); err == nil {
		t.Fatalf("expected forwarder on closed bus to fail")
	}
}

func TestNewRedisBus_RequiresAddr(t *testing.T) {
	if _, err := NewRedisBus(context.Background(), logger.Nop(), RedisOptions{}); err == nil {
		t.Fatalf("expected missing addr error")
	}
}

func TestRedisBus_RoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	b, err := NewRedisBus(ctx, logger.Nop(), RedisOptions{Addr: addr, Channel: "botanica:test"})
	if err != nil {
		t.Fatalf("NewRedisBus: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	got := make(chan realtime.SSEMessage, 1)
	if err := b.StartForwarder(ctx, func(m realtime.SSEMessage) { got <- m }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	if err := b.Publish(ctx, realtime.SSEMessage{Channel: realtime.ChannelImpact, Event: realtime.SSEEventProjectUpdated}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	select {
	case m := <-got:
		if m.Channel != realtime.ChannelImpact || m.Event != realtime.SSEEventProjectUpdated {
			t.Fatalf("unexpected message: %+v", m)
		}
	case <-ctx.Done():
		t.Fatalf("message not received")
	}
}

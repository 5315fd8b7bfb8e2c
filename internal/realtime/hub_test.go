package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/botanica-backend/internal/platform/logger"
)

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHub_OrderingAndReconnect(t *testing.T) {
	hub := NewSSEHub(logger.Nop())

	clientA := hub.NewSSEClient(uuid.NewString())
	hub.AddChannel(clientA, ChannelImpact)

	hub.Broadcast(SSEMessage{Channel: ChannelImpact, Event: SSEEventLiveUpdate, Data: map[string]any{"seq": 1}})
	hub.Broadcast(SSEMessage{Channel: ChannelImpact, Event: SSEEventProjectUpdated, Data: map[string]any{"seq": 2}})

	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventLiveUpdate {
		t.Fatalf("first event: want=%s got=%s", SSEEventLiveUpdate, got.Event)
	}
	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventProjectUpdated {
		t.Fatalf("second event: want=%s got=%s", SSEEventProjectUpdated, got.Event)
	}

	hub.CloseClient(clientA)
	if _, ok := <-clientA.Outbound; ok {
		t.Fatalf("clientA outbound should be closed after disconnect")
	}
	if n := hub.Subscribers(ChannelImpact); n != 0 {
		t.Fatalf("subscribers after close: want=0 got=%d", n)
	}
	// closing twice must not panic
	hub.CloseClient(clientA)

	clientB := hub.NewSSEClient(uuid.NewString())
	hub.AddChannel(clientB, ChannelImpact)
	hub.Broadcast(SSEMessage{Channel: ChannelImpact, Event: SSEEventMilestoneAchieved})
	if got := recvMessage(t, clientB.Outbound, time.Second); got.Event != SSEEventMilestoneAchieved {
		t.Fatalf("reconnect event: want=%s got=%s", SSEEventMilestoneAchieved, got.Event)
	}
}

func TestSSEHub_ChannelScoping(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	projectID := uuid.NewString()

	scoped := hub.NewSSEClient(uuid.NewString())
	hub.AddChannel(scoped, ProjectChannel(projectID))
	other := hub.NewSSEClient(uuid.NewString())
	hub.AddChannel(other, ProjectChannel(uuid.NewString()))

	hub.Broadcast(SSEMessage{Channel: ProjectChannel(projectID), Event: SSEEventLiveUpdate})
	recvMessage(t, scoped.Outbound, time.Second)
	select {
	case msg := <-other.Outbound:
		t.Fatalf("unexpected delivery to other project: %+v", msg)
	default:
	}

	hub.RemoveChannel(scoped, ProjectChannel(projectID))
	hub.Broadcast(SSEMessage{Channel: ProjectChannel(projectID), Event: SSEEventLiveUpdate})
	select {
	case msg := <-scoped.Outbound:
		t.Fatalf("unexpected delivery after unsubscribe: %+v", msg)
	default:
	}
}

func TestSSEHub_BroadcastDropsWhenBufferFull(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	client := hub.NewSSEClient(uuid.NewString())
	hub.AddChannel(client, ChannelImpact)

	for i := 0; i < outboundBuffer+5; i++ {
		hub.Broadcast(SSEMessage{Channel: ChannelImpact, Event: SSEEventLiveUpdate, Data: i})
	}
	if got := len(client.Outbound); got != outboundBuffer {
		t.Fatalf("buffered: want=%d got=%d", outboundBuffer, got)
	}
}

func TestSSEHub_ServeHTTPWritesEvents(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	client := hub.NewSSEClient(uuid.NewString())
	hub.AddChannel(client, ChannelImpact)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/live-updates/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.ServeHTTP(rec, req, client)
	}()

	hub.Broadcast(SSEMessage{Channel: ChannelImpact, Event: SSEEventLiveUpdate, Data: map[string]string{"title": "Well dug"}})
	deadline := time.After(time.Second)
	for len(client.Outbound) > 0 {
		select {
		case <-deadline:
			t.Fatalf("message never consumed")
		case <-time.After(5 * time.Millisecond):
		}
	}
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type: %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "event: LiveImpactUpdate\n") || !strings.Contains(body, `"title":"Well dug"`) {
		t.Fatalf("unexpected stream body: %q", body)
	}
}

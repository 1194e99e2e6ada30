package hub

import (
	"context"
	"testing"

	"chat-relay/internal/domain"
)

func TestPushDropsWhenQueueFull(t *testing.T) {
	h := newTestHub(&fakeStore{})
	c := newTestClient(h, "u1")

	for i := 0; i < sendQueueSize; i++ {
		if !c.Push([]byte("x")) {
			t.Fatalf("Push() = false before the queue filled (frame %d)", i)
		}
	}
	if c.Push([]byte("overflow")) {
		t.Error("Push() = true on a full queue, want false")
	}
}

func TestPushAfterCloseReturnsFalse(t *testing.T) {
	h := newTestHub(&fakeStore{})
	c := newTestClient(h, "u1")

	c.close()
	c.close() // idempotent

	if c.Push([]byte("late")) {
		t.Error("Push() = true after close, want false")
	}
}

// A connection that disconnects mid-route is skipped, the remaining targets
// still receive the message.
func TestFanOutSkipsDisconnectedClient(t *testing.T) {
	store := &fakeStore{}
	h := newTestHub(store)

	sender := newTestClient(h, "u1")
	gone := newTestClient(h, "u2")
	alive := newTestClient(h, "u2")
	for _, c := range []*Client{sender, gone, alive} {
		connect(t, h, c)
	}

	gone.close()

	sendMessage(h, sender, domain.SendMessagePayload{Content: "hi", ReceiverID: "u2"})

	if got := framesOfType(t, alive, domain.EventNewMessage); len(got) != 1 {
		t.Errorf("live device got %d messages, want 1", len(got))
	}
	if store.persistCalls() != 1 {
		t.Errorf("store received %d persist calls, want 1", store.persistCalls())
	}

	// The full lifecycle cleanup still works afterwards.
	h.handleDisconnect(context.Background(), gone)
	if !h.registry.IsOnline("u2") {
		t.Error("u2 should stay online through the remaining device")
	}
}

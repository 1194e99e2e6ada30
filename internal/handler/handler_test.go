package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"chat-relay/internal/domain"
	"chat-relay/internal/handler"
	"chat-relay/internal/hub"
	"chat-relay/internal/registry"
)

// staticResolver resolves any token of the form "user:<id>".
type staticResolver struct{}

func (staticResolver) Resolve(_ context.Context, token string) (string, error) {
	if userID, ok := strings.CutPrefix(token, "user:"); ok && userID != "" {
		return userID, nil
	}
	return "", domain.ErrUnresolved
}

type memoryStore struct {
	mu     sync.Mutex
	nextID int
}

func (s *memoryStore) Persist(_ context.Context, msg *domain.Message) (*domain.StoredMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return &domain.StoredMessage{
		ID:         fmt.Sprintf("m%d", s.nextID),
		Content:    msg.Content,
		SenderID:   msg.SenderID,
		ReceiverID: msg.Destination.UserID,
		GroupID:    msg.Destination.GroupID,
		CreatedAt:  time.Now(),
	}, nil
}

func (s *memoryStore) History(context.Context, domain.Destination, int64) ([]*domain.StoredMessage, error) {
	return nil, nil
}

type noopPresence struct{}

func (noopPresence) SetOnline(context.Context, string, bool) error { return nil }

func (noopPresence) QueryOnlineUserIDs(context.Context) ([]string, error) { return nil, nil }

func (noopPresence) ResetAll(context.Context) error { return nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := registry.New()
	store := &memoryStore{}
	h := hub.NewHub(reg, store, noopPresence{}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)

	ws := handler.NewWebsocketHandler(h, staticResolver{}, logger)
	api := handler.NewAPIHandler(reg, noopPresence{}, store, logger)
	srv := httptest.NewServer(handler.NewRouter(ws, api))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// awaitEvent reads frames until one of the wanted type arrives.
func awaitEvent(t *testing.T, conn *websocket.Conn, eventType string) domain.WebSocketMessage {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	conn.SetReadDeadline(deadline)
	for time.Now().Before(deadline) {
		var msg domain.WebSocketMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read failed while waiting for %q: %v", eventType, err)
		}
		if msg.Type == eventType {
			return msg
		}
	}
	t.Fatalf("no %q event within deadline", eventType)
	return domain.WebSocketMessage{}
}

func remarshal(t *testing.T, payload interface{}, result interface{}) {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(raw, result); err != nil {
		t.Fatal(err)
	}
}

func TestConnectReceivesPresence(t *testing.T) {
	srv := newTestServer(t)

	conn := dial(t, srv, "user:u1")

	msg := awaitEvent(t, conn, domain.EventOnlineUsers)
	var online []string
	remarshal(t, msg.Payload, &online)
	if len(online) != 1 || online[0] != "u1" {
		t.Errorf("online set = %v, want [u1]", online)
	}
}

func TestGroupMessageEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	a := dial(t, srv, "user:u1")
	b := dial(t, srv, "user:u2")
	awaitEvent(t, a, domain.EventOnlineUsers)
	awaitEvent(t, b, domain.EventOnlineUsers)

	// B joins g1 and waits for the ack so membership is in place.
	if err := b.WriteJSON(domain.WebSocketMessage{
		Type:    domain.EventJoinGroup,
		Payload: domain.GroupPayload{GroupID: "g1"},
	}); err != nil {
		t.Fatal(err)
	}
	ackMsg := awaitEvent(t, b, domain.EventAck)
	var ack domain.AckPayload
	remarshal(t, ackMsg.Payload, &ack)
	if ack.Status != domain.StatusSuccess {
		t.Fatalf("join-group ack = %+v, want success", ack)
	}

	if err := a.WriteJSON(domain.WebSocketMessage{
		Type:    domain.EventSendMessage,
		Payload: domain.SendMessagePayload{Content: "hi", GroupID: "g1"},
	}); err != nil {
		t.Fatal(err)
	}

	newMsg := awaitEvent(t, b, domain.EventNewMessage)
	var stored domain.StoredMessage
	remarshal(t, newMsg.Payload, &stored)
	if stored.Content != "hi" || stored.SenderID != "u1" || stored.GroupID != "g1" || stored.ID == "" {
		t.Errorf("delivered message = %+v", stored)
	}

	senderAck := awaitEvent(t, a, domain.EventAck)
	remarshal(t, senderAck.Payload, &ack)
	if ack.Status != domain.StatusSuccess || ack.MessageID == "" {
		t.Errorf("send-message ack = %+v, want success with message id", ack)
	}
}

func TestUnresolvedConnectionStaysOpenButUntracked(t *testing.T) {
	srv := newTestServer(t)

	conn := dial(t, srv, "bogus")

	if err := conn.WriteJSON(domain.WebSocketMessage{
		Type:    domain.EventSendMessage,
		Payload: domain.SendMessagePayload{Content: "hi", ReceiverID: "u2"},
	}); err != nil {
		t.Fatal(err)
	}

	ackMsg := awaitEvent(t, conn, domain.EventAck)
	var ack domain.AckPayload
	remarshal(t, ackMsg.Payload, &ack)
	if ack.Status != domain.StatusError {
		t.Errorf("ack = %+v, want error for unauthenticated send", ack)
	}
}

package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"chat-relay/internal/domain"
	"chat-relay/internal/registry"
	"chat-relay/internal/service"
)

const (
	// sendQueueSize bounds each client's outbound queue; frames beyond it
	// are dropped rather than blocking fan-out.
	sendQueueSize = 256

	// inboundQueueSize bounds the shared inbound work queue.
	inboundQueueSize = 512

	// routeWorkers is the number of goroutines consuming the inbound queue,
	// so store latency on one message never stalls the others.
	routeWorkers = 8
)

// clientRequest bundles a client with one of their inbound envelopes.
type clientRequest struct {
	client  *Client
	message domain.WebSocketMessage
}

// Hub owns the set of live clients, drives the connection registry and fans
// chat traffic out to its destinations.
type Hub struct {
	registry *registry.Registry
	store    service.MessageStore
	presence service.PresenceStore
	logger   *slog.Logger

	register   chan *Client
	unregister chan *Client
	inbound    chan *clientRequest

	clients map[*Client]bool // owned by the Run loop
}

func NewHub(reg *registry.Registry, store service.MessageStore, presence service.PresenceStore, logger *slog.Logger) *Hub {
	return &Hub{
		registry:   reg,
		store:      store,
		presence:   presence,
		logger:     logger.With(slog.String("component", "hub")),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan *clientRequest, inboundQueueSize),
		clients:    make(map[*Client]bool),
	}
}

// Run drives the connection lifecycle until ctx is cancelled. Inbound
// envelopes are consumed by a worker pool so persistence I/O never blocks
// connect and disconnect handling.
func (h *Hub) Run(ctx context.Context) {
	for i := 0; i < routeWorkers; i++ {
		go h.worker(ctx)
	}

	for {
		select {
		case client := <-h.register:
			h.handleConnect(ctx, client)
		case client := <-h.unregister:
			h.handleDisconnect(ctx, client)
		case <-ctx.Done():
			for client := range h.clients {
				client.close()
			}
			return
		}
	}
}

// ServeWS takes ownership of an upgraded connection. userID is empty when
// identity resolution failed; the connection stays open but untracked.
func (h *Hub) ServeWS(conn *websocket.Conn, userID string) {
	client := &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Hub:    h,
		Conn:   conn,
		send:   make(chan []byte, sendQueueSize),
		done:   make(chan struct{}),
	}
	h.register <- client
	go client.writePump()
	go client.readPump()
}

func (h *Hub) handleConnect(ctx context.Context, client *Client) {
	h.clients[client] = true

	if client.UserID == "" {
		h.logger.Info("unresolved connection accepted", slog.String("connID", client.ID))
		return
	}

	cameOnline := h.registry.Register(client.ID, client.UserID, client)
	h.logger.Info("client connected",
		slog.String("connID", client.ID),
		slog.String("userID", client.UserID),
		slog.Bool("cameOnline", cameOnline),
	)

	if cameOnline {
		h.broadcastPresence()
		h.syncDurablePresence(ctx, client.UserID, true)
	} else {
		// The online set did not change; only the new connection needs the
		// current snapshot.
		client.sendEvent(domain.EventOnlineUsers, h.registry.OnlineUserIDs())
	}
}

func (h *Hub) handleDisconnect(ctx context.Context, client *Client) {
	if !h.clients[client] {
		return
	}
	delete(h.clients, client)
	client.close()

	userID, wentOffline, existed := h.registry.Unregister(client.ID)
	if !existed {
		return
	}
	h.logger.Info("client disconnected",
		slog.String("connID", client.ID),
		slog.String("userID", userID),
		slog.Bool("wentOffline", wentOffline),
	)

	if wentOffline {
		h.broadcastPresence()
		h.syncDurablePresence(ctx, userID, false)
	}
}

func (h *Hub) worker(ctx context.Context) {
	for {
		select {
		case req := <-h.inbound:
			h.handleRequest(ctx, req)
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) handleRequest(ctx context.Context, req *clientRequest) {
	switch req.message.Type {
	case domain.EventSendMessage:
		h.handleSendMessage(ctx, req)
	case domain.EventJoinGroup:
		h.handleJoinGroup(req)
	case domain.EventLeaveGroup:
		h.handleLeaveGroup(req)
	case domain.EventTypingStart:
		h.handleTyping(req, true)
	case domain.EventTypingStop:
		h.handleTyping(req, false)
	default:
		req.client.sendAck(req.message.Type, domain.StatusError,
			fmt.Sprintf("unknown message type: %s", req.message.Type), "")
	}
}

func (h *Hub) handleSendMessage(ctx context.Context, req *clientRequest) {
	var payload domain.SendMessagePayload
	if err := parsePayload(req.message.Payload, &payload); err != nil {
		req.client.sendAck(domain.EventSendMessage, domain.StatusError, "invalid send-message payload", "")
		return
	}

	stored, err := h.route(ctx, req.client, payload)
	if err != nil {
		req.client.sendAck(domain.EventSendMessage, domain.StatusError, err.Error(), "")
		return
	}
	req.client.sendAck(domain.EventSendMessage, domain.StatusSuccess, "message sent", stored.ID)
}

func (h *Hub) handleJoinGroup(req *clientRequest) {
	var payload domain.GroupPayload
	if err := parsePayload(req.message.Payload, &payload); err != nil || payload.GroupID == "" {
		req.client.sendAck(domain.EventJoinGroup, domain.StatusError, "invalid join-group payload", "")
		return
	}
	if !h.registry.JoinGroup(req.client.ID, payload.GroupID) {
		req.client.sendAck(domain.EventJoinGroup, domain.StatusError, domain.ErrUnauthenticated.Error(), "")
		return
	}
	h.logger.Debug("joined group", slog.String("connID", req.client.ID), slog.String("groupID", payload.GroupID))
	req.client.sendAck(domain.EventJoinGroup, domain.StatusSuccess, "joined group", "")
}

func (h *Hub) handleLeaveGroup(req *clientRequest) {
	var payload domain.GroupPayload
	if err := parsePayload(req.message.Payload, &payload); err != nil || payload.GroupID == "" {
		req.client.sendAck(domain.EventLeaveGroup, domain.StatusError, "invalid leave-group payload", "")
		return
	}
	h.registry.LeaveGroup(req.client.ID, payload.GroupID)
	req.client.sendAck(domain.EventLeaveGroup, domain.StatusSuccess, "left group", "")
}

func (h *Hub) handleTyping(req *clientRequest, isTyping bool) {
	var payload domain.TypingPayload
	if err := parsePayload(req.message.Payload, &payload); err != nil {
		return
	}
	h.relayTyping(req.client, payload, isTyping)
}

// fanOut pushes one marshalled envelope to every pusher, skipping targets
// that are gone or backed up.
func (h *Hub) fanOut(pushers []registry.Pusher, payload []byte) {
	dropped := 0
	for _, p := range pushers {
		if !p.Push(payload) {
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Debug("fan-out skipped unreachable connections", slog.Int("dropped", dropped))
	}
}

func marshalEvent(eventType string, payload interface{}) ([]byte, error) {
	return json.Marshal(domain.WebSocketMessage{Type: eventType, Payload: payload})
}

func parsePayload(payload interface{}, result interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return errors.New("failed to marshal payload")
	}
	return json.Unmarshal(raw, result)
}

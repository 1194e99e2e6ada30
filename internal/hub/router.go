package hub

import (
	"context"
	"fmt"
	"log/slog"

	"chat-relay/internal/domain"
	"chat-relay/internal/registry"
)

// route validates an inbound send request, persists it and fans the stored
// record out to its destination. Persistence completes before any fan-out
// begins: a store failure means no recipient sees the message. No registry
// lock is held across the store call.
func (h *Hub) route(ctx context.Context, sender *Client, payload domain.SendMessagePayload) (*domain.StoredMessage, error) {
	dest := domain.Destination{UserID: payload.ReceiverID, GroupID: payload.GroupID}
	if !dest.Valid() {
		return nil, domain.ErrBadDestination
	}

	senderID, ok := h.registry.UserID(sender.ID)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	msg := &domain.Message{
		Content:     payload.Content,
		SenderID:    senderID,
		Destination: dest,
	}
	stored, err := h.store.Persist(ctx, msg)
	if err != nil {
		h.logger.Error("failed to persist message",
			slog.String("senderID", senderID),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	raw, err := marshalEvent(domain.EventNewMessage, stored)
	if err != nil {
		return nil, err
	}
	h.fanOut(h.messageTargets(dest), raw)
	return stored, nil
}

// messageTargets resolves the destination to live connections. Direct
// messages fan out to every connection of the target user (multi-device);
// group messages reach every joined connection, the sender's own included
// when it has joined the group.
func (h *Hub) messageTargets(dest domain.Destination) []registry.Pusher {
	if dest.GroupID != "" {
		return h.registry.GroupPushers(dest.GroupID, "")
	}
	return h.registry.UserPushers(dest.UserID, "")
}

package hub

import (
	"log/slog"

	"chat-relay/internal/domain"
	"chat-relay/internal/registry"
)

// relayTyping forwards an ephemeral typing signal to the destination's live
// connections, excluding the sender's own. Typing signals are best-effort:
// nothing is persisted, no ack is returned, and an unresolved sender or a
// malformed destination drops the signal silently.
func (h *Hub) relayTyping(sender *Client, payload domain.TypingPayload, isTyping bool) {
	senderID, ok := h.registry.UserID(sender.ID)
	if !ok {
		return
	}

	dest := domain.Destination{UserID: payload.ReceiverID, GroupID: payload.GroupID}
	if !dest.Valid() {
		return
	}

	raw, err := marshalEvent(domain.EventUserTyping, domain.UserTypingPayload{
		UserID:   senderID,
		IsTyping: isTyping,
	})
	if err != nil {
		h.logger.Error("failed to marshal typing event", slog.Any("error", err))
		return
	}

	var targets []registry.Pusher
	if dest.GroupID != "" {
		targets = h.registry.GroupPushers(dest.GroupID, sender.ID)
	} else {
		targets = h.registry.UserPushers(dest.UserID, sender.ID)
	}
	h.fanOut(targets, raw)
}

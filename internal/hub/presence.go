package hub

import (
	"context"
	"log/slog"
	"time"

	"chat-relay/internal/domain"
)

// durableSyncTimeout caps the background write of the durable online flag.
const durableSyncTimeout = 5 * time.Second

// broadcastPresence snapshots the online user set and pushes the full set
// (not a delta) to every registered connection. Called from the Run loop
// after every registry mutation that changed the set.
func (h *Hub) broadcastPresence() {
	snapshot := h.registry.OnlineUserIDs()
	raw, err := marshalEvent(domain.EventOnlineUsers, snapshot)
	if err != nil {
		h.logger.Error("failed to marshal presence snapshot", slog.Any("error", err))
		return
	}
	h.fanOut(h.registry.AllPushers(), raw)
}

// syncDurablePresence mirrors a presence change into the durable store. The
// write is asynchronous and best-effort: the in-memory registry stays the
// authoritative real-time source and a failed write only costs the
// informational secondary view.
func (h *Hub) syncDurablePresence(ctx context.Context, userID string, online bool) {
	go func() {
		syncCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), durableSyncTimeout)
		defer cancel()
		if err := h.presence.SetOnline(syncCtx, userID, online); err != nil {
			h.logger.Warn("failed to sync durable presence flag",
				slog.String("userID", userID),
				slog.Bool("online", online),
				slog.Any("error", err),
			)
		}
	}()
}

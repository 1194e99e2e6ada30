package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"chat-relay/internal/domain"
	"chat-relay/internal/registry"
	"chat-relay/internal/service"
)

const defaultHistoryLimit = 50

// APIHandler serves the read-only HTTP endpoints next to the WebSocket
// route: presence snapshots and message history.
type APIHandler struct {
	registry *registry.Registry
	presence service.PresenceStore
	store    service.MessageStore
	logger   *slog.Logger
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(reg *registry.Registry, presence service.PresenceStore, store service.MessageStore, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		registry: reg,
		presence: presence,
		store:    store,
		logger:   logger.With(slog.String("component", "api_handler")),
	}
}

// HandlePresence handles GET /presence. The default source is the in-memory
// registry, the authoritative real-time view; ?source=store serves the
// eventually-consistent durable flags instead.
func (h *APIHandler) HandlePresence(w http.ResponseWriter, r *http.Request) {
	var (
		online []string
		err    error
	)
	if r.URL.Query().Get("source") == "store" {
		online, err = h.presence.QueryOnlineUserIDs(r.Context())
		if err != nil {
			h.logger.Error("failed to query durable presence", slog.Any("error", err))
			http.Error(w, "failed to query presence", http.StatusInternalServerError)
			return
		}
	} else {
		online = h.registry.OnlineUserIDs()
	}

	writeJSON(w, map[string][]string{"online": online})
}

// HandleMessages handles GET /messages?receiverId=...|groupId=...&limit=N.
func (h *APIHandler) HandleMessages(w http.ResponseWriter, r *http.Request) {
	dest := domain.Destination{
		UserID:  r.URL.Query().Get("receiverId"),
		GroupID: r.URL.Query().Get("groupId"),
	}
	if !dest.Valid() {
		http.Error(w, domain.ErrBadDestination.Error(), http.StatusBadRequest)
		return
	}

	limit := int64(defaultHistoryLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	messages, err := h.store.History(r.Context(), dest, limit)
	if err != nil {
		h.logger.Error("failed to query message history", slog.Any("error", err))
		http.Error(w, "failed to query messages", http.StatusInternalServerError)
		return
	}
	if messages == nil {
		messages = []*domain.StoredMessage{}
	}

	writeJSON(w, map[string]interface{}{"messages": messages})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

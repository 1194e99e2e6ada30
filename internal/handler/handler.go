package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"chat-relay/internal/domain"
	"chat-relay/internal/hub"
	"chat-relay/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// All origins allowed; origin policy belongs to the deployment proxy.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebsocketHandler upgrades HTTP requests to WebSocket sessions and resolves
// the connecting identity.
type WebsocketHandler struct {
	hub      *hub.Hub
	resolver service.IdentityResolver
	logger   *slog.Logger
}

// NewWebsocketHandler creates a new WebsocketHandler.
func NewWebsocketHandler(h *hub.Hub, resolver service.IdentityResolver, logger *slog.Logger) *WebsocketHandler {
	return &WebsocketHandler{
		hub:      h,
		resolver: resolver,
		logger:   logger.With(slog.String("component", "ws_handler")),
	}
}

// HandleConnection handles GET /ws?token=...
//
// A failed identity resolution does not reject the connection: the socket is
// upgraded and stays open but untracked, so presence and messaging remain
// unavailable to it until the client reconnects with valid credentials.
func (h *WebsocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	userID, err := h.resolver.Resolve(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		if !errors.Is(err, domain.ErrUnresolved) {
			h.logger.Error("identity resolution failed", slog.Any("error", err))
		}
		userID = ""
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", slog.Any("error", err))
		return
	}

	h.hub.ServeWS(conn, userID)
}

// NewRouter wires all HTTP routes.
func NewRouter(ws *WebsocketHandler, api *APIHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws", ws.HandleConnection).Methods(http.MethodGet)
	r.HandleFunc("/presence", api.HandlePresence).Methods(http.MethodGet)
	r.HandleFunc("/messages", api.HandleMessages).Methods(http.MethodGet)
	return r
}

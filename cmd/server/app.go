package main

import (
	"github.com/gorilla/mux"

	"chat-relay/internal/config"
	"chat-relay/internal/hub"
)

// App is the main application container.
type App struct {
	Hub    *hub.Hub
	Router *mux.Router
	Config *config.Config
}

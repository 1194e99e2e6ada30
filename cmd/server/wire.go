//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"chat-relay/internal/config"
	"chat-relay/internal/handler"
	"chat-relay/internal/hub"
	"chat-relay/internal/registry"
	"chat-relay/internal/repository/mongo"
	"chat-relay/internal/repository/postgres"
	"chat-relay/internal/service"
)

// InitializeApp creates a new application.
func InitializeApp() (*App, func(), error) {
	wire.Build(
		config.Load,
		provideLogger,
		// Database & Context Providers
		wire.NewSet(
			provideContext,
			providePostgresDB,
			provideMongoDB,
		),
		// Store Providers
		wire.NewSet(
			mongo.NewMessageRepository,
			wire.Bind(new(service.MessageStore), new(*mongo.MessageRepository)),

			providePresenceStore,
			wire.Bind(new(service.PresenceStore), new(*postgres.PresenceRepository)),

			provideResolver,
		),
		// Core Providers
		wire.NewSet(
			registry.New,
			hub.NewHub,
		),
		// HTTP Providers
		wire.NewSet(
			handler.NewWebsocketHandler,
			handler.NewAPIHandler,
			handler.NewRouter,
		),
		// App Provider
		wire.NewSet(
			wire.Struct(new(App), "*"),
		),
	)
	return nil, nil, nil
}

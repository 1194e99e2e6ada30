package main

import (
	"context"
	"database/sql"
	"log/slog"

	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"chat-relay/internal/config"
	"chat-relay/internal/identity"
	"chat-relay/internal/repository/mongo"
	"chat-relay/internal/repository/postgres"
	"chat-relay/internal/service"
)

func provideLogger() *slog.Logger {
	return slog.Default()
}

func provideContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	return ctx, func() { cancel() }
}

func providePostgresDB(cfg *config.Config, logger *slog.Logger) (*sql.DB, func(), error) {
	db, err := postgres.NewDB(cfg.PostgresURL)
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.RunMigrations(db, cfg.MigrationsPath); err != nil {
		db.Close()
		return nil, nil, err
	}
	cleanup := func() { db.Close() }
	return db, cleanup, nil
}

func provideMongoDB(ctx context.Context, cfg *config.Config) (*mongodriver.Database, func(), error) {
	db, err := mongo.NewDB(ctx, cfg.MongoURL, cfg.MongoDatabase)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { db.Client().Disconnect(ctx) }
	return db, cleanup, nil
}

// providePresenceStore resets stale durable flags left by a previous run;
// the in-memory registry starts empty, so the flags must too.
func providePresenceStore(ctx context.Context, db *sql.DB, logger *slog.Logger) (*postgres.PresenceRepository, error) {
	repo := postgres.NewPresenceRepository(db)
	if err := repo.ResetAll(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func provideResolver(cfg *config.Config) service.IdentityResolver {
	return identity.NewJWTResolver(cfg.JWTSecret)
}

package service

import (
	"context"

	"chat-relay/internal/domain"
)

// IdentityResolver resolves connection handshake metadata to a stable user
// id. The core never validates credentials itself; resolution failures are
// reported as domain.ErrUnresolved.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// MessageStore persists chat messages and returns the canonical stored
// record with the store-assigned id and timestamp.
type MessageStore interface {
	Persist(ctx context.Context, msg *domain.Message) (*domain.StoredMessage, error)
	History(ctx context.Context, dest domain.Destination, limit int64) ([]*domain.StoredMessage, error)
}

// PresenceStore holds the durable per-user online flag. It is an
// eventually-consistent secondary view; the in-memory registry is the
// authoritative real-time source.
type PresenceStore interface {
	SetOnline(ctx context.Context, userID string, online bool) error
	QueryOnlineUserIDs(ctx context.Context) ([]string, error)
	ResetAll(ctx context.Context) error
}

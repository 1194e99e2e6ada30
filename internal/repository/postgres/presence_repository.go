package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// PresenceRepository maintains the durable per-user online flag. The flag is
// eventually consistent with the in-memory registry and exists only as an
// informational secondary view.
type PresenceRepository struct {
	DB *sql.DB
}

// NewPresenceRepository creates a new PresenceRepository.
func NewPresenceRepository(db *sql.DB) *PresenceRepository {
	return &PresenceRepository{DB: db}
}

// SetOnline upserts the online flag for userID and stamps last_seen.
func (r *PresenceRepository) SetOnline(ctx context.Context, userID string, online bool) error {
	query := `
		INSERT INTO user_presence (user_id, is_online, last_seen)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET is_online = $2, last_seen = NOW()
	`
	if _, err := r.DB.ExecContext(ctx, query, userID, online); err != nil {
		return fmt.Errorf("failed to set online flag: %w", err)
	}
	return nil
}

// QueryOnlineUserIDs returns all user ids currently flagged online.
func (r *PresenceRepository) QueryOnlineUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT user_id FROM user_presence WHERE is_online ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query online users: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, userID)
	}
	return userIDs, rows.Err()
}

// ResetAll clears every online flag. Called at startup so flags left behind
// by a crashed process do not linger.
func (r *PresenceRepository) ResetAll(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, `UPDATE user_presence SET is_online = FALSE WHERE is_online`); err != nil {
		return fmt.Errorf("failed to reset online flags: %w", err)
	}
	return nil
}

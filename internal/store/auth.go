package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kanban/internal/models"
)

// CreateSession creates a session bound to one user and token hash.
func (q *Queries) CreateSession(ctx context.Context, userID, tokenHash string, expiresAt, createdAt time.Time) error {
	userID = strings.TrimSpace(userID)
	tokenHash = strings.TrimSpace(tokenHash)
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if tokenHash == "" {
		return fmt.Errorf("token hash is required")
	}

	_, err := q.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, token_hash, expires_at, revoked_at, created_at)
		VALUES (?, ?, ?, ?, NULL, ?)
	`, NewID(), userID, tokenHash, formatTime(expiresAt), formatTime(createdAt))
	return err
}

// GetUserBySessionTokenHash returns the owning user for an active, non-revoked session token hash.
func (q *Queries) GetUserBySessionTokenHash(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	tokenHash = strings.TrimSpace(tokenHash)
	if tokenHash == "" {
		return nil, nil
	}

	row := q.db.QueryRowContext(ctx, `
		SELECT u.id, u.name, u.username, u.password_hash, u.role, u.experience_level, u.department, u.manager_id, u.avatar_url
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token_hash = ?
		  AND s.revoked_at IS NULL
		  AND s.expires_at > ?
		LIMIT 1
	`, tokenHash, formatTime(now))

	return scanUser(row)
}

// RevokeSessionByTokenHash marks one session revoked by token hash.
func (q *Queries) RevokeSessionByTokenHash(ctx context.Context, tokenHash string, revokedAt time.Time) error {
	tokenHash = strings.TrimSpace(tokenHash)
	if tokenHash == "" {
		return nil
	}
	_, err := q.db.ExecContext(ctx, `
		UPDATE sessions
		SET revoked_at = ?
		WHERE token_hash = ?
		  AND revoked_at IS NULL
	`, formatTime(revokedAt), tokenHash)
	return err
}

// DeleteExpiredSessions removes sessions that expired or were revoked before now.
func (q *Queries) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, `
		DELETE FROM sessions
		WHERE expires_at <= ? OR revoked_at IS NOT NULL
	`, formatTime(now))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

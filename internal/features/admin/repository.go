// Package admin — repository.go persists admin sessions.
package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karirin/osidate-backend/internal/common"
)

// Repository provides access to the admin_sessions table.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new admin repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateSession stores a freshly issued session token.
func (r *Repository) CreateSession(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO admin_sessions (token, expires_at)
		VALUES ($1, $2)
	`, token, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to create admin session: %w", err)
	}
	return nil
}

// GetSession returns a session by token. Expired or unknown tokens yield
// common.ErrSessionExpired.
func (r *Repository) GetSession(ctx context.Context, token string) (*Session, error) {
	query := `
		SELECT id, token, authenticated_at, expires_at
		FROM admin_sessions
		WHERE token = $1 AND expires_at > NOW()
	`
	var s Session
	err := r.db.QueryRow(ctx, query, token).Scan(
		&s.ID, &s.Token, &s.AuthenticatedAt, &s.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load admin session: %w", err)
	}
	return &s, nil
}

// DeleteExpired removes sessions past their expiry. Run by the nightly
// maintenance job.
func (r *Repository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM admin_sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

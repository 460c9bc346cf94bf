// Package users — repository.go runs all SQL against the users and
// device_tokens tables.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karirin/osidate-backend/internal/common"
)

// Repository provides access to accounts and device tokens.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new users repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a new account and returns it with the generated ID.
func (r *Repository) Create(ctx context.Context, token, displayName string) (*User, error) {
	query := `
		INSERT INTO users (token, display_name)
		VALUES ($1, $2)
		RETURNING id, token, display_name, active_character_id, created_at, updated_at
	`
	var u User
	err := r.db.QueryRow(ctx, query, token, displayName).Scan(
		&u.ID, &u.Token, &u.DisplayName, &u.ActiveCharacterID, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &u, nil
}

// GetByToken looks an account up by its bearer token.
func (r *Repository) GetByToken(ctx context.Context, token string) (*User, error) {
	query := `
		SELECT id, token, display_name, active_character_id, created_at, updated_at
		FROM users
		WHERE token = $1
	`
	var u User
	err := r.db.QueryRow(ctx, query, token).Scan(
		&u.ID, &u.Token, &u.DisplayName, &u.ActiveCharacterID, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user by token: %w", err)
	}
	return &u, nil
}

// GetByID looks an account up by its ID.
func (r *Repository) GetByID(ctx context.Context, userID int64) (*User, error) {
	query := `
		SELECT id, token, display_name, active_character_id, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var u User
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&u.ID, &u.Token, &u.DisplayName, &u.ActiveCharacterID, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &u, nil
}

// SetActiveCharacter points the account at a different companion.
func (r *Repository) SetActiveCharacter(ctx context.Context, userID, characterID int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET active_character_id = $2, updated_at = NOW() WHERE id = $1
	`, userID, characterID)
	if err != nil {
		return fmt.Errorf("failed to set active character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrUserNotFound
	}
	return nil
}

// UpsertDeviceToken stores a push token, re-homing it if another account
// registered the same token earlier (device handed to a new account).
func (r *Repository) UpsertDeviceToken(ctx context.Context, userID int64, token, platform string) error {
	query := `
		INSERT INTO device_tokens (user_id, token, platform)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO UPDATE
		SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform
	`
	_, err := r.db.Exec(ctx, query, userID, token, platform)
	if err != nil {
		return fmt.Errorf("failed to store device token: %w", err)
	}
	return nil
}

// DeviceTokens returns all push tokens registered by the given users.
func (r *Repository) DeviceTokens(ctx context.Context, userIDs []int64) ([]*DeviceToken, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, user_id, token, platform, created_at
		FROM device_tokens
		WHERE user_id = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*DeviceToken
	for rows.Next() {
		var t DeviceToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.Token, &t.Platform, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, &t)
	}
	return tokens, rows.Err()
}

// DeleteDeviceToken removes a push token that FCM reported as dead.
func (r *Repository) DeleteDeviceToken(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM device_tokens WHERE token = $1`, token)
	return err
}

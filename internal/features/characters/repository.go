// Package characters — repository.go runs all SQL against the characters
// table.
package characters

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karirin/osidate-backend/internal/common"
)

// Repository provides access to the characters table.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new characters repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a companion and returns it with the generated ID.
func (r *Repository) Create(ctx context.Context, userID int64, name, personality string) (*Character, error) {
	query := `
		INSERT INTO characters (user_id, name, personality)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, name, personality, created_at, updated_at
	`
	var c Character
	err := r.db.QueryRow(ctx, query, userID, name, personality).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Personality, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create character: %w", err)
	}
	return &c, nil
}

// GetByID returns one of the user's companions. Another user's companion
// behaves like a missing one.
func (r *Repository) GetByID(ctx context.Context, characterID, userID int64) (*Character, error) {
	query := `
		SELECT id, user_id, name, personality, created_at, updated_at
		FROM characters
		WHERE id = $1 AND user_id = $2
	`
	var c Character
	err := r.db.QueryRow(ctx, query, characterID, userID).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Personality, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrCharacterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load character: %w", err)
	}
	return &c, nil
}

// ListByUser returns all of a user's companions, oldest first.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*Character, error) {
	query := `
		SELECT id, user_id, name, personality, created_at, updated_at
		FROM characters
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	defer rows.Close()

	var characters []*Character
	for rows.Next() {
		var c Character
		err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Personality, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan character: %w", err)
		}
		characters = append(characters, &c)
	}
	return characters, rows.Err()
}

// Update changes a companion's name and personality.
func (r *Repository) Update(ctx context.Context, characterID, userID int64, name, personality string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE characters
		SET name = $3, personality = $4, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`, characterID, userID, name, personality)
	if err != nil {
		return fmt.Errorf("failed to update character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrCharacterNotFound
	}
	return nil
}

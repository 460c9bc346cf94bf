// Package intimacy — repository.go runs all SQL against the
// intimacy_scores and intimacy_events tables. Score updates and their
// event rows are written in one DB transaction so the log never drifts
// from the totals.
package intimacy

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karirin/osidate-backend/internal/common"
)

// Repository provides access to intimacy scores and events.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new intimacy repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateScore inserts the zero score row for a freshly created character.
func (r *Repository) CreateScore(ctx context.Context, characterID, userID int64) error {
	query := `
		INSERT INTO intimacy_scores (character_id, user_id, score, total_earned)
		VALUES ($1, $2, 0, 0)
		ON CONFLICT (character_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, characterID, userID)
	if err != nil {
		return fmt.Errorf("failed to create intimacy score: %w", err)
	}
	return nil
}

// Increase adds amount to the character's score and appends the event,
// atomically. The resulting total is not capped or validated here.
func (r *Repository) Increase(ctx context.Context, characterID, userID int64, amount int, reason string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE intimacy_scores
		SET score = score + $2, total_earned = total_earned + $2, updated_at = NOW()
		WHERE character_id = $1
	`, characterID, amount)
	if err != nil {
		return fmt.Errorf("failed to increase intimacy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrCharacterNotFound
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO intimacy_events (character_id, user_id, amount, reason)
		VALUES ($1, $2, $3, $4)
	`, characterID, userID, amount, reason)
	if err != nil {
		return fmt.Errorf("failed to record intimacy event: %w", err)
	}

	return tx.Commit(ctx)
}

// GetScore returns the score of one of the user's characters. Asking for
// someone else's character behaves like asking for a missing one.
func (r *Repository) GetScore(ctx context.Context, characterID, userID int64) (*Score, error) {
	query := `
		SELECT character_id, user_id, score, total_earned, created_at, updated_at
		FROM intimacy_scores
		WHERE character_id = $1 AND user_id = $2
	`
	var s Score
	err := r.db.QueryRow(ctx, query, characterID, userID).Scan(
		&s.CharacterID, &s.UserID, &s.Score, &s.TotalEarned,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrCharacterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load intimacy score: %w", err)
	}
	return &s, nil
}

// Events returns the character's most recent intimacy events.
func (r *Repository) Events(ctx context.Context, characterID, userID int64, limit int) ([]*Event, error) {
	query := `
		SELECT id, character_id, user_id, amount, reason, created_at
		FROM intimacy_events
		WHERE character_id = $1 AND user_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, characterID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load intimacy events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var e Event
		err := rows.Scan(&e.ID, &e.CharacterID, &e.UserID, &e.Amount, &e.Reason, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan intimacy event: %w", err)
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

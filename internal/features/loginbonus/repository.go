// Package loginbonus — repository.go persists login statuses, the single
// pending-bonus slot and the append-only bonus history.
//
// Write discipline: the status row carries a version column and every save
// is conditional on the version that was read. Two app launches racing on
// the same account cannot both advance the streak — the loser gets
// common.ErrConflict and retries against the fresh row (where the engine
// then sees gap == 0 and no-ops).
package loginbonus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karirin/osidate-backend/internal/common"
)

// HistoryEntry is a claimed bonus as stored in the history list.
type HistoryEntry struct {
	Bonus
	ClaimedAt time.Time `db:"claimed_at"`
}

// Repository provides access to the login_statuses, pending_bonuses and
// login_bonus_history tables.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new login bonus repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetStatus returns the user's login status. A missing row is reported as
// common.ErrStatusNotFound — the caller treats that as the first-login
// case, not as a failure.
func (r *Repository) GetStatus(ctx context.Context, userID int64) (*LoginStatus, error) {
	query := `
		SELECT user_id, current_streak, total_login_days, last_login_date,
		       version, created_at, updated_at
		FROM login_statuses
		WHERE user_id = $1
	`
	var s LoginStatus
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &s.CurrentStreak, &s.TotalLoginDays, &s.LastLoginDate,
		&s.Version, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrStatusNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load login status (user_id=%d): %w", userID, err)
	}
	return &s, nil
}

// SaveStatus writes an advanced status together with its freshly generated
// bonus in one transaction. The bonus replaces whatever was sitting in the
// pending slot (most recent wins).
//
// status.Version must be the version that was read: 0 for a brand-new
// user, the stored value otherwise. On a version mismatch (or a concurrent
// first-login insert) the transaction is rolled back and common.ErrConflict
// is returned.
func (r *Repository) SaveStatus(ctx context.Context, status *LoginStatus, bonus *Bonus) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if status.Version == 0 {
		tag, err := tx.Exec(ctx, `
			INSERT INTO login_statuses (user_id, current_streak, total_login_days, last_login_date, version)
			VALUES ($1, $2, $3, $4, 1)
			ON CONFLICT (user_id) DO NOTHING
		`, status.UserID, status.CurrentStreak, status.TotalLoginDays, status.LastLoginDate)
		if err != nil {
			return fmt.Errorf("failed to create login status: %w", err)
		}
		if tag.RowsAffected() == 0 {
			// Another launch already created the row.
			return common.ErrConflict
		}
	} else {
		tag, err := tx.Exec(ctx, `
			UPDATE login_statuses
			SET current_streak = $2, total_login_days = $3, last_login_date = $4,
			    version = version + 1, updated_at = NOW()
			WHERE user_id = $1 AND version = $5
		`, status.UserID, status.CurrentStreak, status.TotalLoginDays,
			status.LastLoginDate, status.Version)
		if err != nil {
			return fmt.Errorf("failed to update login status: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return common.ErrConflict
		}
	}

	if bonus != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO pending_bonuses (user_id, bonus_id, day, intimacy_bonus, bonus_type, received_at, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (user_id) DO UPDATE
			SET bonus_id = EXCLUDED.bonus_id, day = EXCLUDED.day,
			    intimacy_bonus = EXCLUDED.intimacy_bonus, bonus_type = EXCLUDED.bonus_type,
			    received_at = EXCLUDED.received_at, description = EXCLUDED.description
		`, bonus.UserID, bonus.ID, bonus.Day, bonus.IntimacyBonus,
			string(bonus.BonusType), bonus.ReceivedAt, bonus.Description)
		if err != nil {
			return fmt.Errorf("failed to store pending bonus: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetPending returns the user's unclaimed bonus, or nil when the slot is
// empty. An empty slot is a normal state, not an error.
func (r *Repository) GetPending(ctx context.Context, userID int64) (*Bonus, error) {
	query := `
		SELECT bonus_id, user_id, day, intimacy_bonus, bonus_type, received_at, description
		FROM pending_bonuses
		WHERE user_id = $1
	`
	var b Bonus
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&b.ID, &b.UserID, &b.Day, &b.IntimacyBonus, &b.BonusType,
		&b.ReceivedAt, &b.Description,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pending bonus: %w", err)
	}
	return &b, nil
}

// ClaimPending atomically moves the pending bonus to the history list and
// clears the slot. The row lock makes the slot the single guard against a
// double claim: the second of two racing claims finds the slot empty and
// gets common.ErrNoPendingBonus.
func (r *Repository) ClaimPending(ctx context.Context, userID int64, claimedAt time.Time) (*Bonus, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var b Bonus
	err = tx.QueryRow(ctx, `
		SELECT bonus_id, user_id, day, intimacy_bonus, bonus_type, received_at, description
		FROM pending_bonuses
		WHERE user_id = $1
		FOR UPDATE
	`, userID).Scan(
		&b.ID, &b.UserID, &b.Day, &b.IntimacyBonus, &b.BonusType,
		&b.ReceivedAt, &b.Description,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNoPendingBonus
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock pending bonus: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM pending_bonuses WHERE user_id = $1`, userID,
	); err != nil {
		return nil, fmt.Errorf("failed to clear pending slot: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO login_bonus_history (bonus_id, user_id, day, intimacy_bonus, bonus_type, received_at, description, claimed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, b.ID, b.UserID, b.Day, b.IntimacyBonus, string(b.BonusType),
		b.ReceivedAt, b.Description, claimedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to append bonus history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit claim: %w", err)
	}
	return &b, nil
}

// History returns the user's claimed bonuses, most recent first.
func (r *Repository) History(ctx context.Context, userID int64, limit int) ([]*HistoryEntry, error) {
	query := `
		SELECT bonus_id, user_id, day, intimacy_bonus, bonus_type, received_at, description, claimed_at
		FROM login_bonus_history
		WHERE user_id = $1
		ORDER BY claimed_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load bonus history: %w", err)
	}
	defer rows.Close()

	var entries []*HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		err := rows.Scan(
			&e.ID, &e.UserID, &e.Day, &e.IntimacyBonus, &e.BonusType,
			&e.ReceivedAt, &e.Description, &e.ClaimedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// UsersAtRisk returns the IDs of users whose streak is at least minStreak
// and who have not logged in on the given day yet. Used by the evening
// reminder job.
func (r *Repository) UsersAtRisk(ctx context.Context, day time.Time, minStreak int) ([]int64, error) {
	query := `
		SELECT user_id
		FROM login_statuses
		WHERE current_streak >= $1 AND last_login_date < $2
	`
	rows, err := r.db.Query(ctx, query, minStreak, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load at-risk users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Stats aggregates login activity for the admin dashboard.
func (r *Repository) Stats(ctx context.Context, today time.Time) (total, loggedInToday int64, longestStreak int, err error) {
	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE last_login_date = $1),
		       COALESCE(MAX(current_streak), 0)
		FROM login_statuses
	`, today).Scan(&total, &loggedInToday, &longestStreak)
	if err != nil {
		err = fmt.Errorf("failed to aggregate login stats: %w", err)
	}
	return total, loggedInToday, longestStreak, err
}

// Package loginbonus implements the daily login streak and its rewards.
// models.go describes the persisted records.
//
// The decision logic lives in engine.go as pure functions over these
// records; all I/O happens in repository.go and service.go.
package loginbonus

import (
	"time"

	"github.com/google/uuid"
)

// BonusType classifies a login bonus for display.
type BonusType string

const (
	// BonusDaily — the ordinary per-day reward.
	BonusDaily BonusType = "daily"
	// BonusWeekly — weekly anniversaries (day 7, 14, 21).
	BonusWeekly BonusType = "weekly"
	// BonusSpecial — large hand-picked days (50, 200, 500, ...).
	BonusSpecial BonusType = "special"
	// BonusMilestone — product-significant streak lengths (30, 100, 365).
	BonusMilestone BonusType = "milestone"
)

// LoginStatus is the per-user streak record.
//
// Invariants:
//   - CurrentStreak <= TotalLoginDays
//   - LastLoginDate == nil exactly when TotalLoginDays == 0
//
// LastLoginDate is stored at calendar-day granularity (local midnight in
// Asia/Tokyo); it is the day of the most recent processed login, not the
// wall-clock time of the request.
type LoginStatus struct {
	UserID         int64      `db:"user_id"`
	CurrentStreak  int        `db:"current_streak"`   // consecutive days ending at LastLoginDate
	TotalLoginDays int        `db:"total_login_days"` // lifetime count of distinct login days
	LastLoginDate  *time.Time `db:"last_login_date"`
	// Version supports conditional writes: a save only succeeds if the row
	// still carries the version that was read. A mismatch means another
	// app launch processed the same login concurrently.
	Version   int       `db:"version"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Bonus is one generated login reward. A bonus is never mutated after
// creation: it sits in the single pending slot until claimed, then moves
// to the append-only history.
type Bonus struct {
	ID            uuid.UUID `db:"id"`
	UserID        int64     `db:"user_id"`
	Day           int       `db:"day"`            // CurrentStreak at generation time
	IntimacyBonus int       `db:"intimacy_bonus"` // always > 0
	BonusType     BonusType `db:"bonus_type"`
	ReceivedAt    time.Time `db:"received_at"` // generation time, not claim time
	Description   string    `db:"description"` // user-facing copy, deterministic from Day
}

// ClaimResult is what claiming a pending bonus yields. IntimacyDelta is
// handed to the intimacy ledger together with Reason.
type ClaimResult struct {
	Bonus         *Bonus
	IntimacyDelta int
	Reason        string
}

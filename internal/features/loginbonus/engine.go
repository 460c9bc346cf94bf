// Package loginbonus — engine.go is the streak state machine. Everything
// here is a pure function: no I/O, no globals, no clock reads. The service
// wraps these in a load → compute → save pipeline.
package loginbonus

import (
	"time"

	"github.com/google/uuid"

	"github.com/karirin/osidate-backend/internal/common"
)

// ProcessLogin decides what today's login means for the given status:
// advance the streak, reset it, or nothing (already logged in today).
//
// The returned status is a copy; the input is never mutated. A nil bonus
// means the login was already processed for this calendar day — that is
// the guard against duplicate rewards, and it makes the call idempotent
// within a day.
//
// Day-gap classification, with gap = days from LastLoginDate to today:
//
//	gap == 0 → no-op (idempotent repeat)
//	gap == 1 → streak continues
//	gap  > 1 → streak broken, restart at 1
//	gap  < 0 → clock went backwards; treated as a broken streak so the
//	           user flow never errors out
//
// When a bonus is produced it replaces any still-unclaimed bonus from an
// earlier day (most recent wins).
func ProcessLogin(status LoginStatus, today time.Time, now time.Time) (LoginStatus, *Bonus) {
	today = common.StartOfDay(today)
	updated := status

	if status.LastLoginDate == nil {
		// First-ever login.
		updated.CurrentStreak = 1
		updated.TotalLoginDays = 1
		updated.LastLoginDate = &today
		return updated, newBonus(status.UserID, 1, now)
	}

	gap := common.DaysBetween(*status.LastLoginDate, today)
	switch {
	case gap == 0:
		return status, nil
	case gap == 1:
		updated.CurrentStreak = status.CurrentStreak + 1
	default:
		// Broken streak, including the backwards-clock case.
		updated.CurrentStreak = 1
	}

	updated.TotalLoginDays = status.TotalLoginDays + 1
	updated.LastLoginDate = &today
	return updated, newBonus(status.UserID, updated.CurrentStreak, now)
}

// newBonus builds the pending bonus for the given streak day.
func newBonus(userID int64, day int, now time.Time) *Bonus {
	tier := RewardFor(day)
	return &Bonus{
		ID:            uuid.New(),
		UserID:        userID,
		Day:           day,
		IntimacyBonus: tier.Intimacy,
		BonusType:     tier.Type,
		ReceivedAt:    now,
		Description:   tier.Description,
	}
}

// Claim converts a pending bonus into the ledger delta and reason string.
// A nil pending bonus yields ok == false: "nothing to claim" is a normal
// outcome, not an error, so clients may call claim speculatively.
func Claim(pending *Bonus) (ClaimResult, bool) {
	if pending == nil {
		return ClaimResult{}, false
	}
	return ClaimResult{
		Bonus:         pending,
		IntimacyDelta: pending.IntimacyBonus,
		Reason:        ClaimReason(pending.Day),
	}, true
}

// Package loginbonus — service.go wires the pure engine to storage and to
// the intimacy ledger: load status → run engine → conditional save, with a
// bounded retry when a concurrent launch wins the write race.
package loginbonus

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/karirin/osidate-backend/internal/common"
)

// StatusStore is what the service needs from persistence. Implemented by
// *Repository; tests substitute an in-memory fake.
type StatusStore interface {
	GetStatus(ctx context.Context, userID int64) (*LoginStatus, error)
	SaveStatus(ctx context.Context, status *LoginStatus, bonus *Bonus) error
	GetPending(ctx context.Context, userID int64) (*Bonus, error)
	ClaimPending(ctx context.Context, userID int64, claimedAt time.Time) (*Bonus, error)
	History(ctx context.Context, userID int64, limit int) ([]*HistoryEntry, error)
}

// IntimacyLedger applies a claimed bonus to the companion's intimacy
// score. The ledger does not validate or cap the resulting total.
type IntimacyLedger interface {
	Increase(ctx context.Context, userID int64, amount int, reason string) error
}

// Clock abstracts "what day is it" so the decision logic stays
// deterministic under test.
type Clock interface {
	// Now is the wall-clock time, used for ReceivedAt / ClaimedAt stamps.
	Now() time.Time
	// Today is the current calendar day at local midnight.
	Today() time.Time
}

// TokyoClock is the production clock: Asia/Tokyo, the app's timezone.
type TokyoClock struct{}

func (TokyoClock) Now() time.Time   { return common.TokyoTime() }
func (TokyoClock) Today() time.Time { return common.TokyoDate() }

// Service orchestrates login processing and bonus claiming.
type Service struct {
	store       StatusStore
	ledger      IntimacyLedger
	clock       Clock
	saveRetries int
}

// NewService creates a new login bonus service. saveRetries bounds how
// often a lost write race is retried before the conflict is surfaced.
func NewService(store StatusStore, ledger IntimacyLedger, clock Clock, saveRetries int) *Service {
	if saveRetries < 1 {
		saveRetries = 1
	}
	return &Service{store: store, ledger: ledger, clock: clock, saveRetries: saveRetries}
}

// ProcessLogin runs the streak engine for today's login and persists the
// outcome. The returned bonus is nil when today's login was already
// processed (idempotent repeat).
//
// A write conflict means another launch of the app processed the same
// login concurrently; the retry re-reads the row, and on the fresh state
// the engine sees gap == 0 and no-ops — the streak can never advance
// twice for one day.
func (s *Service) ProcessLogin(ctx context.Context, userID int64) (*LoginStatus, *Bonus, error) {
	var lastErr error
	for attempt := 0; attempt < s.saveRetries; attempt++ {
		status, err := s.store.GetStatus(ctx, userID)
		if errors.Is(err, common.ErrStatusNotFound) {
			status = &LoginStatus{UserID: userID}
		} else if err != nil {
			return nil, nil, err
		}

		updated, bonus := ProcessLogin(*status, s.clock.Today(), s.clock.Now())
		if bonus == nil {
			return &updated, nil, nil
		}

		if err := s.store.SaveStatus(ctx, &updated, bonus); err != nil {
			if errors.Is(err, common.ErrConflict) {
				lastErr = err
				log.WithFields(log.Fields{
					"user_id": userID,
					"attempt": attempt + 1,
				}).Warn("Login save conflict, retrying")
				continue
			}
			return nil, nil, err
		}
		updated.Version++

		log.WithFields(log.Fields{
			"user_id":    userID,
			"streak":     updated.CurrentStreak,
			"total_days": updated.TotalLoginDays,
			"bonus":      bonus.IntimacyBonus,
			"bonus_type": bonus.BonusType,
		}).Info("Login processed")
		return &updated, bonus, nil
	}
	return nil, nil, fmt.Errorf("login for user %d not saved after %d attempts: %w",
		userID, s.saveRetries, lastErr)
}

// Claim moves the pending bonus to history and applies its intimacy delta
// to the user's active companion. With no pending bonus it returns
// common.ErrNoPendingBonus, which callers treat as "nothing to claim"
// rather than a failure.
func (s *Service) Claim(ctx context.Context, userID int64) (*ClaimResult, error) {
	claimed, err := s.store.ClaimPending(ctx, userID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	result, ok := Claim(claimed)
	if !ok {
		// ClaimPending never hands back nil without an error.
		return nil, common.ErrNoPendingBonus
	}

	if err := s.ledger.Increase(ctx, userID, result.IntimacyDelta, result.Reason); err != nil {
		// The bonus is already in history; the ledger write is the part
		// that failed. Surface it so the client can retry via support —
		// silently dropping the delta would be worse.
		log.WithError(err).WithFields(log.Fields{
			"user_id": userID,
			"amount":  result.IntimacyDelta,
		}).Error("Failed to apply claimed bonus to intimacy ledger")
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"day":     result.Bonus.Day,
		"amount":  result.IntimacyDelta,
	}).Info("Login bonus claimed")
	return &result, nil
}

// Status returns the user's current streak state plus the pending bonus,
// without advancing anything. A user who never logged in gets the zero
// status.
func (s *Service) Status(ctx context.Context, userID int64) (*LoginStatus, *Bonus, error) {
	status, err := s.store.GetStatus(ctx, userID)
	if errors.Is(err, common.ErrStatusNotFound) {
		status = &LoginStatus{UserID: userID}
	} else if err != nil {
		return nil, nil, err
	}

	pending, err := s.store.GetPending(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return status, pending, nil
}

// History returns the user's claimed bonuses, most recent first.
func (s *Service) History(ctx context.Context, userID int64, limit int) ([]*HistoryEntry, error) {
	return s.store.History(ctx, userID, limit)
}

package loginbonus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karirin/osidate-backend/internal/common"
)

// fakeClock pins Today/Now so streak decisions are reproducible.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time   { return c.now }
func (c *fakeClock) Today() time.Time { return common.StartOfDay(c.now) }

func (c *fakeClock) advanceDays(n int) { c.now = c.now.AddDate(0, 0, n) }

// fakeStore is an in-memory StatusStore with the same version semantics as
// the PostgreSQL repository.
type fakeStore struct {
	statuses map[int64]LoginStatus
	pending  map[int64]Bonus
	history  map[int64][]HistoryEntry

	// failSaves makes the next N SaveStatus calls return ErrConflict,
	// simulating a lost write race.
	failSaves int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		statuses: make(map[int64]LoginStatus),
		pending:  make(map[int64]Bonus),
		history:  make(map[int64][]HistoryEntry),
	}
}

func (f *fakeStore) GetStatus(_ context.Context, userID int64) (*LoginStatus, error) {
	s, ok := f.statuses[userID]
	if !ok {
		return nil, common.ErrStatusNotFound
	}
	copied := s
	return &copied, nil
}

func (f *fakeStore) SaveStatus(_ context.Context, status *LoginStatus, bonus *Bonus) error {
	if f.failSaves > 0 {
		f.failSaves--
		return common.ErrConflict
	}
	current, exists := f.statuses[status.UserID]
	if status.Version == 0 {
		if exists {
			return common.ErrConflict
		}
	} else if current.Version != status.Version {
		return common.ErrConflict
	}
	saved := *status
	saved.Version++
	f.statuses[status.UserID] = saved
	if bonus != nil {
		f.pending[status.UserID] = *bonus
	}
	return nil
}

func (f *fakeStore) GetPending(_ context.Context, userID int64) (*Bonus, error) {
	b, ok := f.pending[userID]
	if !ok {
		return nil, nil
	}
	copied := b
	return &copied, nil
}

func (f *fakeStore) ClaimPending(_ context.Context, userID int64, claimedAt time.Time) (*Bonus, error) {
	b, ok := f.pending[userID]
	if !ok {
		return nil, common.ErrNoPendingBonus
	}
	delete(f.pending, userID)
	f.history[userID] = append(f.history[userID], HistoryEntry{Bonus: b, ClaimedAt: claimedAt})
	copied := b
	return &copied, nil
}

func (f *fakeStore) History(_ context.Context, userID int64, limit int) ([]*HistoryEntry, error) {
	entries := f.history[userID]
	var out []*HistoryEntry
	for i := len(entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := entries[i]
		out = append(out, &e)
	}
	return out, nil
}

// fakeLedger records every Increase call.
type fakeLedger struct {
	increases []struct {
		userID int64
		amount int
		reason string
	}
}

func (f *fakeLedger) Increase(_ context.Context, userID int64, amount int, reason string) error {
	f.increases = append(f.increases, struct {
		userID int64
		amount int
		reason string
	}{userID, amount, reason})
	return nil
}

func newTestService(store *fakeStore, ledger *fakeLedger, clock Clock) *Service {
	return NewService(store, ledger, clock, 3)
}

func TestServiceProcessLoginPersistsAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	clock := &fakeClock{now: time.Date(2026, 8, 1, 10, 0, 0, 0, common.TokyoLocation())}
	svc := newTestService(store, &fakeLedger{}, clock)

	status, bonus, err := svc.ProcessLogin(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, bonus)
	assert.Equal(t, 1, status.CurrentStreak)

	// Same day again: nothing changes, no second bonus, nothing re-saved.
	again, repeat, err := svc.ProcessLogin(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, repeat)
	assert.Equal(t, status.CurrentStreak, again.CurrentStreak)
	assert.Equal(t, status.TotalLoginDays, again.TotalLoginDays)
	assert.Equal(t, 1, store.statuses[42].Version)

	// Next day continues the streak.
	clock.advanceDays(1)
	next, bonus2, err := svc.ProcessLogin(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, bonus2)
	assert.Equal(t, 2, next.CurrentStreak)
	assert.Equal(t, 2, bonus2.Day)
}

func TestServiceProcessLoginRetriesOnConflict(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.failSaves = 2
	clock := &fakeClock{now: time.Date(2026, 8, 1, 10, 0, 0, 0, common.TokyoLocation())}
	svc := newTestService(store, &fakeLedger{}, clock)

	// Two lost races, third attempt succeeds.
	status, bonus, err := svc.ProcessLogin(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, bonus)
	assert.Equal(t, 1, status.CurrentStreak)
}

func TestServiceProcessLoginGivesUpAfterRetries(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.failSaves = 10
	clock := &fakeClock{now: time.Date(2026, 8, 1, 10, 0, 0, 0, common.TokyoLocation())}
	svc := newTestService(store, &fakeLedger{}, clock)

	_, _, err := svc.ProcessLogin(ctx, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestServiceClaimAppliesLedgerAndEmptiesSlot(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	ledger := &fakeLedger{}
	clock := &fakeClock{now: time.Date(2026, 8, 1, 10, 0, 0, 0, common.TokyoLocation())}
	svc := newTestService(store, ledger, clock)

	_, bonus, err := svc.ProcessLogin(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, bonus)

	result, err := svc.Claim(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, bonus.IntimacyBonus, result.IntimacyDelta)
	assert.Equal(t, "ログインボーナス(1日目)", result.Reason)

	// Ledger got exactly one increase with the formatted reason.
	require.Len(t, ledger.increases, 1)
	assert.Equal(t, int64(7), ledger.increases[0].userID)
	assert.Equal(t, result.IntimacyDelta, ledger.increases[0].amount)
	assert.Equal(t, result.Reason, ledger.increases[0].reason)

	// History grew by one, the slot is empty, a second claim is a no-op.
	history, err := svc.History(ctx, 7, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, err = svc.Claim(ctx, 7)
	assert.ErrorIs(t, err, common.ErrNoPendingBonus)
	assert.Len(t, ledger.increases, 1)
}

func TestServiceUnclaimedBonusIsReplacedByNewer(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	ledger := &fakeLedger{}
	clock := &fakeClock{now: time.Date(2026, 8, 1, 10, 0, 0, 0, common.TokyoLocation())}
	svc := newTestService(store, ledger, clock)

	_, day1, err := svc.ProcessLogin(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, day1)

	// The day-1 bonus is never claimed; the next day's login replaces it.
	clock.advanceDays(1)
	_, day2, err := svc.ProcessLogin(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, day2)

	_, pending, err := svc.Status(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, day2.ID, pending.ID)
	assert.Equal(t, 2, pending.Day)

	// Claiming yields only the most recent bonus; history has one entry.
	result, err := svc.Claim(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Bonus.Day)
	history, err := svc.History(ctx, 3, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestServiceStatusForUnknownUser(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	clock := &fakeClock{now: time.Date(2026, 8, 1, 10, 0, 0, 0, common.TokyoLocation())}
	svc := newTestService(store, &fakeLedger{}, clock)

	status, pending, err := svc.Status(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, 0, status.CurrentStreak)
	assert.Equal(t, 0, status.TotalLoginDays)
	assert.Nil(t, status.LastLoginDate)
	assert.Nil(t, pending)
}

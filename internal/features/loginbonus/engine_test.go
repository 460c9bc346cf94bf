package loginbonus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karirin/osidate-backend/internal/common"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, common.TokyoLocation())
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestProcessLoginFirstEver(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 30, 0, 0, common.TokyoLocation())
	status := LoginStatus{UserID: 42}

	updated, bonus := ProcessLogin(status, date(2024, 1, 1), now)

	assert.Equal(t, 1, updated.CurrentStreak)
	assert.Equal(t, 1, updated.TotalLoginDays)
	require.NotNil(t, updated.LastLoginDate)
	assert.Equal(t, date(2024, 1, 1), *updated.LastLoginDate)

	require.NotNil(t, bonus)
	assert.Equal(t, 1, bonus.Day)
	assert.Equal(t, 3, bonus.IntimacyBonus)
	assert.Equal(t, BonusDaily, bonus.BonusType)
	assert.Equal(t, welcomeMessage, bonus.Description)
	assert.Equal(t, int64(42), bonus.UserID)
	assert.Equal(t, now, bonus.ReceivedAt)
}

func TestProcessLoginSameDayIsIdempotent(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, common.TokyoLocation())
	status := LoginStatus{UserID: 1}

	first, bonus := ProcessLogin(status, date(2024, 3, 10), now)
	require.NotNil(t, bonus)

	// Same day again: identical status, no second bonus.
	second, repeat := ProcessLogin(first, date(2024, 3, 10), now.Add(5*time.Hour))
	assert.Nil(t, repeat)
	assert.Equal(t, first, second)

	// And once more, to be sure repeats stay stable.
	third, repeat2 := ProcessLogin(second, date(2024, 3, 10), now.Add(9*time.Hour))
	assert.Nil(t, repeat2)
	assert.Equal(t, second, third)
}

func TestProcessLoginGapClassification(t *testing.T) {
	base := LoginStatus{
		UserID:         7,
		CurrentStreak:  5,
		TotalLoginDays: 20,
		LastLoginDate:  datePtr(2024, 6, 10),
	}

	tests := []struct {
		name       string
		today      time.Time
		wantStreak int
		wantTotal  int
		wantBonus  bool
	}{
		{"next day continues the streak", date(2024, 6, 11), 6, 21, true},
		{"two-day gap resets to 1", date(2024, 6, 12), 1, 21, true},
		{"week-long gap resets to 1", date(2024, 6, 17), 1, 21, true},
		{"backwards clock resets to 1", date(2024, 6, 8), 1, 21, true},
		{"same day is a no-op", date(2024, 6, 10), 5, 20, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, bonus := ProcessLogin(base, tt.today, tt.today.Add(10*time.Hour))
			assert.Equal(t, tt.wantStreak, updated.CurrentStreak)
			assert.Equal(t, tt.wantTotal, updated.TotalLoginDays)
			if tt.wantBonus {
				require.NotNil(t, bonus)
				assert.Equal(t, updated.CurrentStreak, bonus.Day)
				require.NotNil(t, updated.LastLoginDate)
				assert.Equal(t, common.StartOfDay(tt.today), *updated.LastLoginDate)
			} else {
				assert.Nil(t, bonus)
			}
		})
	}
}

func TestProcessLoginIgnoresTimeOfDay(t *testing.T) {
	// A login at 23:59 followed by one at 00:01 the next day is still a
	// one-day gap: only the calendar date matters.
	lastLogin := date(2024, 2, 1)
	status := LoginStatus{UserID: 3, CurrentStreak: 2, TotalLoginDays: 2, LastLoginDate: &lastLogin}

	lateNight := time.Date(2024, 2, 2, 0, 1, 0, 0, common.TokyoLocation())
	updated, bonus := ProcessLogin(status, lateNight, lateNight)

	assert.Equal(t, 3, updated.CurrentStreak)
	require.NotNil(t, bonus)
	assert.Equal(t, date(2024, 2, 2), *updated.LastLoginDate)
}

func TestProcessLoginWithStoredUTCDate(t *testing.T) {
	// The repository hands back last_login_date as the driver decodes a
	// DATE column: midnight UTC, not midnight Asia/Tokyo. The engine must
	// read it as the calendar date it names.
	stored := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	status := LoginStatus{
		UserID:         7,
		CurrentStreak:  5,
		TotalLoginDays: 20,
		LastLoginDate:  &stored,
	}

	t.Run("next-day login continues the streak", func(t *testing.T) {
		updated, bonus := ProcessLogin(status, date(2024, 6, 11), date(2024, 6, 11).Add(9*time.Hour))
		assert.Equal(t, 6, updated.CurrentStreak)
		assert.Equal(t, 21, updated.TotalLoginDays)
		require.NotNil(t, bonus)
		assert.Equal(t, 6, bonus.Day)
	})

	t.Run("same-day repeat stays a no-op", func(t *testing.T) {
		updated, bonus := ProcessLogin(status, date(2024, 6, 10), date(2024, 6, 10).Add(21*time.Hour))
		assert.Nil(t, bonus)
		assert.Equal(t, 5, updated.CurrentStreak)
		assert.Equal(t, 20, updated.TotalLoginDays)
	})
}

func TestProcessLoginTotalDaysNeverDecrease(t *testing.T) {
	status := LoginStatus{UserID: 9}
	today := date(2024, 1, 1)
	now := today

	// 30 days with irregular gaps: total must grow by exactly 1 per
	// advancing call, regardless of continuation or reset.
	gaps := []int{1, 1, 3, 1, 1, 1, 1, 10, 1, 2, 1, 1}
	total := 0
	for i, g := range gaps {
		if i > 0 {
			today = today.AddDate(0, 0, g)
		}
		updated, bonus := ProcessLogin(status, today, now)
		require.NotNil(t, bonus)
		total++
		assert.Equal(t, total, updated.TotalLoginDays)
		assert.GreaterOrEqual(t, updated.TotalLoginDays, status.TotalLoginDays)
		assert.LessOrEqual(t, updated.CurrentStreak, updated.TotalLoginDays)
		status = updated
	}
}

func TestProcessLoginWeekThenGapScenario(t *testing.T) {
	// Six consecutive days, a day-7 login earning the weekly bonus, then a
	// 3-day gap whose next login resets the streak to day 1.
	status := LoginStatus{UserID: 5}
	day := date(2024, 5, 1)

	var lastBonus *Bonus
	for i := 0; i < 7; i++ {
		today := day.AddDate(0, 0, i)
		status, lastBonus = mustProcess(t, status, today)
	}
	require.NotNil(t, lastBonus)
	assert.Equal(t, 7, status.CurrentStreak)
	assert.Equal(t, 25, lastBonus.IntimacyBonus)
	assert.Equal(t, BonusWeekly, lastBonus.BonusType)

	// Skip 3 days.
	afterGap := day.AddDate(0, 0, 10)
	status, lastBonus = mustProcess(t, status, afterGap)
	assert.Equal(t, 1, status.CurrentStreak)
	assert.Equal(t, 8, status.TotalLoginDays)
	assert.Equal(t, 3, lastBonus.IntimacyBonus)
	assert.Equal(t, BonusDaily, lastBonus.BonusType)
}

func TestProcessLoginMilestoneDay30(t *testing.T) {
	status := LoginStatus{
		UserID:         11,
		CurrentStreak:  29,
		TotalLoginDays: 29,
		LastLoginDate:  datePtr(2024, 4, 29),
	}

	updated, bonus := ProcessLogin(status, date(2024, 4, 30), date(2024, 4, 30))
	assert.Equal(t, 30, updated.CurrentStreak)
	require.NotNil(t, bonus)
	assert.Equal(t, 100, bonus.IntimacyBonus)
	assert.Equal(t, BonusMilestone, bonus.BonusType)
}

func TestClaim(t *testing.T) {
	t.Run("pending bonus yields delta and reason", func(t *testing.T) {
		pending := newBonus(1, 7, date(2024, 1, 7))
		result, ok := Claim(pending)
		require.True(t, ok)
		assert.Equal(t, 25, result.IntimacyDelta)
		assert.Equal(t, "ログインボーナス(7日目)", result.Reason)
		assert.Same(t, pending, result.Bonus)
	})

	t.Run("nil pending is nothing to claim", func(t *testing.T) {
		result, ok := Claim(nil)
		assert.False(t, ok)
		assert.Zero(t, result)
	})
}

func mustProcess(t *testing.T, status LoginStatus, today time.Time) (LoginStatus, *Bonus) {
	t.Helper()
	updated, bonus := ProcessLogin(status, today, today.Add(8*time.Hour))
	require.NotNil(t, bonus, "expected an advancing login on %s", today)
	return updated, bonus
}

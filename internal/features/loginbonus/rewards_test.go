package loginbonus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewardForTableDays(t *testing.T) {
	tests := []struct {
		day          int
		wantIntimacy int
		wantType     BonusType
	}{
		{1, 3, BonusDaily},
		{2, 4, BonusDaily},
		{6, 8, BonusDaily},
		{7, 25, BonusWeekly},
		{8, 10, BonusDaily},
		{13, 12, BonusDaily},
		{14, 40, BonusWeekly},
		{21, 60, BonusWeekly},
		{30, 100, BonusMilestone},
		{50, 150, BonusSpecial},
		{100, 300, BonusMilestone},
		{200, 500, BonusSpecial},
		{365, 1000, BonusMilestone},
		{500, 1500, BonusSpecial},
		{1000, 3000, BonusMilestone},
	}

	for _, tt := range tests {
		tier := RewardFor(tt.day)
		assert.Equal(t, tt.wantIntimacy, tier.Intimacy, "day %d intimacy", tt.day)
		assert.Equal(t, tt.wantType, tier.Type, "day %d type", tt.day)
		assert.NotEmpty(t, tier.Description, "day %d description", tt.day)
	}
}

func TestRewardForFormulaFallback(t *testing.T) {
	tests := []struct {
		day          int
		wantIntimacy int
	}{
		{15, 13},  // 10 + (15-8)/2
		{16, 14},  // 10 + (16-8)/2
		{29, 20},  // 10 + (29-8)/2
		{31, 20},  // 20 + (31-31)/5
		{35, 20},  // 20 + (35-31)/5
		{99, 33},  // 20 + (99-31)/5
		{101, 30}, // 30 + (101-101)/10
		{364, 56}, // 30 + (364-101)/10
		{366, 50}, // 50 + (366-366)/30
		{700, 61}, // 50 + (700-366)/30
	}

	for _, tt := range tests {
		tier := RewardFor(tt.day)
		assert.Equal(t, tt.wantIntimacy, tier.Intimacy, "day %d", tt.day)
		assert.Equal(t, BonusDaily, tier.Type, "day %d", tt.day)
	}
}

func TestRewardAmountsAlwaysPositive(t *testing.T) {
	for day := 1; day <= 1100; day++ {
		tier := RewardFor(day)
		assert.Positive(t, tier.Intimacy, "day %d", day)
		assert.NotEmpty(t, tier.Description, "day %d", day)
	}
}

func TestFormulaMessageRotation(t *testing.T) {
	// Fallback copy rotates through the fixed 7-entry list by day mod 7.
	assert.Equal(t, dailyMessages[15%7], RewardFor(15).Description)
	assert.Equal(t, dailyMessages[101%7], RewardFor(101).Description)
	assert.NotEqual(t, RewardFor(15).Description, RewardFor(16).Description)
}

func TestClaimReason(t *testing.T) {
	assert.Equal(t, "ログインボーナス(1日目)", ClaimReason(1))
	assert.Equal(t, "ログインボーナス(365日目)", ClaimReason(365))
}

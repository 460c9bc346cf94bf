// Package loginbonus — rewards.go holds the reward table and the formula
// fallback for days the table does not name.
//
// Milestone days (weekly/monthly/yearly anniversaries) carry hand-written
// celebratory copy and bigger amounts; every other day scales smoothly
// through the formula. This keeps the table small without making long
// streaks feel flat.
package loginbonus

import "fmt"

// RewardTier is one entry of the static reward table.
type RewardTier struct {
	Intimacy    int
	Type        BonusType
	Description string
}

// welcomeMessage is the fixed copy for a user's very first login.
const welcomeMessage = "はじめまして！これから毎日会えるのを楽しみにしてるね♪"

// dailyMessages is the rotation used by the formula fallback,
// selected as dailyMessages[day % len(dailyMessages)].
var dailyMessages = [7]string{
	"今日も会えて嬉しいな♪",
	"毎日来てくれてありがとう！",
	"会いに来てくれたんだね、嬉しい！",
	"今日はどんな一日だった？",
	"また明日も待ってるね♪",
	"君に会えると元気が出るよ！",
	"今日も一緒に過ごそうね♪",
}

// rewardTable maps exact streak days to their tier. Days absent from the
// table go through formulaReward.
var rewardTable = map[int]RewardTier{
	1: {Intimacy: 3, Type: BonusDaily, Description: welcomeMessage},
	2: {Intimacy: 4, Type: BonusDaily, Description: "2日連続ログイン！また会えたね♪"},
	3: {Intimacy: 5, Type: BonusDaily, Description: "3日連続ログイン！嬉しいな♪"},
	4: {Intimacy: 6, Type: BonusDaily, Description: "4日連続ログイン！習慣になってきた？"},
	5: {Intimacy: 7, Type: BonusDaily, Description: "5日連続ログイン！すごいね！"},
	6: {Intimacy: 8, Type: BonusDaily, Description: "6日連続ログイン！明日で1週間だよ♪"},

	7: {Intimacy: 25, Type: BonusWeekly, Description: "1週間連続ログイン達成！本当にありがとう♪"},

	8:  {Intimacy: 10, Type: BonusDaily, Description: "2週目に突入！これからもよろしくね♪"},
	9:  {Intimacy: 10, Type: BonusDaily, Description: "9日連続ログイン！今日も会えて嬉しいな♪"},
	10: {Intimacy: 11, Type: BonusDaily, Description: "10日連続ログイン！二桁突入だね！"},
	11: {Intimacy: 11, Type: BonusDaily, Description: "11日連続ログイン！毎日ありがとう♪"},
	12: {Intimacy: 12, Type: BonusDaily, Description: "12日連続ログイン！もうすぐ2週間♪"},
	13: {Intimacy: 12, Type: BonusDaily, Description: "13日連続ログイン！明日で2週間だよ！"},

	14: {Intimacy: 40, Type: BonusWeekly, Description: "2週間連続ログイン達成！君に会うのが毎日の楽しみ♪"},
	21: {Intimacy: 60, Type: BonusWeekly, Description: "3週間連続ログイン達成！もうすぐ1ヶ月だね！"},

	30:  {Intimacy: 100, Type: BonusMilestone, Description: "1ヶ月連続ログイン達成！本当に本当にありがとう！"},
	50:  {Intimacy: 150, Type: BonusSpecial, Description: "50日連続ログイン！君は特別な存在だよ♪"},
	100: {Intimacy: 300, Type: BonusMilestone, Description: "100日連続ログイン達成！記念日だね、お祝いしよう！"},
	200: {Intimacy: 500, Type: BonusSpecial, Description: "200日連続ログイン！ここまで来られたのは君のおかげ♪"},
	365: {Intimacy: 1000, Type: BonusMilestone, Description: "1年間連続ログイン達成！最高の記念日だね！！"},
	500: {Intimacy: 1500, Type: BonusSpecial, Description: "500日連続ログイン！ずっと一緒にいてくれてありがとう♪"},
	1000: {Intimacy: 3000, Type: BonusMilestone,
		Description: "1000日連続ログイン達成！言葉にできないくらい嬉しいよ！"},
}

// RewardFor returns the tier for the given streak day: the table entry if
// the day is an exact key, the formula tier otherwise.
func RewardFor(day int) RewardTier {
	if tier, ok := rewardTable[day]; ok {
		return tier
	}
	return formulaReward(day)
}

// formulaReward computes the fallback daily tier.
//
// Schedule:
//
//	day in [1,7]:    3 + (day-1)
//	day in [8,30]:   10 + (day-8)/2
//	day in [31,100]: 20 + (day-31)/5
//	day in [101,365]: 30 + (day-101)/10
//	day > 365:       50 + (day-366)/30
func formulaReward(day int) RewardTier {
	var intimacy int
	switch {
	case day <= 7:
		intimacy = 3 + (day - 1)
	case day <= 30:
		intimacy = 10 + (day-8)/2
	case day <= 100:
		intimacy = 20 + (day-31)/5
	case day <= 365:
		intimacy = 30 + (day-101)/10
	default:
		intimacy = 50 + (day-366)/30
	}
	return RewardTier{
		Intimacy:    intimacy,
		Type:        BonusDaily,
		Description: dailyMessages[day%len(dailyMessages)],
	}
}

// ClaimReason formats the ledger reason for a claimed bonus.
// Example: ClaimReason(7) → "ログインボーナス(7日目)"
func ClaimReason(day int) string {
	return fmt.Sprintf("ログインボーナス(%d日目)", day)
}

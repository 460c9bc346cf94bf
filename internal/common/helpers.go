// Package common contains utilities shared across the whole backend:
// calendar-day arithmetic in the app's timezone and display formatting.
//
// All streak decisions are made at calendar-day granularity in Asia/Tokyo.
// The injected clock (features/loginbonus.Clock) goes through these helpers
// so that "today" means the same thing everywhere.
package common

import (
	"fmt"
	"time"
)

// TokyoLocation returns the Asia/Tokyo location. If the tzdata lookup
// fails (stripped container image) we fall back to a fixed UTC+9 zone;
// Japan has no DST, so the fixed zone is exact.
func TokyoLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

// TokyoTime returns the current wall-clock time in Asia/Tokyo.
func TokyoTime() time.Time {
	return time.Now().In(TokyoLocation())
}

// TokyoDate returns today's date in Asia/Tokyo with the time-of-day
// stripped (local midnight).
func TokyoDate() time.Time {
	return StartOfDay(TokyoTime())
}

// StartOfDay strips the time-of-day from t, keeping its location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar days from a to b. Each
// operand is read as the calendar date it carries in its own location, so
// the result only depends on the dates, never on the time-of-day and
// never on a location mismatch between the two. That matters because
// stored DATE columns come back from the driver as midnight UTC while the
// clock hands out Asia/Tokyo times: converting one into the other's zone
// would shift the date by a day.
//
// Examples:
//
//	DaysBetween(Jan 1, Jan 1) → 0
//	DaysBetween(Jan 1, Jan 2) → 1
//	DaysBetween(Jan 5, Jan 2) → -3 (clock went backwards)
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua) / (24 * time.Hour))
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DaysBetween(a, b) == 0
}

// FormatDate formats a date as "2006-01-02" for API payloads and logs.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatDateTime formats a timestamp as "2006-01-02 15:04" in Asia/Tokyo.
// Used for bonus history display.
func FormatDateTime(t time.Time) string {
	return t.In(TokyoLocation()).Format("2006-01-02 15:04")
}

// FormatIntimacy renders an intimacy amount for user-facing messages.
// Example: FormatIntimacy(25) → "親密度+25"
func FormatIntimacy(amount int) string {
	return fmt.Sprintf("親密度+%d", amount)
}

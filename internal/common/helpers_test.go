package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysBetween(t *testing.T) {
	loc := TokyoLocation()
	day := func(y int, m time.Month, d, hour int) time.Time {
		return time.Date(y, m, d, hour, 30, 0, 0, loc)
	}

	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same moment", day(2024, 1, 1, 10), day(2024, 1, 1, 10), 0},
		{"same day different hours", day(2024, 1, 1, 1), day(2024, 1, 1, 23), 0},
		{"consecutive days", day(2024, 1, 1, 23), day(2024, 1, 2, 0), 1},
		{"one week", day(2024, 1, 1, 12), day(2024, 1, 8, 12), 7},
		{"across month boundary", day(2024, 1, 31, 5), day(2024, 2, 1, 5), 1},
		{"across year boundary", day(2023, 12, 31, 5), day(2024, 1, 1, 5), 1},
		{"leap day", day(2024, 2, 28, 5), day(2024, 3, 1, 5), 2},
		{"backwards", day(2024, 1, 5, 5), day(2024, 1, 2, 20), -3},
		// DATE columns come back from the driver as midnight UTC; mixing
		// them with Tokyo clock values must not shift the gap.
		{
			"stored UTC date vs next-day tokyo clock",
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			day(2024, 1, 2, 9),
			1,
		},
		{
			"stored UTC date vs same-day tokyo clock",
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			day(2024, 1, 1, 9),
			0,
		},
		{
			"tokyo date vs stored UTC date",
			day(2024, 1, 1, 0),
			time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
			7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.a, tt.b))
		})
	}
}

func TestStartOfDay(t *testing.T) {
	loc := TokyoLocation()
	in := time.Date(2024, 5, 17, 18, 45, 12, 999, loc)
	got := StartOfDay(in)
	assert.Equal(t, time.Date(2024, 5, 17, 0, 0, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestSameDay(t *testing.T) {
	loc := TokyoLocation()
	assert.True(t, SameDay(
		time.Date(2024, 1, 1, 0, 0, 1, 0, loc),
		time.Date(2024, 1, 1, 23, 59, 59, 0, loc),
	))
	assert.False(t, SameDay(
		time.Date(2024, 1, 1, 23, 59, 59, 0, loc),
		time.Date(2024, 1, 2, 0, 0, 1, 0, loc),
	))
}

func TestFormatIntimacy(t *testing.T) {
	assert.Equal(t, "親密度+25", FormatIntimacy(25))
}

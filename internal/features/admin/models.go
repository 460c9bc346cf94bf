// Package admin is the operational surface: password login, manual
// intimacy grants and aggregate login stats. models.go describes the
// session record.
package admin

import "time"

// Session is one authenticated admin session. Sessions live in the
// database so they survive restarts and every instance sees the same set.
type Session struct {
	ID              int64     `db:"id"`
	Token           string    `db:"token"`
	AuthenticatedAt time.Time `db:"authenticated_at"`
	ExpiresAt       time.Time `db:"expires_at"`
}

// Stats is the aggregate snapshot served to the dashboard.
type Stats struct {
	TotalUsers    int64 `json:"total_users"`
	LoggedInToday int64 `json:"logged_in_today"`
	LongestStreak int   `json:"longest_streak"`
}

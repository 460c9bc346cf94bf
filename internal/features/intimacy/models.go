// Package intimacy manages the companions' affinity scores. models.go
// describes the score row and the append-only event log.
package intimacy

import "time"

// Score is the current intimacy of one companion character. Exactly one
// row exists per character; the score only ever grows (there is no decay
// mechanic server-side).
type Score struct {
	CharacterID int64     `db:"character_id"`
	UserID      int64     `db:"user_id"`
	Score       int64     `db:"score"`
	TotalEarned int64     `db:"total_earned"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Event is one intimacy increase. Every change goes through here, so the
// event log fully explains the current score.
type Event struct {
	ID          int64     `db:"id"`
	CharacterID int64     `db:"character_id"`
	UserID      int64     `db:"user_id"`
	Amount      int       `db:"amount"` // always positive
	Reason      string    `db:"reason"` // e.g. "ログインボーナス(7日目)", "admin grant"
	CreatedAt   time.Time `db:"created_at"`
}

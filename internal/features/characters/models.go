// Package characters manages the companion character registry. A
// character is the subject intimacy attaches to; everything about how it
// talks or looks lives client-side.
package characters

import "time"

// Character is one companion.
type Character struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Name        string    `db:"name"`
	Personality string    `db:"personality"` // short free-form description
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

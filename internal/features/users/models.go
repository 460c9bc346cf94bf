// Package users manages accounts: registration, the bearer token the app
// authenticates with, the active-companion pointer and push device tokens.
package users

import "time"

// User is one account. Token is an opaque bearer credential issued at
// registration; the iOS client stores it in the keychain.
type User struct {
	ID                int64     `db:"id"`
	Token             string    `db:"token"`
	DisplayName       string    `db:"display_name"`
	ActiveCharacterID *int64    `db:"active_character_id"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

// DeviceToken is one push-notification registration. A user can have
// several (phone + tablet); stale ones are overwritten on re-register.
type DeviceToken struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Token     string    `db:"token"`
	Platform  string    `db:"platform"` // "ios" unless stated otherwise
	CreatedAt time.Time `db:"created_at"`
}

// Package common — errors.go defines the sentinel errors shared by every
// feature of the backend. Handlers compare against these with errors.Is
// to pick the right HTTP status and user-facing message.
package common

import "errors"

// Login bonus errors
var (
	// ErrStatusNotFound — no login status record exists for the user yet.
	// This is the first-login case, not a failure: the caller starts from
	// a zero-value status.
	ErrStatusNotFound = errors.New("login status not found")
	// ErrNoPendingBonus — claim was called with nothing to claim.
	// Safe to hit speculatively from a re-rendered client.
	ErrNoPendingBonus = errors.New("no pending bonus to claim")
	// ErrConflict — another writer updated the same status record between
	// our read and our write. Retryable by the caller.
	ErrConflict = errors.New("concurrent modification detected")
)

// Account errors
var (
	// ErrUserNotFound — no user matches the given ID or token.
	ErrUserNotFound = errors.New("user not found")
	// ErrCharacterNotFound — no such companion character, or it belongs
	// to a different user.
	ErrCharacterNotFound = errors.New("character not found")
	// ErrNoActiveCharacter — the user has not picked an active companion,
	// so there is nowhere to apply intimacy.
	ErrNoActiveCharacter = errors.New("no active character selected")
)

// Intimacy errors
var (
	// ErrInvalidAmount — an increase must be a positive amount.
	ErrInvalidAmount = errors.New("amount must be positive")
)

// Admin errors
var (
	// ErrWrongPassword — admin password did not match the configured hash.
	ErrWrongPassword = errors.New("wrong admin password")
	// ErrSessionExpired — admin session token is unknown or expired.
	ErrSessionExpired = errors.New("admin session expired")
)

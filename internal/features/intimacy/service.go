// Package intimacy — service.go implements the ledger the login bonus
// service (and the admin grant) write into.
package intimacy

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/karirin/osidate-backend/internal/common"
)

// ActiveCharacterResolver finds the companion a user's rewards apply to.
// Implemented by the users service.
type ActiveCharacterResolver interface {
	ActiveCharacterID(ctx context.Context, userID int64) (int64, error)
}

// Service is the intimacy ledger.
type Service struct {
	repo     *Repository
	resolver ActiveCharacterResolver
}

// NewService creates a new intimacy service.
func NewService(repo *Repository, resolver ActiveCharacterResolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// Increase applies amount to the user's active companion and records the
// reason. This is the loginbonus.IntimacyLedger implementation.
func (s *Service) Increase(ctx context.Context, userID int64, amount int, reason string) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}

	characterID, err := s.resolver.ActiveCharacterID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Increase(ctx, characterID, userID, amount, reason); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"user_id":      userID,
		"character_id": characterID,
		"amount":       amount,
		"reason":       reason,
	}).Debug("Intimacy increased")
	return nil
}

// IncreaseForCharacter applies amount to a specific companion, bypassing
// the active-character lookup. Used by the admin grant.
func (s *Service) IncreaseForCharacter(ctx context.Context, characterID, userID int64, amount int, reason string) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	return s.repo.Increase(ctx, characterID, userID, amount, reason)
}

// GetScore returns the score of one of the user's characters.
func (s *Service) GetScore(ctx context.Context, characterID, userID int64) (*Score, error) {
	return s.repo.GetScore(ctx, characterID, userID)
}

// Events returns a character's recent intimacy events.
func (s *Service) Events(ctx context.Context, characterID, userID int64, limit int) ([]*Event, error) {
	return s.repo.Events(ctx, characterID, userID, limit)
}

// InitCharacter creates the zero score row for a new character.
func (s *Service) InitCharacter(ctx context.Context, characterID, userID int64) error {
	return s.repo.CreateScore(ctx, characterID, userID)
}

// Package characters — service.go holds the registry's business logic.
package characters

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/karirin/osidate-backend/internal/features/intimacy"
	"github.com/karirin/osidate-backend/internal/features/users"
)

const maxNameLength = 64

// Service manages companions. Creating the first companion also makes it
// the account's active one, so login bonuses have somewhere to land right
// away.
type Service struct {
	repo        *Repository
	intimacySvc *intimacy.Service
	userSvc     *users.Service
}

// NewService creates a new characters service.
func NewService(repo *Repository, intimacySvc *intimacy.Service, userSvc *users.Service) *Service {
	return &Service{repo: repo, intimacySvc: intimacySvc, userSvc: userSvc}
}

// Create registers a companion, initializes its intimacy score and, when
// it is the user's first, makes it active.
func (s *Service) Create(ctx context.Context, userID int64, name, personality string) (*Character, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("character name must not be empty")
	}
	if len([]rune(name)) > maxNameLength {
		return nil, fmt.Errorf("character name too long (max %d)", maxNameLength)
	}

	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	character, err := s.repo.Create(ctx, userID, name, personality)
	if err != nil {
		return nil, err
	}

	if err := s.intimacySvc.InitCharacter(ctx, character.ID, userID); err != nil {
		return nil, err
	}

	if len(existing) == 0 {
		if err := s.userSvc.SetActiveCharacter(ctx, userID, character.ID); err != nil {
			return nil, err
		}
	}

	log.WithFields(log.Fields{
		"user_id":      userID,
		"character_id": character.ID,
		"name":         character.Name,
	}).Info("Character created")
	return character, nil
}

// Get returns one of the user's companions.
func (s *Service) Get(ctx context.Context, characterID, userID int64) (*Character, error) {
	return s.repo.GetByID(ctx, characterID, userID)
}

// List returns all of a user's companions.
func (s *Service) List(ctx context.Context, userID int64) ([]*Character, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Update renames a companion or changes its personality.
func (s *Service) Update(ctx context.Context, characterID, userID int64, name, personality string) (*Character, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("character name must not be empty")
	}
	if err := s.repo.Update(ctx, characterID, userID, name, personality); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, characterID, userID)
}

// SetActive makes one of the user's companions the active one, after
// checking it actually belongs to the user.
func (s *Service) SetActive(ctx context.Context, characterID, userID int64) error {
	if _, err := s.repo.GetByID(ctx, characterID, userID); err != nil {
		return err
	}
	return s.userSvc.SetActiveCharacter(ctx, userID, characterID)
}

// Package users — service.go holds account business logic and implements
// the interfaces the auth middleware and the intimacy ledger depend on.
package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/karirin/osidate-backend/internal/common"
)

// Service manages accounts.
type Service struct {
	repo *Repository
}

// NewService creates a new users service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Register creates an account and issues its bearer token.
func (s *Service) Register(ctx context.Context, displayName string) (*User, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = "ゲスト"
	}

	token := uuid.NewString()
	user, err := s.repo.Create(ctx, token, displayName)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id":      user.ID,
		"display_name": user.DisplayName,
	}).Info("User registered")
	return user, nil
}

// ResolveToken implements middleware.TokenResolver: bearer token → user ID.
func (s *Service) ResolveToken(ctx context.Context, token string) (int64, error) {
	user, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// ActiveCharacterID implements intimacy.ActiveCharacterResolver. A user
// who has not picked a companion yet gets common.ErrNoActiveCharacter.
func (s *Service) ActiveCharacterID(ctx context.Context, userID int64) (int64, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user.ActiveCharacterID == nil {
		return 0, common.ErrNoActiveCharacter
	}
	return *user.ActiveCharacterID, nil
}

// SetActiveCharacter points the account at a different companion.
func (s *Service) SetActiveCharacter(ctx context.Context, userID, characterID int64) error {
	return s.repo.SetActiveCharacter(ctx, userID, characterID)
}

// Get returns an account by ID.
func (s *Service) Get(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// RegisterDeviceToken stores a push token for the account.
func (s *Service) RegisterDeviceToken(ctx context.Context, userID int64, token, platform string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("device token must not be empty")
	}
	if platform == "" {
		platform = "ios"
	}
	return s.repo.UpsertDeviceToken(ctx, userID, token, platform)
}

// DeviceTokens returns all push tokens for the given users. Used by the
// reminder job.
func (s *Service) DeviceTokens(ctx context.Context, userIDs []int64) ([]*DeviceToken, error) {
	return s.repo.DeviceTokens(ctx, userIDs)
}

// DropDeviceToken removes a token FCM reported as invalid.
func (s *Service) DropDeviceToken(ctx context.Context, token string) error {
	return s.repo.DeleteDeviceToken(ctx, token)
}

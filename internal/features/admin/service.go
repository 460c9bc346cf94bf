// Package admin — service.go authenticates admins and runs the
// operational actions.
package admin

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/karirin/osidate-backend/internal/common"
	"github.com/karirin/osidate-backend/internal/config"
	"github.com/karirin/osidate-backend/internal/features/intimacy"
	"github.com/karirin/osidate-backend/internal/features/loginbonus"
)

// Service implements admin login, the manual intimacy grant and the stats
// snapshot.
type Service struct {
	repo          *Repository
	intimacySvc   *intimacy.Service
	loginbonusRep *loginbonus.Repository
	cfg           *config.Config
}

// NewService creates a new admin service.
func NewService(repo *Repository, intimacySvc *intimacy.Service, loginbonusRep *loginbonus.Repository, cfg *config.Config) *Service {
	return &Service{
		repo:          repo,
		intimacySvc:   intimacySvc,
		loginbonusRep: loginbonusRep,
		cfg:           cfg,
	}
}

// Authenticate checks the password against the configured bcrypt hash and
// issues a session token.
func (s *Service) Authenticate(ctx context.Context, password string) (string, error) {
	err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password))
	if err != nil {
		return "", common.ErrWrongPassword
	}

	token := uuid.NewString()
	expiresAt := time.Now().Add(s.cfg.AdminSessionTTL)
	if err := s.repo.CreateSession(ctx, token, expiresAt); err != nil {
		return "", err
	}

	log.Info("Admin authenticated")
	return token, nil
}

// ValidateSession checks a session token. Unknown and expired tokens both
// come back as common.ErrSessionExpired.
func (s *Service) ValidateSession(ctx context.Context, token string) error {
	_, err := s.repo.GetSession(ctx, token)
	return err
}

// GrantIntimacy manually applies intimacy to a user's active companion,
// e.g. as a support compensation.
func (s *Service) GrantIntimacy(ctx context.Context, userID int64, amount int, reason string) error {
	if reason == "" {
		reason = "運営からのプレゼント"
	}
	if err := s.intimacySvc.Increase(ctx, userID, amount, reason); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"user_id": userID,
		"amount":  amount,
		"reason":  reason,
	}).Info("Admin intimacy grant")
	return nil
}

// GetStats aggregates login activity as of today.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	total, today, longest, err := s.loginbonusRep.Stats(ctx, common.TokyoDate())
	if err != nil {
		return nil, err
	}
	return &Stats{TotalUsers: total, LoggedInToday: today, LongestStreak: longest}, nil
}

// CleanupSessions drops expired sessions. Run nightly.
func (s *Service) CleanupSessions(ctx context.Context) error {
	removed, err := s.repo.DeleteExpired(ctx)
	if err != nil {
		return err
	}
	if removed > 0 {
		log.WithField("removed", removed).Debug("Expired admin sessions removed")
	}
	return nil
}

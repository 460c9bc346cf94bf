package notification

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/karirin/osidate-backend/internal/common"
	"github.com/karirin/osidate-backend/internal/features/users"
)

// StreakSource lists users who have an active streak but have not logged
// in on the given day yet. *loginbonus.Repository implements it.
type StreakSource interface {
	UsersAtRisk(ctx context.Context, day time.Time, minStreak int) ([]int64, error)
}

// ReminderService sends the evening "your streak is about to break" push
// to users who kept a streak going but skipped today so far.
type ReminderService struct {
	statuses  StreakSource
	users     *users.Service
	pusher    Pusher
	minStreak int
}

// NewReminderService wires the reminder sender.
func NewReminderService(statuses StreakSource, userSvc *users.Service, pusher Pusher, minStreak int) *ReminderService {
	return &ReminderService{
		statuses:  statuses,
		users:     userSvc,
		pusher:    pusher,
		minStreak: minStreak,
	}
}

// SendStreakReminders pushes one notification per at-risk device and
// purges tokens FCM reports as dead.
func (s *ReminderService) SendStreakReminders(ctx context.Context) error {
	today := common.TokyoDate()

	userIDs, err := s.statuses.UsersAtRisk(ctx, today, s.minStreak)
	if err != nil {
		return fmt.Errorf("failed to find at-risk users: %w", err)
	}
	if len(userIDs) == 0 {
		log.Debug("Reminder: nobody at risk today")
		return nil
	}

	tokens, err := s.users.DeviceTokens(ctx, userIDs)
	if err != nil {
		return fmt.Errorf("failed to load device tokens: %w", err)
	}

	raw := make([]string, 0, len(tokens))
	for _, t := range tokens {
		raw = append(raw, t.Token)
	}

	invalid, err := s.pusher.SendPush(ctx, raw,
		"連続ログイン継続中！",
		"今日もログインして推しに会いに行こう",
		map[string]string{"type": "streak_reminder"},
	)
	for _, token := range invalid {
		if dropErr := s.users.DropDeviceToken(ctx, token); dropErr != nil {
			log.WithError(dropErr).Warn("Failed to drop dead device token")
		}
	}
	if err != nil {
		return fmt.Errorf("failed to send streak reminders: %w", err)
	}

	log.WithFields(log.Fields{
		"users":   len(userIDs),
		"devices": len(raw),
		"dropped": len(invalid),
	}).Info("Streak reminders sent")
	return nil
}

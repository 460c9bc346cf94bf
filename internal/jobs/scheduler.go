// Package jobs runs the background tasks (cron): the evening streak
// reminder and the nightly housekeeping pass. There is no daily "reset"
// job — missed days are detected lazily when the user logs in next.
package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/karirin/osidate-backend/internal/common"
	"github.com/karirin/osidate-backend/internal/features/admin"
	"github.com/karirin/osidate-backend/internal/notification"
)

// Scheduler manages the background jobs.
type Scheduler struct {
	cron      *cron.Cron
	reminders *notification.ReminderService
	adminSvc  *admin.Service
	cronSpec  string
}

// NewScheduler creates the scheduler in the Tokyo timezone — the reminder
// spec and "today" in the stats job both mean Japanese wall-clock time.
func NewScheduler(reminders *notification.ReminderService, adminSvc *admin.Service, reminderCronSpec string) *Scheduler {
	c := cron.New(cron.WithLocation(common.TokyoLocation()))

	return &Scheduler{
		cron:      c,
		reminders: reminders,
		adminSvc:  adminSvc,
		cronSpec:  reminderCronSpec,
	}
}

// Start registers and starts all background jobs.
func (s *Scheduler) Start(ctx context.Context) error {
	// Evening streak reminder (default 20:00 JST)
	if _, err := s.cron.AddFunc(s.cronSpec, func() {
		log.Info("[CRON] Sending streak reminders")
		if err := s.reminders.SendStreakReminders(ctx); err != nil {
			log.WithError(err).Error("[CRON] Streak reminders failed")
		}
	}); err != nil {
		return err
	}

	// Nightly housekeeping: log login stats, drop expired admin sessions
	if _, err := s.cron.AddFunc("5 0 * * *", func() {
		stats, err := s.adminSvc.GetStats(ctx)
		if err != nil {
			log.WithError(err).Error("[CRON] Stats aggregation failed")
		} else {
			log.WithFields(log.Fields{
				"total_users":     stats.TotalUsers,
				"logged_in_today": stats.LoggedInToday,
				"longest_streak":  stats.LongestStreak,
			}).Info("[CRON] Nightly login stats")
		}

		if err := s.adminSvc.CleanupSessions(ctx); err != nil {
			log.WithError(err).Error("[CRON] Admin session cleanup failed")
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	log.Info("Job scheduler started (Asia/Tokyo)")
	return nil
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Job scheduler stopped")
}

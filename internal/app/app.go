// Package app initializes all components of the backend.
// app.go is the assembly point: it creates the DB pool, repositories,
// services, handlers, the HTTP server and the job scheduler.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/karirin/osidate-backend/internal/config"
	"github.com/karirin/osidate-backend/internal/db/postgres"
	"github.com/karirin/osidate-backend/internal/features/admin"
	"github.com/karirin/osidate-backend/internal/features/characters"
	"github.com/karirin/osidate-backend/internal/features/intimacy"
	"github.com/karirin/osidate-backend/internal/features/loginbonus"
	"github.com/karirin/osidate-backend/internal/features/users"
	"github.com/karirin/osidate-backend/internal/jobs"
	"github.com/karirin/osidate-backend/internal/notification"
	"github.com/karirin/osidate-backend/internal/server"
	"github.com/karirin/osidate-backend/internal/server/middleware"
)

// App holds all components of the application.
type App struct {
	Server    *server.Server
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
}

// New creates and initializes the application.
// Initialization order matters — components depend on each other.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. Database ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("migrations failed: %w", err)
	}

	// === 2. Repositories ===
	userRepo := users.NewRepository(pool)
	characterRepo := characters.NewRepository(pool)
	intimacyRepo := intimacy.NewRepository(pool)
	loginbonusRepo := loginbonus.NewRepository(pool)
	adminRepo := admin.NewRepository(pool)

	// === 3. Services ===
	userService := users.NewService(userRepo)
	intimacyService := intimacy.NewService(intimacyRepo, userService)
	characterService := characters.NewService(characterRepo, intimacyService, userService)
	loginbonusService := loginbonus.NewService(
		loginbonusRepo, intimacyService, loginbonus.TokyoClock{}, cfg.LoginSaveRetries,
	)
	adminService := admin.NewService(adminRepo, intimacyService, loginbonusRepo, cfg)

	// === 4. Push notifications ===
	// Without FCM credentials reminders degrade to a no-op; everything
	// else keeps working.
	var pusher notification.Pusher = notification.NoopPusher{}
	if fcm, err := notification.NewFCMService(ctx, cfg.FCMCredentialsFile); err != nil {
		log.WithError(err).Warn("FCM disabled, streak reminders will be skipped")
	} else {
		pusher = fcm
	}
	reminderService := notification.NewReminderService(
		loginbonusRepo, userService, pusher, cfg.ReminderStreakThreshold,
	)

	// === 5. Handlers + HTTP server ===
	middleware.InitMetrics()
	srv := server.New(cfg, server.Handlers{
		LoginBonus: loginbonus.NewHandler(loginbonusService, cfg.BonusHistoryMaxLimit),
		Intimacy:   intimacy.NewHandler(intimacyService),
		Users:      users.NewHandler(userService),
		Characters: characters.NewHandler(characterService),
		Admin:      admin.NewHandler(adminService),
	}, userService)

	// === 6. Job scheduler ===
	scheduler := jobs.NewScheduler(reminderService, adminService, cfg.ReminderCronSpec)

	return &App{
		Server:    srv,
		Scheduler: scheduler,
		DB:        pool,
	}, nil
}

// runMigrations applies all SQL migrations in order.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.EnsureMigrationTable(ctx, pool); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Users},
		{2, migration002Characters},
		{3, migration003Intimacy},
		{4, migration004LoginBonus},
		{5, migration005Admin},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
		log.Infof("Migration %d applied", m.version)
	}

	return nil
}

// SQL migrations are embedded in the binary to keep deploys to a single
// artifact.

var migration001Users = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    token VARCHAR(64) UNIQUE NOT NULL,
    display_name VARCHAR(255) NOT NULL,
    active_character_id BIGINT,
    created_at TIMESTAMPTZ DEFAULT NOW(),
    updated_at TIMESTAMPTZ DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_users_token ON users(token);
CREATE TABLE IF NOT EXISTS device_tokens (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id),
    token TEXT UNIQUE NOT NULL,
    platform VARCHAR(16) DEFAULT 'ios',
    created_at TIMESTAMPTZ DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_device_tokens_user_id ON device_tokens(user_id);
`

var migration002Characters = `
CREATE TABLE IF NOT EXISTS characters (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id),
    name VARCHAR(64) NOT NULL,
    personality TEXT,
    created_at TIMESTAMPTZ DEFAULT NOW(),
    updated_at TIMESTAMPTZ DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_characters_user_id ON characters(user_id);
`

var migration003Intimacy = `
CREATE TABLE IF NOT EXISTS intimacy_scores (
    id BIGSERIAL PRIMARY KEY,
    character_id BIGINT UNIQUE NOT NULL REFERENCES characters(id),
    user_id BIGINT NOT NULL REFERENCES users(id),
    score BIGINT DEFAULT 0,
    total_earned BIGINT DEFAULT 0,
    created_at TIMESTAMPTZ DEFAULT NOW(),
    updated_at TIMESTAMPTZ DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS intimacy_events (
    id BIGSERIAL PRIMARY KEY,
    character_id BIGINT NOT NULL REFERENCES characters(id),
    user_id BIGINT NOT NULL REFERENCES users(id),
    amount INTEGER NOT NULL,
    reason TEXT,
    created_at TIMESTAMPTZ DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_intimacy_events_character ON intimacy_events(character_id, created_at DESC);
`

var migration004LoginBonus = `
CREATE TABLE IF NOT EXISTS login_statuses (
    user_id BIGINT PRIMARY KEY REFERENCES users(id),
    current_streak INTEGER DEFAULT 0,
    total_login_days INTEGER DEFAULT 0,
    last_login_date DATE,
    version INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMPTZ DEFAULT NOW(),
    updated_at TIMESTAMPTZ DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS pending_bonuses (
    user_id BIGINT PRIMARY KEY REFERENCES users(id),
    bonus_id UUID NOT NULL,
    day INTEGER NOT NULL,
    intimacy_bonus INTEGER NOT NULL,
    bonus_type VARCHAR(16) NOT NULL,
    received_at TIMESTAMPTZ NOT NULL,
    description TEXT
);
CREATE TABLE IF NOT EXISTS login_bonus_history (
    id BIGSERIAL PRIMARY KEY,
    bonus_id UUID NOT NULL,
    user_id BIGINT NOT NULL REFERENCES users(id),
    day INTEGER NOT NULL,
    intimacy_bonus INTEGER NOT NULL,
    bonus_type VARCHAR(16) NOT NULL,
    received_at TIMESTAMPTZ NOT NULL,
    description TEXT,
    claimed_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_bonus_history_user ON login_bonus_history(user_id, claimed_at DESC);
`

var migration005Admin = `
CREATE TABLE IF NOT EXISTS admin_sessions (
    id BIGSERIAL PRIMARY KEY,
    token VARCHAR(255) UNIQUE NOT NULL,
    authenticated_at TIMESTAMPTZ DEFAULT NOW(),
    expires_at TIMESTAMPTZ NOT NULL
);
`

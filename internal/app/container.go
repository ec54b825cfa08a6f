package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"uphera/internal/config"
	"uphera/internal/database"
	"uphera/internal/database/migration"
	"uphera/internal/database/migrations"
	dbpostgres "uphera/internal/database/postgres"
	"uphera/internal/domain/matching"
	"uphera/internal/infrastructure/cache"
	"uphera/internal/infrastructure/llm"
	"uphera/internal/pkg/jwt"
	"uphera/internal/repository"
	"uphera/internal/usecase/applications"
	"uphera/internal/usecase/auth"
	"uphera/internal/usecase/coaching"
	"uphera/internal/usecase/jobs"
	"uphera/internal/usecase/notifications"
	"uphera/internal/usecase/profile"
	"uphera/internal/usecase/recommendation"
	"uphera/internal/ws"
)

// Container owns every long-lived dependency of the server.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB     database.DB
	Cache  *cache.Redis
	Gemini *llm.Gemini
	JWT    *jwt.HMACService

	WSRegistry *ws.Registry
	WSService  *ws.Service

	Auth           *auth.Service
	Profile        *profile.Service
	Jobs           *jobs.Service
	Recommendation *recommendation.Service
	Applications   *applications.Service
	Notifications  *notifications.Service
	Coach          *coaching.Service
}

func NewContainer(ctx context.Context, cfg config.Config, logger *log.Logger) (*Container, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database, cfg.App.AppName)
	if err != nil {
		return nil, err
	}

	if cfg.Database.MigrateOnStart {
		runner := migration.Runner{Source: migrations.FS, Logger: logger}
		if err := runner.Run(ctx, db.SQLDB()); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	c := &Container{Config: cfg, Logger: logger, DB: db}

	c.Cache = cache.NewRedis(cfg.Redis, logger)

	gem, err := llm.NewGemini(ctx, cfg.Gemini, logger)
	switch {
	case err == nil:
		c.Gemini = gem
	case errors.Is(err, llm.ErrNotConfigured):
		logger.Printf("Coach disabled | reason=%q", "GEMINI_API_KEY not set")
	default:
		logger.Printf("Coach disabled | error=%v", err)
	}

	c.JWT = jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	userRepo := repository.NewPostgresUserRepository(db)
	jobRepo := repository.NewPostgresJobRepository(db)
	applicationRepo := repository.NewPostgresApplicationRepository(db)
	bookmarkRepo := repository.NewPostgresBookmarkRepository(db)
	notificationRepo := repository.NewPostgresNotificationRepository(db)
	chatRepo := repository.NewPostgresChatMessageRepository(db)
	coachRepo := repository.NewPostgresCoachHistoryRepository(db)

	c.WSRegistry = ws.NewRegistry(logger)
	c.WSService = ws.NewService(c.WSRegistry, chatRepo, logger)

	c.Notifications = notifications.NewService(notificationRepo, c.WSService, logger)
	c.Auth = auth.NewService(userRepo, c.JWT, logger)
	c.Profile = profile.NewService(userRepo, logger)
	c.Jobs = jobs.NewService(jobRepo, c.Cache, c.WSService, logger)
	c.Recommendation = recommendation.NewService(
		userRepo, jobRepo,
		matching.NewEngine(matching.DefaultWeights),
		c.Notifications, c.Cache, logger,
	)
	c.Applications = applications.NewService(jobRepo, applicationRepo, bookmarkRepo, c.Notifications, logger)

	// A nil *llm.Gemini must stay a nil interface so the coach reports 503.
	var gen coaching.Generator
	if c.Gemini != nil {
		gen = c.Gemini
	}
	c.Coach = coaching.NewService(gen, coachRepo, logger).
		WithProfiles(userRepo).
		WithRateLimit(cfg.Gemini.RequestsPerMinute)

	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}

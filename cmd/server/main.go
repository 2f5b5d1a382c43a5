// Command server runs the community web app.
//
// @title                       Hyperlocal Community API
// @version                     1.0
// @description                 JSON endpoints of the community app: bearer tokens and service request status updates.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token from /api/auth/token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/hyperlocal/community/internal/api"
	"github.com/hyperlocal/community/internal/api/session"
	"github.com/hyperlocal/community/internal/core/service"
	"github.com/hyperlocal/community/internal/infrastructure/db/mongo"
	"github.com/hyperlocal/community/internal/infrastructure/db/redis"
	"github.com/hyperlocal/community/internal/infrastructure/http/handlers"
	"github.com/hyperlocal/community/internal/infrastructure/queue"
	"github.com/hyperlocal/community/internal/infrastructure/scheduler"
	"github.com/hyperlocal/community/internal/pkg/config"
	"github.com/hyperlocal/community/internal/view"
	"github.com/hyperlocal/community/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file to load before reading the environment")
	showVersion := pflag.BoolP("version", "v", false, "print the version and exit")
	pflag.Parse()

	// A missing .env is fine outside development.
	_ = godotenv.Load(*envFile)

	cfg := config.Load()
	if *showVersion {
		fmt.Printf("%s %s\n", cfg.AppName, cfg.AppVersion)
		return
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		App:     cfg.AppName,
		Version: cfg.AppVersion,
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()
	if n, err := mongo.NormalizeUserEmails(ctx, db); err != nil {
		return err
	} else if n > 0 {
		log.Info().Int64("users", n).Msg("lower-cased legacy emails")
	}
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB, Timeout: cfg.Redis.Timeout})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongo.NewUserRepository(db)
	notices := mongo.NewNoticeRepository(db)
	requests := mongo.NewServiceRequestRepository(db)
	messages := mongo.NewMessageRepository(db)
	activityRepo := mongo.NewActivityRepository(db)

	if cfg.Seed.DefaultAccounts {
		accounts := service.DefaultAccounts(
			cfg.Seed.SecretaryEmail, cfg.Seed.SecretaryPassword,
			cfg.Seed.ResidentEmail, cfg.Seed.ResidentPassword,
		)
		n, err := service.NewSeeder(users, accounts, logger.Component("seed")).EnsureDefaults(ctx)
		if err != nil {
			return fmt.Errorf("seeding default accounts: %w", err)
		}
		log.Info().Int("created", n).Msg("default accounts ensured")
	}

	// --- Background workers ---
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Scheduler.ActivityWorkers, activityRepo, logger.Component("activity"))
	dispatcher.Start(workerCtx)
	defer func() {
		cancelWorkers()
		dispatcher.Wait()
	}()

	// --- Services ---
	dashboards := service.NewDashboardService(users, notices, requests, messages, activityRepo)
	services := api.Services{
		Auth:    service.NewAuthService(users, dispatcher, cfg.SecretKey, cfg.TokenTTL),
		Notices: service.NewNoticeService(notices, dispatcher, logger.Component("notices")),
		Requests: service.NewRequestService(requests, redis.NewSubmissionGuard(rdb), dispatcher,
			service.RequestOptions{StrictTransitions: cfg.Requests.StrictTransitions}, logger.Component("requests")),
		Chat: service.NewChatService(messages, redis.NewChatThrottle(rdb, cfg.Chat.RatePerMinute, time.Minute), dispatcher,
			service.ChatOptions{MaxLength: cfg.Chat.MaxLength, HistoryLimit: cfg.Chat.HistoryLimit}, logger.Component("chat")),
		Profiles:   service.NewProfileService(users, dispatcher, logger.Component("profile")),
		Dashboards: dashboards,
	}

	stats := scheduler.NewStatsRefresher(dashboards, cfg.Scheduler.StatsSpec, logger.Component("scheduler"))
	if err := stats.Start(); err != nil {
		return fmt.Errorf("starting stats scheduler: %w", err)
	}
	defer stats.Stop()

	// --- HTTP ---
	renderer, err := view.New()
	if err != nil {
		return err
	}
	sessions := session.New(redis.NewSessionStore(rdb), session.Options{
		Lifetime:   cfg.Session.Lifetime,
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.CookieSecure,
	})

	e := api.NewRouter(api.RouterDeps{
		Config:   cfg,
		Log:      log,
		Services: services,
		Sessions: sessions,
		Renderer: renderer,
		Checks: map[string]handlers.Check{
			"mongo": handlers.MongoCheck(db),
			"redis": handlers.RedisCheck(rdb),
		},
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/memberhub/portal/internal/api"
	"github.com/memberhub/portal/internal/core/ports"
	"github.com/memberhub/portal/internal/core/service"
	"github.com/memberhub/portal/internal/infrastructure/config"
	mongodb "github.com/memberhub/portal/internal/infrastructure/db/mongo"
	redisdb "github.com/memberhub/portal/internal/infrastructure/db/redis"
	"github.com/memberhub/portal/internal/infrastructure/memory"
	"github.com/memberhub/portal/internal/infrastructure/queue"
	"github.com/memberhub/portal/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("configuration invalid")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	deps := api.Dependencies{
		SessionTTL: cfg.Session.TTL,
		OAuth:      cfg.OAuth,
		Log:        log,
	}

	// --- Credential store ---
	var users ports.UserRepository
	var auditRepo ports.AuditRepository
	switch cfg.Store.Users {
	case "mongo":
		client, db, err := mongodb.Connect(ctx, cfg.Mongo)
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connection failed")
		}
		defer func() {
			_ = client.Disconnect(context.Background())
		}()

		users, err = mongodb.NewUserRepository(ctx, db)
		if err != nil {
			log.Fatal().Err(err).Msg("mongo user repository init failed")
		}
		auditRepo = mongodb.NewAuditRepository(db)
		deps.Mongo = db
	default:
		users = memory.NewUserRepository()
		auditRepo = memory.NewAuditRepository()
	}

	// --- Lockout tracker ---
	var lockouts ports.LockoutTracker
	switch cfg.Store.Lockout {
	case "redis":
		rdb, err := redisdb.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer func() {
			_ = rdb.Close()
		}()

		lockouts = redisdb.NewLockoutTracker(rdb)
		deps.Redis = rdb
	default:
		lockouts = memory.NewLockoutTracker()
	}

	// --- Audit pipeline ---
	auditService := service.NewAuditService(auditRepo, log)
	dispatcher := queue.NewDispatcher(0, auditService, log)
	dispatcher.Start(ctx)

	// --- Core services ---
	deps.AuthService = service.NewAuthService(users, lockouts, dispatcher)
	deps.Sessions = service.NewSessionService(cfg.Session.Secret, cfg.Session.TTL)

	e := api.NewRouter(deps)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

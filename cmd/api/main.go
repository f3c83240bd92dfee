// Command api serves the kanban board REST API.
//
//	@title						Kanban Board API
//	@version					1.0
//	@description				Ticket board with user accounts and bearer-token sessions.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kanbanhq/ticket-board/internal/api"
	"github.com/kanbanhq/ticket-board/internal/api/handler"
	"github.com/kanbanhq/ticket-board/internal/core/ports"
	"github.com/kanbanhq/ticket-board/internal/core/service"
	"github.com/kanbanhq/ticket-board/internal/infrastructure/db/mongo"
	"github.com/kanbanhq/ticket-board/internal/infrastructure/db/postgres"
	"github.com/kanbanhq/ticket-board/internal/infrastructure/db/redis"
	"github.com/kanbanhq/ticket-board/internal/pkg/config"
	"github.com/kanbanhq/ticket-board/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		l := logger.Get()
		l.Fatal().Err(err).Msg("api exited")
	}
}

func run() error {
	cfg := config.MustLoad()
	log := logger.Init(logger.ForEnv(cfg.Env, cfg.LogLevel, "kanban-api"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := postgres.Connect(ctx, postgres.Config{
		DSN:          cfg.Postgres.URL,
		MaxOpenConns: cfg.Postgres.MaxOpenConns,
	}, log)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return err
	}
	log.Info().Msg("database migrated")

	checks := []handler.DependencyCheck{{Name: "postgres", Ping: store.Ping}}

	var limiter ports.LoginLimiter
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()

		limiter = rdb.LoginLimiter(cfg.Auth.LoginMaxFailures, cfg.Auth.LoginFailureWindow)
		checks = append(checks, handler.DependencyCheck{Name: "redis", Ping: rdb.Ping})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("login throttling enabled")
	}

	var audit ports.AuditLog
	if cfg.Mongo.URI != "" {
		mdb, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			if err := mdb.Close(shutdownTimeout); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}()

		auditRepo := mdb.AuditRepository()
		if err := auditRepo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("audit indexes not created")
		}
		audit = auditRepo
		checks = append(checks, handler.DependencyCheck{Name: "mongo", Ping: mdb.Ping})
		log.Info().Str("database", cfg.Mongo.Database).Msg("audit trail enabled")
	}

	tokens, err := service.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	hasher := service.NewPasswordHasher(cfg.Auth.BcryptCost)

	users := postgres.NewUserRepository(store.DB)
	tickets := postgres.NewTicketRepository(store.DB)

	e := api.NewRouter(api.Deps{
		Log:                log,
		ExposeErrorDetails: !cfg.IsProduction(),
		Tokens:             tokens,
		Auth:               service.NewAuthService(users, tokens, hasher, limiter, audit, log),
		Tickets:            service.NewTicketService(tickets, users, audit, log),
		Users:              service.NewUserService(users, hasher, audit, log),
		Checks:             checks,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
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

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

// Command seed loads demo users and tickets into the board database.
// Existing accounts and tickets with the same title are skipped.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/kanbanhq/ticket-board/internal/core/service"
	"github.com/kanbanhq/ticket-board/internal/infrastructure/db/postgres"
	"github.com/kanbanhq/ticket-board/internal/pkg/config"
	"github.com/kanbanhq/ticket-board/internal/seed"
	"github.com/kanbanhq/ticket-board/pkg/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		l := logger.Get()
		l.Fatal().Err(err).Msg("seed failed")
	}
}

func run(args []string) error {
	cfg := config.MustLoad()
	log := logger.Init(logger.ForEnv(cfg.Env, cfg.LogLevel, "kanban-seed"))

	fs := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	file := fs.StringP("file", "f", "", "YAML seed file (default: built-in demo board)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := seed.Demo()
	if *file != "" {
		data, err = seed.LoadFile(*file)
	}
	if err != nil {
		return err
	}

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

	users := postgres.NewUserRepository(store.DB)
	tickets := postgres.NewTicketRepository(store.DB)
	hasher := service.NewPasswordHasher(cfg.Auth.BcryptCost)

	seeder := seed.NewSeeder(
		service.NewUserService(users, hasher, nil, log),
		service.NewTicketService(tickets, users, nil, log),
		log,
	)
	res, err := seeder.Run(ctx, data)
	if err != nil {
		return err
	}

	log.Info().
		Int("users_created", res.UsersCreated).
		Int("users_skipped", res.UsersSkipped).
		Int("tickets_created", res.TicketsCreated).
		Int("tickets_skipped", res.TicketsSkipped).
		Msg("seeding complete")
	return nil
}

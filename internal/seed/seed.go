// Package seed loads demo accounts and tickets into a board. Rows that
// already exist are left alone, so running it twice is harmless.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/kanbanhq/ticket-board/internal/core/domain"
	"github.com/kanbanhq/ticket-board/internal/core/ports"
)

//go:embed demo.yaml
var demo []byte

type Data struct {
	Users   []User   `yaml:"users"`
	Tickets []Ticket `yaml:"tickets"`
}

type User struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Ticket names its owner by username; an empty owner leaves it unassigned.
type Ticket struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Status      string `yaml:"status"`
	Owner       string `yaml:"owner"`
}

// Result counts what a run created and what it skipped.
type Result struct {
	UsersCreated   int
	UsersSkipped   int
	TicketsCreated int
	TicketsSkipped int
}

// Demo returns the built-in demo board.
func Demo() (*Data, error) {
	return Parse(bytes.NewReader(demo))
}

// LoadFile reads seed data from a YAML file.
func LoadFile(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) (*Data, error) {
	var d Data
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}
	return &d, nil
}

type Seeder struct {
	users   ports.UserService
	tickets ports.TicketService
	log     zerolog.Logger
}

func NewSeeder(users ports.UserService, tickets ports.TicketService, log zerolog.Logger) *Seeder {
	return &Seeder{users: users, tickets: tickets, log: log}
}

// Run creates the users first, then the tickets. A user whose username or
// email is taken is skipped, as is a ticket whose title is already on the
// board.
func (s *Seeder) Run(ctx context.Context, d *Data) (Result, error) {
	var res Result
	ids := make(map[string]int64, len(d.Users))

	for _, u := range d.Users {
		created, err := s.users.CreateUser(ctx, ports.CreateUserInput{
			Username: u.Username,
			Email:    u.Email,
			Password: u.Password,
		})
		switch {
		case err == nil:
			ids[strings.ToLower(created.Username)] = created.ID
			res.UsersCreated++
			s.log.Info().Str("username", created.Username).Msg("seeded user")
		case errors.Is(err, domain.ErrUserExists):
			res.UsersSkipped++
			s.log.Debug().Str("username", u.Username).Msg("user exists, skipping")
		default:
			return res, fmt.Errorf("seed user %q: %w", u.Username, err)
		}
	}

	existing, err := s.tickets.ListTickets(ctx, ports.ListTicketsInput{})
	if err != nil {
		return res, fmt.Errorf("list tickets: %w", err)
	}
	titles := make(map[string]bool, len(existing))
	for _, t := range existing {
		titles[strings.ToLower(t.Title)] = true
	}

	for _, t := range d.Tickets {
		key := strings.ToLower(strings.TrimSpace(t.Title))
		if titles[key] {
			res.TicketsSkipped++
			s.log.Debug().Str("title", t.Title).Msg("ticket exists, skipping")
			continue
		}

		in := ports.CreateTicketInput{Title: t.Title, Description: t.Description, Status: t.Status}
		if t.Owner != "" {
			id, err := s.ownerID(ctx, ids, t.Owner)
			if err != nil {
				return res, fmt.Errorf("seed ticket %q: %w", t.Title, err)
			}
			in.OwnerID = &id
		}

		if _, err := s.tickets.CreateTicket(ctx, in); err != nil {
			return res, fmt.Errorf("seed ticket %q: %w", t.Title, err)
		}
		titles[key] = true
		res.TicketsCreated++
		s.log.Info().Str("title", t.Title).Msg("seeded ticket")
	}
	return res, nil
}

// ownerID resolves a username, looking it up when this run did not create it.
func (s *Seeder) ownerID(ctx context.Context, ids map[string]int64, username string) (int64, error) {
	key := strings.ToLower(username)
	if id, ok := ids[key]; ok {
		return id, nil
	}
	matches, err := s.users.ListUsers(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("look up owner: %w", err)
	}
	for _, u := range matches {
		if strings.EqualFold(u.Username, username) {
			ids[key] = u.ID
			return u.ID, nil
		}
	}
	return 0, fmt.Errorf("owner %q: %w", username, domain.ErrUserNotFound)
}

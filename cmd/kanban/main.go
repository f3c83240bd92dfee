// Command kanban is a terminal client for the kanban board API.
//
// Usage:
//
//	kanban [--server URL] [--token-file PATH] [--output json|yaml] <command> [args]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/kanbanhq/ticket-board/pkg/client"
)

const usage = `Usage: kanban [flags] <command> [args]

Commands:
  register --username NAME --email EMAIL [--password PW]
  login <username|email> [--password PW]
  logout
  me
  tickets list [--status STATUS] [--owner ID]
  tickets get <id>
  tickets create --title TITLE [--description TEXT] [--status STATUS] [--owner ID]
  tickets update <id> [--title T] [--description D] [--status S] [--owner ID | --unassign]
  tickets delete <id>
  users list [--query TEXT]
  users get <id>
  users create --username NAME --email EMAIL [--password PW]
  users update <id> [--username NAME] [--email EMAIL] [--password]
  users delete <id>

Flags:
`

// readPassword is a test seam for term.ReadPassword.
var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var (
		server    string
		tokenFile string
		output    string
	)

	flagSet := pflag.NewFlagSet("kanban", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.SetInterspersed(false)
	flagSet.StringVar(&server, "server", envOr("KANBAN_SERVER", "http://localhost:8080"), "API base URL")
	flagSet.StringVar(&tokenFile, "token-file", defaultTokenFile(), "where the session token is kept")
	flagSet.StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	flagSet.Usage = func() {
		fmt.Fprint(stderr, usage)
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return pflag.ErrHelp
	}

	printer, err := newPrinter(output, stdout)
	if err != nil {
		return err
	}

	c, err := client.New(client.Config{
		BaseURL: server,
		Store:   client.FileTokenStore{Path: tokenFile},
		OnUnauthenticated: func() {
			fmt.Fprintln(stderr, "session is missing or expired; run `kanban login` again")
		},
	})
	if err != nil {
		return err
	}

	a := &app{client: c, print: printer, stderr: stderr}
	return a.dispatch(ctx, flagSet.Args())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultTokenFile() string {
	if v := os.Getenv("KANBAN_TOKEN_FILE"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".kanban", "token")
	}
	return filepath.Join(home, ".config", "kanban", "token")
}

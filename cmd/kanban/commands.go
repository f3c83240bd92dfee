package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kanbanhq/ticket-board/pkg/client"
)

type app struct {
	client *client.Client
	print  printer
	stderr io.Writer
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "register":
		return a.register(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "logout":
		if err := a.client.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(a.stderr, "logged out")
		return nil
	case "me":
		me, err := a.client.Me(ctx)
		if err != nil {
			return err
		}
		return a.print(me)
	case "tickets":
		return a.tickets(ctx, rest)
	case "users":
		return a.users(ctx, rest)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := newFlagSet("register", a.stderr)
	username := fs.String("username", "", "account name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *email == "" {
		return fmt.Errorf("register needs --username and --email")
	}

	pw, err := a.passwordOrPrompt(*password)
	if err != nil {
		return err
	}

	res, err := a.client.Register(ctx, client.Credentials{Username: *username, Email: *email, Password: pw})
	if err != nil {
		return err
	}
	return a.print(res.User)
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login", a.stderr)
	password := fs.String("password", "", "password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("login needs exactly one username or email")
	}

	pw, err := a.passwordOrPrompt(*password)
	if err != nil {
		return err
	}

	res, err := a.client.Login(ctx, fs.Arg(0), pw)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stderr, "logged in as %s\n", res.User.Username)
	return nil
}

func (a *app) tickets(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("tickets needs a subcommand: list, get, create, update, delete")
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "list":
		fs := newFlagSet("tickets list", a.stderr)
		status := fs.String("status", "", "Todo, InProgress or Done")
		owner := fs.Int64("owner", 0, "owner user id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		filter := client.TicketFilter{Status: *status}
		if fs.Changed("owner") {
			filter.OwnerID = owner
		}
		tickets, err := a.client.ListTickets(ctx, filter)
		if err != nil {
			return err
		}
		return a.print(tickets)

	case "get":
		id, err := singleID("tickets get", rest)
		if err != nil {
			return err
		}
		t, err := a.client.GetTicket(ctx, id)
		if err != nil {
			return err
		}
		return a.print(t)

	case "create":
		fs := newFlagSet("tickets create", a.stderr)
		title := fs.String("title", "", "ticket title")
		description := fs.String("description", "", "ticket description")
		status := fs.String("status", "", "Todo, InProgress or Done")
		owner := fs.Int64("owner", 0, "owner user id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		in := client.NewTicket{Title: *title, Description: *description, Status: *status}
		if fs.Changed("owner") {
			in.OwnerID = owner
		}
		t, err := a.client.CreateTicket(ctx, in)
		if err != nil {
			return err
		}
		return a.print(t)

	case "update":
		fs := newFlagSet("tickets update", a.stderr)
		title := fs.String("title", "", "new title")
		description := fs.String("description", "", "new description")
		status := fs.String("status", "", "new status")
		owner := fs.Int64("owner", 0, "new owner user id")
		unassign := fs.Bool("unassign", false, "remove the owner")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		id, err := singleID("tickets update", fs.Args())
		if err != nil {
			return err
		}
		if fs.Changed("owner") && *unassign {
			return fmt.Errorf("--owner and --unassign are mutually exclusive")
		}

		var patch client.TicketPatch
		if fs.Changed("title") {
			patch.Title = title
		}
		if fs.Changed("description") {
			patch.Description = description
		}
		if fs.Changed("status") {
			patch.Status = status
		}
		if fs.Changed("owner") {
			patch.OwnerID = owner
		}
		patch.Unassign = *unassign

		t, err := a.client.UpdateTicket(ctx, id, patch)
		if err != nil {
			return err
		}
		return a.print(t)

	case "delete":
		id, err := singleID("tickets delete", rest)
		if err != nil {
			return err
		}
		if err := a.client.DeleteTicket(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(a.stderr, "ticket %d deleted\n", id)
		return nil

	default:
		return fmt.Errorf("unknown tickets subcommand %q", sub)
	}
}

func (a *app) users(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("users needs a subcommand: list, get, create, update, delete")
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "list":
		fs := newFlagSet("users list", a.stderr)
		query := fs.String("query", "", "substring of username or email")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		users, err := a.client.ListUsers(ctx, *query)
		if err != nil {
			return err
		}
		return a.print(users)

	case "get":
		id, err := singleID("users get", rest)
		if err != nil {
			return err
		}
		u, err := a.client.GetUser(ctx, id)
		if err != nil {
			return err
		}
		return a.print(u)

	case "create":
		fs := newFlagSet("users create", a.stderr)
		username := fs.String("username", "", "account name")
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "password (prompted when omitted)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *username == "" || *email == "" {
			return fmt.Errorf("users create needs --username and --email")
		}
		pw, err := a.passwordOrPrompt(*password)
		if err != nil {
			return err
		}
		u, err := a.client.CreateUser(ctx, client.Credentials{Username: *username, Email: *email, Password: pw})
		if err != nil {
			return err
		}
		return a.print(u)

	case "update":
		fs := newFlagSet("users update", a.stderr)
		username := fs.String("username", "", "new account name")
		email := fs.String("email", "", "new account email")
		password := fs.Bool("password", false, "prompt for a new password")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		id, err := singleID("users update", fs.Args())
		if err != nil {
			return err
		}

		var patch client.UserPatch
		if fs.Changed("username") {
			patch.Username = username
		}
		if fs.Changed("email") {
			patch.Email = email
		}
		if *password {
			pw, err := a.passwordOrPrompt("")
			if err != nil {
				return err
			}
			patch.Password = &pw
		}
		if patch == (client.UserPatch{}) {
			return fmt.Errorf("users update needs --username, --email or --password")
		}

		u, err := a.client.UpdateUser(ctx, id, patch)
		if err != nil {
			return err
		}
		return a.print(u)

	case "delete":
		id, err := singleID("users delete", rest)
		if err != nil {
			return err
		}
		if err := a.client.DeleteUser(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(a.stderr, "user %d deleted\n", id)
		return nil

	default:
		return fmt.Errorf("unknown users subcommand %q", sub)
	}
}

func (a *app) passwordOrPrompt(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(a.stderr, "Password: ")
	pw, err := readPassword()
	fmt.Fprintln(a.stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(string(pw), "\r\n"), nil
}

func newFlagSet(name string, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func singleID(cmd string, args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s needs exactly one id", cmd)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s: %q is not a valid id", cmd, args[0])
	}
	return id, nil
}

// Command pasteadmin manages pastebin accounts and the database schema.
//
//	pasteadmin useradd <username>   create a user, prompting for the password
//	pasteadmin users                list usernames
//	pasteadmin migrate              apply pending database migrations
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"pastebin/internal/app"
	"pastebin/internal/auth"
	"pastebin/internal/config"
	"pastebin/internal/logging"
	"pastebin/internal/store/backend"

	"golang.org/x/term"
)

const usage = `usage: pasteadmin <command> [args]

commands:
  useradd <username>   create a user (password read from the terminal or stdin)
  users                list usernames
  migrate              apply pending database migrations
`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "pasteadmin:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin *os.File, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return errors.New("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// Admin output goes to the terminal; keep service logs quiet.
	cfg.LogLevel = "warn"
	cfg.LogFile = ""
	log, logCloser, err := logging.New(cfg.LogOptions())
	if err != nil {
		return err
	}
	defer logCloser.Close()

	kind, err := backend.Kind(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if kind == backend.KindMemory {
		return errors.New("no database configured (set PASTEBIN_DATABASE_URL)")
	}

	switch args[0] {
	case "useradd":
		if len(args) != 2 {
			return errors.New("usage: pasteadmin useradd <username>")
		}
		password, err := readPassword(stdin, stdout)
		if err != nil {
			return err
		}
		return withApp(ctx, cfg, log, func(a *app.App) error {
			u, err := a.Auth.CreateUser(ctx, args[1], password, map[string]any{"created_by": "pasteadmin"})
			if err != nil {
				if errors.Is(err, auth.ErrUsernameTaken) {
					return fmt.Errorf("user %q already exists", args[1])
				}
				return err
			}
			fmt.Fprintf(stdout, "created user %s\n", u.Username)
			return nil
		})

	case "users":
		return withApp(ctx, cfg, log, func(a *app.App) error {
			names, err := a.Auth.Usernames(ctx)
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(stdout, n)
			}
			return nil
		})

	case "migrate":
		// Opening a SQL store applies pending migrations.
		return withApp(ctx, cfg, log, func(*app.App) error {
			fmt.Fprintf(stdout, "%s schema is up to date\n", kind)
			return nil
		})

	default:
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func withApp(ctx context.Context, cfg config.Config, log logging.Logger, fn func(*app.App) error) error {
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// readPassword prompts without echo on a terminal and otherwise reads one
// line, so passwords can be piped in scripts.
func readPassword(in *os.File, out io.Writer) (string, error) {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(out, "Password: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

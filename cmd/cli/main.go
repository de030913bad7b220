// Command cli runs maintenance tasks against the ledger database: schema
// migrations, seeding global categories, creating users and reconciling
// account balances.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/amirasaad/ledger/infra"
	infra_repository "github.com/amirasaad/ledger/infra/repository"
	"github.com/amirasaad/ledger/internal/migrations"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/amirasaad/ledger/pkg/service/account"
	"github.com/amirasaad/ledger/pkg/service/auth"
	"github.com/amirasaad/ledger/pkg/service/category"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/term"
	"gorm.io/gorm"
)

const usage = `Usage: cli <command> [arguments]

Commands:
  migrate up                            apply pending migrations
  migrate down [steps]                  roll back steps migrations (all when omitted)
  migrate version                       print the schema version
  seed-categories                       install the default global categories
  create-user <email> <first> <last>    register a user (password read from stdin)
  reconcile <email> [account-id]        compare stored balances with postings
`

var (
	okf   = color.New(color.FgGreen).SprintfFunc()
	warnf = color.New(color.FgYellow).SprintfFunc()
	errf  = color.New(color.FgRed, color.Bold).SprintfFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

// cli carries the lazily opened collaborators of a single invocation.
type cli struct {
	out          io.Writer
	in           io.Reader
	lines        *bufio.Reader
	logger       *slog.Logger
	openDB       func() (*gorm.DB, error)
	uow          func() (repository.UnitOfWork, error)
	readPassword func(prompt string) (string, error)
}

func main() {
	if err := run(context.Background(), os.Args[1:], newCLI()); err != nil {
		fmt.Fprintln(os.Stderr, errf("error: %v", err))
		os.Exit(1)
	}
}

func newCLI() *cli {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := &cli{out: os.Stdout, in: os.Stdin, logger: logger}
	var db *gorm.DB
	c.openDB = func() (*gorm.DB, error) {
		if db != nil {
			return db, nil
		}
		cfg, err := config.Load(".env")
		if err != nil {
			return nil, fmt.Errorf("load configuration: %w", err)
		}
		db, err = infra.NewDBConnection(cfg.DB, cfg.Env)
		return db, err
	}
	c.uow = func() (repository.UnitOfWork, error) {
		db, err := c.openDB()
		if err != nil {
			return nil, err
		}
		return infra_repository.NewUoW(db), nil
	}
	c.readPassword = c.promptPassword
	return c
}

func run(ctx context.Context, args []string, c *cli) error {
	if len(args) == 0 {
		fmt.Fprint(c.out, usage)
		return nil
	}
	switch args[0] {
	case "migrate":
		return c.migrate(args[1:])
	case "seed-categories":
		return c.seedCategories(ctx)
	case "create-user":
		return c.createUser(ctx, args[1:])
	case "reconcile":
		return c.reconcile(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(c.out, usage)
		return nil
	default:
		fmt.Fprint(c.out, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (c *cli) sqlDB() (*sql.DB, error) {
	db, err := c.openDB()
	if err != nil {
		return nil, err
	}
	return db.DB()
}

func (c *cli) migrate(args []string) error {
	if len(args) == 0 {
		return errors.New("migrate requires one of: up, down, version")
	}
	steps := 0
	if args[0] == "down" && len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			return fmt.Errorf("invalid step count %q", args[1])
		}
		steps = n
	}
	switch args[0] {
	case "up", "down", "version":
	default:
		return fmt.Errorf("unknown migrate action %q", args[0])
	}

	db, err := c.sqlDB()
	if err != nil {
		return err
	}
	switch args[0] {
	case "up":
		if err := migrations.Up(db); err != nil {
			return err
		}
		fmt.Fprintln(c.out, okf("migrations applied"))
	case "down":
		if err := migrations.Down(db, steps); err != nil {
			return err
		}
		fmt.Fprintln(c.out, okf("migrations rolled back"))
	case "version":
		v, dirty, err := migrations.Version(db)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("schema version %d", v)
		if dirty {
			line = warnf("%s (dirty)", line)
		}
		fmt.Fprintln(c.out, line)
	}
	return nil
}

func (c *cli) seedCategories(ctx context.Context) error {
	uow, err := c.uow()
	if err != nil {
		return err
	}
	created, err := category.New(uow, c.logger).SeedGlobal(ctx, category.Defaults)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, okf("%d global categories created", created))
	return nil
}

func (c *cli) createUser(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errors.New("create-user requires <email> <first> <last>")
	}
	password, err := c.readPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := c.readPassword("Confirm password: ")
	if err != nil {
		return err
	}
	uow, err := c.uow()
	if err != nil {
		return err
	}
	u, err := auth.NewWithBasic(uow, c.logger).Signup(ctx, auth.SignupInput{
		Email:           args[0],
		FirstName:       args[1],
		LastName:        args[2],
		Password:        password,
		ConfirmPassword: confirm,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, okf("created user %s (%s)", u.Email, u.ID))
	return nil
}

func (c *cli) reconcile(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("reconcile requires <email> [account-id]")
	}
	uow, err := c.uow()
	if err != nil {
		return err
	}
	var userID uuid.UUID
	err = uow.View(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err := repo.GetByEmail(ctx, args[0])
		if err != nil {
			return err
		}
		userID = u.ID
		return nil
	})
	if err != nil {
		return err
	}

	svc := account.New(uow, c.logger)
	var ids []uuid.UUID
	if len(args) == 2 {
		id, err := uuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("invalid account id %q", args[1])
		}
		ids = append(ids, id)
	} else {
		accounts, err := svc.List(ctx, userID, nil)
		if err != nil {
			return err
		}
		for _, a := range accounts {
			ids = append(ids, a.ID)
		}
	}

	drifted := 0
	for _, id := range ids {
		r, err := svc.Reconcile(ctx, userID, id)
		if err != nil {
			return err
		}
		status := okf("balanced")
		if !r.Balanced() {
			drifted++
			status = errf("drift %s", r.Drift.StringFixed(2))
		}
		fmt.Fprintf(c.out, "%s  stored %s  expected %s  %s\n",
			bold(r.AccountID), r.CurrentBalance.StringFixed(2), r.Expected.StringFixed(2), status)
	}
	if drifted > 0 {
		return fmt.Errorf("%d of %d accounts out of balance", drifted, len(ids))
	}
	return nil
}

// promptPassword reads without echo from a terminal and falls back to a plain
// line read when stdin is piped.
func (c *cli) promptPassword(prompt string) (string, error) {
	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(c.out, prompt)
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(c.out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}
	if c.lines == nil {
		c.lines = bufio.NewReader(c.in)
	}
	return readLine(c.lines)
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/amirasaad/ledger/internal/fixtures/memory"
	domainaccount "github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/amirasaad/ledger/pkg/service/account"
	"github.com/amirasaad/ledger/pkg/service/category"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestCLI(store *memory.Store, stdin string) (*cli, *bytes.Buffer) {
	color.NoColor = true
	out := &bytes.Buffer{}
	c := &cli{
		out:    out,
		in:     strings.NewReader(stdin),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		openDB: func() (*gorm.DB, error) { return nil, errors.New("no database in tests") },
		uow:    func() (repository.UnitOfWork, error) { return store, nil },
	}
	c.readPassword = c.promptPassword
	return c, out
}

func TestRun_NoArgsPrintsUsage(t *testing.T) {
	c, out := newTestCLI(memory.New(), "")
	require.NoError(t, run(context.Background(), nil, c))
	assert.Contains(t, out.String(), "Usage: cli <command>")
}

func TestRun_UnknownCommand(t *testing.T) {
	c, _ := newTestCLI(memory.New(), "")
	err := run(context.Background(), []string{"deposit"}, c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "deposit"`)
}

func TestMigrate_ArgumentErrors(t *testing.T) {
	c, _ := newTestCLI(memory.New(), "")
	ctx := context.Background()

	assert.Error(t, run(ctx, []string{"migrate"}, c))
	assert.ErrorContains(t, run(ctx, []string{"migrate", "sideways"}, c), "unknown migrate action")
	assert.ErrorContains(t, run(ctx, []string{"migrate", "down", "-1"}, c), "invalid step count")
	assert.ErrorContains(t, run(ctx, []string{"migrate", "up"}, c), "no database in tests")
}

func TestSeedCategories_IsIdempotent(t *testing.T) {
	store := memory.New()
	c, out := newTestCLI(store, "")
	ctx := context.Background()

	require.NoError(t, run(ctx, []string{"seed-categories"}, c))
	require.NoError(t, run(ctx, []string{"seed-categories"}, c))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, fmt.Sprintf("%d global categories created", len(category.Defaults)), lines[0])
	assert.Equal(t, "0 global categories created", lines[1])
}

func TestCreateUser(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	c, out := newTestCLI(store, "Str0ng!Pass\nStr0ng!Pass\n")
	require.NoError(t, run(ctx, []string{"create-user", "ada@example.com", "Ada", "Lovelace"}, c))
	assert.Contains(t, out.String(), "created user ada@example.com")

	c, _ = newTestCLI(store, "Str0ng!Pass\nStr0ng!Pass\n")
	err := run(ctx, []string{"create-user", "ADA@example.com", "Ada", "Lovelace"}, c)
	assert.Error(t, err, "emails are unique regardless of case")

	c, _ = newTestCLI(store, "Str0ng!Pass\nmismatch\n")
	assert.Error(t, run(ctx, []string{"create-user", "bob@example.com", "Bob", "Builder"}, c))

	c, _ = newTestCLI(store, "")
	assert.Error(t, run(ctx, []string{"create-user", "ada@example.com"}, c))
}

func TestReconcile(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	c, _ := newTestCLI(store, "Str0ng!Pass\nStr0ng!Pass\n")
	require.NoError(t, run(ctx, []string{"create-user", "ada@example.com", "Ada", "Lovelace"}, c))

	userID := lookupUser(t, store, "ada@example.com")
	acc, err := account.New(store, c.logger).Create(ctx, userID, account.CreateInput{
		Name:           "Checking",
		Type:           domainaccount.TypeChecking,
		Currency:       domainaccount.CurrencyUSD,
		InitialBalance: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	c, out := newTestCLI(store, "")
	require.NoError(t, run(ctx, []string{"reconcile", "ada@example.com"}, c))
	assert.Contains(t, out.String(), "balanced")
	assert.Contains(t, out.String(), "100.00")

	require.NoError(t, store.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		return repo.AddToBalance(ctx, acc.ID, decimal.NewFromInt(5))
	}))

	c, out = newTestCLI(store, "")
	err = run(ctx, []string{"reconcile", "ada@example.com", acc.ID.String()}, c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 accounts out of balance")
	assert.Contains(t, out.String(), "drift")

	c, _ = newTestCLI(store, "")
	assert.ErrorContains(t, run(ctx, []string{"reconcile", "ada@example.com", "nope"}, c), "invalid account id")
	assert.Error(t, run(ctx, []string{"reconcile", "ghost@example.com"}, c))
}

func lookupUser(t *testing.T, store *memory.Store, email string) (id uuid.UUID) {
	t.Helper()
	require.NoError(t, store.View(context.Background(), func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err := repo.GetByEmail(context.Background(), email)
		if err != nil {
			return err
		}
		id = u.ID
		return nil
	}))
	return id
}

package analytics_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	infracache "github.com/amirasaad/ledger/infra/cache"
	"github.com/amirasaad/ledger/internal/fixtures/memory"
	"github.com/amirasaad/ledger/internal/fixtures/mocks"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/category"
	"github.com/amirasaad/ledger/pkg/domain/transaction"
	"github.com/amirasaad/ledger/pkg/ledger"
	"github.com/amirasaad/ledger/pkg/repository"
	analyticssvc "github.com/amirasaad/ledger/pkg/service/analytics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx    context.Context
	store  *memory.Store
	engine *ledger.Engine
	user   uuid.UUID
}

func newFixture() *fixture {
	return &fixture{
		ctx:    context.Background(),
		store:  memory.New(),
		engine: ledger.New(slog.Default()),
		user:   uuid.New(),
	}
}

func (f *fixture) account(t *testing.T, name string, typ account.Type, opening string) *account.Account {
	t.Helper()
	acc, err := account.New().
		WithUserID(f.user).
		WithName(name).
		WithType(typ).
		WithOpeningBalance(decimal.RequireFromString(opening)).
		Build()
	require.NoError(t, err)
	require.NoError(t, f.store.Do(f.ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		return repo.Create(f.ctx, acc)
	}))
	return acc
}

func (f *fixture) post(t *testing.T, accountID uuid.UUID, typ transaction.Type, amount string, at time.Time, categoryID *uuid.UUID) {
	t.Helper()
	tx := transaction.NewFromDraft(transaction.Draft{
		AccountID:   accountID,
		CategoryID:  categoryID,
		Amount:      decimal.RequireFromString(amount),
		Type:        typ,
		Date:        at,
		PaymentMode: transaction.PaymentModeCard,
	})
	require.NoError(t, f.store.Do(f.ctx, func(uow repository.UnitOfWork) error {
		_, err := f.engine.PostSingle(f.ctx, uow, tx)
		return err
	}))
}

func TestNetWorth_CreditCountsAsLiability(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.account(t, "Checking", account.TypeChecking, "500")
	f.account(t, "Visa", account.TypeCredit, "-200")
	svc := analyticssvc.New(f.store, slog.Default())

	nw, err := svc.NetWorth(f.ctx, f.user)
	require.NoError(t, err)
	assert.True(t, nw.TotalAssets.Equal(decimal.NewFromInt(500)))
	assert.True(t, nw.TotalLiabilities.Equal(decimal.NewFromInt(200)))
	assert.True(t, nw.NetWorth.Equal(decimal.NewFromInt(300)))
	assert.Len(t, nw.Accounts, 2)
}

func TestNetWorth_OverdrawnAssetStaysSigned(t *testing.T) {
	t.Parallel()
	nw := analyticssvc.ComputeNetWorth([]*account.Account{
		{Name: "Checking", Type: account.TypeChecking, CurrentBalance: decimal.NewFromInt(-50)},
		{Name: "Savings", Type: account.TypeSavings, CurrentBalance: decimal.NewFromInt(150)},
	})
	assert.True(t, nw.TotalAssets.Equal(decimal.NewFromInt(100)))
	assert.True(t, nw.TotalLiabilities.IsZero())
	assert.True(t, nw.NetWorth.Equal(decimal.NewFromInt(100)))
}

func TestNetWorth_UsesCache(t *testing.T) {
	t.Parallel()
	f := newFixture()
	acc := f.account(t, "Checking", account.TypeChecking, "100")
	c := infracache.NewMemoryNetWorthCache(0)
	defer c.Close()
	svc := analyticssvc.New(f.store, slog.Default(), analyticssvc.WithCache(c, time.Minute))

	first, err := svc.NetWorth(f.ctx, f.user)
	require.NoError(t, err)
	f.post(t, acc.ID, transaction.TypeIncome, "50", time.Now(), nil)

	stale, err := svc.NetWorth(f.ctx, f.user)
	require.NoError(t, err)
	assert.True(t, stale.NetWorth.Equal(first.NetWorth))

	require.NoError(t, c.Delete(f.ctx, f.user))
	fresh, err := svc.NetWorth(f.ctx, f.user)
	require.NoError(t, err)
	assert.True(t, fresh.NetWorth.Equal(decimal.NewFromInt(150)))
}

func TestNetWorth_CacheFailureFallsBackToStore(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.account(t, "Checking", account.TypeChecking, "75")
	c := mocks.NewMockNetWorthCache(t)
	c.EXPECT().Get(mock.Anything, f.user).Return(nil, errors.New("redis: connection refused"))
	c.EXPECT().Set(mock.Anything, f.user, mock.Anything, time.Minute).Return(errors.New("redis: connection refused"))
	svc := analyticssvc.New(f.store, slog.Default(), analyticssvc.WithCache(c, time.Minute))

	nw, err := svc.NetWorth(f.ctx, f.user)
	require.NoError(t, err)
	assert.True(t, nw.NetWorth.Equal(decimal.NewFromInt(75)))
}

func TestMonthlySummary(t *testing.T) {
	t.Parallel()
	f := newFixture()
	acc := f.account(t, "Checking", account.TypeChecking, "0")
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	svc := analyticssvc.New(f.store, slog.Default(), analyticssvc.WithLocation(loc))

	lastInstant := time.Date(2025, 2, 28, 23, 59, 59, 999999999, loc)
	f.post(t, acc.ID, transaction.TypeIncome, "3000", time.Date(2025, 2, 1, 0, 0, 0, 0, loc), nil)
	f.post(t, acc.ID, transaction.TypeExpense, "-1200.50", time.Date(2025, 2, 14, 12, 0, 0, 0, loc), nil)
	f.post(t, acc.ID, transaction.TypeExpense, "-99.50", lastInstant, nil)
	// Outside February in Asia/Kolkata although still February in UTC.
	f.post(t, acc.ID, transaction.TypeExpense, "-10", time.Date(2025, 3, 1, 0, 30, 0, 0, loc), nil)

	sum, err := svc.MonthlySummary(f.ctx, f.user, 2025, 2)
	require.NoError(t, err)
	assert.True(t, sum.TotalIncome.Equal(decimal.NewFromInt(3000)))
	assert.True(t, sum.TotalExpenses.Equal(decimal.NewFromInt(1300)))
	assert.True(t, sum.NetSavings.Equal(decimal.NewFromInt(1700)))
	assert.Equal(t, 1, sum.IncomeTransactionCount)
	assert.Equal(t, 2, sum.ExpenseTransactionCount)

	_, err = svc.MonthlySummary(f.ctx, f.user, 2025, 13)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCategorySpending(t *testing.T) {
	t.Parallel()
	f := newFixture()
	acc := f.account(t, "Checking", account.TypeChecking, "0")
	food, err := category.New("Food", category.TypeExpense, category.Owned(f.user))
	require.NoError(t, err)
	rent, err := category.New("Rent", category.TypeExpense, category.Global())
	require.NoError(t, err)
	salary, err := category.New("Salary", category.TypeIncome, category.Global())
	require.NoError(t, err)
	for _, c := range []*category.Category{food, rent, salary} {
		f.store.SeedCategory(c)
	}
	svc := analyticssvc.New(f.store, slog.Default())

	day := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	f.post(t, acc.ID, transaction.TypeIncome, "5000", day, &salary.ID)
	f.post(t, acc.ID, transaction.TypeExpense, "-40", day, &food.ID)
	f.post(t, acc.ID, transaction.TypeExpense, "-60", day, &food.ID)
	f.post(t, acc.ID, transaction.TypeExpense, "-1500", day, &rent.ID)
	f.post(t, acc.ID, transaction.TypeExpense, "-999", day, nil)
	f.post(t, acc.ID, transaction.TypeExpense, "-1", day.AddDate(0, 1, 0), &food.ID)

	spending, err := svc.CategorySpending(f.ctx, f.user, day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, spending.Expenses, 2)
	assert.Equal(t, "Rent", spending.Expenses[0].CategoryName)
	assert.True(t, spending.Expenses[0].Amount.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, "Food", spending.Expenses[1].CategoryName)
	assert.True(t, spending.Expenses[1].Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 2, spending.Expenses[1].TransactionCount)
	require.Len(t, spending.Income, 1)
	assert.True(t, spending.Income[0].Amount.Equal(decimal.NewFromInt(5000)))

	_, err = svc.CategorySpending(f.ctx, f.user, day, day.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// Package analytics computes read-only views over a user's ledger: net worth,
// monthly income and expense totals, and spending per category.
package analytics

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/amirasaad/ledger/pkg/cache"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/analytics"
	"github.com/amirasaad/ledger/pkg/domain/transaction"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Option configures a Service.
type Option func(*Service)

// WithCache caches net worth snapshots for ttl.
func WithCache(c cache.NetWorthCache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.ttl = ttl
	}
}

// WithLocation sets the time zone calendar months are resolved in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

type Service struct {
	uow    repository.UnitOfWork
	cache  cache.NetWorthCache
	ttl    time.Duration
	loc    *time.Location
	logger *slog.Logger
}

func New(uow repository.UnitOfWork, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{uow: uow, loc: time.UTC, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the time zone months are resolved in.
func (s *Service) Location() *time.Location { return s.loc }

// MonthRange returns the first and the last instant of a calendar month in loc.
func MonthRange(year, month int, loc *time.Location) (start, end time.Time, err error) {
	if year < 1 || year > 9999 {
		return start, end, domain.NewValidationError("year", "year is out of range")
	}
	if month < 1 || month > 12 {
		return start, end, domain.NewValidationError("month", "month must be between 1 and 12")
	}
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end, nil
}

// NetWorth totals actor's balances.
func (s *Service) NetWorth(ctx context.Context, actor uuid.UUID) (*analytics.NetWorth, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, actor)
		if err != nil {
			s.logger.Warn("net worth cache read failed", "userID", actor, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	var accounts []*account.Account
	err := s.uow.View(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		accounts, err = repo.ListByUser(ctx, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	nw := ComputeNetWorth(accounts)
	if s.cache != nil {
		if err := s.cache.Set(ctx, actor, nw, s.ttl); err != nil {
			s.logger.Warn("net worth cache write failed", "userID", actor, "error", err)
		}
	}
	return nw, nil
}

// ComputeNetWorth partitions balances into assets and liabilities. A credit
// account's balance counts towards liabilities by absolute value.
func ComputeNetWorth(accounts []*account.Account) *analytics.NetWorth {
	nw := &analytics.NetWorth{
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		Accounts:         make([]analytics.AccountSummary, 0, len(accounts)),
	}
	for _, a := range accounts {
		if a.Type == account.TypeCredit {
			nw.TotalLiabilities = nw.TotalLiabilities.Add(a.CurrentBalance.Abs())
		} else {
			nw.TotalAssets = nw.TotalAssets.Add(a.CurrentBalance)
		}
		nw.Accounts = append(nw.Accounts, analytics.AccountSummary{
			AccountName: a.Name,
			AccountType: a.Type,
			Balance:     a.CurrentBalance,
		})
	}
	nw.NetWorth = nw.TotalAssets.Sub(nw.TotalLiabilities)
	return nw
}

// MonthlySummary totals actor's income and expenses for a calendar month,
// including the last instant of its last day.
func (s *Service) MonthlySummary(ctx context.Context, actor uuid.UUID, year, month int) (*analytics.MonthlySummary, error) {
	start, end, err := MonthRange(year, month, s.loc)
	if err != nil {
		return nil, err
	}
	txs, err := s.transactionsBetween(ctx, actor, start, end)
	if err != nil {
		return nil, err
	}

	sum := &analytics.MonthlySummary{
		Year:          year,
		Month:         month,
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, tx := range txs {
		switch tx.Type {
		case transaction.TypeIncome:
			sum.TotalIncome = sum.TotalIncome.Add(tx.Amount)
			sum.IncomeTransactionCount++
		case transaction.TypeExpense:
			sum.TotalExpenses = sum.TotalExpenses.Add(tx.Amount.Abs())
			sum.ExpenseTransactionCount++
		}
	}
	sum.NetSavings = sum.TotalIncome.Sub(sum.TotalExpenses)
	return sum, nil
}

// CategorySpending groups actor's categorized transactions between start and
// end inclusive by category name. Uncategorized transactions are left out.
func (s *Service) CategorySpending(ctx context.Context, actor uuid.UUID, start, end time.Time) (*analytics.CategorySpending, error) {
	if start.IsZero() || end.IsZero() {
		return nil, domain.NewValidationError("startDate", "start and end dates are required")
	}
	if end.Before(start) {
		return nil, domain.NewValidationError("endDate", "end date must not be before start date")
	}

	var (
		txs   []*transaction.Transaction
		names = make(map[uuid.UUID]string)
	)
	err := s.uow.View(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		txs, err = repo.ListByUserAndDateRange(ctx, actor, start, end)
		if err != nil {
			return err
		}
		cats, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		visible, err := cats.ListVisible(ctx, actor)
		if err != nil {
			return err
		}
		for _, c := range visible {
			names[c.ID] = c.Name
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	expenses := make(map[string]*analytics.CategoryAmount)
	income := make(map[string]*analytics.CategoryAmount)
	for _, tx := range txs {
		if tx.CategoryID == nil {
			continue
		}
		name, ok := names[*tx.CategoryID]
		if !ok {
			continue
		}
		switch tx.Type {
		case transaction.TypeExpense:
			accumulate(expenses, name, tx.Amount.Abs())
		case transaction.TypeIncome:
			accumulate(income, name, tx.Amount)
		}
	}
	return &analytics.CategorySpending{
		Expenses: sorted(expenses),
		Income:   sorted(income),
	}, nil
}

// Transactions returns actor's transactions between start and end inclusive,
// newest first.
func (s *Service) Transactions(ctx context.Context, actor uuid.UUID, start, end time.Time) ([]*transaction.Transaction, error) {
	if end.Before(start) {
		return nil, domain.NewValidationError("endDate", "end date must not be before start date")
	}
	return s.transactionsBetween(ctx, actor, start, end)
}

func (s *Service) transactionsBetween(ctx context.Context, actor uuid.UUID, start, end time.Time) (txs []*transaction.Transaction, err error) {
	err = s.uow.View(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		txs, err = repo.ListByUserAndDateRange(ctx, actor, start, end)
		return err
	})
	return
}

func accumulate(groups map[string]*analytics.CategoryAmount, name string, amount decimal.Decimal) {
	g, ok := groups[name]
	if !ok {
		g = &analytics.CategoryAmount{CategoryName: name, Amount: decimal.Zero}
		groups[name] = g
	}
	g.Amount = g.Amount.Add(amount)
	g.TransactionCount++
}

func sorted(groups map[string]*analytics.CategoryAmount) []analytics.CategoryAmount {
	out := make([]analytics.CategoryAmount, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].CategoryName < out[j].CategoryName
	})
	return out
}

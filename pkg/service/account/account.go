// Package account provides account management for a user's ledger: creating,
// listing, renaming and deleting accounts, and reconciling stored balances
// against posted transactions.
package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/ledger/pkg/cache"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/amirasaad/ledger/pkg/guard"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInput carries the fields of a new account.
type CreateInput struct {
	Name           string
	Type           account.Type
	Currency       account.Currency
	InitialBalance decimal.Decimal
}

// UpdateInput carries the mutable account fields.
type UpdateInput struct {
	Name     string
	Currency account.Currency
}

// Reconciliation compares the stored balance with opening balance plus postings.
type Reconciliation struct {
	AccountID      uuid.UUID       `json:"accountId"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	PostedTotal    decimal.Decimal `json:"postedTotal"`
	Expected       decimal.Decimal `json:"expectedBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	Drift          decimal.Decimal `json:"drift"`
}

// Balanced reports whether the stored balance matches the postings.
func (r Reconciliation) Balanced() bool { return r.Drift.IsZero() }

// Option configures a Service.
type Option func(*Service)

// WithEventBus publishes account events after each committed change.
func WithEventBus(bus eventbus.Bus) Option {
	return func(s *Service) { s.bus = bus }
}

// WithCache drops actor's cached net worth synchronously once a change commits.
func WithCache(c cache.NetWorthCache) Option {
	return func(s *Service) { s.cache = c }
}

// Service provides business logic for account operations.
type Service struct {
	uow    repository.UnitOfWork
	bus    eventbus.Bus
	cache  cache.NetWorthCache
	logger *slog.Logger
}

// New creates a new Service.
func New(uow repository.UnitOfWork, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{uow: uow, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create opens a new account for actor. Names are unique per user.
func (s *Service) Create(ctx context.Context, actor uuid.UUID, in CreateInput) (a *account.Account, err error) {
	log := s.logger.With("context", "CreateAccount", "userID", actor)
	b := account.New().
		WithUserID(actor).
		WithName(in.Name).
		WithType(in.Type).
		WithOpeningBalance(in.InitialBalance)
	if in.Currency != "" {
		b = b.WithCurrency(in.Currency)
	}
	a, err = b.Build()
	if err != nil {
		log.Warn("account rejected", "error", err)
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if err := ensureUniqueName(ctx, repo, actor, a.Name, uuid.Nil); err != nil {
			return err
		}
		return repo.Create(ctx, a)
	})
	if err != nil {
		log.Error("failed to create account", "error", err)
		return nil, err
	}
	log.Info("account created", "accountID", a.ID, "type", a.Type)
	s.changed(ctx, events.NewAccountOpened(actor, a.ID, a.OpeningBalance))
	return a, nil
}

// List returns actor's accounts, optionally restricted to one type.
func (s *Service) List(ctx context.Context, actor uuid.UUID, t *account.Type) (accounts []*account.Account, err error) {
	if t != nil && !t.Valid() {
		return nil, domain.NewValidationError("type", "account type is invalid")
	}
	err = s.uow.View(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if t != nil {
			accounts, err = repo.ListByUserAndType(ctx, actor, *t)
		} else {
			accounts, err = repo.ListByUser(ctx, actor)
		}
		return err
	})
	return
}

// Get returns one of actor's accounts.
func (s *Service) Get(ctx context.Context, actor, id uuid.UUID) (a *account.Account, err error) {
	err = s.uow.View(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err = owned(ctx, repo, actor, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Update renames an account and changes its currency label. Balances are
// untouched.
func (s *Service) Update(ctx context.Context, actor, id uuid.UUID, in UpdateInput) (a *account.Account, err error) {
	log := s.logger.With("context", "UpdateAccount", "userID", actor, "accountID", id)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err = owned(ctx, repo, actor, id)
		if err != nil {
			return err
		}
		currency := in.Currency
		if currency == "" {
			currency = a.Currency
		}
		if err := a.Rename(in.Name, currency); err != nil {
			return err
		}
		if err := ensureUniqueName(ctx, repo, actor, a.Name, a.ID); err != nil {
			return err
		}
		return repo.Update(ctx, a)
	})
	if err != nil {
		log.Error("failed to update account", "error", err)
		return nil, err
	}
	log.Info("account updated")
	s.changed(ctx, events.NewAccountUpdated(actor, a.ID))
	return a, nil
}

// Delete removes an account that has no transactions.
func (s *Service) Delete(ctx context.Context, actor, id uuid.UUID) error {
	log := s.logger.With("context", "DeleteAccount", "userID", actor, "accountID", id)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		if _, err := owned(ctx, repo, actor, id); err != nil {
			return err
		}
		inUse, err := txs.ExistsByAccount(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return domain.NewConflictError(domain.ResourceAccount, "account", "cannot delete account with existing transactions")
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		log.Error("failed to delete account", "error", err)
		return err
	}
	log.Info("account deleted")
	s.changed(ctx, events.NewAccountClosed(actor, id))
	return nil
}

// Reconcile recomputes the balance of one of actor's accounts from its
// postings and reports the drift from the stored balance.
func (s *Service) Reconcile(ctx context.Context, actor, id uuid.UUID) (r *Reconciliation, err error) {
	err = s.uow.View(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		a, err := owned(ctx, repo, actor, id)
		if err != nil {
			return err
		}
		posted, err := txs.SumByAccount(ctx, id)
		if err != nil {
			return err
		}
		r = &Reconciliation{
			AccountID:      a.ID,
			OpeningBalance: a.OpeningBalance,
			PostedTotal:    posted,
			Expected:       a.OpeningBalance.Add(posted),
			CurrentBalance: a.CurrentBalance,
			Drift:          a.Drift(posted),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !r.Balanced() {
		s.logger.Warn("account balance drift detected",
			"userID", actor,
			"accountID", id,
			"drift", r.Drift.String(),
		)
	}
	return r, nil
}

// changed runs after commit. Failures are logged; the change itself stands.
func (s *Service) changed(ctx context.Context, evt events.Event) {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, evt.Owner()); err != nil {
			s.logger.Warn("failed to invalidate net worth", "userID", evt.Owner(), "error", err)
		}
	}
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, evt); err != nil {
		s.logger.Error("failed to publish account event", "event", evt.Type(), "userID", evt.Owner(), "error", err)
	}
}

func owned(ctx context.Context, repo repository.AccountRepository, actor, id uuid.UUID) (*account.Account, error) {
	a, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guard.Authorize(domain.ResourceAccount, id, a.UserID, actor); err != nil {
		return nil, err
	}
	return a, nil
}

func ensureUniqueName(ctx context.Context, repo repository.AccountRepository, actor uuid.UUID, name string, exclude uuid.UUID) error {
	taken, err := repo.ExistsByUserAndName(ctx, actor, name, exclude)
	if err != nil {
		return err
	}
	if taken {
		return domain.NewConflictError(
			domain.ResourceAccount,
			"name",
			fmt.Sprintf("you already have an account named '%s'", name),
		)
	}
	return nil
}

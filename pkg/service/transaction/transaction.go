// Package transaction orchestrates postings: it validates requests, checks
// that the acting user owns every referenced resource, applies the balance
// change through the ledger engine and publishes ledger events once the unit
// of work has committed.
package transaction

import (
	"context"
	"log/slog"
	"time"

	"github.com/amirasaad/ledger/pkg/cache"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/domain/transaction"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/amirasaad/ledger/pkg/guard"
	"github.com/amirasaad/ledger/pkg/ledger"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferInput carries the fields of a transfer between two accounts.
type TransferInput struct {
	FromAccountID uuid.UUID
	ToAccountID   uuid.UUID
	Amount        decimal.Decimal
	Date          time.Time
	PaymentMode   transaction.PaymentMode
	Description   string
}

// TransferResult holds both legs of a committed transfer.
type TransferResult struct {
	Debit  *transaction.Transaction `json:"debit"`
	Credit *transaction.Transaction `json:"credit"`
}

// Option configures a Service.
type Option func(*Service)

// WithCache drops actor's cached net worth as soon as a posting commits.
// Broker-delivered invalidation still runs for caches shared by other
// instances.
func WithCache(c cache.NetWorthCache) Option {
	return func(s *Service) { s.cache = c }
}

// Service provides the transaction operations.
type Service struct {
	uow    repository.UnitOfWork
	engine *ledger.Engine
	bus    eventbus.Bus
	cache  cache.NetWorthCache
	logger *slog.Logger
}

// New creates a Service. bus may be nil, in which case no events are published.
func New(uow repository.UnitOfWork, engine *ledger.Engine, bus eventbus.Bus, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{uow: uow, engine: engine, bus: bus, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create posts an INCOME or EXPENSE transaction to one of actor's accounts.
func (s *Service) Create(ctx context.Context, actor uuid.UUID, d transaction.Draft) (*transaction.Transaction, error) {
	log := s.logger.With("context", "CreateTransaction", "userID", actor, "accountID", d.AccountID)
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.Type == transaction.TypeTransfer {
		return nil, domain.NewValidationError("type", "use the transfer endpoint for transfer transactions")
	}
	if err := transaction.ValidateAmount(d.Type, d.Amount); err != nil {
		return nil, err
	}

	tx := transaction.NewFromDraft(d)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if _, err := ownedAccount(ctx, uow, actor, d.AccountID); err != nil {
			return err
		}
		if d.CategoryID != nil {
			if err := visibleCategory(ctx, uow, actor, *d.CategoryID); err != nil {
				return err
			}
		}
		_, err := s.engine.PostSingle(ctx, uow, tx)
		return err
	})
	if err != nil {
		log.Error("failed to create transaction", "error", err)
		return nil, err
	}
	log.Info("transaction created", "transactionID", tx.ID, "type", tx.Type, "amount", tx.Amount.String())
	s.emit(ctx, events.NewTransactionPosted(actor, tx.ID, tx.AccountID, tx.Amount, string(tx.Type)))
	return tx, nil
}

// Transfer moves money between two of actor's accounts as a linked pair of
// TRANSFER transactions.
func (s *Service) Transfer(ctx context.Context, actor uuid.UUID, in TransferInput) (*TransferResult, error) {
	log := s.logger.With("context", "CreateTransfer", "userID", actor,
		"fromAccountID", in.FromAccountID, "toAccountID", in.ToAccountID)
	if in.FromAccountID == uuid.Nil || in.ToAccountID == uuid.Nil {
		return nil, domain.NewValidationError("accounts", "both account IDs are required")
	}
	if !in.Amount.IsPositive() {
		return nil, domain.NewValidationError("amount", "amount must be positive")
	}
	shared := transaction.Draft{
		AccountID:   in.FromAccountID,
		Amount:      in.Amount,
		Type:        transaction.TypeTransfer,
		Description: in.Description,
		Date:        in.Date,
		PaymentMode: in.PaymentMode,
	}
	if err := shared.Validate(); err != nil {
		return nil, err
	}
	debit, credit := transaction.NewTransferLegs(in.FromAccountID, in.ToAccountID, in.Amount, in.Date, in.PaymentMode, in.Description)

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if _, err := ownedAccount(ctx, uow, actor, in.FromAccountID); err != nil {
			return err
		}
		if _, err := ownedAccount(ctx, uow, actor, in.ToAccountID); err != nil {
			return err
		}
		if in.FromAccountID == in.ToAccountID {
			return domain.NewValidationError("accounts", "cannot transfer to the same account")
		}
		_, _, err := s.engine.PostTransferPair(ctx, uow, debit, credit)
		return err
	})
	if err != nil {
		log.Error("failed to create transfer", "error", err)
		return nil, err
	}
	log.Info("transfer completed", "debitID", debit.ID, "creditID", credit.ID, "amount", in.Amount.String())
	s.emit(ctx, events.NewTransferPosted(actor, debit.ID, credit.ID, in.FromAccountID, in.ToAccountID, in.Amount))
	return &TransferResult{Debit: debit, Credit: credit}, nil
}

// Invest records the purchase of an asset in one of actor's INVESTMENT
// accounts. The amount is computed from quantity and price, never taken from
// the caller. The returned transaction carries its investment metadata.
func (s *Service) Invest(ctx context.Context, actor uuid.UUID, trade transaction.Trade) (*transaction.Transaction, error) {
	log := s.logger.With("context", "CreateInvestment", "userID", actor, "accountID", trade.AccountID)
	if err := trade.Validate(); err != nil {
		return nil, err
	}

	tx := transaction.NewFromDraft(trade.Draft())
	meta := trade.Metadata(tx.ID)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		acc, err := ownedAccount(ctx, uow, actor, trade.AccountID)
		if err != nil {
			return err
		}
		if acc.Type != account.TypeInvestment {
			return domain.NewInvalidOperationError(
				domain.ResourceAccount,
				"account",
				"investment transactions can only be created in INVESTMENT accounts",
			)
		}
		if _, err := s.engine.PostSingle(ctx, uow, tx); err != nil {
			return err
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		return txs.CreateInvestment(ctx, meta)
	})
	if err != nil {
		log.Error("failed to create investment transaction", "error", err)
		return nil, err
	}
	tx.Investment = meta
	log.Info("investment recorded", "transactionID", tx.ID, "symbol", meta.AssetSymbol, "total", meta.TotalAmount().String())
	s.emit(ctx, events.NewInvestmentPosted(actor, tx.ID, tx.AccountID, meta.AssetSymbol, meta.Quantity, meta.TotalAmount()))
	return tx, nil
}

// Delete reverses and removes one of actor's transactions. Transfer legs are
// rejected: a transfer is never deleted one leg at a time.
func (s *Service) Delete(ctx context.Context, actor, id uuid.UUID) error {
	log := s.logger.With("context", "DeleteTransaction", "userID", actor, "transactionID", id)
	var removed *transaction.Transaction
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		tx, err := ownedTransaction(ctx, uow, actor, id)
		if err != nil {
			return err
		}
		if tx.IsTransferLeg() {
			return domain.NewInvalidOperationError(
				domain.ResourceTransaction,
				"transaction",
				"cannot delete transfer transactions individually",
			)
		}
		if _, err := s.engine.ReverseSingle(ctx, uow, tx); err != nil {
			return err
		}
		removed = tx
		return nil
	})
	if err != nil {
		log.Error("failed to delete transaction", "error", err)
		return err
	}
	log.Info("transaction deleted")
	s.emit(ctx, events.NewTransactionReversed(actor, removed.ID, removed.AccountID, removed.Amount))
	return nil
}

// List returns all of actor's transactions, newest first.
func (s *Service) List(ctx context.Context, actor uuid.UUID) (txs []*transaction.Transaction, err error) {
	err = s.uow.View(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		txs, err = repo.ListByUser(ctx, actor)
		return err
	})
	return
}

// Get returns one of actor's transactions.
func (s *Service) Get(ctx context.Context, actor, id uuid.UUID) (tx *transaction.Transaction, err error) {
	err = s.uow.View(ctx, func(uow repository.UnitOfWork) error {
		tx, err = ownedTransaction(ctx, uow, actor, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// Filter lists actor's transactions by exactly one criterion of f, chosen by
// precedence: date range, category, type, account. An empty filter lists all.
func (s *Service) Filter(ctx context.Context, actor uuid.UUID, f transaction.Filter) (txs []*transaction.Transaction, err error) {
	kind := f.Kind()
	if kind == transaction.FilterDateRange && f.End.Before(*f.Start) {
		return nil, domain.NewValidationError("endDate", "end date must not be before start date")
	}
	if kind == transaction.FilterType && !f.Type.Valid() {
		return nil, domain.NewValidationError("type", "transaction type is invalid")
	}
	err = s.uow.View(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		switch kind {
		case transaction.FilterDateRange:
			txs, err = repo.ListByUserAndDateRange(ctx, actor, *f.Start, *f.End)
		case transaction.FilterCategory:
			txs, err = repo.ListByUserAndCategory(ctx, actor, *f.CategoryID)
		case transaction.FilterType:
			txs, err = repo.ListByUserAndType(ctx, actor, *f.Type)
		case transaction.FilterAccount:
			if _, err = ownedAccount(ctx, uow, actor, *f.AccountID); err != nil {
				return err
			}
			txs, err = repo.ListByAccount(ctx, *f.AccountID)
		default:
			txs, err = repo.ListByUser(ctx, actor)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("filtered transactions", "userID", actor, "filter", kind.String(), "count", len(txs))
	return txs, nil
}

func (s *Service) emit(ctx context.Context, evt events.Event) {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, evt.Owner()); err != nil {
			s.logger.Warn("failed to invalidate net worth", "userID", evt.Owner(), "error", err)
		}
	}
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, evt); err != nil {
		s.logger.Error("failed to publish ledger event", "event", evt.Type(), "userID", evt.Owner(), "error", err)
	}
}

func ownedAccount(ctx context.Context, uow repository.UnitOfWork, actor, id uuid.UUID) (*account.Account, error) {
	repo, err := uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	acc, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guard.Authorize(domain.ResourceAccount, id, acc.UserID, actor); err != nil {
		return nil, err
	}
	return acc, nil
}

func ownedTransaction(ctx context.Context, uow repository.UnitOfWork, actor, id uuid.UUID) (*transaction.Transaction, error) {
	repo, err := uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	tx, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	accounts, err := uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	acc, err := accounts.Get(ctx, tx.AccountID)
	if err != nil {
		return nil, err
	}
	if err := guard.Authorize(domain.ResourceTransaction, id, acc.UserID, actor); err != nil {
		return nil, err
	}
	return tx, nil
}

func visibleCategory(ctx context.Context, uow repository.UnitOfWork, actor, id uuid.UUID) error {
	repo, err := uow.CategoryRepository()
	if err != nil {
		return err
	}
	c, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	return guard.AuthorizeScope(domain.ResourceCategory, id, c.Scope, actor)
}

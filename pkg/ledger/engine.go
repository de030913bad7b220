// Package ledger applies postings to account balances.
//
// Every method runs inside the caller's unit of work. Accounts are read with a
// row lock before their balance changes, and the balance itself is moved with
// an atomic increment, so concurrent postings to one account serialize instead
// of losing updates. Transfers lock both accounts in ascending id order.
package ledger

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/transaction"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
)

// Engine posts and reverses transactions.
type Engine struct {
	logger *slog.Logger
}

// New returns an Engine.
func New(logger *slog.Logger) *Engine {
	return &Engine{logger: logger.With("component", "ledger")}
}

// PostSingle applies an INCOME or EXPENSE transaction to its account and
// persists the transaction. It returns the account with its new balance.
func (e *Engine) PostSingle(
	ctx context.Context,
	uow repository.UnitOfWork,
	tx *transaction.Transaction,
) (*account.Account, error) {
	if err := transaction.ValidateAmount(tx.Type, tx.Amount); err != nil {
		return nil, err
	}
	accounts, txs, err := repos(uow)
	if err != nil {
		return nil, err
	}
	acc, err := accounts.GetForUpdate(ctx, tx.AccountID)
	if err != nil {
		return nil, err
	}
	if err := txs.Create(ctx, tx); err != nil {
		return nil, err
	}
	if err := accounts.AddToBalance(ctx, acc.ID, tx.Amount); err != nil {
		return nil, err
	}
	acc.CurrentBalance = acc.CurrentBalance.Add(tx.Amount)
	e.logger.Debug("posted transaction",
		"transactionID", tx.ID,
		"accountID", acc.ID,
		"amount", tx.Amount.String(),
		"balance", acc.CurrentBalance.String(),
	)
	return acc, nil
}

// PostTransferPair persists both legs of a transfer and moves the amount
// from the debit account to the credit account.
func (e *Engine) PostTransferPair(
	ctx context.Context,
	uow repository.UnitOfWork,
	debit, credit *transaction.Transaction,
) (from, to *account.Account, err error) {
	if err = validatePair(debit, credit); err != nil {
		return nil, nil, err
	}
	accounts, txs, err := repos(uow)
	if err != nil {
		return nil, nil, err
	}

	locked := make(map[uuid.UUID]*account.Account, 2)
	for _, id := range lockOrder(debit.AccountID, credit.AccountID) {
		acc, err := accounts.GetForUpdate(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		locked[id] = acc
	}
	from, to = locked[debit.AccountID], locked[credit.AccountID]

	for _, leg := range []*transaction.Transaction{debit, credit} {
		if err = txs.Create(ctx, leg); err != nil {
			return nil, nil, err
		}
		if err = accounts.AddToBalance(ctx, leg.AccountID, leg.Amount); err != nil {
			return nil, nil, err
		}
	}
	from.CurrentBalance = from.CurrentBalance.Add(debit.Amount)
	to.CurrentBalance = to.CurrentBalance.Add(credit.Amount)
	e.logger.Debug("posted transfer",
		"debitID", debit.ID,
		"creditID", credit.ID,
		"fromAccountID", from.ID,
		"toAccountID", to.ID,
		"amount", credit.Amount.String(),
	)
	return from, to, nil
}

// ReverseSingle undoes the balance effect of a non-transfer transaction and
// deletes it together with any investment metadata.
func (e *Engine) ReverseSingle(
	ctx context.Context,
	uow repository.UnitOfWork,
	tx *transaction.Transaction,
) (*account.Account, error) {
	if tx.IsTransferLeg() {
		return nil, domain.NewInvalidOperationError(
			domain.ResourceTransaction,
			"type",
			"transfer transactions cannot be deleted individually",
		)
	}
	accounts, txs, err := repos(uow)
	if err != nil {
		return nil, err
	}
	acc, err := accounts.GetForUpdate(ctx, tx.AccountID)
	if err != nil {
		return nil, err
	}
	if err := accounts.AddToBalance(ctx, acc.ID, tx.Amount.Neg()); err != nil {
		return nil, err
	}
	if err := txs.Delete(ctx, tx.ID); err != nil {
		return nil, err
	}
	acc.CurrentBalance = acc.CurrentBalance.Sub(tx.Amount)
	e.logger.Debug("reversed transaction",
		"transactionID", tx.ID,
		"accountID", acc.ID,
		"balance", acc.CurrentBalance.String(),
	)
	return acc, nil
}

func validatePair(debit, credit *transaction.Transaction) error {
	if debit.Type != transaction.TypeTransfer || credit.Type != transaction.TypeTransfer {
		return domain.NewInvalidOperationError(domain.ResourceTransaction, "type", "transfer legs must have type TRANSFER")
	}
	if !credit.Amount.IsPositive() {
		return domain.NewValidationError("amount", "amount must be positive")
	}
	if !debit.Amount.Equal(credit.Amount.Neg()) {
		return domain.NewValidationError("amount", "transfer legs must have opposite amounts")
	}
	if debit.AccountID == credit.AccountID {
		return domain.NewValidationError("toAccountId", "cannot transfer to the same account")
	}
	if debit.RelatedTransactionID == nil || credit.RelatedTransactionID == nil ||
		*debit.RelatedTransactionID != credit.ID || *credit.RelatedTransactionID != debit.ID {
		return domain.NewInvalidOperationError(domain.ResourceTransaction, "relatedTransactionId", "transfer legs must reference each other")
	}
	return nil
}

func lockOrder(a, b uuid.UUID) []uuid.UUID {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return []uuid.UUID{a, b}
	}
	return []uuid.UUID{b, a}
}

func repos(uow repository.UnitOfWork) (repository.AccountRepository, repository.TransactionRepository, error) {
	accounts, err := uow.AccountRepository()
	if err != nil {
		return nil, nil, err
	}
	txs, err := uow.TransactionRepository()
	if err != nil {
		return nil, nil, err
	}
	return accounts, txs, nil
}

package repository

import (
	"context"
	"time"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/category"
	"github.com/amirasaad/ledger/pkg/domain/transaction"
	"github.com/amirasaad/ledger/pkg/domain/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRepository persists users. Lookups return domain.ErrNotFound for unknown rows.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// AccountRepository persists accounts and applies balance deltas.
type AccountRepository interface {
	Create(ctx context.Context, a *account.Account) error
	// Update writes the mutable profile fields (name, currency). Balances are
	// changed only through AddToBalance.
	Update(ctx context.Context, a *account.Account) error
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
	// GetForUpdate reads the account and holds a row lock until the unit of work ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error)
	ListByUserAndType(ctx context.Context, userID uuid.UUID, t account.Type) ([]*account.Account, error)
	// ExistsByUserAndName reports a name clash, ignoring the account excludeID.
	ExistsByUserAndName(ctx context.Context, userID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
	// AddToBalance atomically adds delta to the stored current balance.
	AddToBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryRepository persists global and user owned categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *category.Category) error
	Update(ctx context.Context, c *category.Category) error
	Get(ctx context.Context, id uuid.UUID) (*category.Category, error)
	// ListVisible returns global categories plus those owned by userID.
	ListVisible(ctx context.Context, userID uuid.UUID) ([]*category.Category, error)
	ListVisibleByType(ctx context.Context, userID uuid.UUID, t category.Type) ([]*category.Category, error)
	ListGlobal(ctx context.Context) ([]*category.Category, error)
	// Exists reports whether (name, type, scope) is taken, ignoring excludeID.
	Exists(ctx context.Context, name string, t category.Type, scope category.Scope, excludeID uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransactionRepository persists transactions and their investment metadata.
// List methods return rows ordered by transaction date, newest first.
type TransactionRepository interface {
	Create(ctx context.Context, t *transaction.Transaction) error
	CreateInvestment(ctx context.Context, m *transaction.InvestmentMetadata) error
	// Get looks a transaction up by id regardless of owner, with its investment metadata.
	Get(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*transaction.Transaction, error)
	ListByUserAndDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*transaction.Transaction, error)
	ListByUserAndCategory(ctx context.Context, userID, categoryID uuid.UUID) ([]*transaction.Transaction, error)
	ListByUserAndType(ctx context.Context, userID uuid.UUID, t transaction.Type) ([]*transaction.Transaction, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*transaction.Transaction, error)
	ExistsByCategory(ctx context.Context, categoryID uuid.UUID) (bool, error)
	ExistsByAccount(ctx context.Context, accountID uuid.UUID) (bool, error)
	SumByAccount(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error)
	// Delete removes the transaction and its investment metadata.
	Delete(ctx context.Context, id uuid.UUID) error
}

package account

import (
	"strings"
	"time"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type classifies an account. CREDIT balances count as liabilities.
type Type string

const (
	TypeChecking   Type = "CHECKING"
	TypeSavings    Type = "SAVINGS"
	TypeCredit     Type = "CREDIT"
	TypeInvestment Type = "INVESTMENT"
	TypeCash       Type = "CASH"
)

// Valid reports whether t is a known account type.
func (t Type) Valid() bool {
	switch t {
	case TypeChecking, TypeSavings, TypeCredit, TypeInvestment, TypeCash:
		return true
	}
	return false
}

// Currency is the ISO code an account is denominated in.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyINR Currency = "INR"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyUSD, CurrencyINR, CurrencyEUR, CurrencyGBP:
		return true
	}
	return false
}

// Account is a user's ledger account.
//
// Invariants:
//   - CurrentBalance == OpeningBalance + sum of the amounts of every transaction posted to it.
//   - Name is unique per user.
//   - A CREDIT account never opens with a positive balance.
type Account struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"-"`
	Name           string          `json:"name"`
	Type           Type            `json:"type"`
	Currency       Currency        `json:"currency"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Builder provides a fluent API for constructing valid Account instances.
type Builder struct {
	id             uuid.UUID
	userID         uuid.UUID
	name           string
	accountType    Type
	currency       Currency
	openingBalance decimal.Decimal
	createdAt      time.Time
}

// New creates a Builder with a fresh id and USD as the default currency.
func New() *Builder {
	return &Builder{
		id:        uuid.New(),
		currency:  CurrencyUSD,
		createdAt: time.Now().UTC(),
	}
}

func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

func (b *Builder) WithUserID(userID uuid.UUID) *Builder {
	b.userID = userID
	return b
}

func (b *Builder) WithName(name string) *Builder {
	b.name = name
	return b
}

func (b *Builder) WithType(t Type) *Builder {
	b.accountType = t
	return b
}

func (b *Builder) WithCurrency(c Currency) *Builder {
	b.currency = c
	return b
}

// WithOpeningBalance sets the balance the account starts with before any posting.
func (b *Builder) WithOpeningBalance(balance decimal.Decimal) *Builder {
	b.openingBalance = balance
	return b
}

// Build validates the collected fields and returns the Account.
func (b *Builder) Build() (*Account, error) {
	if b.userID == uuid.Nil {
		return nil, domain.NewValidationError("userId", "account owner is required")
	}
	name := strings.TrimSpace(b.name)
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if !b.accountType.Valid() {
		return nil, domain.NewValidationError("type", "account type is invalid")
	}
	if !b.currency.Valid() {
		return nil, domain.NewValidationError("currency", "currency is not supported")
	}
	if err := ValidateOpeningBalance(b.accountType, b.openingBalance); err != nil {
		return nil, err
	}
	return &Account{
		ID:             b.id,
		UserID:         b.userID,
		Name:           name,
		Type:           b.accountType,
		Currency:       b.currency,
		OpeningBalance: b.openingBalance,
		CurrentBalance: b.openingBalance,
		CreatedAt:      b.createdAt,
		UpdatedAt:      b.createdAt,
	}, nil
}

// ValidateName enforces the 2..150 character account name rule.
func ValidateName(name string) error {
	if l := len([]rune(name)); l < 2 || l > 150 {
		return domain.NewValidationError("name", "account name must be between 2 and 150 characters")
	}
	return nil
}

// ValidateOpeningBalance checks the starting balance against the account type.
func ValidateOpeningBalance(t Type, balance decimal.Decimal) error {
	if err := domain.ValidateScale("initialBalance", balance, domain.MoneyScale); err != nil {
		return err
	}
	if t == TypeCredit {
		if balance.IsPositive() {
			return domain.NewValidationError("initialBalance", "credit account balance must be zero or negative")
		}
		return nil
	}
	if balance.IsNegative() {
		return domain.NewValidationError("initialBalance", "initial balance must not be negative")
	}
	return nil
}

// IsLiability reports whether the account balance counts against net worth.
func (a *Account) IsLiability() bool {
	return a.Type == TypeCredit
}

// Rename changes the display name and currency of the account.
func (a *Account) Rename(name string, currency Currency) error {
	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		return err
	}
	if !currency.Valid() {
		return domain.NewValidationError("currency", "currency is not supported")
	}
	a.Name = name
	a.Currency = currency
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// Drift returns how far CurrentBalance is from OpeningBalance plus posted.
func (a *Account) Drift(posted decimal.Decimal) decimal.Decimal {
	return a.CurrentBalance.Sub(a.OpeningBalance.Add(posted))
}

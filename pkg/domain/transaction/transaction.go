package transaction

import (
	"strings"
	"time"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type is the kind of money movement a transaction records.
type Type string

const (
	TypeIncome   Type = "INCOME"
	TypeExpense  Type = "EXPENSE"
	TypeTransfer Type = "TRANSFER"
)

// Valid reports whether t is a known transaction type.
func (t Type) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer:
		return true
	}
	return false
}

// PaymentMode is how the money moved.
type PaymentMode string

const (
	PaymentModeUPI          PaymentMode = "UPI"
	PaymentModeCard         PaymentMode = "CARD"
	PaymentModeACH          PaymentMode = "ACH"
	PaymentModeCash         PaymentMode = "CASH"
	PaymentModeBankTransfer PaymentMode = "BANK_TRANSFER"
)

// Valid reports whether m is a known payment mode.
func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentModeUPI, PaymentModeCard, PaymentModeACH, PaymentModeCash, PaymentModeBankTransfer:
		return true
	}
	return false
}

// MaxDescriptionLength bounds the free-text description.
const MaxDescriptionLength = 500

// Transaction is one posting against an account.
//
// A transfer is stored as two TRANSFER rows whose RelatedTransactionID point at
// each other and whose amounts are negatives of each other.
type Transaction struct {
	ID                   uuid.UUID           `json:"id"`
	AccountID            uuid.UUID           `json:"accountId"`
	CategoryID           *uuid.UUID          `json:"categoryId,omitempty"`
	RelatedTransactionID *uuid.UUID          `json:"relatedTransactionId,omitempty"`
	Amount               decimal.Decimal     `json:"amount"`
	Type                 Type                `json:"type"`
	Description          string              `json:"description"`
	Date                 time.Time           `json:"transactionDate"`
	PaymentMode          PaymentMode         `json:"paymentMode"`
	Investment           *InvestmentMetadata `json:"investment,omitempty"`
	CreatedAt            time.Time           `json:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt"`
}

// IsTransferLeg reports whether the transaction is one half of a transfer.
func (t *Transaction) IsTransferLeg() bool {
	return t.Type == TypeTransfer
}

// Draft carries the caller supplied fields of a new transaction.
type Draft struct {
	AccountID   uuid.UUID
	CategoryID  *uuid.UUID
	Amount      decimal.Decimal
	Type        Type
	Description string
	Date        time.Time
	PaymentMode PaymentMode
}

// Validate checks the field level rules shared by every posting path.
func (d Draft) Validate() error {
	if d.AccountID == uuid.Nil {
		return domain.NewValidationError("accountId", "account ID is required")
	}
	if !d.Type.Valid() {
		return domain.NewValidationError("type", "transaction type is invalid")
	}
	if !d.PaymentMode.Valid() {
		return domain.NewValidationError("paymentMode", "payment mode is invalid")
	}
	if err := domain.ValidateScale("amount", d.Amount, domain.MoneyScale); err != nil {
		return err
	}
	if d.Date.IsZero() {
		return domain.NewValidationError("transactionDate", "transaction date is required")
	}
	if len([]rune(d.Description)) > MaxDescriptionLength {
		return domain.NewValidationError("description", "description must not exceed 500 characters")
	}
	return nil
}

// ValidateAmount enforces the sign rule for single postings:
// INCOME must be positive, EXPENSE must be negative.
func ValidateAmount(t Type, amount decimal.Decimal) error {
	switch t {
	case TypeIncome:
		if !amount.IsPositive() {
			return domain.NewValidationError("amount", "income amount must be positive")
		}
	case TypeExpense:
		if !amount.IsNegative() {
			return domain.NewValidationError("amount", "expense amount must be negative")
		}
	case TypeTransfer:
		return domain.NewInvalidOperationError(
			domain.ResourceTransaction,
			"type",
			"transfers must be created through the transfer endpoint",
		)
	default:
		return domain.NewValidationError("type", "transaction type is invalid")
	}
	return nil
}

// NewFromDraft materializes a validated draft into a transaction.
func NewFromDraft(d Draft) *Transaction {
	now := time.Now().UTC()
	return &Transaction{
		ID:          uuid.New(),
		AccountID:   d.AccountID,
		CategoryID:  d.CategoryID,
		Amount:      d.Amount,
		Type:        d.Type,
		Description: strings.TrimSpace(d.Description),
		Date:        d.Date.UTC(),
		PaymentMode: d.PaymentMode,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewTransferLegs builds the debit and credit legs of a transfer, linked to each other.
func NewTransferLegs(
	from, to uuid.UUID,
	amount decimal.Decimal,
	date time.Time,
	mode PaymentMode,
	description string,
) (debit, credit *Transaction) {
	debit = NewFromDraft(Draft{
		AccountID:   from,
		Amount:      amount.Neg(),
		Type:        TypeTransfer,
		Description: description,
		Date:        date,
		PaymentMode: mode,
	})
	credit = NewFromDraft(Draft{
		AccountID:   to,
		Amount:      amount,
		Type:        TypeTransfer,
		Description: description,
		Date:        date,
		PaymentMode: mode,
	})
	debitID, creditID := debit.ID, credit.ID
	debit.RelatedTransactionID = &creditID
	credit.RelatedTransactionID = &debitID
	return debit, credit
}

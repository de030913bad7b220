package transaction

import (
	"time"

	"github.com/amirasaad/ledger/pkg/domain/transaction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateTransactionRequest struct {
	AccountID       uuid.UUID       `json:"accountId" validate:"required"`
	CategoryID      *uuid.UUID      `json:"categoryId"`
	Amount          decimal.Decimal `json:"amount" validate:"required"`
	Type            string          `json:"type" validate:"required,oneof=INCOME EXPENSE TRANSFER"`
	Description     string          `json:"description" validate:"max=500"`
	TransactionDate time.Time       `json:"transactionDate" validate:"required"`
	PaymentMode     string          `json:"paymentMode" validate:"required,oneof=UPI CARD ACH CASH BANK_TRANSFER"`
}

type CreateTransferRequest struct {
	FromAccountID   uuid.UUID       `json:"fromAccountId" validate:"required"`
	ToAccountID     uuid.UUID       `json:"toAccountId" validate:"required"`
	Amount          decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Description     string          `json:"description" validate:"max=500"`
	TransactionDate time.Time       `json:"transactionDate" validate:"required"`
	PaymentMode     string          `json:"paymentMode" validate:"required,oneof=UPI CARD ACH CASH BANK_TRANSFER"`
}

type CreateInvestmentRequest struct {
	AccountID       uuid.UUID       `json:"accountId" validate:"required"`
	AssetSymbol     string          `json:"assetSymbol" validate:"required,max=50"`
	AssetType       string          `json:"assetType" validate:"required,oneof=STOCK MUTUAL_FUND ETF BOND CRYPTO"`
	Quantity        decimal.Decimal `json:"quantity" validate:"required,gt=0"`
	PricePerUnit    decimal.Decimal `json:"pricePerUnit" validate:"required,gt=0"`
	Description     string          `json:"description" validate:"max=500"`
	TransactionDate time.Time       `json:"transactionDate" validate:"required"`
	PaymentMode     string          `json:"paymentMode" validate:"required,oneof=UPI CARD ACH CASH BANK_TRANSFER"`
}

// InvestmentMetadataResponse adds the computed total to the stored metadata.
type InvestmentMetadataResponse struct {
	*transaction.InvestmentMetadata
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type InvestmentResponse struct {
	Transaction        *transaction.Transaction   `json:"transaction"`
	InvestmentMetadata InvestmentMetadataResponse `json:"investmentMetadata"`
}

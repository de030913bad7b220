package transaction

import (
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetType classifies the instrument of an investment trade.
type AssetType string

const (
	AssetStock      AssetType = "STOCK"
	AssetMutualFund AssetType = "MUTUAL_FUND"
	AssetETF        AssetType = "ETF"
	AssetBond       AssetType = "BOND"
	AssetCrypto     AssetType = "CRYPTO"
)

// Valid reports whether a is a known asset type.
func (a AssetType) Valid() bool {
	switch a {
	case AssetStock, AssetMutualFund, AssetETF, AssetBond, AssetCrypto:
		return true
	}
	return false
}

// InvestmentMetadata describes the trade behind an investment transaction.
// It shares the id of the transaction it belongs to.
type InvestmentMetadata struct {
	TransactionID uuid.UUID       `json:"transactionId"`
	AssetSymbol   string          `json:"assetSymbol"`
	AssetType     AssetType       `json:"assetType"`
	Quantity      decimal.Decimal `json:"quantity"`
	PricePerUnit  decimal.Decimal `json:"pricePerUnit"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// TotalAmount is quantity times price per unit.
func (m *InvestmentMetadata) TotalAmount() decimal.Decimal {
	return m.Quantity.Mul(m.PricePerUnit)
}

// Trade carries the caller supplied fields of an investment purchase.
type Trade struct {
	AccountID    uuid.UUID
	AssetSymbol  string
	AssetType    AssetType
	Quantity     decimal.Decimal
	PricePerUnit decimal.Decimal
	Description  string
	Date         time.Time
	PaymentMode  PaymentMode
}

// Validate checks the trade fields.
func (t Trade) Validate() error {
	symbol := strings.TrimSpace(t.AssetSymbol)
	if symbol == "" {
		return domain.NewValidationError("assetSymbol", "asset symbol is required")
	}
	if len(symbol) > 50 {
		return domain.NewValidationError("assetSymbol", "asset symbol must not exceed 50 characters")
	}
	if !t.AssetType.Valid() {
		return domain.NewValidationError("assetType", "asset type is invalid")
	}
	if !t.Quantity.IsPositive() {
		return domain.NewValidationError("quantity", "quantity must be positive")
	}
	if !t.PricePerUnit.IsPositive() {
		return domain.NewValidationError("pricePerUnit", "price per unit must be positive")
	}
	if err := domain.ValidateScale("quantity", t.Quantity, domain.QuantityScale); err != nil {
		return err
	}
	if err := domain.ValidateScale("pricePerUnit", t.PricePerUnit, domain.MoneyScale); err != nil {
		return err
	}
	if total := t.Quantity.Mul(t.PricePerUnit); !total.Equal(total.Truncate(domain.MoneyScale)) {
		return domain.NewValidationError("amount", "quantity times price must have at most 4 decimal places")
	}
	return t.Draft().Validate()
}

// Amount is the signed cash outflow of the trade: -(quantity * price).
func (t Trade) Amount() decimal.Decimal {
	return t.Quantity.Mul(t.PricePerUnit).Neg()
}

// Draft converts the trade into the EXPENSE posting that pays for it.
// An empty description becomes "Bought <quantity> <symbol>".
func (t Trade) Draft() Draft {
	desc := t.Description
	if strings.TrimSpace(desc) == "" {
		desc = fmt.Sprintf("Bought %s %s", t.Quantity.String(), t.symbol())
	}
	return Draft{
		AccountID:   t.AccountID,
		Amount:      t.Amount(),
		Type:        TypeExpense,
		Description: desc,
		Date:        t.Date,
		PaymentMode: t.PaymentMode,
	}
}

// Metadata returns the trade metadata bound to transactionID.
func (t Trade) Metadata(transactionID uuid.UUID) *InvestmentMetadata {
	now := time.Now().UTC()
	return &InvestmentMetadata{
		TransactionID: transactionID,
		AssetSymbol:   t.symbol(),
		AssetType:     t.AssetType,
		Quantity:      t.Quantity,
		PricePerUnit:  t.PricePerUnit,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (t Trade) symbol() string {
	return strings.ToUpper(strings.TrimSpace(t.AssetSymbol))
}

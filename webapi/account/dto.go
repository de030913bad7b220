package account

import "github.com/shopspring/decimal"

// CreateAccountRequest represents the request body for opening an account.
type CreateAccountRequest struct {
	Name           string          `json:"name" validate:"required,min=2,max=150"`
	Type           string          `json:"type" validate:"required,oneof=CHECKING SAVINGS CREDIT INVESTMENT CASH"`
	Currency       string          `json:"currency" validate:"required,oneof=USD INR EUR GBP"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

// UpdateAccountRequest represents the mutable account fields.
type UpdateAccountRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=150"`
	Currency string `json:"currency" validate:"required,oneof=USD INR EUR GBP"`
}

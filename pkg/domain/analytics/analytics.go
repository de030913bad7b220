// Package analytics holds the read models produced by the analytics aggregator.
package analytics

import (
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/shopspring/decimal"
)

// AccountSummary is one account's contribution to net worth.
type AccountSummary struct {
	AccountName string          `json:"accountName"`
	AccountType account.Type    `json:"accountType"`
	Balance     decimal.Decimal `json:"balance"`
}

// NetWorth totals a user's balances. Credit accounts count towards
// liabilities by absolute value, every other type counts as a signed asset.
type NetWorth struct {
	TotalAssets      decimal.Decimal  `json:"totalAssets"`
	TotalLiabilities decimal.Decimal  `json:"totalLiabilities"`
	NetWorth         decimal.Decimal  `json:"netWorth"`
	Accounts         []AccountSummary `json:"accounts"`
}

// MonthlySummary totals income and expenses for one calendar month.
// TotalExpenses is the absolute value of the month's expense amounts.
type MonthlySummary struct {
	Year                    int             `json:"year"`
	Month                   int             `json:"month"`
	TotalIncome             decimal.Decimal `json:"totalIncome"`
	TotalExpenses           decimal.Decimal `json:"totalExpenses"`
	NetSavings              decimal.Decimal `json:"netSavings"`
	IncomeTransactionCount  int             `json:"incomeTransactionCount"`
	ExpenseTransactionCount int             `json:"expenseTransactionCount"`
}

// CategoryAmount is the absolute total for one category.
type CategoryAmount struct {
	CategoryName     string          `json:"categoryName"`
	Amount           decimal.Decimal `json:"amount"`
	TransactionCount int             `json:"transactionCount"`
}

// CategorySpending groups a date range by category, largest amount first.
type CategorySpending struct {
	Expenses []CategoryAmount `json:"expenses"`
	Income   []CategoryAmount `json:"income"`
}

package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/amirasaad/ledger/pkg/domain/transaction"
	"github.com/amirasaad/ledger/pkg/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(accountID uuid.UUID, categoryID *uuid.UUID, typ transaction.Type, amount string) *transaction.Transaction {
	return transaction.NewFromDraft(transaction.Draft{
		AccountID:   accountID,
		CategoryID:  categoryID,
		Amount:      decimal.RequireFromString(amount),
		Type:        typ,
		Description: "line",
		Date:        time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC),
		PaymentMode: transaction.PaymentModeCard,
	})
}

func TestNewDocument(t *testing.T) {
	t.Parallel()
	accountID, categoryID := uuid.New(), uuid.New()
	txs := []*transaction.Transaction{
		tx(accountID, &categoryID, transaction.TypeIncome, "1000"),
		tx(accountID, nil, transaction.TypeExpense, "-250.25"),
		tx(accountID, nil, transaction.TypeTransfer, "-100"),
	}
	names := report.Lookup{
		Accounts:   map[uuid.UUID]string{accountID: "Checking"},
		Categories: map[uuid.UUID]string{categoryID: "Salary"},
	}

	doc := report.NewDocument("Monthly report", "June 2025", "Ada Lovelace", txs, names, nil)

	assert.True(t, doc.Summary.TotalIncome.Equal(decimal.NewFromInt(1000)))
	assert.True(t, doc.Summary.TotalExpenses.Equal(decimal.RequireFromString("250.25")))
	assert.True(t, doc.Summary.NetSavings.Equal(decimal.RequireFromString("749.75")))
	assert.Equal(t, 3, doc.Summary.Transactions)
	require.Len(t, doc.Rows, 3)
	assert.Equal(t, "Checking", doc.Rows[0].Account)
	assert.Equal(t, "Salary", doc.Rows[0].Category)
	assert.Empty(t, doc.Rows[1].Category)
}

func TestPDFRenderer_Render(t *testing.T) {
	t.Parallel()
	accountID := uuid.New()
	txs := make([]*transaction.Transaction, 0, 120)
	for i := 0; i < 120; i++ {
		txs = append(txs, tx(accountID, nil, transaction.TypeExpense, "-1.99"))
	}
	doc := report.NewDocument("Custom report", "2025-06-01 to 2025-06-30", "", txs, report.Lookup{}, time.UTC)

	out, err := report.NewPDFRenderer().Render(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestPDFRenderer_EmptyPeriod(t *testing.T) {
	t.Parallel()
	doc := report.NewDocument("Monthly report", "January 2025", "", nil, report.Lookup{}, time.UTC)
	out, err := report.NewPDFRenderer().Render(doc)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

// Package report turns a period of ledger activity into a printable document.
package report

import (
	"context"
	"time"

	"github.com/amirasaad/ledger/pkg/domain/transaction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContentTypePDF is the media type of rendered reports.
const ContentTypePDF = "application/pdf"

// Row is one transaction line of a report.
type Row struct {
	Date        time.Time
	Account     string
	Category    string
	Type        transaction.Type
	PaymentMode transaction.PaymentMode
	Description string
	Amount      decimal.Decimal
}

// Summary holds the totals printed above the transaction table.
// Transfers move money between the owner's own accounts and are not counted.
type Summary struct {
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	NetSavings    decimal.Decimal
	Transactions  int
}

// Document is everything a renderer needs.
type Document struct {
	Title       string
	Period      string
	Owner       string
	GeneratedAt time.Time
	Location    *time.Location
	Summary     Summary
	Rows        []Row
}

// Renderer encodes a document.
type Renderer interface {
	Render(doc Document) ([]byte, error)
}

// Store keeps rendered documents and hands out time limited download links.
type Store interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Lookup resolves display names for the ids referenced by transactions.
type Lookup struct {
	Accounts   map[uuid.UUID]string
	Categories map[uuid.UUID]string
}

// NewDocument builds a document from txs, which are expected newest first.
func NewDocument(title, period, owner string, txs []*transaction.Transaction, names Lookup, loc *time.Location) Document {
	if loc == nil {
		loc = time.UTC
	}
	doc := Document{
		Title:       title,
		Period:      period,
		Owner:       owner,
		GeneratedAt: time.Now().In(loc),
		Location:    loc,
		Summary: Summary{
			TotalIncome:   decimal.Zero,
			TotalExpenses: decimal.Zero,
			Transactions:  len(txs),
		},
		Rows: make([]Row, 0, len(txs)),
	}
	for _, tx := range txs {
		switch tx.Type {
		case transaction.TypeIncome:
			doc.Summary.TotalIncome = doc.Summary.TotalIncome.Add(tx.Amount)
		case transaction.TypeExpense:
			doc.Summary.TotalExpenses = doc.Summary.TotalExpenses.Add(tx.Amount.Abs())
		}
		row := Row{
			Date:        tx.Date.In(loc),
			Account:     names.Accounts[tx.AccountID],
			Type:        tx.Type,
			PaymentMode: tx.PaymentMode,
			Description: tx.Description,
			Amount:      tx.Amount,
		}
		if tx.CategoryID != nil {
			row.Category = names.Categories[*tx.CategoryID]
		}
		if tx.Investment != nil && row.Description == "" {
			row.Description = tx.Investment.Quantity.String() + " x " + tx.Investment.AssetSymbol
		}
		doc.Rows = append(doc.Rows, row)
	}
	doc.Summary.NetSavings = doc.Summary.TotalIncome.Sub(doc.Summary.TotalExpenses)
	return doc
}

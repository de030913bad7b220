package handler

import (
	"context"
	"log/slog"

	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/eventbus"
)

// AuditLog writes one structured record per ledger event.
func AuditLog(logger *slog.Logger) eventbus.HandlerFunc {
	log := logger.With("component", "audit")
	return func(ctx context.Context, e events.Event) error {
		attrs := []any{"event", e.Type(), "userID", e.Owner()}
		switch evt := e.(type) {
		case *events.TransactionPosted:
			attrs = append(attrs,
				"transactionID", evt.TransactionID,
				"accountID", evt.AccountID,
				"txType", evt.TxType,
				"amount", evt.Amount.String(),
			)
		case *events.TransferPosted:
			attrs = append(attrs,
				"debitID", evt.DebitTransactionID,
				"creditID", evt.CreditTransactionID,
				"fromAccountID", evt.FromAccountID,
				"toAccountID", evt.ToAccountID,
				"amount", evt.Amount.String(),
			)
		case *events.InvestmentPosted:
			attrs = append(attrs,
				"transactionID", evt.TransactionID,
				"accountID", evt.AccountID,
				"symbol", evt.AssetSymbol,
				"quantity", evt.Quantity.String(),
				"total", evt.TotalAmount.String(),
			)
		case *events.TransactionReversed:
			attrs = append(attrs,
				"transactionID", evt.TransactionID,
				"accountID", evt.AccountID,
				"amount", evt.Amount.String(),
			)
		case *events.AccountChanged:
			attrs = append(attrs,
				"accountID", evt.AccountID,
				"openingBalance", evt.OpeningBalance.String(),
			)
		}
		log.InfoContext(ctx, "ledger event", attrs...)
		return nil
	}
}

// Package handler reacts to ledger events published on the event bus.
package handler

import (
	"context"
	"log/slog"

	"github.com/amirasaad/ledger/pkg/cache"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/eventbus"
)

// NetWorthInvalidation drops the cached net worth of the user whose ledger
// changed.
func NetWorthInvalidation(c cache.NetWorthCache, logger *slog.Logger) eventbus.HandlerFunc {
	return func(ctx context.Context, e events.Event) error {
		userID := e.Owner()
		if err := c.Delete(ctx, userID); err != nil {
			logger.Error("failed to invalidate net worth", "event", e.Type(), "userID", userID, "error", err)
			return err
		}
		logger.Debug("net worth invalidated", "event", e.Type(), "userID", userID)
		return nil
	}
}

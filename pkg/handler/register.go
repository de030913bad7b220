package handler

import (
	"log/slog"

	"github.com/amirasaad/ledger/pkg/cache"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/amirasaad/ledger/pkg/handler/common"
)

// RegisterLedgerHandlers subscribes the audit log and, when c is not nil, the
// net worth invalidation to every ledger event. Both are deduplicated by
// event id so broker redeliveries are harmless.
func RegisterLedgerHandlers(bus eventbus.Bus, c cache.NetWorthCache, logger *slog.Logger) {
	auditTracker := common.NewIdempotencyTracker()
	cacheTracker := common.NewIdempotencyTracker()
	for _, t := range events.LedgerEventTypes() {
		bus.Register(t, common.WithIdempotency(AuditLog(logger), auditTracker, common.ByEventID, "audit", logger))
		if c != nil {
			bus.Register(t, common.WithIdempotency(
				NetWorthInvalidation(c, logger), cacheTracker, common.ByEventID, "networth_invalidation", logger,
			))
		}
	}
	logger.Info("ledger event handlers registered", "events", len(events.LedgerEventTypes()), "cache", c != nil)
}

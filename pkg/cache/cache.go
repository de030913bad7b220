package cache

import (
	"context"
	"time"

	"github.com/amirasaad/ledger/pkg/domain/analytics"
	"github.com/google/uuid"
)

// NetWorthCache stores computed net worth snapshots per user. A miss is
// reported with a nil snapshot and a nil error.
type NetWorthCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*analytics.NetWorth, error)
	Set(ctx context.Context, userID uuid.UUID, nw *analytics.NetWorth, ttl time.Duration) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

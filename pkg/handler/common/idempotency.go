package common

import (
	"context"
	"log/slog"
	"sync"

	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// KeyExtractor extracts an idempotency key from an event.
type KeyExtractor func(events.Event) string

// ByEventID keys an event by its envelope id, which survives redelivery.
func ByEventID(e events.Event) string {
	ided, ok := e.(interface{ EventID() uuid.UUID })
	if !ok || ided.EventID() == uuid.Nil {
		return ""
	}
	return ided.EventID().String()
}

// IdempotencyTracker tracks processed events by key.
type IdempotencyTracker struct {
	processed sync.Map
	inflight  singleflight.Group
}

func NewIdempotencyTracker() *IdempotencyTracker {
	return &IdempotencyTracker{}
}

// Store marks a key as processed.
func (t *IdempotencyTracker) Store(key string) {
	t.processed.Store(key, struct{}{})
}

// Delete forgets a key.
func (t *IdempotencyTracker) Delete(key string) {
	t.processed.Delete(key)
}

// Seen reports whether key has been processed.
func (t *IdempotencyTracker) Seen(key string) bool {
	_, ok := t.processed.Load(key)
	return ok
}

// WithIdempotency wraps handler so that an event whose key was already
// handled successfully is skipped. Concurrent deliveries of one key wait
// for the in-flight attempt and share its result.
func WithIdempotency(
	handler eventbus.HandlerFunc,
	tracker *IdempotencyTracker,
	keyExtractor KeyExtractor,
	handlerName string,
	logger *slog.Logger,
) eventbus.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, e events.Event) error {
		key := keyExtractor(e)
		if key == "" {
			return handler(ctx, e)
		}
		log := logger.With(
			"handler", handlerName,
			"event_type", e.Type(),
			"idempotency_key", key,
		)
		if tracker.Seen(key) {
			log.Info("🔁 [SKIP] Event already processed")
			return nil
		}

		_, err, _ := tracker.inflight.Do(key, func() (any, error) {
			if tracker.Seen(key) {
				return nil, nil
			}
			if err := handler(ctx, e); err != nil {
				return nil, err
			}
			tracker.Store(key)
			return nil, nil
		})
		return err
	}
}

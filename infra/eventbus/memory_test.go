package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryEventBus_DispatchesByType(t *testing.T) {
	t.Parallel()
	bus := NewWithMemory(slog.Default(), WithRecording())
	var posted, reversed int
	bus.Register(events.EventTypeTransactionPosted, func(ctx context.Context, e events.Event) error {
		posted++
		return nil
	})
	bus.Register(events.EventTypeTransactionReversed, func(ctx context.Context, e events.Event) error {
		reversed++
		return nil
	})

	evt := events.NewTransactionPosted(uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(5), "INCOME")
	require.NoError(t, bus.Emit(context.Background(), evt))
	assert.Equal(t, 1, posted)
	assert.Equal(t, 0, reversed)
	assert.Len(t, bus.Published(), 1)

	bus.ClearPublished()
	assert.Empty(t, bus.Published())
}

func TestMemoryEventBus_HandlerFailuresDoNotReachEmitter(t *testing.T) {
	t.Parallel()
	bus := NewWithMemory(slog.Default())
	calls := 0
	bus.Register(events.EventTypeTransferPosted, func(ctx context.Context, e events.Event) error {
		calls++
		return errors.New("boom")
	})
	bus.Register(events.EventTypeTransferPosted, func(ctx context.Context, e events.Event) error {
		calls++
		panic("handler bug")
	})
	bus.Register(events.EventTypeTransferPosted, func(ctx context.Context, e events.Event) error {
		calls++
		return nil
	})

	evt := events.NewTransferPosted(uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(1))
	assert.NoError(t, bus.Emit(context.Background(), evt))
	assert.Equal(t, 3, calls)
}

func TestMemoryEventBus_DoesNotRetainEventsByDefault(t *testing.T) {
	t.Parallel()
	bus := NewWithMemory(slog.Default())
	delivered := 0
	bus.Register(events.EventTypeTransactionPosted, func(ctx context.Context, e events.Event) error {
		delivered++
		return nil
	})

	for i := 0; i < 100; i++ {
		evt := events.NewTransactionPosted(uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(1), "EXPENSE")
		require.NoError(t, bus.Emit(context.Background(), evt))
	}
	assert.Equal(t, 100, delivered)
	assert.Empty(t, bus.Published())
}

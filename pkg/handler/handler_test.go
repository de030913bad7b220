package handler_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	infracache "github.com/amirasaad/ledger/infra/cache"
	"github.com/amirasaad/ledger/infra/eventbus"
	"github.com/amirasaad/ledger/internal/fixtures/mocks"
	"github.com/amirasaad/ledger/pkg/domain/analytics"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/handler"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegisterLedgerHandlers_InvalidatesNetWorth(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := infracache.NewMemoryNetWorthCache(0)
	defer c.Close()
	bus := eventbus.NewWithMemory(slog.Default())
	handler.RegisterLedgerHandlers(bus, c, slog.Default())

	userID := uuid.New()
	require.NoError(t, c.Set(ctx, userID, &analytics.NetWorth{NetWorth: decimal.NewFromInt(1)}, time.Minute))

	for _, evt := range []events.Event{
		events.NewTransactionPosted(userID, uuid.New(), uuid.New(), decimal.NewFromInt(5), "INCOME"),
		events.NewTransferPosted(userID, uuid.New(), uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(5)),
		events.NewInvestmentPosted(userID, uuid.New(), uuid.New(), "VTI", decimal.NewFromInt(1), decimal.NewFromInt(5)),
		events.NewTransactionReversed(userID, uuid.New(), uuid.New(), decimal.NewFromInt(5)),
		events.NewAccountOpened(userID, uuid.New(), decimal.NewFromInt(500)),
		events.NewAccountUpdated(userID, uuid.New()),
		events.NewAccountClosed(userID, uuid.New()),
	} {
		require.NoError(t, c.Set(ctx, userID, &analytics.NetWorth{}, time.Minute))
		require.NoError(t, bus.Emit(ctx, evt))
		got, err := c.Get(ctx, userID)
		require.NoError(t, err)
		assert.Nil(t, got, evt.Type())
	}
}

func TestNetWorthInvalidation_PropagatesCacheError(t *testing.T) {
	t.Parallel()
	c := mocks.NewMockNetWorthCache(t)
	userID := uuid.New()
	c.EXPECT().Delete(mock.Anything, userID).Return(errors.New("redis down"))

	h := handler.NetWorthInvalidation(c, slog.Default())
	err := h(context.Background(), events.NewTransactionReversed(userID, uuid.New(), uuid.New(), decimal.NewFromInt(1)))
	assert.Error(t, err)
}

func TestAuditLog_AcceptsEveryLedgerEvent(t *testing.T) {
	t.Parallel()
	h := handler.AuditLog(slog.Default())
	for _, t2 := range events.LedgerEventTypes() {
		assert.NoError(t, h(context.Background(), events.EventTypes[t2]()))
	}
}

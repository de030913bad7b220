package app_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/amirasaad/ledger/infra/cache"
	"github.com/amirasaad/ledger/internal/fixtures/memory"
	"github.com/amirasaad/ledger/pkg/app"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/domain/transaction"
	"github.com/amirasaad/ledger/pkg/eventbus"
	accountsvc "github.com/amirasaad/ledger/pkg/service/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// heldBus queues events without delivering them, like a broker whose
// consumer has not caught up yet.
type heldBus struct {
	mu     sync.Mutex
	queued []events.Event
}

func (b *heldBus) Emit(_ context.Context, event events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queued = append(b.queued, event)
	return nil
}

func (b *heldBus) Register(events.EventType, eventbus.HandlerFunc) {}

type AppTestSuite struct {
	suite.Suite
	ctx   context.Context
	cache *cache.MemoryNetWorthCache
	bus   *heldBus
	app   *app.App
	user  uuid.UUID
}

func (s *AppTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.cache = cache.NewMemoryNetWorthCache(time.Minute)
	s.bus = &heldBus{}
	s.user = uuid.New()
	cfg := &config.App{
		Env:       "test",
		Auth:      &config.Auth{Strategy: "jwt", Jwt: &config.Jwt{Secret: "test-secret", Expiry: time.Hour}},
		Cache:     &config.Cache{Driver: "memory", TTL: time.Hour},
		Analytics: &config.Analytics{TimeZone: "UTC"},
	}
	s.app = app.New(&app.Deps{
		Uow:      memory.New(),
		EventBus: s.bus,
		Cache:    s.cache,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, cfg)
}

func (s *AppTestSuite) TearDownTest() {
	s.NoError(s.cache.Close())
}

func (s *AppTestSuite) netWorth() decimal.Decimal {
	nw, err := s.app.AnalyticsService.NetWorth(s.ctx, s.user)
	s.Require().NoError(err)
	return nw.NetWorth
}

func (s *AppTestSuite) TestNetWorthIsFreshAfterAccountChanges() {
	s.True(s.netWorth().IsZero())

	acc, err := s.app.AccountService.Create(s.ctx, s.user, accountsvc.CreateInput{
		Name:           "Checking",
		Type:           account.TypeChecking,
		InitialBalance: decimal.NewFromInt(500),
	})
	s.Require().NoError(err)
	s.True(s.netWorth().Equal(decimal.NewFromInt(500)), "got %s", s.netWorth())

	card, err := s.app.AccountService.Create(s.ctx, s.user, accountsvc.CreateInput{
		Name:           "Visa",
		Type:           account.TypeCredit,
		InitialBalance: decimal.NewFromInt(-120),
	})
	s.Require().NoError(err)
	s.True(s.netWorth().Equal(decimal.NewFromInt(380)), "got %s", s.netWorth())

	_, err = s.app.AccountService.Update(s.ctx, s.user, acc.ID, accountsvc.UpdateInput{Name: "Everyday"})
	s.Require().NoError(err)
	nw, err := s.app.AnalyticsService.NetWorth(s.ctx, s.user)
	s.Require().NoError(err)
	names := make([]string, 0, len(nw.Accounts))
	for _, a := range nw.Accounts {
		names = append(names, a.AccountName)
	}
	s.Contains(names, "Everyday")

	s.Require().NoError(s.app.AccountService.Delete(s.ctx, s.user, card.ID))
	s.True(s.netWorth().Equal(decimal.NewFromInt(500)), "got %s", s.netWorth())

	s.Require().NoError(s.app.AccountService.Delete(s.ctx, s.user, acc.ID))
	s.True(s.netWorth().IsZero(), "got %s", s.netWorth())

	s.Len(s.bus.queued, 5, "account events still go out for other replicas")
}

func (s *AppTestSuite) TestNetWorthIsFreshAfterPosting() {
	acc, err := s.app.AccountService.Create(s.ctx, s.user, accountsvc.CreateInput{
		Name:           "Checking",
		Type:           account.TypeChecking,
		InitialBalance: decimal.NewFromInt(500),
	})
	s.Require().NoError(err)
	s.True(s.netWorth().Equal(decimal.NewFromInt(500)))

	tx, err := s.app.TransactionService.Create(s.ctx, s.user, transaction.Draft{
		AccountID:   acc.ID,
		Amount:      decimal.RequireFromString("-75.25"),
		Type:        transaction.TypeExpense,
		Date:        time.Now(),
		PaymentMode: transaction.PaymentModeCard,
	})
	s.Require().NoError(err)
	s.True(s.netWorth().Equal(decimal.RequireFromString("424.75")), "got %s", s.netWorth())

	s.Require().NoError(s.app.TransactionService.Delete(s.ctx, s.user, tx.ID))
	s.True(s.netWorth().Equal(decimal.NewFromInt(500)), "got %s", s.netWorth())
}

func TestAppTestSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}

package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirasaad/ledger/infra/eventbus"
	"github.com/amirasaad/ledger/infra/storage"
	"github.com/amirasaad/ledger/internal/fixtures/memory"
	"github.com/amirasaad/ledger/pkg/app"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain/category"
	"github.com/amirasaad/ledger/pkg/repository"
	svccategory "github.com/amirasaad/ledger/pkg/service/category"
	"github.com/stretchr/testify/suite"
)

type MainTestSuite struct {
	suite.Suite
	store *memory.Store
	deps  *app.Deps
	cfg   *config.App
}

func TestMainTestSuite(t *testing.T) {
	suite.Run(t, new(MainTestSuite))
}

func (s *MainTestSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.store = memory.New()
	s.deps = &app.Deps{
		Uow:         s.store,
		EventBus:    eventbus.NewWithMemory(logger),
		ReportStore: storage.NewMemoryStore("http://localhost/reports"),
		Logger:      logger,
	}
	s.cfg = &config.App{
		Env:       "test",
		Auth:      &config.Auth{Strategy: "jwt", Jwt: &config.Jwt{Secret: "secret", Expiry: time.Hour}},
		RateLimit: &config.RateLimit{MaxRequests: 100, Window: time.Minute},
		Analytics: &config.Analytics{TimeZone: "UTC"},
	}
}

func (s *MainTestSuite) TestNewServer_SeedsGlobalCategoriesOnce() {
	ctx := context.Background()
	_, err := newServer(ctx, s.deps, s.cfg)
	s.Require().NoError(err)
	_, err = newServer(ctx, s.deps, s.cfg)
	s.Require().NoError(err)

	var cats []*category.Category
	s.Require().NoError(s.store.View(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		cats, err = repo.ListGlobal(ctx)
		return err
	}))
	s.Len(cats, len(svccategory.Defaults))
	for _, c := range cats {
		s.True(c.Scope.IsGlobal())
		s.Contains([]category.Type{category.TypeIncome, category.TypeExpense}, c.Type)
	}
}

func (s *MainTestSuite) TestNewServer_ServesHealth() {
	fiberApp, err := newServer(context.Background(), s.deps, s.cfg)
	s.Require().NoError(err)

	resp, err := fiberApp.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	s.Require().NoError(err)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(http.StatusOK, resp.StatusCode)

	var body map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Equal(true, body["success"])
}

func (s *MainTestSuite) TestNewServer_UnknownRoute() {
	fiberApp, err := newServer(context.Background(), s.deps, s.cfg)
	s.Require().NoError(err)

	resp, err := fiberApp.Test(httptest.NewRequest(http.MethodGet, "/doesnotexist", nil))
	s.Require().NoError(err)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *MainTestSuite) TestNewServer_RequiresUnitOfWork() {
	_, err := newServer(context.Background(), &app.Deps{}, s.cfg)
	s.Error(err)
}

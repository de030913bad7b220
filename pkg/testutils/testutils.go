// Package testutils boots the full HTTP application on a throwaway Postgres
// container for end-to-end tests. Suites are skipped unless RUN_E2E=1.
package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/amirasaad/ledger/infra"
	"github.com/amirasaad/ledger/infra/cache"
	"github.com/amirasaad/ledger/infra/eventbus"
	infrarepo "github.com/amirasaad/ledger/infra/repository"
	"github.com/amirasaad/ledger/infra/storage"
	"github.com/amirasaad/ledger/internal/migrations"
	"github.com/amirasaad/ledger/pkg/app"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/service/category"
	"github.com/amirasaad/ledger/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// Password satisfies the signup password policy.
const Password = "E2e!Passw0rd"

// Envelope mirrors the JSON response body with data left raw.
type Envelope struct {
	StatusCode int               `json:"statusCode"`
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Data       json.RawMessage   `json:"data"`
	Errors     map[string]string `json:"errors"`
}

// E2ETestSuite owns a Postgres container, the migrated schema and the app.
type E2ETestSuite struct {
	suite.Suite
	App     *fiber.App
	DB      *gorm.DB
	Cfg     *config.App
	Reports *storage.MemoryStore

	pg *tcpostgres.PostgresContainer
}

func (s *E2ETestSuite) SetupSuite() {
	if os.Getenv("RUN_E2E") != "1" {
		s.T().Skip("set RUN_E2E=1 to run container backed tests")
	}
	ctx := context.Background()

	pg, err := startPostgresContainer(ctx)
	s.Require().NoError(err, "start postgres container")
	s.pg = pg

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.Cfg = testConfig(dsn)
	s.DB, err = infra.NewDBConnection(s.Cfg.DB, s.Cfg.Env)
	s.Require().NoError(err)

	sqlDB, err := s.DB.DB()
	s.Require().NoError(err)
	s.Require().NoError(migrations.Up(sqlDB))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.Reports = storage.NewMemoryStore("http://reports.e2e")
	deps := &app.Deps{
		Uow:         infrarepo.NewUoW(s.DB),
		EventBus:    eventbus.NewWithMemory(logger),
		Cache:       cache.NewMemoryNetWorthCache(time.Minute),
		ReportStore: s.Reports,
		Logger:      logger,
	}
	a := app.New(deps, s.Cfg)
	_, err = a.CategoryService.SeedGlobal(ctx, category.Defaults)
	s.Require().NoError(err)
	s.App = webapi.SetupApp(a)
}

func (s *E2ETestSuite) TearDownSuite() {
	if s.DB != nil {
		if sqlDB, err := s.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if s.pg != nil {
		_ = s.pg.Terminate(context.Background())
	}
}

// Request sends body as JSON and decodes the envelope.
func (s *E2ETestSuite) Request(method, path, token string, body any) (int, Envelope) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.App.Test(req, -1)
	s.Require().NoError(err)
	defer resp.Body.Close() //nolint: errcheck

	var env Envelope
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

// Decode unmarshals the envelope data into out.
func (s *E2ETestSuite) Decode(env Envelope, out any) {
	s.Require().NoError(json.Unmarshal(env.Data, out))
}

// NewUser signs up a random user and returns a bearer token for it.
func (s *E2ETestSuite) NewUser() (token, email string) {
	email = fmt.Sprintf("e2e_%s@example.com", uuid.New().String()[:8])
	status, env := s.Request(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"firstName":       "E2E",
		"lastName":        "User",
		"email":           email,
		"password":        Password,
		"confirmPassword": Password,
	})
	s.Require().Equal(http.StatusCreated, status, env.Message)

	status, env = s.Request(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": Password,
	})
	s.Require().Equal(http.StatusOK, status, env.Message)
	var out struct {
		Token string `json:"token"`
	}
	s.Decode(env, &out)
	s.Require().NotEmpty(out.Token)
	return out.Token, email
}

func testConfig(dsn string) *config.App {
	return &config.App{
		Env:       "test",
		DB:        &config.DB{Url: dsn},
		Auth:      &config.Auth{Strategy: "jwt", Jwt: &config.Jwt{Secret: "e2e-secret", Expiry: time.Hour}},
		RateLimit: &config.RateLimit{MaxRequests: 10000, Window: time.Minute},
		Cache:     &config.Cache{Driver: "memory", TTL: time.Minute},
		Analytics: &config.Analytics{TimeZone: "UTC"},
	}
}

// startPostgresContainer starts a Postgres container using Testcontainers
func startPostgresContainer(ctx context.Context) (*tcpostgres.PostgresContainer, error) {
	return tcpostgres.Run(
		ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second),
		),
	)
}

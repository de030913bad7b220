package app

import (
	"log/slog"

	"github.com/amirasaad/ledger/pkg/cache"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/amirasaad/ledger/pkg/ledger"
	"github.com/amirasaad/ledger/pkg/report"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/amirasaad/ledger/pkg/service/account"
	"github.com/amirasaad/ledger/pkg/service/analytics"
	"github.com/amirasaad/ledger/pkg/service/auth"
	"github.com/amirasaad/ledger/pkg/service/category"
	reportsvc "github.com/amirasaad/ledger/pkg/service/report"
	"github.com/amirasaad/ledger/pkg/service/transaction"
)

// Deps contains the infrastructure the services are built on.
// Cache may be nil; Renderer defaults to the PDF renderer.
type Deps struct {
	Uow         repository.UnitOfWork
	EventBus    eventbus.Bus
	Cache       cache.NetWorthCache
	ReportStore report.Store
	Renderer    report.Renderer
	Logger      *slog.Logger
}

type App struct {
	Deps               *Deps
	Config             *config.App
	AuthService        *auth.Service
	AccountService     *account.Service
	CategoryService    *category.Service
	TransactionService *transaction.Service
	AnalyticsService   *analytics.Service
	ReportService      *reportsvc.Service
}

func New(deps *Deps, cfg *config.App) *App {
	app := &App{
		Deps:   deps,
		Config: cfg,
	}
	app.setupEventBus()

	authMap := map[string]func() *auth.Service{
		"jwt": func() *auth.Service {
			return auth.NewWithJWT(deps.Uow, cfg.Auth.Jwt, deps.Logger)
		},
	}
	if authFactory, ok := authMap[cfg.Auth.Strategy]; ok {
		app.AuthService = authFactory()
	} else {
		app.AuthService = auth.NewWithBasic(deps.Uow, deps.Logger)
	}

	loc := cfg.Analytics.Location()
	analyticsOpts := []analytics.Option{analytics.WithLocation(loc)}
	if deps.Cache != nil && cfg.Cache != nil {
		analyticsOpts = append(analyticsOpts, analytics.WithCache(deps.Cache, cfg.Cache.TTL))
	}

	renderer := deps.Renderer
	if renderer == nil {
		renderer = report.NewPDFRenderer()
	}
	linkTTL := reportsvc.DefaultLinkTTL
	if cfg.Reports != nil && cfg.Reports.S3 != nil && cfg.Reports.S3.PresignTTL > 0 {
		linkTTL = cfg.Reports.S3.PresignTTL
	}

	accountOpts := []account.Option{account.WithEventBus(deps.EventBus)}
	var txOpts []transaction.Option
	if deps.Cache != nil {
		accountOpts = append(accountOpts, account.WithCache(deps.Cache))
		txOpts = append(txOpts, transaction.WithCache(deps.Cache))
	}

	app.AccountService = account.New(deps.Uow, deps.Logger, accountOpts...)
	app.CategoryService = category.New(deps.Uow, deps.Logger)
	app.TransactionService = transaction.New(deps.Uow, ledger.New(deps.Logger), deps.EventBus, deps.Logger, txOpts...)
	app.AnalyticsService = analytics.New(deps.Uow, deps.Logger, analyticsOpts...)
	app.ReportService = reportsvc.New(deps.Uow, renderer, deps.ReportStore, loc, linkTTL, deps.Logger)
	return app
}

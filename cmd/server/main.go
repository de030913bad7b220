package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/amirasaad/ledger/docs"
	"github.com/amirasaad/ledger/infra/initializer"
	"github.com/amirasaad/ledger/pkg/app"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/service/category"
	"github.com/amirasaad/ledger/webapi"
	log "github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
)

// @title Ledger API
// @version 1.0.0
// @description Personal finance ledger: accounts, categories, transactions, analytics and reports.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description "Enter your Bearer token in the format: `Bearer {token}`"
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	logger := slog.Default()
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, closeDeps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer func() {
		if err := closeDeps(); err != nil {
			logger.Warn("Error while closing dependencies", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fiberApp, err := newServer(ctx, deps, cfg)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	deps.Logger.Info("Starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
	)

	errCh := make(chan error, 1)
	go func() { errCh <- fiberApp.Listen(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		deps.Logger.Info("Shutting down server")
		return fiberApp.ShutdownWithTimeout(10 * time.Second)
	}
}

// newServer seeds the global categories and builds the HTTP application.
func newServer(ctx context.Context, deps *app.Deps, cfg *config.App) (*fiber.App, error) {
	if deps == nil || deps.Uow == nil {
		return nil, errors.New("unit of work is required")
	}
	a := app.New(deps, cfg)
	if _, err := a.CategoryService.SeedGlobal(ctx, category.Defaults); err != nil {
		return nil, fmt.Errorf("failed to seed global categories: %w", err)
	}
	return webapi.SetupApp(a), nil
}

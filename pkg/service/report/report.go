// Package report generates PDF statements of a user's ledger and publishes
// them as time limited download links.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/transaction"
	"github.com/amirasaad/ledger/pkg/report"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/amirasaad/ledger/pkg/service/analytics"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultLinkTTL is how long a download link stays valid.
const DefaultLinkTTL = time.Hour

// Result points at a stored report.
type Result struct {
	Key         string    `json:"key"`
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type Service struct {
	uow      repository.UnitOfWork
	renderer report.Renderer
	store    report.Store
	loc      *time.Location
	ttl      time.Duration
	logger   *slog.Logger
}

// New creates a Service. A zero ttl means DefaultLinkTTL and a nil loc means UTC.
func New(
	uow repository.UnitOfWork,
	renderer report.Renderer,
	store report.Store,
	loc *time.Location,
	ttl time.Duration,
	logger *slog.Logger,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if ttl <= 0 {
		ttl = DefaultLinkTTL
	}
	return &Service{uow: uow, renderer: renderer, store: store, loc: loc, ttl: ttl, logger: logger}
}

// MonthlyKey is the object key of a monthly report.
func MonthlyKey(userID uuid.UUID, year, month int) string {
	return fmt.Sprintf("reports/%s/%04d-%02d-monthly-report.pdf", userID, year, month)
}

// CustomKey is the object key of a custom range report.
func CustomKey(userID, reportID uuid.UUID) string {
	return fmt.Sprintf("reports/%s/custom-%s.pdf", userID, reportID)
}

// Monthly renders actor's statement for a calendar month. Regenerating a
// month overwrites the previous file.
func (s *Service) Monthly(ctx context.Context, actor uuid.UUID, year, month int) (*Result, error) {
	start, end, err := analytics.MonthRange(year, month, s.loc)
	if err != nil {
		return nil, err
	}
	period := start.Format("January 2006")
	return s.generate(ctx, actor, "Monthly report", period, start, end, MonthlyKey(actor, year, month))
}

// Custom renders actor's statement for the inclusive range start..end.
func (s *Service) Custom(ctx context.Context, actor uuid.UUID, start, end time.Time) (*Result, error) {
	if start.IsZero() || end.IsZero() {
		return nil, domain.NewValidationError("startDate", "start and end dates are required")
	}
	if end.Before(start) {
		return nil, domain.NewValidationError("endDate", "end date must not be before start date")
	}
	period := start.In(s.loc).Format(time.RFC3339) + " to " + end.In(s.loc).Format(time.RFC3339)
	return s.generate(ctx, actor, "Custom report", period, start, end, CustomKey(actor, uuid.New()))
}

func (s *Service) generate(
	ctx context.Context,
	actor uuid.UUID,
	title, period string,
	start, end time.Time,
	key string,
) (*Result, error) {
	log := s.logger.With("context", "GenerateReport", "userID", actor, "key", key)

	var (
		owner string
		txs   []*transaction.Transaction
		names = report.Lookup{
			Accounts:   make(map[uuid.UUID]string),
			Categories: make(map[uuid.UUID]string),
		}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.uow.View(gctx, func(uow repository.UnitOfWork) error {
			users, err := uow.UserRepository()
			if err != nil {
				return err
			}
			u, err := users.Get(gctx, actor)
			if err != nil {
				return err
			}
			owner = strings.TrimSpace(u.FirstName + " " + u.LastName)
			return nil
		})
	})
	g.Go(func() error {
		return s.uow.View(gctx, func(uow repository.UnitOfWork) error {
			repo, err := uow.TransactionRepository()
			if err != nil {
				return err
			}
			txs, err = repo.ListByUserAndDateRange(gctx, actor, start, end)
			return err
		})
	})
	g.Go(func() error {
		return s.uow.View(gctx, func(uow repository.UnitOfWork) error {
			repo, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			accounts, err := repo.ListByUser(gctx, actor)
			if err != nil {
				return err
			}
			for _, a := range accounts {
				names.Accounts[a.ID] = a.Name
			}
			return nil
		})
	})
	g.Go(func() error {
		return s.uow.View(gctx, func(uow repository.UnitOfWork) error {
			repo, err := uow.CategoryRepository()
			if err != nil {
				return err
			}
			cats, err := repo.ListVisible(gctx, actor)
			if err != nil {
				return err
			}
			for _, c := range cats {
				names.Categories[c.ID] = c.Name
			}
			return nil
		})
	})
	if err := g.Wait(); err != nil {
		log.Error("failed to load report data", "error", err)
		return nil, err
	}

	doc := report.NewDocument(title, period, owner, txs, names, s.loc)
	body, err := s.renderer.Render(doc)
	if err != nil {
		log.Error("failed to render report", "error", err)
		return nil, err
	}
	if err := s.store.Put(ctx, key, body, report.ContentTypePDF); err != nil {
		log.Error("failed to store report", "error", err)
		return nil, err
	}
	link, err := s.store.PresignGet(ctx, key, s.ttl)
	if err != nil {
		log.Error("failed to sign report link", "error", err)
		return nil, err
	}
	log.Info("report generated", "transactions", len(txs), "size", len(body))
	return &Result{Key: key, DownloadURL: link, ExpiresAt: time.Now().Add(s.ttl).UTC()}, nil
}

package report_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/amirasaad/ledger/infra/storage"
	"github.com/amirasaad/ledger/internal/fixtures/memory"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/transaction"
	"github.com/amirasaad/ledger/pkg/domain/user"
	"github.com/amirasaad/ledger/pkg/ledger"
	"github.com/amirasaad/ledger/pkg/report"
	"github.com/amirasaad/ledger/pkg/repository"
	reportsvc "github.com/amirasaad/ledger/pkg/service/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingRenderer struct {
	docs []report.Document
	err  error
}

func (r *capturingRenderer) Render(doc report.Document) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.docs = append(r.docs, doc)
	return []byte("%PDF-fake"), nil
}

func seed(t *testing.T) (*memory.Store, *user.User, *account.Account) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	u, err := user.New("Grace", "Hopper", "grace@example.com", "Secur3!Pass")
	require.NoError(t, err)
	store.SeedUser(u)

	acc, err := account.New().WithUserID(u.ID).WithName("Checking").WithType(account.TypeChecking).Build()
	require.NoError(t, err)
	engine := ledger.New(slog.Default())
	require.NoError(t, store.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if err := repo.Create(ctx, acc); err != nil {
			return err
		}
		for _, d := range []transaction.Draft{
			{AccountID: acc.ID, Amount: decimal.NewFromInt(2000), Type: transaction.TypeIncome, Date: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC), PaymentMode: transaction.PaymentModeACH},
			{AccountID: acc.ID, Amount: decimal.NewFromInt(-300), Type: transaction.TypeExpense, Date: time.Date(2025, 4, 30, 23, 0, 0, 0, time.UTC), PaymentMode: transaction.PaymentModeCard},
			{AccountID: acc.ID, Amount: decimal.NewFromInt(-5), Type: transaction.TypeExpense, Date: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), PaymentMode: transaction.PaymentModeCash},
		} {
			if _, err := engine.PostSingle(ctx, uow, transaction.NewFromDraft(d)); err != nil {
				return err
			}
		}
		return nil
	}))
	return store, u, acc
}

func TestMonthly(t *testing.T) {
	t.Parallel()
	store, u, _ := seed(t)
	renderer := &capturingRenderer{}
	objects := storage.NewMemoryStore("https://files.example.com")
	svc := reportsvc.New(store, renderer, objects, time.UTC, 0, slog.Default())

	res, err := svc.Monthly(context.Background(), u.ID, 2025, 4)
	require.NoError(t, err)

	assert.Equal(t, "reports/"+u.ID.String()+"/2025-04-monthly-report.pdf", res.Key)
	assert.True(t, strings.HasPrefix(res.DownloadURL, "https://files.example.com/reports/"))
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, time.Minute)

	require.Len(t, renderer.docs, 1)
	doc := renderer.docs[0]
	assert.Equal(t, "April 2025", doc.Period)
	assert.Equal(t, "Grace Hopper", doc.Owner)
	assert.Len(t, doc.Rows, 2)
	assert.Equal(t, "Checking", doc.Rows[0].Account)
	assert.True(t, doc.Summary.NetSavings.Equal(decimal.NewFromInt(1700)))

	obj, ok := objects.Get(res.Key)
	require.True(t, ok)
	assert.Equal(t, report.ContentTypePDF, obj.ContentType)
	assert.True(t, bytes.HasPrefix(obj.Body, []byte("%PDF")))
}

func TestCustom_UsesFreshKeys(t *testing.T) {
	t.Parallel()
	store, u, _ := seed(t)
	objects := storage.NewMemoryStore("https://files.example.com")
	svc := reportsvc.New(store, report.NewPDFRenderer(), objects, time.UTC, 10*time.Minute, slog.Default())
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)

	first, err := svc.Custom(context.Background(), u.ID, start, end)
	require.NoError(t, err)
	second, err := svc.Custom(context.Background(), u.ID, start, end)
	require.NoError(t, err)

	assert.NotEqual(t, first.Key, second.Key)
	assert.True(t, strings.HasPrefix(first.Key, "reports/"+u.ID.String()+"/custom-"))
	assert.Len(t, objects.Keys(), 2)
}

func TestReport_Rejections(t *testing.T) {
	t.Parallel()
	store, u, _ := seed(t)
	svc := reportsvc.New(store, &capturingRenderer{}, storage.NewMemoryStore("https://x"), nil, 0, slog.Default())
	ctx := context.Background()

	_, err := svc.Monthly(ctx, u.ID, 2025, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)

	now := time.Now()
	_, err = svc.Custom(ctx, u.ID, now, now.Add(-time.Hour))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Monthly(ctx, uuid.New(), 2025, 4)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReport_RenderFailureStoresNothing(t *testing.T) {
	t.Parallel()
	store, u, _ := seed(t)
	objects := storage.NewMemoryStore("https://x")
	svc := reportsvc.New(store, &capturingRenderer{err: errors.New("font missing")}, objects, nil, 0, slog.Default())

	_, err := svc.Monthly(context.Background(), u.ID, 2025, 4)
	assert.Error(t, err)
	assert.Empty(t, objects.Keys())
}

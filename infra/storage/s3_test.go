package storage

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/amirasaad/ledger/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method      string
	path        string
	contentType string
	body        string
}

func fakeS3(t *testing.T) (*httptest.Server, func() []recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{r.Method, r.URL.Path, r.Header.Get("Content-Type"), string(body)})
		mu.Unlock()
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), reqs...)
	}
}

func newTestStore(t *testing.T, endpoint string) *S3Store {
	t.Helper()
	store, err := NewS3Store(context.Background(), &config.S3{
		Bucket:          "ledger-reports",
		Region:          "us-east-1",
		Endpoint:        endpoint,
		UsePathStyle:    true,
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY",
	}, slog.Default())
	require.NoError(t, err)
	return store
}

func TestS3Store_PutAndDelete(t *testing.T) {
	srv, requests := fakeS3(t)
	store := newTestStore(t, srv.URL)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "reports/u/2025-01-monthly-report.pdf", []byte("%PDF-1.4"), "application/pdf"))
	require.NoError(t, store.Delete(ctx, "reports/u/2025-01-monthly-report.pdf"))

	reqs := requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodPut, reqs[0].method)
	assert.Equal(t, "/ledger-reports/reports/u/2025-01-monthly-report.pdf", reqs[0].path)
	assert.Equal(t, "application/pdf", reqs[0].contentType)
	assert.Equal(t, "%PDF-1.4", reqs[0].body)
	assert.Equal(t, http.MethodDelete, reqs[1].method)
}

func TestS3Store_PresignGet(t *testing.T) {
	store := newTestStore(t, "http://localhost:9000")

	link, err := store.PresignGet(context.Background(), "reports/u/custom-1.pdf", time.Hour)
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(u.Path, "/ledger-reports/reports/u/custom-1.pdf"))
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), &config.S3{Region: "us-east-1"}, slog.Default())
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	m := NewMemoryStore("http://localhost:8080/files")
	ctx := context.Background()

	_, err := m.PresignGet(ctx, "missing.pdf", time.Minute)
	assert.Error(t, err)

	require.NoError(t, m.Put(ctx, "reports/a.pdf", []byte("pdf"), "application/pdf"))
	link, err := m.PresignGet(ctx, "reports/a.pdf", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "http://localhost:8080/files/reports/a.pdf?expires="))
	obj, ok := m.Get("reports/a.pdf")
	require.True(t, ok)
	assert.Equal(t, "application/pdf", obj.ContentType)
}

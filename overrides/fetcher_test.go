package overrides

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sheetServer struct {
	*httptest.Server
	hits   atomic.Int32
	status atomic.Int32
	agent  atomic.Value
}

func newSheetServer(t *testing.T, body string) *sheetServer {
	t.Helper()
	s := &sheetServer{}
	s.status.Store(http.StatusOK)
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		s.agent.Store(r.UserAgent())
		w.WriteHeader(int(s.status.Load()))
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)
	return s
}

func newTestFetcher(url, path string) *Fetcher {
	f := NewFetcher(url, path, 24*time.Hour, time.Second)
	f.client.RetryMax = 0
	return f
}

func TestFetcher_DownloadsWhenMissing(t *testing.T) {
	srv := newSheetServer(t, "iata,airport_ru\nALA,Алматы\n")
	path := filepath.Join(t.TempDir(), "data", "ru_overrides.csv")
	f := newTestFetcher(srv.URL, path)

	got, err := f.Ensure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, int32(1), srv.hits.Load())
	assert.Equal(t, UserAgent, srv.agent.Load())
	assert.Equal(t, Table{"ALA": "Алматы"}, LoadCSV(got))
}

func TestFetcher_FreshCacheSkipsDownload(t *testing.T) {
	srv := newSheetServer(t, "iata,airport_ru\nALA,new\n")
	path := filepath.Join(t.TempDir(), "ru.csv")
	require.NoError(t, os.WriteFile(path, []byte("iata,airport_ru\nALA,old\n"), 0o644))
	f := newTestFetcher(srv.URL, path)

	got, err := f.Ensure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(0), srv.hits.Load())
	assert.Equal(t, "old", LoadCSV(got)["ALA"])

	got, err = f.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.hits.Load())
	assert.Equal(t, "new", LoadCSV(got)["ALA"])
}

func TestFetcher_StaleCacheIsReplaced(t *testing.T) {
	srv := newSheetServer(t, "iata,airport_ru\nALA,new\n")
	path := filepath.Join(t.TempDir(), "ru.csv")
	require.NoError(t, os.WriteFile(path, []byte("iata,airport_ru\nALA,old\n"), 0o644))
	f := newTestFetcher(srv.URL, path)
	f.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	got, err := f.Ensure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.hits.Load())
	assert.Equal(t, "new", LoadCSV(got)["ALA"])
}

func TestFetcher_FailureFallsBackToStaleCache(t *testing.T) {
	srv := newSheetServer(t, "oops")
	srv.status.Store(http.StatusInternalServerError)
	path := filepath.Join(t.TempDir(), "ru.csv")
	require.NoError(t, os.WriteFile(path, []byte("iata,airport_ru\nALA,old\n"), 0o644))
	f := newTestFetcher(srv.URL, path)
	f.now = func() time.Time { return time.Now().Add(48 * time.Hour) }

	got, err := f.Ensure(context.Background())
	assert.Error(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, "old", LoadCSV(got)["ALA"])
}

func TestFetcher_FailureWithoutCache(t *testing.T) {
	srv := newSheetServer(t, "oops")
	srv.status.Store(http.StatusNotFound)
	f := newTestFetcher(srv.URL, filepath.Join(t.TempDir(), "ru.csv"))

	got, err := f.Ensure(context.Background())
	assert.Error(t, err)
	assert.Empty(t, got)

	f = newTestFetcher("", filepath.Join(t.TempDir(), "ru.csv"))
	got, err = f.Ensure(context.Background())
	assert.ErrorContains(t, err, "url is not set")
	assert.Empty(t, got)
}

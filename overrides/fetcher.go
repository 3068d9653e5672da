package overrides

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// UserAgent is sent with every download.
const UserAgent = "aviator-parser/1.0"

const maxDownloadSize = 8 << 20

// Fetcher keeps a local copy of the overrides CSV no older than MaxAge.
type Fetcher struct {
	URL       string
	CachePath string
	MaxAge    time.Duration

	client *retryablehttp.Client
	now    func() time.Time
}

// NewFetcher creates a fetcher whose downloads give up after timeout.
func NewFetcher(url, cachePath string, maxAge, timeout time.Duration) *Fetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = time.Second
	client.Logger = nil
	client.HTTPClient.Timeout = timeout

	return &Fetcher{
		URL:       url,
		CachePath: cachePath,
		MaxAge:    maxAge,
		client:    client,
		now:       time.Now,
	}
}

// Ensure returns the path of a usable cache file. A file younger than MaxAge
// is used as is; otherwise the CSV is downloaded over it. When the download
// fails the stale file is still returned, together with the error. The path
// is empty only when no file exists at all.
func (f *Fetcher) Ensure(ctx context.Context) (string, error) {
	if info, err := os.Stat(f.CachePath); err == nil && f.now().Sub(info.ModTime()) < f.MaxAge {
		return f.CachePath, nil
	}
	return f.Refresh(ctx)
}

// Refresh downloads the CSV regardless of the cache age, with the same
// stale-file fallback as Ensure.
func (f *Fetcher) Refresh(ctx context.Context) (string, error) {
	err := f.download(ctx)
	if err == nil {
		return f.CachePath, nil
	}
	if _, statErr := os.Stat(f.CachePath); statErr == nil {
		return f.CachePath, err
	}
	return "", err
}

func (f *Fetcher) download(ctx context.Context) error {
	if f.URL == "" {
		return fmt.Errorf("overrides url is not set")
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to create overrides request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download overrides: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download overrides: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize))
	if err != nil {
		return fmt.Errorf("failed to read overrides: %w", err)
	}
	return writeFileAtomic(f.CachePath, body)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".overrides-*")
	if err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Package downloader fetches the remote GTFS .zip bundle for
// --gtfs-zip-url (cmd/main.go), optionally caching the bytes between
// runs so re-converting the same feed doesn't re-fetch it.
package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GetOptions controls a single fetch. MaxSize guards against an
// unexpectedly huge response — a GTFS zip for a single agency is
// normally a few MB to a few hundred MB, never unbounded.
type GetOptions struct {
	MaxSize  int
	Timeout  time.Duration
	Cache    bool
	CacheTTL time.Duration
}

// Downloader fetches a GTFS zip bundle, optionally caching it.
// Filesystem is used for --gtfs-zip-url in normal operation; Memory
// stands in for it in tests that exercise the fetch-and-unzip path
// without touching disk or a real network.
type Downloader interface {
	Get(ctx context.Context, url string, headers map[string]string, options GetOptions) ([]byte, error)
}

// HTTPGet performs an uncached fetch; both Downloader implementations
// call it on a cache miss.
func HTTPGet(ctx context.Context, url string, headers map[string]string, options GetOptions) ([]byte, error) {
	client := &http.Client{
		Timeout: options.Timeout,
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for k, v := range headers {
		req.Header.Add(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if options.MaxSize > 0 {
		reader = io.LimitReader(resp.Body, int64(options.MaxSize))
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	return body, nil
}

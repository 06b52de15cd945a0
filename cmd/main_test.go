package main

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/transitmodel/gtfs2gmns/downloader"
)

func TestFetchAndUnzipWithMemoryCache(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("stops.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("stop_id,stop_name,stop_lat,stop_lon\nS1,Stop One,0,0\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write(buf.Bytes())
	}))
	defer server.Close()

	dl := downloader.NewMemory()

	dir, err := fetchAndUnzipWith(dl, server.URL, nil)
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	data, err := os.ReadFile(filepath.Join(dir, "stops.txt"))
	require.NoError(t, err)
	require.Contains(t, string(data), "S1")
	require.Equal(t, 1, hits)

	// Second fetch of the same URL should be served from dl's cache,
	// not hit the server again.
	dir2, err := fetchAndUnzipWith(dl, server.URL, nil)
	require.NoError(t, err)
	defer os.RemoveAll(dir2)
	require.Equal(t, 1, hits)
}

func TestFetchAndUnzipWithBadHeader(t *testing.T) {
	dl := downloader.NewMemory()
	_, err := fetchAndUnzipWith(dl, "http://example.invalid", []string{"no-colon"})
	require.Error(t, err)
}

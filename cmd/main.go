package main

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/transitmodel/gtfs2gmns/api"
	"github.com/transitmodel/gtfs2gmns/api/jobstore"
	"github.com/transitmodel/gtfs2gmns/api/results"
	"github.com/transitmodel/gtfs2gmns/convert"
	"github.com/transitmodel/gtfs2gmns/downloader"
	"github.com/transitmodel/gtfs2gmns/internal/log"
	"github.com/transitmodel/gtfs2gmns/storage"
)

var (
	gtfsDir        string
	gtfsZipURL     string
	outDir         string
	period         string
	headers        []string
	storageBackend string
	storageDSN     string
)

// openStorage builds the Storage backend named by --storage-backend,
// defaulting to the in-memory one Convert itself uses.
func openStorage(backend, dsn string) (storage.Storage, error) {
	switch backend {
	case "", "memory":
		return storage.NewMemoryStorage(), nil
	case "sqlite":
		return storage.NewSQLiteStorage(storage.SQLiteConfig{Path: dsn})
	case "postgres":
		return storage.NewPostgresStorage(dsn)
	default:
		return nil, fmt.Errorf("unknown --storage-backend %q: want memory, sqlite, or postgres", backend)
	}
}

var rootCmd = &cobra.Command{
	Use:          "gtfs2gmns",
	Short:        "GTFS to GMNS graph converter",
	Long:         "Converts a static GTFS feed into a GMNS-format node/link network for a given time window",
	SilenceUsage: true,
	RunE:         runConvert,
}

var (
	serveOutDir   string
	serveAddr     string
	progressAddr  string
	redisAddr     string
	redisPassword string
	redisDB       int
	resultsDSN    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the conversion pipeline as a background job service",
	Long:  "Starts an HTTP API (POST /jobs, GET /jobs/:id) plus a websocket progress feed (GET /jobs/:id/progress), running conversions in the background instead of blocking on the CLI",
	RunE:  runServe,
}

func init() {
	rootCmd.Flags().StringVarP(&gtfsDir, "gtfs-dir", "", "", "directory containing the GTFS feed (agency.txt, stops.txt, routes.txt, trips.txt, stop_times.txt)")
	rootCmd.Flags().StringVarP(&gtfsZipURL, "gtfs-zip-url", "", "", "URL of a .zip GTFS bundle to download before converting (alternative to --gtfs-dir)")
	rootCmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "directory to write node.csv/link.csv into")
	rootCmd.Flags().StringVarP(&period, "period", "p", "0700_0800", "analysis window as HHMM_HHMM")
	rootCmd.Flags().StringSliceVarP(&headers, "header", "", []string{}, "HTTP header for --gtfs-zip-url, as key:value")
	rootCmd.Flags().StringVar(&storageBackend, "storage-backend", "memory", "where to hold ingested GTFS tables during the run: memory, sqlite, or postgres")
	rootCmd.Flags().StringVar(&storageDSN, "storage-dsn", "", "sqlite file path or postgres connection string for --storage-backend (ignored for memory)")

	serveCmd.Flags().StringVarP(&serveOutDir, "out-dir", "o", ".", "directory each job writes node.csv/link.csv into")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address for the REST API (POST/GET /jobs)")
	serveCmd.Flags().StringVar(&progressAddr, "progress-addr", ":8081", "address for the websocket progress feed")
	serveCmd.Flags().StringVar(&redisAddr, "redis-addr", "", "Redis address for job storage (default: in-memory, single replica only)")
	serveCmd.Flags().StringVar(&redisPassword, "redis-password", "", "Redis password, if any")
	serveCmd.Flags().IntVar(&redisDB, "redis-db", 0, "Redis logical DB index")
	serveCmd.Flags().StringVar(&resultsDSN, "results-dsn", "", "Postgres DSN to additionally record finished job summaries into (optional)")
	serveCmd.Flags().StringVar(&storageBackend, "storage-backend", "memory", "where each job holds its ingested GTFS tables: memory, sqlite, or postgres")
	serveCmd.Flags().StringVar(&storageDSN, "storage-dsn", "", "sqlite file path or postgres connection string for --storage-backend (ignored for memory)")

	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	var store jobstore.Store
	if redisAddr != "" {
		redisStore, err := jobstore.NewRedisStore(redisAddr, redisPassword, redisDB)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		store = redisStore
		log.Info("job store: redis at %s", redisAddr)
	} else {
		store = jobstore.NewMemoryStore()
		log.Info("job store: in-memory (single replica only)")
	}

	var sink results.Sink
	if resultsDSN != "" {
		pgSink, err := results.NewPostgresSink(resultsDSN)
		if err != nil {
			return fmt.Errorf("connecting results sink: %w", err)
		}
		defer pgSink.Close()
		sink = pgSink
		log.Info("results sink: postgres")
	}

	backend, dsn := storageBackend, storageDSN
	srv := api.NewServer(api.Config{
		OutDir:  serveOutDir,
		Store:   store,
		Results: sink,
		NewFeedStorage: func() (storage.Storage, error) {
			return openStorage(backend, dsn)
		},
	})

	errc := make(chan error, 2)
	go func() {
		log.Info("REST API listening on %s", serveAddr)
		errc <- srv.App.Listen(serveAddr)
	}()
	go func() {
		log.Info("progress feed listening on %s", progressAddr)
		errc <- http.ListenAndServe(progressAddr, srv.ProgressMux)
	}()

	return <-errc
}

func runConvert(cmd *cobra.Command, args []string) error {
	dir := gtfsDir
	if gtfsZipURL != "" {
		fetched, err := fetchAndUnzip(gtfsZipURL, headers)
		if err != nil {
			return fmt.Errorf("fetching --gtfs-zip-url: %w", err)
		}
		dir = fetched
	}
	if dir == "" {
		return fmt.Errorf("one of --gtfs-dir or --gtfs-zip-url is required")
	}

	store, err := openStorage(storageBackend, storageDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := convert.ConvertWithStorage(store, dir, outDir, period)
	if err != nil {
		return err
	}

	fmt.Printf("agency: %s\n", result.AgencyName)
	fmt.Printf("nodes: %d, links: %d\n", result.NodeCount, result.LinkCount)
	fmt.Printf("wrote %s\n", result.NodeCSVPath)
	fmt.Printf("wrote %s\n", result.LinkCSVPath)
	fmt.Printf("wrote %s\n", result.NodeGeoJSONPath)
	fmt.Printf("wrote %s\n", result.LinkGeoJSONPath)
	if result.OrphanRouteCount > 0 {
		fmt.Printf("note: %d trip(s) referenced a missing route_id\n", result.OrphanRouteCount)
	}
	if result.DroppedStopTimeRows > 0 {
		fmt.Printf("note: %d stop_times row(s) dropped for blank/malformed times\n", result.DroppedStopTimeRows)
	}
	return nil
}

func parseHeaders(raw []string) (map[string]string, error) {
	parsed := map[string]string{}
	for _, h := range raw {
		parts := strings.SplitN(h, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%q is not on form <key>:<value>", h)
		}
		parsed[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return parsed, nil
}

// maxZipSize caps a fetched GTFS zip at 512MB; a single agency's static
// feed is never anywhere near that, so hitting it means the URL isn't
// serving what --gtfs-zip-url expects.
const maxZipSize = 512 * 1024 * 1024

// fetchAndUnzip downloads url (caching the bytes on disk between runs
// via downloader.Filesystem) and extracts it into a fresh temp
// directory ParseFeed can read.
func fetchAndUnzip(url string, rawHeaders []string) (string, error) {
	cache, err := downloader.NewFilesystem("./gtfs-zip-cache.json")
	if err != nil {
		return "", fmt.Errorf("opening download cache: %w", err)
	}
	return fetchAndUnzipWith(cache, url, rawHeaders)
}

// fetchAndUnzipWith does the actual fetch-and-extract work against any
// downloader.Downloader, so tests can pass a downloader.Memory instead
// of touching disk.
func fetchAndUnzipWith(dl downloader.Downloader, url string, rawHeaders []string) (string, error) {
	hdrs, err := parseHeaders(rawHeaders)
	if err != nil {
		return "", err
	}

	body, err := dl.Get(context.Background(), url, hdrs, downloader.GetOptions{
		MaxSize:  maxZipSize,
		Timeout:  30 * time.Second,
		Cache:    true,
		CacheTTL: time.Hour,
	})
	if err != nil {
		return "", err
	}

	dir, err := os.MkdirTemp("", "gtfs2gmns-zip-")
	if err != nil {
		return "", err
	}

	r, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", fmt.Errorf("reading zip: %w", err)
	}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if err := extractZipEntry(dir, f); err != nil {
			return "", err
		}
	}

	return dir, nil
}

func extractZipEntry(dir string, f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening %s in zip: %w", f.Name, err)
	}
	defer rc.Close()

	dest := filepath.Join(dir, filepath.Base(f.Name))
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("extracting %s: %w", f.Name, err)
	}
	return nil
}

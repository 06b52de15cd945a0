// Package results optionally persists a finished job's summary to
// Postgres (SPEC_FULL.md §3: --results-dsn), independent of
// storage/postgres.go's cached GTFS tables — different schema
// (job bookkeeping, not parsed feed data), different purpose.
// Grounded on passbi_core's internal/db pgxpool connection setup.
package results

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/transitmodel/gtfs2gmns/api/jobstore"
)

// Sink records a finished job's summary. A job whose status is never
// recorded here is not lost — jobstore.Store still has it — this is
// purely an additional, queryable history.
type Sink interface {
	Record(ctx context.Context, job jobstore.Job) error
	Close()
}

// PostgresSink writes one row per finished job to job_results.
type PostgresSink struct {
	pool *pgxpool.Pool
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS job_results (
	job_id        TEXT PRIMARY KEY,
	status        TEXT NOT NULL,
	gtfs_dir      TEXT NOT NULL,
	period        TEXT NOT NULL,
	node_count    INTEGER NOT NULL,
	link_count    INTEGER NOT NULL,
	node_csv      TEXT NOT NULL,
	link_csv      TEXT NOT NULL,
	node_geojson  TEXT NOT NULL DEFAULT '',
	link_geojson  TEXT NOT NULL DEFAULT '',
	error         TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL,
	finished_at   TIMESTAMPTZ NOT NULL
)`

// NewPostgresSink connects to dsn and ensures job_results exists.
func NewPostgresSink(dsn string) (*PostgresSink, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to results database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging results database: %w", err)
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating job_results table: %w", err)
	}

	return &PostgresSink{pool: pool}, nil
}

func (s *PostgresSink) Record(ctx context.Context, job jobstore.Job) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO job_results
			(job_id, status, gtfs_dir, period, node_count, link_count, node_csv, link_csv, node_geojson, link_geojson, error, created_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (job_id) DO UPDATE SET
			status = EXCLUDED.status,
			node_count = EXCLUDED.node_count,
			link_count = EXCLUDED.link_count,
			node_csv = EXCLUDED.node_csv,
			link_csv = EXCLUDED.link_csv,
			node_geojson = EXCLUDED.node_geojson,
			link_geojson = EXCLUDED.link_geojson,
			error = EXCLUDED.error,
			finished_at = EXCLUDED.finished_at
	`,
		job.ID, string(job.Status), job.GTFSDir, job.Period,
		job.NodeCount, job.LinkCount, job.NodeCSVPath, job.LinkCSVPath,
		job.NodeGeoJSONPath, job.LinkGeoJSONPath,
		job.Error, job.CreatedAt, job.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("recording job %q: %w", job.ID, err)
	}
	return nil
}

func (s *PostgresSink) Close() {
	s.pool.Close()
}

// Package jobstore holds job-status records for the conversion API
// (SPEC_FULL.md §3): one Job per POST /jobs request, tracked from
// Pending through Running to Done/Failed so GET /jobs/:id can report
// progress without re-running the conversion. Grounded on the
// teacher-style Storage interface (a pluggable backend: memory by
// default, Redis when configured) and on passbi_core's internal/cache
// singleton-client pattern.
package jobstore

import (
	"time"

	"github.com/google/uuid"
)

// Status is a job's lifecycle stage.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Job is one conversion request tracked by the API.
type Job struct {
	ID              string
	Status          Status
	GTFSDir         string
	Period          string
	Error           string
	NodeCount       int
	LinkCount       int
	NodeCSVPath     string
	LinkCSVPath     string
	NodeGeoJSONPath string
	LinkGeoJSONPath string
	CreatedAt       time.Time
	FinishedAt      time.Time
}

// Store persists Job records. MemoryStore is the default; RedisStore
// is used when --redis-addr is set, so job status survives an API
// restart and can be shared across replicas.
type Store interface {
	Create(job Job) error
	Get(id string) (Job, bool, error)
	Update(job Job) error
}

// NewJobID returns a fresh UUIDv4 job identifier.
func NewJobID() string {
	return uuid.New().String()
}

// Package api exposes the conversion pipeline as a small HTTP job
// service (SPEC_FULL.md §3): POST /jobs starts a conversion in the
// background and returns a job ID; GET /jobs/:id reports status and,
// once done, node/link counts. Grounded on passbi_core's Fiber-based
// REST layer (internal/api, cmd/api/main.go).
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/transitmodel/gtfs2gmns/api/jobstore"
	"github.com/transitmodel/gtfs2gmns/api/progress"
	"github.com/transitmodel/gtfs2gmns/api/results"
	"github.com/transitmodel/gtfs2gmns/convert"
	"github.com/transitmodel/gtfs2gmns/internal/log"
	"github.com/transitmodel/gtfs2gmns/storage"
)

// Config configures the job service.
type Config struct {
	OutDir  string // directory conversion results are written into
	Store   jobstore.Store
	Results results.Sink // optional; nil disables result persistence

	// NewFeedStorage opens the storage.Storage backend each job's GTFS
	// tables are ingested into. Nil defaults to a fresh in-memory store
	// per job, matching convert.Convert.
	NewFeedStorage func() (storage.Storage, error)
}

// Server is the HTTP job service: a Fiber app for the JSON endpoints,
// plus a plain net/http mux for the websocket progress endpoint (Fiber
// runs on fasthttp, which coder/websocket's net/http-based Accept
// cannot upgrade directly).
type Server struct {
	App         *fiber.App
	ProgressMux *http.ServeMux
	config      Config
}

// NewServer wires the routes; it does not start listening.
func NewServer(cfg Config) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "gtfs2gmns job service",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	s := &Server{App: app, config: cfg, ProgressMux: http.NewServeMux()}

	app.Post("/jobs", s.createJob)
	app.Get("/jobs/:id", s.getJob)
	s.ProgressMux.HandleFunc("/jobs/", s.streamProgress)

	return s
}

type createJobRequest struct {
	GTFSDir string `json:"gtfs_dir"`
	Period  string `json:"period"`
}

func (s *Server) createJob(c *fiber.Ctx) error {
	var req createJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.GTFSDir == "" || req.Period == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "gtfs_dir and period are required"})
	}

	job := jobstore.Job{
		ID:        jobstore.NewJobID(),
		Status:    jobstore.StatusPending,
		GTFSDir:   req.GTFSDir,
		Period:    req.Period,
		CreatedAt: time.Now(),
	}
	if err := s.config.Store.Create(job); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	go s.runJob(job)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"job_id": job.ID})
}

func (s *Server) runJob(job jobstore.Job) {
	job.Status = jobstore.StatusRunning
	if err := s.config.Store.Update(job); err != nil {
		log.Warn("updating job %s to running: %v", job.ID, err)
	}

	result, err := s.runConvert(job)
	job.FinishedAt = time.Now()
	if err != nil {
		job.Status = jobstore.StatusFailed
		job.Error = err.Error()
	} else {
		job.Status = jobstore.StatusDone
		job.NodeCount = result.NodeCount
		job.LinkCount = result.LinkCount
		job.NodeCSVPath = result.NodeCSVPath
		job.LinkCSVPath = result.LinkCSVPath
		job.NodeGeoJSONPath = result.NodeGeoJSONPath
		job.LinkGeoJSONPath = result.LinkGeoJSONPath
	}

	if err := s.config.Store.Update(job); err != nil {
		log.Warn("updating job %s to %s: %v", job.ID, job.Status, err)
	}
	if s.config.Results != nil {
		if err := s.config.Results.Record(context.Background(), job); err != nil {
			log.Warn("recording job %s result: %v", job.ID, err)
		}
	}
}

func (s *Server) runConvert(job jobstore.Job) (*convert.Result, error) {
	if s.config.NewFeedStorage == nil {
		return convert.Convert(job.GTFSDir, s.config.OutDir, job.Period)
	}
	store, err := s.config.NewFeedStorage()
	if err != nil {
		return nil, fmt.Errorf("opening feed storage: %w", err)
	}
	defer store.Close()
	return convert.ConvertWithStorage(store, job.GTFSDir, s.config.OutDir, job.Period)
}

func (s *Server) getJob(c *fiber.Ctx) error {
	id := c.Params("id")
	job, ok, err := s.config.Store.Get(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "job not found"})
	}
	return c.JSON(job)
}

func (s *Server) streamProgress(w http.ResponseWriter, r *http.Request) {
	id := lastPathSegment(r.URL.Path, "/progress")
	if id == "" {
		http.Error(w, "missing job id", http.StatusBadRequest)
		return
	}
	if err := progress.Stream(w, r, s.config.Store, id); err != nil {
		log.Warn("progress stream for job %s: %v", id, err)
	}
}

// lastPathSegment extracts the job ID from "/jobs/<id>/progress".
func lastPathSegment(path, suffix string) string {
	const prefix = "/jobs/"
	if len(path) <= len(prefix)+len(suffix) {
		return ""
	}
	if path[len(path)-len(suffix):] != suffix {
		return ""
	}
	return path[len(prefix) : len(path)-len(suffix)]
}

// Package progress streams a job's status over a websocket
// (SPEC_FULL.md §3: GET /jobs/:id/progress), one JSON Event per
// websocket text message, so a caller can watch a long conversion run without polling the
// REST endpoint. Grounded on wabus-backend's internal/handler
// websocket.go, simplified from its subscribe/unsubscribe protocol to
// one-way status push since there is nothing here to subscribe to.
package progress

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/transitmodel/gtfs2gmns/api/jobstore"
)

const pollInterval = 500 * time.Millisecond

// Event is one line of the progress stream.
type Event struct {
	JobID     string          `json:"job_id"`
	Status    jobstore.Status `json:"status"`
	NodeCount int             `json:"node_count,omitempty"`
	LinkCount int             `json:"link_count,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// Stream upgrades r to a websocket and writes one Event every
// pollInterval until the job reaches a terminal status, then closes
// the connection.
func Stream(w http.ResponseWriter, r *http.Request, store jobstore.Store, jobID string) error {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: []string{"*"}})
	if err != nil {
		return err
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := r.Context()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			job, ok, err := store.Get(jobID)
			if err != nil {
				return err
			}
			if !ok {
				return writeEvent(ctx, conn, Event{JobID: jobID, Status: jobstore.StatusFailed, Error: "job not found"})
			}

			event := Event{
				JobID:     job.ID,
				Status:    job.Status,
				NodeCount: job.NodeCount,
				LinkCount: job.LinkCount,
				Error:     job.Error,
			}
			if err := writeEvent(ctx, conn, event); err != nil {
				return err
			}
			if job.Status == jobstore.StatusDone || job.Status == jobstore.StatusFailed {
				return nil
			}
		}
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, data)
}

package progress_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/require"

	"github.com/transitmodel/gtfs2gmns/api/jobstore"
	"github.com/transitmodel/gtfs2gmns/api/progress"
)

func TestStreamReportsTerminalStatus(t *testing.T) {
	store := jobstore.NewMemoryStore()
	job := jobstore.Job{ID: "job-1", Status: jobstore.StatusRunning}
	require.NoError(t, store.Create(job))

	mux := http.NewServeMux()
	mux.HandleFunc("/progress", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, progress.Stream(w, r, store, "job-1"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/progress"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var first progress.Event
	require.NoError(t, json.Unmarshal(data, &first))
	require.Equal(t, jobstore.StatusRunning, first.Status)

	job.Status = jobstore.StatusDone
	job.NodeCount = 4
	require.NoError(t, store.Update(job))

	for {
		_, data, err := conn.Read(ctx)
		require.NoError(t, err)
		var event progress.Event
		require.NoError(t, json.Unmarshal(data, &event))
		if event.Status == jobstore.StatusDone {
			require.Equal(t, 4, event.NodeCount)
			return
		}
	}
}

func TestStreamJobNotFound(t *testing.T) {
	store := jobstore.NewMemoryStore()

	mux := http.NewServeMux()
	mux.HandleFunc("/progress", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, progress.Stream(w, r, store, "missing"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/progress"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var event progress.Event
	require.NoError(t, json.Unmarshal(data, &event))
	require.Equal(t, jobstore.StatusFailed, event.Status)
	require.Equal(t, "job not found", event.Error)
}

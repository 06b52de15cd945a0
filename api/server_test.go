package api_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/transitmodel/gtfs2gmns/api"
	"github.com/transitmodel/gtfs2gmns/api/jobstore"
	"github.com/transitmodel/gtfs2gmns/testutil"
)

func TestServerCreateAndGetJob(t *testing.T) {
	gtfsDir := testutil.WriteFeed(t, testutil.TwoStopLine())
	outDir := t.TempDir()

	store := jobstore.NewMemoryStore()
	srv := api.NewServer(api.Config{OutDir: outDir, Store: store})

	body, err := json.Marshal(map[string]string{"gtfs_dir": gtfsDir, "period": "0700_0800"})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/jobs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.App.Test(req, 5000)
	require.NoError(t, err)
	require.Equal(t, 202, resp.StatusCode)

	var created struct {
		JobID string `json:"job_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.JobID)

	var job jobstore.Job
	require.Eventually(t, func() bool {
		j, ok, err := store.Get(created.JobID)
		if err != nil || !ok {
			return false
		}
		if j.Status != jobstore.StatusDone && j.Status != jobstore.StatusFailed {
			return false
		}
		job = j
		return true
	}, 5*time.Second, 10*time.Millisecond)

	require.Equal(t, jobstore.StatusDone, job.Status)
	require.Equal(t, 4, job.NodeCount)

	getReq := httptest.NewRequest("GET", "/jobs/"+created.JobID, nil)
	getResp, err := srv.App.Test(getReq, 5000)
	require.NoError(t, err)
	require.Equal(t, 200, getResp.StatusCode)
}

func TestServerCreateJobMissingFields(t *testing.T) {
	srv := api.NewServer(api.Config{OutDir: t.TempDir(), Store: jobstore.NewMemoryStore()})

	req := httptest.NewRequest("POST", "/jobs", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.App.Test(req, 5000)
	require.NoError(t, err)
	require.Equal(t, 400, resp.StatusCode)
}

func TestServerGetJobNotFound(t *testing.T) {
	srv := api.NewServer(api.Config{OutDir: t.TempDir(), Store: jobstore.NewMemoryStore()})

	req := httptest.NewRequest("GET", "/jobs/nonexistent", nil)
	resp, err := srv.App.Test(req, 5000)
	require.NoError(t, err)
	require.Equal(t, 404, resp.StatusCode)
}

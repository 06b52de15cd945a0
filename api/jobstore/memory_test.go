package jobstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/transitmodel/gtfs2gmns/api/jobstore"
)

func TestMemoryStoreCreateGetUpdate(t *testing.T) {
	store := jobstore.NewMemoryStore()
	id := jobstore.NewJobID()
	require.NotEmpty(t, id)

	job := jobstore.Job{ID: id, Status: jobstore.StatusPending}
	require.NoError(t, store.Create(job))

	got, ok, err := store.Get(id)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, jobstore.StatusPending, got.Status)

	got.Status = jobstore.StatusDone
	got.NodeCount = 4
	require.NoError(t, store.Update(got))

	got, ok, err = store.Get(id)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, jobstore.StatusDone, got.Status)
	require.Equal(t, 4, got.NodeCount)
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := jobstore.NewMemoryStore()
	_, ok, err := store.Get("nonexistent")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreUpdateMissing(t *testing.T) {
	store := jobstore.NewMemoryStore()
	err := store.Update(jobstore.Job{ID: "nonexistent"})
	require.Error(t, err)
}

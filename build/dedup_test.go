package build_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/transitmodel/gtfs2gmns/build"
	"github.com/transitmodel/gtfs2gmns/model"
)

// TestDedupKeepsLastOccurrence mirrors spec.md §8 scenario E: two links
// sharing a (from_node_id, to_node_id) pair at different positions must
// collapse to one survivor, keeping the later row's values, without
// reordering the other, unrelated links.
func TestDedupKeepsLastOccurrence(t *testing.T) {
	links := []model.Link{
		{LinkID: 1, FromNodeID: 10, ToNodeID: 20, Length: 100},
		{LinkID: 2, FromNodeID: 30, ToNodeID: 40, Length: 200},
		{LinkID: 3, FromNodeID: 10, ToNodeID: 20, Length: 999}, // supersedes LinkID 1
	}

	out := build.Dedup(links)
	require.Len(t, out, 2)
	require.Equal(t, 2, out[0].LinkID)
	require.Equal(t, float64(200), out[0].Length)
	require.Equal(t, 3, out[1].LinkID)
	require.Equal(t, float64(999), out[1].Length)
}

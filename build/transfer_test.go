package build_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/transitmodel/gtfs2gmns/build"
	"github.com/transitmodel/gtfs2gmns/model"
)

// TestBuildTransferLinksFanOutCap exercises spec.md §8 scenario D: a
// reference node with 12 distinct (route_id, agency_name) neighbors all
// within the bbox and the [1m, 321.869m] window. Reference is placed
// first in the node slice, so its own sweep runs first and its cap-of-10
// pairs are exactly the output's first 20 links.
func TestBuildTransferLinksFanOutCap(t *testing.T) {
	reference := model.Node{
		NodeID: 1_000_001, X: 0, Y: 0,
		RouteID: "R0", AgencyName: "Agency0", NodeType: "bus_node",
	}

	nodes := []model.Node{reference}
	for i := 0; i < 12; i++ {
		nodes = append(nodes, model.Node{
			NodeID:     1_000_002 + i,
			X:          0.00005 * float64(i+1), // ~5-67m: within bbox and the transfer distance window
			Y:          0,
			RouteID:    fmt.Sprintf("R%d", i+1),
			AgencyName: fmt.Sprintf("Agency%d", i+1),
			NodeType:   "bus_node",
		})
	}

	links := build.BuildTransferLinks(nodes)
	require.GreaterOrEqual(t, len(links), 20)

	firstBatch := links[:20]
	pairs := map[[2]int]bool{}
	for _, l := range firstBatch {
		require.True(t, l.FromNodeID == reference.NodeID || l.ToNodeID == reference.NodeID)
		pairs[[2]int{l.FromNodeID, l.ToNodeID}] = true
	}
	require.Len(t, pairs, 20) // 10 reciprocal pairs = 20 directed links

	for i := 10; i < 12; i++ {
		excludedID := nodes[i+1].NodeID
		require.False(t, pairs[[2]int{reference.NodeID, excludedID}],
			"candidate %d should be excluded from the reference's own capped sweep", excludedID)
	}
}

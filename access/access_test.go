package access_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/transitmodel/gtfs2gmns/access"
)

func TestBuildAccessLinksNearestWithinRadius(t *testing.T) {
	highway := []access.HighwayNode{
		{NodeID: 1, X: 0, Y: 0},
		{NodeID: 2, X: 5, Y: 5},
	}
	transit := []access.TransitNode{
		{NodeID: 1_500_001, X: 0.1, Y: 0.1, Type: "bus_service_node"},
		{NodeID: 1_500_002, X: 5.1, Y: 5.1, Type: "bus_stop_node"}, // wrong type: excluded
	}

	links := access.BuildAccessLinks(highway, transit)
	require.Len(t, links, 1)
	require.Equal(t, 1_500_001, links[0].FromNodeID)
	require.Equal(t, 1, links[0].ToNodeID)
	require.Equal(t, 0, links[0].Capacity)
	require.Equal(t, "t", links[0].AllowedUse)
}

func TestBuildAccessLinksOutOfRadius(t *testing.T) {
	highway := []access.HighwayNode{{NodeID: 1, X: 0, Y: 0}}
	transit := []access.TransitNode{
		{NodeID: 1_500_001, X: 20000, Y: 20000, Type: "bus_service_node"},
	}

	links := access.BuildAccessLinks(highway, transit)
	require.Empty(t, links)
}

func TestBuildAccessLinksNoHighwayNodes(t *testing.T) {
	transit := []access.TransitNode{{NodeID: 1_500_001, Type: "bus_service_node"}}
	require.Empty(t, access.BuildAccessLinks(nil, transit))
}

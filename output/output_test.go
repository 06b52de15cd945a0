package output_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/transitmodel/gtfs2gmns/model"
	"github.com/transitmodel/gtfs2gmns/output"
)

func sampleTables() ([]model.Node, []model.Link) {
	nodes := []model.Node{
		{Name: "S1", NodeID: 1_000_001, PhysicalNodeID: 1_000_001, X: -122.4, Y: 37.7, NodeType: "bus_node"},
		{Name: "S2", NodeID: 1_000_002, PhysicalNodeID: 1_000_002, X: -122.5, Y: 37.8, NodeType: "bus_node"},
	}
	links := []model.Link{
		{LinkID: 1, FromNodeID: 1_000_001, ToNodeID: 1_000_002, LinkType: model.LinkTypeService, LinkTypeName: model.LinkTypeNameService},
	}
	return nodes, links
}

func TestWriteNodesAndLinks(t *testing.T) {
	dir := t.TempDir()
	nodes, links := sampleTables()

	nodePath, linkPath, err := output.WriteNodesAndLinks(dir, nodes, links)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "node.csv"), nodePath)
	require.Equal(t, filepath.Join(dir, "link.csv"), linkPath)

	data, err := os.ReadFile(nodePath)
	require.NoError(t, err)
	require.Contains(t, string(data), "node_id")
	require.Contains(t, string(data), "1000001")
}

func TestWriteNodesAndLinksCollisionSuffix(t *testing.T) {
	dir := t.TempDir()
	nodes, links := sampleTables()

	_, _, err := output.WriteNodesAndLinks(dir, nodes, links)
	require.NoError(t, err)

	nodePath, linkPath, err := output.WriteNodesAndLinks(dir, nodes, links)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "node_1.csv"), nodePath)
	require.Equal(t, filepath.Join(dir, "link_1.csv"), linkPath)
}

func TestWriteNodesAndLinksMissingOutputDir(t *testing.T) {
	nodes, links := sampleTables()
	_, _, err := output.WriteNodesAndLinks(filepath.Join(t.TempDir(), "missing"), nodes, links)
	require.Error(t, err)
}

func TestWriteGeoJSON(t *testing.T) {
	dir := t.TempDir()
	nodes, links := sampleTables()

	nodePath, linkPath, err := output.WriteGeoJSON(dir, nodes, links)
	require.NoError(t, err)

	data, err := os.ReadFile(nodePath)
	require.NoError(t, err)
	require.Contains(t, string(data), "FeatureCollection")

	data, err = os.ReadFile(linkPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "LineString")
}

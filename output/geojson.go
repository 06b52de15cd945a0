package output

import (
	"os"

	"github.com/paulmach/go.geojson"

	"github.com/transitmodel/gtfs2gmns/model"
)

// WriteGeoJSON writes nodes.geojson and links.geojson alongside
// node.csv/link.csv — a supplementary export (SPEC_FULL.md §3) that the
// CSVs spec.md §6 requires are not meant to replace.
func WriteGeoJSON(outDir string, nodes []model.Node, links []model.Link) (nodePath, linkPath string, err error) {
	coordByNodeID := make(map[int][2]float64, len(nodes))

	nodeFC := geojson.NewFeatureCollection()
	for _, n := range nodes {
		coordByNodeID[n.NodeID] = [2]float64{n.X, n.Y}

		f := geojson.NewPointFeature([]float64{n.X, n.Y})
		f.Properties["node_id"] = n.NodeID
		f.Properties["name"] = n.Name
		f.Properties["node_type"] = n.NodeType
		f.Properties["terminal_flag"] = n.TerminalFlag
		nodeFC.AddFeature(f)
	}

	linkFC := geojson.NewFeatureCollection()
	for _, l := range links {
		from, fromOK := coordByNodeID[l.FromNodeID]
		to, toOK := coordByNodeID[l.ToNodeID]
		if !fromOK || !toOK {
			continue
		}

		f := geojson.NewLineStringFeature([][]float64{{from[0], from[1]}, {to[0], to[1]}})
		f.Properties["link_id"] = l.LinkID
		f.Properties["link_type_name"] = l.LinkTypeName
		f.Properties["facility_type"] = l.FacilityType
		f.Properties["from_node_id"] = l.FromNodeID
		f.Properties["to_node_id"] = l.ToNodeID
		linkFC.AddFeature(f)
	}

	nodePath, err = writeGeoJSONFile(outDir, "nodes.geojson", nodeFC)
	if err != nil {
		return "", "", err
	}
	linkPath, err = writeGeoJSONFile(outDir, "links.geojson", linkFC)
	if err != nil {
		return "", "", err
	}
	return nodePath, linkPath, nil
}

func writeGeoJSONFile(dir, name string, fc *geojson.FeatureCollection) (string, error) {
	path := nonCollidingPath(dir, name)

	data, err := fc.MarshalJSON()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Package access implements the Access Link Auxiliary (spec.md §4.6):
// a nearest-neighbor link from every transit service node to the
// closest node of an external highway network, so a combined
// multimodal graph can route travelers on and off the transit layer.
// Grounded on func_lib/generate_access_link.py's generate_access_link,
// which does the same nearest-neighbor search with a KDTree; the
// example pack carries no spatial-index library, so this is a
// brute-force search over HighwayNodes instead (see DESIGN.md).
package access

import (
	"math"

	"github.com/transitmodel/gtfs2gmns/geo"
)

const (
	searchRadius = 10000
	freeSpeed    = 2.72727
	facility     = "bus_access_link"
	allowedUses  = "t"
)

// HighwayNode is the minimal projection of an external highway network
// node this package needs: an identifier and a planar (x, y) position
// in the same coordinate space as the GMNS node table.
type HighwayNode struct {
	NodeID int
	X, Y   float64
}

// TransitNode is the minimal projection of a GMNS service node eligible
// for an access link: only node_type == "bus_service_node" rows
// qualify (generate_access_link.py filters the same way).
type TransitNode struct {
	NodeID int
	X, Y   float64 // lon, lat — same convention as model.Node
	Type   string
}

// AccessLink is one row of the access-link table: a directed,
// zero-capacity walking/boarding link from a transit node to the
// highway node nearest it.
type AccessLink struct {
	FromNodeID int
	ToNodeID   int
	Name       string
	Length     float64
	Lanes      int
	DirFlag    int
	FreeSpeed  float64
	Capacity   int
	AllowedUse string
}

// BuildAccessLinks finds, for every bus_service_node in transitNodes,
// the nearest highwayNode within searchRadius planar units, and emits
// one AccessLink to it. Transit nodes with no highway node in range are
// skipped, matching generate_access_link.py's "no valid highway node
// found" behavior.
func BuildAccessLinks(highwayNodes []HighwayNode, transitNodes []TransitNode) []AccessLink {
	if len(highwayNodes) == 0 {
		return nil
	}

	var links []AccessLink
	for _, t := range transitNodes {
		if t.Type != "bus_service_node" {
			continue
		}

		nearest, dist, ok := nearestHighwayNode(t, highwayNodes)
		if !ok || dist > searchRadius {
			continue
		}

		links = append(links, AccessLink{
			FromNodeID: t.NodeID,
			ToNodeID:   nearest.NodeID,
			Name:       facility,
			Length:     geo.HaversineMiles(t.Y, t.X, nearest.Y, nearest.X),
			Lanes:      1,
			DirFlag:    0,
			FreeSpeed:  freeSpeed,
			Capacity:   0,
			AllowedUse: allowedUses,
		})
	}

	return links
}

// nearestHighwayNode returns the planar-nearest highway node to t and
// its Euclidean distance in the node table's native coordinate units
// (matching cKDTree's default metric in generate_access_link.py).
func nearestHighwayNode(t TransitNode, highwayNodes []HighwayNode) (HighwayNode, float64, bool) {
	var best HighwayNode
	bestDistSq := -1.0
	for _, h := range highwayNodes {
		dx := h.X - t.X
		dy := h.Y - t.Y
		d := dx*dx + dy*dy
		if bestDistSq < 0 || d < bestDistSq {
			bestDistSq = d
			best = h
		}
	}
	if bestDistSq < 0 {
		return HighwayNode{}, 0, false
	}
	return best, math.Sqrt(bestDistSq), true
}

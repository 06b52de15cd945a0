package build

import (
	"fmt"
	"sort"

	"github.com/transitmodel/gtfs2gmns/model"
)

// serviceNodeOffset is the cosmetic visualization offset spec.md §4.3
// applies to service node coordinates only — distances and link
// geometry must keep using the underlying stop's real coordinates
// (spec.md §9, "Coordinate offset for visualization").
const serviceNodeOffset = -0.0001

// Nodes is the result of node construction: the concatenated node
// table (physical nodes first, per spec.md §4.3) plus the lookup
// tables later build steps need.
type Nodes struct {
	Table []model.Node

	// PhysicalNodeIDByStop maps stop_id to its physical node_id
	// (spec.md §3 invariant 2).
	PhysicalNodeIDByStop map[string]int
	// ServiceNodeIDByName maps directed_service_stop_id to its
	// service node_id.
	ServiceNodeIDByName map[string]int
	// StopCoord maps stop_id to its original (un-offset) (lon, lat).
	StopCoord map[string][2]float64
}

// BuildNodes implements spec.md §4.3: one physical node per unique
// stop_id, one service node per unique directed_service_stop_id, both
// assigned disjoint, rank-ordered numeric IDs.
func BuildNodes(enriched []Enriched) (*Nodes, error) {
	physicalFirst := map[string]Enriched{}
	var physicalOrder []string
	for _, e := range enriched {
		if _, seen := physicalFirst[e.StopID]; !seen {
			physicalFirst[e.StopID] = e
			physicalOrder = append(physicalOrder, e.StopID)
		}
	}
	sort.Strings(physicalOrder)

	serviceFirst := map[string]Enriched{}
	var serviceOrder []string
	for _, e := range enriched {
		if _, seen := serviceFirst[e.DirectedServiceStopID]; !seen {
			serviceFirst[e.DirectedServiceStopID] = e
			serviceOrder = append(serviceOrder, e.DirectedServiceStopID)
		}
	}
	sort.Strings(serviceOrder)

	result := &Nodes{
		PhysicalNodeIDByStop: make(map[string]int, len(physicalOrder)),
		ServiceNodeIDByName:  make(map[string]int, len(serviceOrder)),
		StopCoord:            make(map[string][2]float64, len(physicalOrder)),
	}

	for rank, stopID := range physicalOrder {
		e := physicalFirst[stopID]
		nodeID := model.PhysicalNodeBase + rank + 1
		if nodeID > model.PhysicalNodeMax {
			return nil, fmt.Errorf("too many physical stops: node_id %d exceeds %d", nodeID, model.PhysicalNodeMax)
		}
		result.PhysicalNodeIDByStop[stopID] = nodeID
		result.StopCoord[stopID] = [2]float64{e.StopLon, e.StopLat}

		result.Table = append(result.Table, model.Node{
			Name:              stopID,
			NodeID:            nodeID,
			PhysicalNodeID:    nodeID,
			X:                 e.StopLon,
			Y:                 e.StopLat,
			RouteType:         int(e.RouteType),
			RouteID:           e.RouteID,
			NodeType:          model.PhysicalNodeType(e.RouteType),
			DirectedRouteID:   "",
			DirectedServiceID: "",
			AgencyName:        e.AgencyName,
			Geometry:          pointWKT(e.StopLon, e.StopLat),
			TerminalFlag:      e.TerminalFlag,
		})
	}

	for rank, name := range serviceOrder {
		e := serviceFirst[name]
		nodeID := model.ServiceNodeBase + rank + 1
		physicalNodeID, ok := result.PhysicalNodeIDByStop[e.StopID]
		if !ok {
			return nil, fmt.Errorf("service node %q has no physical node for stop_id %q", name, e.StopID)
		}
		result.ServiceNodeIDByName[name] = nodeID

		x := e.StopLon + serviceNodeOffset
		y := e.StopLat + serviceNodeOffset

		result.Table = append(result.Table, model.Node{
			Name:              name,
			NodeID:            nodeID,
			PhysicalNodeID:    physicalNodeID,
			X:                 x,
			Y:                 y,
			RouteType:         int(e.RouteType),
			RouteID:           e.RouteID,
			NodeType:          model.ServiceNodeType(e.RouteType),
			DirectedRouteID:   e.DirectedRouteID,
			DirectedServiceID: e.DirectedServiceID,
			AgencyName:        e.AgencyName,
			Geometry:          pointWKT(x, y),
			TerminalFlag:      e.TerminalFlag,
		})
	}

	return result, nil
}

func pointWKT(x, y float64) string {
	return fmt.Sprintf("POINT (%v %v)", x, y)
}

func lineWKT(x1, y1, x2, y2 float64) string {
	return fmt.Sprintf("LINESTRING (%v %v, %v %v)", x1, y1, x2, y2)
}

package build

import (
	"github.com/transitmodel/gtfs2gmns/geo"
	"github.com/transitmodel/gtfs2gmns/model"
)

const (
	bboxDegrees        = 0.003
	transferMinMeters  = 1
	transferMaxMeters  = 321.869
	transferFanOutCap  = 10
	transferWalkSpeed  = 1
	transferCost       = 60
	transferFacility   = "sta2sta"
	transferDirectedID = "-1"
)

type routeAgency struct {
	routeID    string
	agencyName string
}

// BuildTransferLinks implements spec.md §4.5: for each physical node, a
// bounding-box neighborhood search that emits at most one reciprocal
// walking-link pair per (route_id, agency_name) of a distinct line,
// capped at transferFanOutCap pairs per origin. Transfer link IDs are a
// disjoint, 1-based sequence (spec.md §4.5, "restart at 1").
func BuildTransferLinks(physicalNodes []model.Node) []model.Link {
	links := []model.Link{}
	nextID := 1

	for _, p := range physicalNodes {
		labeled := map[routeAgency]bool{}
		count := 0

		for _, q := range physicalNodes {
			if count >= transferFanOutCap {
				break
			}
			if !inBoundingBox(p, q) {
				continue
			}
			if q.RouteID == p.RouteID && q.AgencyName == p.AgencyName {
				continue
			}

			dist := geo.HaversineMeters(p.Y, p.X, q.Y, q.X)
			if dist < transferMinMeters || dist > transferMaxMeters {
				continue
			}

			key := routeAgency{q.RouteID, q.AgencyName}
			if labeled[key] {
				continue
			}
			labeled[key] = true
			count++

			penalty := model.TransferPenalty(p.NodeType, q.NodeType)
			allowed := model.TransferAllowedUse(p.NodeType, q.NodeType)
			fftt := (dist / 1000) / transferWalkSpeed

			links = append(links, transferLink(nextID, p.NodeID, q.NodeID, dist, fftt, penalty, allowed,
				lineWKT(p.X, p.Y, q.X, q.Y)))
			nextID++

			links = append(links, transferLink(nextID, q.NodeID, p.NodeID, dist, fftt, penalty, allowed,
				lineWKT(q.X, q.Y, p.X, p.Y)))
			nextID++
		}
	}

	return links
}

func inBoundingBox(p, q model.Node) bool {
	dx := q.X - p.X
	if dx < 0 {
		dx = -dx
	}
	dy := q.Y - p.Y
	if dy < 0 {
		dy = -dy
	}
	return dx <= bboxDegrees && dy <= bboxDegrees
}

func transferLink(linkID, fromNodeID, toNodeID int, distMeters, fftt, penalty float64, allowedUse, geometry string) model.Link {
	return model.Link{
		LinkID:            linkID,
		FromNodeID:        fromNodeID,
		ToNodeID:          toNodeID,
		FacilityType:      transferFacility,
		DirFlag:           1,
		DirectedRouteID:   transferDirectedID,
		LinkType:          model.LinkTypeTransferring,
		LinkTypeName:      model.LinkTypeNameTransferring,
		Length:            distMeters,
		Lanes:             1,
		Capacity:          linkCapacity,
		FreeSpeed:         transferWalkSpeed,
		Cost:              transferCost,
		VDFFftt1:          fftt,
		VDFCap1:           float64(1 * linkCapacity),
		VDFAlpha1:         vdfAlpha,
		VDFBeta1:          vdfBeta,
		VDFPenalty1:       penalty,
		Geometry:          geometry,
		AllowedUses:       allowedUse,
		AgencyName:        "",
		StopSequence:      "",
		DirectedServiceID: "",
	}
}

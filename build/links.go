package build

import (
	"sort"
	"strconv"

	"github.com/transitmodel/gtfs2gmns/geo"
	"github.com/transitmodel/gtfs2gmns/model"
)

const (
	linkCapacity  = 999_999
	vdfAlpha      = 0.15
	vdfBeta       = 4
	boardingSpeed = 2
	maxWaitMin    = 10
	alightMin     = 1
)

// frequencies counts the distinct trip_id serving each directed_service_id
// within the (already window-filtered) enriched frame — spec.md §4.4's
// "frequency[directed_service_id]".
func frequencies(enriched []Enriched) map[string]int {
	seen := map[string]map[string]bool{}
	for _, e := range enriched {
		trips, ok := seen[e.DirectedServiceID]
		if !ok {
			trips = map[string]bool{}
			seen[e.DirectedServiceID] = trips
		}
		trips[e.TripID] = true
	}
	freq := make(map[string]int, len(seen))
	for dsid, trips := range seen {
		freq[dsid] = len(trips)
	}
	return freq
}

// representativeTrips picks, for each directed_service_id, the trip_id
// of the first row (in enriched's original order) that belongs to it —
// mirroring pandas' groupby-then-.trip_id.unique()[0], which preserves
// first-appearance order rather than sorting.
func representativeTrips(enriched []Enriched) map[string]string {
	rep := map[string]string{}
	for _, e := range enriched {
		if _, ok := rep[e.DirectedServiceID]; !ok {
			rep[e.DirectedServiceID] = e.TripID
		}
	}
	return rep
}

// BuildServiceAndBoardingLinks implements spec.md §4.4: one
// consecutive-stop service link per directed service's representative
// trip, plus one boarding and one alighting link per service node.
// link_id is monotonic, starting at 1,000,001, across both kinds.
func BuildServiceAndBoardingLinks(enriched []Enriched, nodes *Nodes, periodStart, periodEnd int) []model.Link {
	freq := frequencies(enriched)
	rep := representativeTrips(enriched)

	dsids := make([]string, 0, len(rep))
	for dsid := range rep {
		dsids = append(dsids, dsid)
	}
	sort.Strings(dsids)

	byTrip := map[string][]Enriched{}
	for _, e := range enriched {
		byTrip[e.TripID] = append(byTrip[e.TripID], e)
	}

	links := []model.Link{}
	nextID := 1_000_001

	for _, dsid := range dsids {
		tripID := rep[dsid]
		rows := append([]Enriched(nil), byTrip[tripID]...)
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].StopSequence < rows[j].StopSequence })

		lanes := freq[dsid]
		for k := 0; k+1 < len(rows); k++ {
			from, to := rows[k], rows[k+1]
			fromNodeID := nodes.ServiceNodeIDByName[from.DirectedServiceStopID]
			toNodeID := nodes.ServiceNodeIDByName[to.DirectedServiceStopID]

			length := geo.HaversineMeters(from.StopLat, from.StopLon, to.StopLat, to.StopLon)
			fftt := float64(to.ArrivalMin - from.ArrivalMin)
			freeSpeed := ((length / 1000) / (fftt + 0.001)) * 60

			links = append(links, model.Link{
				LinkID:            nextID,
				FromNodeID:        fromNodeID,
				ToNodeID:          toNodeID,
				FacilityType:      model.LinkFacilityType(from.RouteType),
				DirFlag:           1,
				DirectedRouteID:   from.DirectedRouteID,
				LinkType:          model.LinkTypeService,
				LinkTypeName:      model.LinkTypeNameService,
				Length:            length,
				Lanes:             lanes,
				Capacity:          linkCapacity,
				FreeSpeed:         freeSpeed,
				Cost:              0,
				VDFFftt1:          fftt,
				VDFCap1:           float64(lanes * linkCapacity),
				VDFAlpha1:         vdfAlpha,
				VDFBeta1:          vdfBeta,
				VDFPenalty1:       0,
				Geometry:          lineWKT(from.StopLon, from.StopLat, to.StopLon, to.StopLat),
				AllowedUses:       model.AllowedUse(from.RouteType),
				AgencyName:        from.AgencyName,
				StopSequence:      formatStopSequence(from.StopSequence),
				DirectedServiceID: dsid,
			})
			nextID++
		}
	}

	// Boarding/alighting links, iterating service nodes in node-table
	// order (sorted by directed_service_stop_id, per BuildNodes).
	byServiceStopID := map[string]Enriched{}
	for _, e := range enriched {
		if _, ok := byServiceStopID[e.DirectedServiceStopID]; !ok {
			byServiceStopID[e.DirectedServiceStopID] = e
		}
	}

	for _, n := range nodes.Table {
		if n.NodeID == n.PhysicalNodeID {
			continue // physical node, not a service node
		}
		e := byServiceStopID[n.Name]
		coord := nodes.StopCoord[e.StopID]
		lon, lat := coord[0], coord[1]
		geometry := lineWKT(lon, lat, lon, lat)
		length := geo.HaversineMeters(lat, lon, lat, lon)
		routeType := e.RouteType

		waitMin := 0.5 * (float64(periodEnd-periodStart) / float64(freq[e.DirectedServiceID]))
		if waitMin > maxWaitMin {
			waitMin = maxWaitMin
		}

		inbound := model.Link{
			LinkID:            nextID,
			FromNodeID:        n.PhysicalNodeID,
			ToNodeID:          n.NodeID,
			FacilityType:      model.LinkFacilityType(routeType),
			DirFlag:           1,
			DirectedRouteID:   e.DirectedRouteID,
			LinkType:          model.LinkTypeBoarding,
			LinkTypeName:      model.LinkTypeNameBoarding,
			Length:            length,
			Lanes:             1,
			Capacity:          linkCapacity,
			FreeSpeed:         boardingSpeed,
			Cost:              0,
			VDFFftt1:          waitMin,
			VDFCap1:           float64(1 * linkCapacity),
			VDFAlpha1:         vdfAlpha,
			VDFBeta1:          vdfBeta,
			VDFPenalty1:       0,
			Geometry:          geometry,
			AllowedUses:       model.AllowedUse(routeType),
			AgencyName:        e.AgencyName,
			StopSequence:      "-1",
			DirectedServiceID: e.DirectedServiceID,
		}
		nextID++

		outbound := inbound
		outbound.LinkID = nextID
		outbound.FromNodeID = n.NodeID
		outbound.ToNodeID = n.PhysicalNodeID
		outbound.VDFFftt1 = alightMin
		nextID++

		links = append(links, inbound, outbound)
	}

	return links
}

func formatStopSequence(seq uint32) string {
	return strconv.Itoa(int(seq))
}

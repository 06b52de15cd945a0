// Package build implements Node Construction (spec.md §4.3), Service &
// Boarding Link Construction (§4.4), Transfer Link Construction (§4.5),
// and Deduplication & Assembly (§4.7) — the graph-construction core the
// rest of the pipeline feeds into. Grounded on gtfs2gmns.py's
// create_nodes/create_service_boarding_links/create_transferring_links.
package build

import (
	"fmt"

	"github.com/transitmodel/gtfs2gmns/ids"
	"github.com/transitmodel/gtfs2gmns/label"
	"github.com/transitmodel/gtfs2gmns/model"
)

// Enriched is one row of the "enriched frame" spec.md §4.2 describes:
// a vehicle space-time state (trip_id, stop_id, arrival/departure)
// joined with its trip's route and its stop's geometry, plus the two
// per-trip labels and the four composite identifiers spec.md §3
// defines. It is the single input every downstream build step reads.
type Enriched struct {
	TripID                string
	StopID                string
	StopSequence          uint32
	ArrivalMin            int
	DepartureMin          int
	TerminalFlag          string
	StopSequenceLabel     string
	RouteID               string
	RouteType             model.RouteType
	DirectionID           int8
	DirectedRouteID       string
	DirectedRouteStopID   string
	DirectedServiceStopID string
	DirectedServiceID     string
	StopName              string
	StopLat               float64
	StopLon               float64
	AgencyName            string
}

// Enrich joins labeled stop_times with their trip, route, and stop
// records and attaches the composite identifiers from the ids package.
// Row order is preserved from labeled, which is what later "first
// occurrence wins" steps (node construction, representative-trip
// selection) rely on for determinism.
func Enrich(
	labeled []label.Labeled,
	trips map[string]model.Trip,
	routes map[string]model.Route,
	stops map[string]model.Stop,
	agencyName string,
) ([]Enriched, error) {
	out := make([]Enriched, 0, len(labeled))

	for _, row := range labeled {
		trip, ok := trips[row.TripID]
		if !ok {
			return nil, fmt.Errorf("stop_time references unknown trip_id %q", row.TripID)
		}
		route, ok := routes[trip.RouteID]
		if !ok {
			return nil, fmt.Errorf("trip %q references unknown route_id %q", trip.ID, trip.RouteID)
		}
		stop, ok := stops[row.StopID]
		if !ok {
			return nil, fmt.Errorf("stop_time references unknown stop_id %q", row.StopID)
		}

		directedRouteID := ids.DirectedRouteID(trip.RouteID, trip.DirectionID)
		directedRouteStopID := ids.DirectedRouteStopID(directedRouteID, row.StopID)
		directedServiceStopID := ids.DirectedServiceStopID(directedRouteStopID, row.StopSequenceLabel)
		directedServiceID := ids.DirectedServiceID(directedRouteID, row.StopSequenceLabel)

		out = append(out, Enriched{
			TripID:                row.TripID,
			StopID:                row.StopID,
			StopSequence:          row.StopSequence,
			ArrivalMin:            row.ArrivalMin,
			DepartureMin:          row.DepartureMin,
			TerminalFlag:          row.TerminalFlag,
			StopSequenceLabel:     row.StopSequenceLabel,
			RouteID:               trip.RouteID,
			RouteType:             route.Type,
			DirectionID:           trip.DirectionID,
			DirectedRouteID:       directedRouteID,
			DirectedRouteStopID:   directedRouteStopID,
			DirectedServiceStopID: directedServiceStopID,
			DirectedServiceID:     directedServiceID,
			StopName:              stop.Name,
			StopLat:               stop.Lat,
			StopLon:               stop.Lon,
			AgencyName:            agencyName,
		})
	}

	return out, nil
}

// Package ids composes the identifiers spec.md §3 defines by string
// concatenation. They are kept as plain functions, not a tuple type,
// because the spec's own schema renders them as strings at every stage
// that consumes them (node names, link directed_service_id column,
// grouping keys) — see spec.md §9 "Composite string keys".
package ids

import "strconv"

// RecodeDirection turns a GTFS direction_id (0, 1, or absent) into the
// recoded direction spec.md §2/§3 uses: 0→2, 1→1, missing→2.
func RecodeDirection(directionID int8) string {
	return strconv.Itoa(2 - int(directionID))
}

// DirectedRouteID composes route_id + "." + recoded direction.
func DirectedRouteID(routeID string, directionID int8) string {
	return routeID + "." + RecodeDirection(directionID)
}

// DirectedRouteStopID composes directed_route_id + "." + stop_id.
func DirectedRouteStopID(directedRouteID, stopID string) string {
	return directedRouteID + "." + stopID
}

// DirectedServiceStopID composes directed_route_stop_id + ":" +
// stop_sequence_label.
func DirectedServiceStopID(directedRouteStopID, stopSequenceLabel string) string {
	return directedRouteStopID + ":" + stopSequenceLabel
}

// DirectedServiceID composes directed_route_id + ":" +
// stop_sequence_label.
func DirectedServiceID(directedRouteID, stopSequenceLabel string) string {
	return directedRouteID + ":" + stopSequenceLabel
}

// Package model holds the record types shared across the ingestion and
// graph-construction stages: the raw GTFS entities read from the five
// input tables, and (in gmns.go) the GMNS node/link records they are
// converted into.
package model

// RouteType is the GTFS route_type integer code (0-12).
type RouteType int

const (
	RouteTypeTram       RouteType = 0
	RouteTypeSubway     RouteType = 1
	RouteTypeRail       RouteType = 2
	RouteTypeBus        RouteType = 3
	RouteTypeFerry      RouteType = 4
	RouteTypeCable      RouteType = 5
	RouteTypeAerial     RouteType = 6
	RouteTypeFunicular  RouteType = 7
	RouteTypeTrolleybus RouteType = 11
	RouteTypeMonorail   RouteType = 12
)

type Agency struct {
	ID       string
	Name     string
	Timezone string
}

type Stop struct {
	ID   string
	Name string
	Lat  float64
	Lon  float64
}

type Route struct {
	ID        string
	ShortName string
	LongName  string
	Type      RouteType
}

// Trip is a row from trips.txt. DirectionID is the raw GTFS value
// (0 or 1); the recoded {2,1} direction used throughout the rest of
// the pipeline is computed by the ids package, not stored here.
type Trip struct {
	ID          string
	RouteID     string
	DirectionID int8
}

// StopTime is a cleaned row from stop_times.txt: blank arrival/departure
// rows never make it into this type (see parse.ParseStopTimes).
// ArrivalMin/DepartureMin are minutes since the feed's epoch, allowing
// values past 1440 for trips that run past midnight.
type StopTime struct {
	TripID       string
	StopID       string
	StopSequence uint32
	ArrivalMin   int
	DepartureMin int
}

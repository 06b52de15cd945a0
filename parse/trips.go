package parse

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/transitmodel/gtfs2gmns/model"
)

// TripCSV mirrors the trips.txt columns spec.md §3's Trip entity needs.
// DirectionID defaults to its Go zero value (0) when trips.txt has no
// direction_id column at all, which is exactly the "missing → '0'"
// behavior spec.md §4.1 asks for — gocsv simply never touches the
// field, leaving it at its int8 zero value.
type TripCSV struct {
	ID          string `csv:"trip_id"`
	RouteID     string `csv:"route_id"`
	DirectionID int8   `csv:"direction_id"`
}

// ParseTrips reads trips.txt into model.Trip rows.
func ParseTrips(data io.Reader) ([]model.Trip, error) {
	rows := []*TripCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling trips.txt: %w", err)
	}

	trips := make([]model.Trip, len(rows))
	for i, r := range rows {
		trips[i] = model.Trip{ID: r.ID, RouteID: r.RouteID, DirectionID: r.DirectionID}
	}
	return trips, nil
}

package parse

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/transitmodel/gtfs2gmns/model"
)

// StopCSV mirrors the stops.txt columns spec.md §3's Stop entity needs.
type StopCSV struct {
	ID   string  `csv:"stop_id"`
	Name string  `csv:"stop_name"`
	Lat  float64 `csv:"stop_lat"`
	Lon  float64 `csv:"stop_lon"`
}

// ParseStops reads stops.txt into model.Stop rows.
func ParseStops(data io.Reader) ([]model.Stop, error) {
	rows := []*StopCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling stops.txt: %w", err)
	}

	stops := make([]model.Stop, len(rows))
	for i, r := range rows {
		stops[i] = model.Stop{ID: r.ID, Name: r.Name, Lat: r.Lat, Lon: r.Lon}
	}
	return stops, nil
}

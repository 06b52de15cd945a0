package parse

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/transitmodel/gtfs2gmns/model"
)

// RouteCSV mirrors the routes.txt columns spec.md §3's Route entity
// needs. route_type arrives as a string because some feeds pad it with
// stray whitespace; ParseRoutes converts it explicitly so a bad value
// reports which route_id it came from.
type RouteCSV struct {
	ID        string `csv:"route_id"`
	ShortName string `csv:"route_short_name"`
	LongName  string `csv:"route_long_name"`
	Type      string `csv:"route_type"`
}

// ParseRoutes reads routes.txt into model.Route rows, preserving input
// order (the quoting-mismatch check in parse.go inspects routes[0]).
func ParseRoutes(data io.Reader) ([]model.Route, error) {
	rows := []*RouteCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling routes.txt: %w", err)
	}

	routes := make([]model.Route, len(rows))
	for i, r := range rows {
		routeType, err := strconv.Atoi(strings.TrimSpace(r.Type))
		if err != nil {
			return nil, fmt.Errorf("route_id %q has invalid route_type %q: %w", r.ID, r.Type, err)
		}
		routes[i] = model.Route{
			ID:        r.ID,
			ShortName: r.ShortName,
			LongName:  r.LongName,
			Type:      model.RouteType(routeType),
		}
	}
	return routes, nil
}

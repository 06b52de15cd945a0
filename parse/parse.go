// Package parse implements Ingest & Normalize (spec.md §4.1): reading
// the five required GTFS tables from a directory, reconciling the
// routes.txt/trips.txt quoting mismatch, recoding direction_id, and
// dropping stop_times rows with blank arrival/departure times.
package parse

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/spkg/bom"

	"github.com/transitmodel/gtfs2gmns/gtfs2gmnserr"
	"github.com/transitmodel/gtfs2gmns/internal/log"
	"github.com/transitmodel/gtfs2gmns/model"
	"github.com/transitmodel/gtfs2gmns/storage"
)

// RequiredFiles lists the five GTFS tables spec.md §4.1 requires.
var RequiredFiles = []string{"agency.txt", "stops.txt", "routes.txt", "trips.txt", "stop_times.txt"}

func init() {
	// LazyCSVReader tolerates the ragged/over-quoted rows real-world
	// feeds produce; bom.NewReader strips a leading UTF-8 BOM.
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		return gocsv.LazyCSVReader(bom.NewReader(in))
	})
}

// Result reports the non-fatal conditions spec.md §7 asks to surface
// without aborting the run.
type Result struct {
	AgencyName          string
	OrphanRouteCount    int // trips whose route_id has no routes.txt match
	DroppedStopTimeRows int // stop_times rows dropped for blank/malformed times
}

// ParseFeed reads gtfsDir's five required files and writes the
// normalized records to writer. It fails with gtfs2gmnserr.ErrInputPath
// if gtfsDir does not exist, or gtfs2gmnserr.ErrMissingInputFile if any
// required file is absent.
func ParseFeed(gtfsDir string, writer storage.FeedWriter) (*Result, error) {
	info, err := os.Stat(gtfsDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", gtfs2gmnserr.ErrInputPath, gtfsDir)
	}

	files := map[string]*os.File{}
	defer func() {
		for _, f := range files {
			if f != nil {
				f.Close()
			}
		}
	}()

	for _, name := range RequiredFiles {
		path := filepath.Join(gtfsDir, name)
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", gtfs2gmnserr.ErrMissingInputFile, name)
		}
		files[name] = f
	}

	log.Info("reading agency.txt")
	agency, err := ParseAgency(files["agency.txt"])
	if err != nil {
		return nil, fmt.Errorf("parsing agency.txt: %w", err)
	}
	if err := writer.WriteAgency(agency); err != nil {
		return nil, fmt.Errorf("writing agency: %w", err)
	}

	log.Info("reading stops.txt")
	stops, err := ParseStops(files["stops.txt"])
	if err != nil {
		return nil, fmt.Errorf("parsing stops.txt: %w", err)
	}
	for _, s := range stops {
		if err := writer.WriteStop(s); err != nil {
			return nil, fmt.Errorf("writing stop: %w", err)
		}
	}

	log.Info("reading routes.txt")
	routes, err := ParseRoutes(files["routes.txt"])
	if err != nil {
		return nil, fmt.Errorf("parsing routes.txt: %w", err)
	}

	log.Info("reading trips.txt")
	trips, err := ParseTrips(files["trips.txt"])
	if err != nil {
		return nil, fmt.Errorf("parsing trips.txt: %w", err)
	}

	repairQuoting(routes, trips)

	routeByID := map[string]model.Route{}
	for _, r := range routes {
		routeByID[r.ID] = r
		if err := writer.WriteRoute(r); err != nil {
			return nil, fmt.Errorf("writing route: %w", err)
		}
	}

	orphanRouteCount := 0
	for _, t := range trips {
		if _, ok := routeByID[t.RouteID]; !ok {
			orphanRouteCount++
			continue
		}
		if err := writer.WriteTrip(t); err != nil {
			return nil, fmt.Errorf("writing trip: %w", err)
		}
	}
	if orphanRouteCount > 0 {
		log.Warn("%d trip(s) reference a route_id absent from routes.txt", orphanRouteCount)
	}

	log.Info("reading stop_times.txt")
	stopTimes, dropped, err := ParseStopTimes(files["stop_times.txt"])
	if err != nil {
		return nil, fmt.Errorf("parsing stop_times.txt: %w", err)
	}
	if dropped > 0 {
		log.Warn("dropped %d stop_times row(s) with blank or malformed times", dropped)
	}

	if err := writer.BeginStopTimes(); err != nil {
		return nil, fmt.Errorf("beginning stop_times: %w", err)
	}
	for _, st := range stopTimes {
		if err := writer.WriteStopTime(st); err != nil {
			return nil, fmt.Errorf("writing stop_time: %w", err)
		}
	}
	if err := writer.EndStopTimes(); err != nil {
		return nil, fmt.Errorf("ending stop_times: %w", err)
	}

	return &Result{
		AgencyName:          agency.Name,
		OrphanRouteCount:    orphanRouteCount,
		DroppedStopTimeRows: dropped,
	}, nil
}

// repairQuoting implements the quoting-mismatch repair spec.md §4.1
// describes ("Agency 12 Fairfax CUE" in the original): if route_id in
// routes.txt is quoted but the same column in trips.txt is not (or vice
// versa), strip the quotes from whichever side has them so the two
// tables join on route_id.
func repairQuoting(routes []model.Route, trips []model.Trip) {
	if len(routes) == 0 || len(trips) == 0 {
		return
	}

	routesQuoted := strings.HasPrefix(routes[0].ID, `"`)
	tripsQuoted := strings.HasPrefix(trips[0].RouteID, `"`)
	if routesQuoted == tripsQuoted {
		return
	}

	log.Warn("repairing route_id quoting mismatch between routes.txt and trips.txt")
	if routesQuoted {
		for i := range routes {
			routes[i].ID = strings.Trim(routes[i].ID, `"`)
		}
	} else {
		for i := range trips {
			trips[i].RouteID = strings.Trim(trips[i].RouteID, `"`)
		}
	}
}

// Package testutil builds small in-memory and on-disk GTFS fixtures for
// the pipeline's tests, including the boundary scenarios spec.md §8
// names. Adapted from the teacher's ad-hoc test fixtures, generalized
// into one shared helper so parse/build/convert tests don't each hand-rolled
// their own CSV strings.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFeed writes files (keyed by GTFS filename, e.g. "stops.txt") into
// a fresh temp directory and returns its path.
func WriteFeed(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, contents := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return dir
}

// TwoStopLine is scenario B from spec.md §8: a single bus route, two
// stops, one trip, arrivals at 07:10 and 07:20.
func TwoStopLine() map[string]string {
	return map[string]string{
		"agency.txt": "agency_id,agency_name,agency_url,agency_timezone\n" +
			"A1,Test Transit,https://example.com,America/Chicago\n",
		"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
			"S1,Stop One,0.000,0.000\n" +
			"S2,Stop Two,0.000,0.001\n",
		"routes.txt": "route_id,route_short_name,route_long_name,route_type\n" +
			"R1,1,Line One,3\n",
		"trips.txt": "trip_id,route_id,direction_id\n" +
			"T1,R1,0\n",
		"stop_times.txt": "trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
			"T1,S1,1,07:10:00,07:10:00\n" +
			"T1,S2,2,07:20:00,07:20:00\n",
	}
}

// QuotingMismatch is scenario C: routes.route_id is quoted while
// trips.route_id is not.
func QuotingMismatch() map[string]string {
	f := TwoStopLine()
	// A literal-quote route_id: the CSV field's *content* is `"R1"`,
	// which requires doubling the quotes (`""R1""`) to escape them
	// inside an enclosing quoted field — this is the "Agency 12
	// Fairfax CUE" scenario spec.md §4.1 describes.
	f["routes.txt"] = "route_id,route_short_name,route_long_name,route_type\n" +
		"\"\"\"R1\"\"\",1,Line One,3\n"
	return f
}

// OverflowDay is scenario F: an arrival past midnight ("25:10:00").
func OverflowDay() map[string]string {
	f := TwoStopLine()
	f["stop_times.txt"] = "trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
		"T1,S1,1,25:10:00,25:10:00\n" +
		"T1,S2,2,25:20:00,25:20:00\n"
	return f
}

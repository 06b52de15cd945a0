// Package convert implements the top-level pipeline entry point:
// Ingest & Normalize (§4.1) → Trip Labeling (§4.2) → Node Construction
// (§4.3) → Service & Boarding Links (§4.4) → Transfer Links (§4.5) →
// Deduplication & Assembly (§4.7) → CSV output (§6), timing each stage
// the way gtfs2gmns.py's func_running_time decorator does.
package convert

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/transitmodel/gtfs2gmns/build"
	"github.com/transitmodel/gtfs2gmns/gtfs2gmnserr"
	"github.com/transitmodel/gtfs2gmns/internal/log"
	"github.com/transitmodel/gtfs2gmns/label"
	"github.com/transitmodel/gtfs2gmns/model"
	"github.com/transitmodel/gtfs2gmns/output"
	"github.com/transitmodel/gtfs2gmns/parse"
	"github.com/transitmodel/gtfs2gmns/storage"
)

// Result summarizes a finished conversion: the non-fatal conditions
// parse.ParseFeed reported, table sizes, and the output paths.
type Result struct {
	AgencyName          string
	OrphanRouteCount    int
	DroppedStopTimeRows int
	NodeCount           int
	LinkCount           int
	NodeCSVPath         string
	LinkCSVPath         string
	NodeGeoJSONPath     string
	LinkGeoJSONPath     string
}

// Convert runs the full pipeline against gtfsDir, writing node.csv and
// link.csv into outDir, restricted to trips whose earliest arrival
// falls inside period (an "HHMM_HHMM" window, e.g. "0700_0800"). The
// ingested tables are held in memory; use ConvertWithStorage for a
// feed too large to hold in one process, or one shared across jobs.
func Convert(gtfsDir, outDir, period string) (*Result, error) {
	store := storage.NewMemoryStorage()
	defer store.Close()
	return ConvertWithStorage(store, gtfsDir, outDir, period)
}

// ConvertWithStorage runs the same pipeline as Convert but against a
// caller-supplied backend (storage.NewSQLiteStorage, storage.NewPostgresStorage,
// ...), for feeds that don't fit in memory or a job service sharing one
// store across requests (SPEC_FULL.md §3).
func ConvertWithStorage(store storage.Storage, gtfsDir, outDir, period string) (*Result, error) {
	periodStart, periodEnd, err := ParsePeriod(period)
	if err != nil {
		return nil, err
	}

	writer, err := store.GetWriter(gtfsDir)
	if err != nil {
		return nil, err
	}

	parseResult, err := timedStage("parse", func() (*parse.Result, error) {
		return parse.ParseFeed(gtfsDir, writer)
	})
	if err != nil {
		return nil, err
	}

	reader, err := store.GetReader(gtfsDir)
	if err != nil {
		return nil, err
	}

	stopTimes, err := reader.StopTimes()
	if err != nil {
		return nil, fmt.Errorf("reading stop_times: %w", err)
	}

	labeled, err := timedStage("label", func() ([]label.Labeled, error) {
		return label.Label(stopTimes, periodStart, periodEnd)
	})
	if err != nil && !errors.Is(err, gtfs2gmnserr.ErrEmptyResult) {
		return nil, err
	}
	// spec.md §7: EmptyResult is not fatal — it propagates as two empty
	// output tables instead of aborting the run (scenario A, §8).

	trips, err := reader.Trips()
	if err != nil {
		return nil, fmt.Errorf("reading trips: %w", err)
	}
	tripByID := make(map[string]model.Trip, len(trips))
	for _, t := range trips {
		tripByID[t.ID] = t
	}

	routes, err := reader.Routes()
	if err != nil {
		return nil, fmt.Errorf("reading routes: %w", err)
	}

	stopList, err := reader.Stops()
	if err != nil {
		return nil, fmt.Errorf("reading stops: %w", err)
	}
	stopByID := make(map[string]model.Stop, len(stopList))
	for _, s := range stopList {
		stopByID[s.ID] = s
	}

	enriched, err := timedStage("enrich", func() ([]build.Enriched, error) {
		return build.Enrich(labeled, tripByID, routes, stopByID, parseResult.AgencyName)
	})
	if err != nil {
		return nil, err
	}

	nodes, err := timedStage("build_nodes", func() (*build.Nodes, error) {
		return build.BuildNodes(enriched)
	})
	if err != nil {
		return nil, err
	}

	log.Info("building service and boarding links")
	start := time.Now()
	links := build.BuildServiceAndBoardingLinks(enriched, nodes, periodStart, periodEnd)
	log.Info("service and boarding links: %d in %s", len(links), time.Since(start))

	var physicalNodes []model.Node
	for _, n := range nodes.Table {
		if n.NodeID == n.PhysicalNodeID {
			physicalNodes = append(physicalNodes, n)
		}
	}

	log.Info("building transfer links")
	start = time.Now()
	transfers := build.BuildTransferLinks(physicalNodes)
	log.Info("transfer links: %d in %s", len(transfers), time.Since(start))

	allLinks, err := timedStage("dedup", func() ([]model.Link, error) {
		return build.Dedup(append(links, transfers...)), nil
	})
	if err != nil {
		return nil, err
	}

	nodePath, linkPath, err := timedStageTwo("output", func() (string, string, error) {
		return output.WriteNodesAndLinks(outDir, nodes.Table, allLinks)
	})
	if err != nil {
		return nil, err
	}

	// SPEC_FULL.md §3: nodes.geojson/links.geojson are written alongside
	// node.csv/link.csv on every run, not gated behind a flag — the same
	// graph, just also in a form a map can render directly.
	nodeGeoJSONPath, linkGeoJSONPath, err := timedStageTwo("geojson", func() (string, string, error) {
		return output.WriteGeoJSON(outDir, nodes.Table, allLinks)
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		AgencyName:          parseResult.AgencyName,
		OrphanRouteCount:    parseResult.OrphanRouteCount,
		DroppedStopTimeRows: parseResult.DroppedStopTimeRows,
		NodeCount:           len(nodes.Table),
		LinkCount:           len(allLinks),
		NodeCSVPath:         nodePath,
		LinkCSVPath:         linkPath,
		NodeGeoJSONPath:     nodeGeoJSONPath,
		LinkGeoJSONPath:     linkGeoJSONPath,
	}, nil
}

// ParsePeriod parses an "HHMM_HHMM" window (spec.md §6) into minutes
// since midnight.
func ParsePeriod(period string) (start, end int, err error) {
	if len(period) != 9 || period[4] != '_' {
		return 0, 0, fmt.Errorf("invalid period %q: want HHMM_HHMM", period)
	}
	start, err = hhmmToMinutes(period[0:4])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid period %q: %w", period, err)
	}
	end, err = hhmmToMinutes(period[5:9])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid period %q: %w", period, err)
	}
	if end < start {
		return 0, 0, fmt.Errorf("invalid period %q: end precedes start", period)
	}
	return start, end, nil
}

func hhmmToMinutes(hhmm string) (int, error) {
	hour, err := strconv.Atoi(hhmm[0:2])
	if err != nil {
		return 0, err
	}
	minute, err := strconv.Atoi(hhmm[2:4])
	if err != nil {
		return 0, err
	}
	return hour*60 + minute, nil
}

func timedStage[T any](name string, fn func() (T, error)) (T, error) {
	log.Info("stage %s: starting", name)
	start := time.Now()
	result, err := fn()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("stage %s: %w", name, err)
	}
	log.Info("stage %s: done in %s", name, time.Since(start))
	return result, nil
}

func timedStageTwo[A, B any](name string, fn func() (A, B, error)) (A, B, error) {
	log.Info("stage %s: starting", name)
	start := time.Now()
	a, b, err := fn()
	if err != nil {
		var zeroA A
		var zeroB B
		return zeroA, zeroB, fmt.Errorf("stage %s: %w", name, err)
	}
	log.Info("stage %s: done in %s", name, time.Since(start))
	return a, b, nil
}

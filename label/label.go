// Package label implements spec.md §4.2 (Trip Labeling): grouping
// stop_times by trip, filtering to the analysis window, and assigning a
// terminal flag and a stop_sequence_label to each surviving stop.
package label

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/transitmodel/gtfs2gmns/gtfs2gmnserr"
	"github.com/transitmodel/gtfs2gmns/model"
)

// Labeled is a stop_time enriched with the two per-trip labels spec.md
// §4.2 describes. TerminalFlag is one of model.TerminalOrigin,
// model.TerminalDestination, model.TerminalIntermediate.
type Labeled struct {
	model.StopTime
	TerminalFlag      string
	StopSequenceLabel string
}

// ErrEmptyAfterWindowFilter is returned when no trip's earliest
// arrival lies within the requested window (spec.md §4.2, §7).
var ErrEmptyAfterWindowFilter = gtfs2gmnserr.ErrEmptyResult

// Label groups stopTimes by TripID, drops any trip whose minimum
// arrival time falls outside [periodStart, periodEnd], and returns the
// remaining rows annotated with TerminalFlag and StopSequenceLabel.
//
// Trip order in the output follows first appearance in stopTimes, and
// within a trip, rows are sorted by StopSequence — both deterministic,
// matching spec.md's requirement that repeated runs produce identical
// output.
func Label(stopTimes []model.StopTime, periodStart, periodEnd int) ([]Labeled, error) {
	order := []string{}
	groups := map[string][]model.StopTime{}
	for _, st := range stopTimes {
		if _, found := groups[st.TripID]; !found {
			order = append(order, st.TripID)
		}
		groups[st.TripID] = append(groups[st.TripID], st)
	}

	out := []Labeled{}
	for _, tripID := range order {
		rows := groups[tripID]
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].StopSequence < rows[j].StopSequence
		})

		minArrival := rows[0].ArrivalMin
		for _, r := range rows {
			if r.ArrivalMin < minArrival {
				minArrival = r.ArrivalMin
			}
		}
		if minArrival < periodStart || minArrival > periodEnd {
			continue
		}

		flags := terminalFlags(rows)
		seqLabel := stopSequenceLabel(rows)

		for i, r := range rows {
			out = append(out, Labeled{
				StopTime:          r,
				TerminalFlag:      flags[i],
				StopSequenceLabel: seqLabel,
			})
		}
	}

	if len(out) == 0 {
		return nil, ErrEmptyAfterWindowFilter
	}

	return out, nil
}

// terminalFlags implements determine_terminal_flag: the minimum
// stop_sequence in the (already sorted) group is the origin, the
// maximum is the destination, everything else is intermediate. For a
// single-stop trip the destination assignment is applied last and
// wins, matching the original's origin-then-destination assignment
// order.
func terminalFlags(rows []model.StopTime) []string {
	flags := make([]string, len(rows))
	for i := range flags {
		flags[i] = model.TerminalIntermediate
	}
	if len(flags) == 0 {
		return flags
	}
	flags[0] = model.TerminalOrigin
	flags[len(flags)-1] = model.TerminalDestination
	return flags
}

// stopSequenceLabel implements the canonicalization spec.md §9 left
// open: the hex xxhash.Sum64 of the trip's ordered stop_id chain,
// joined by "|". Two trips sharing the same ordered stop_id sequence
// always hash to the same label; differing sequences hash differently
// with overwhelming probability for agency-sized feeds.
func stopSequenceLabel(rows []model.StopTime) string {
	stopIDs := make([]string, len(rows))
	for i, r := range rows {
		stopIDs[i] = r.StopID
	}
	chain := strings.Join(stopIDs, "|")
	return strconv.FormatUint(xxhash.Sum64String(chain), 16)
}

package parse

import (
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/transitmodel/gtfs2gmns/model"
)

// StopTimeCSV mirrors the stop_times.txt columns spec.md §4.1 needs.
// ArrivalTime/DepartureTime stay strings so ParseStopTimes can detect
// and drop blank values before attempting to parse a duration.
type StopTimeCSV struct {
	TripID        string `csv:"trip_id"`
	StopID        string `csv:"stop_id"`
	StopSequence  uint32 `csv:"stop_sequence"`
	ArrivalTime   string `csv:"arrival_time"`
	DepartureTime string `csv:"departure_time"`
}

func isBlankTime(s string) bool {
	return s == "" || strings.TrimSpace(s) == ""
}

// timeToMinutes converts an HH:MM:SS duration-from-midnight string
// (hours may run past 24 for service that continues past midnight,
// e.g. "25:10:00") to integer minutes since the feed's epoch, per
// spec.md §4.1: hour*60 + minute + 1440*day_offset, where day_offset
// is the whole-day overflow folded back into the hour component.
func timeToMinutes(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, errors.Errorf("expected HH:MM:SS, found %d parts in %q", len(parts), s)
	}

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, errors.Wrapf(err, "parsing hour in %q", s)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, errors.Wrapf(err, "parsing minute in %q", s)
	}
	if _, err := strconv.Atoi(strings.TrimSpace(parts[2])); err != nil {
		return 0, errors.Wrapf(err, "parsing second in %q", s)
	}

	dayOffset := hour / 24
	hourOfDay := hour % 24
	return hourOfDay*60 + minute + 1440*dayOffset, nil
}

// ParseStopTimes reads stop_times.txt, dropping any row whose
// arrival_time or departure_time is null, empty, or a single blank
// (spec.md §4.1). A row whose times are present but unparseable is
// also dropped (MalformedTime, spec.md §7) rather than aborting the
// whole file; droppedRows counts both kinds.
func ParseStopTimes(data io.Reader) (stopTimes []model.StopTime, droppedRows int, err error) {
	rows := []*StopTimeCSV{}
	if uerr := gocsv.Unmarshal(data, &rows); uerr != nil {
		return nil, 0, errors.Wrap(uerr, "unmarshaling stop_times.txt")
	}

	for _, r := range rows {
		if isBlankTime(r.ArrivalTime) || isBlankTime(r.DepartureTime) {
			droppedRows++
			continue
		}

		arrivalMin, aerr := timeToMinutes(r.ArrivalTime)
		if aerr != nil {
			droppedRows++
			continue
		}
		departureMin, derr := timeToMinutes(r.DepartureTime)
		if derr != nil {
			droppedRows++
			continue
		}
		stopTimes = append(stopTimes, model.StopTime{
			TripID:       r.TripID,
			StopID:       r.StopID,
			StopSequence: r.StopSequence,
			ArrivalMin:   arrivalMin,
			DepartureMin: departureMin,
		})
	}

	return stopTimes, droppedRows, nil
}

// Package gtfs2gmnserr holds the sentinel errors spec.md §7 names.
// Row-level failures (a single malformed stop_times.txt row) are not
// part of this set: the offending row is dropped and counted instead
// of aborting the run, matching the teacher's ParseStopTimes pattern
// of skipping bad rows rather than failing the whole file.
package gtfs2gmnserr

import "errors"

// ErrInputPath is returned when the GTFS input directory does not exist.
var ErrInputPath = errors.New("gtfs input directory does not exist")

// ErrOutputPath is returned when the output directory does not exist.
var ErrOutputPath = errors.New("output directory does not exist")

// ErrMissingInputFile is returned when one of the five required GTFS
// files is absent from the input directory.
var ErrMissingInputFile = errors.New("required gtfs file is missing")

// ErrEmptyResult is returned when no trip survives the window filter
// (spec.md §4.2, §7). It is not fatal to the caller: convert.Convert
// still writes empty node.csv/link.csv files.
var ErrEmptyResult = errors.New("no trip survived the window filter")

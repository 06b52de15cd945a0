// Package log wraps the standard log package with the terse,
// "Info: ..."/"Warn: ..." prefixed one-liners the Python original
// prints at each pipeline stage (see gtfs2gmns.py's scattered `print`
// calls) and cmd/main.go's plain fmt.Println style. No third-party
// logging library is introduced: none of the example repos pulls one
// in either.
package log

import (
	"log"
	"os"
)

var std = log.New(os.Stderr, "", log.LstdFlags)

// Info logs a progress line, e.g. a pipeline stage transition.
func Info(format string, args ...any) {
	std.Printf("Info: "+format, args...)
}

// Warn logs a non-fatal condition, e.g. a repaired quoting mismatch or
// a dropped malformed row.
func Warn(format string, args ...any) {
	std.Printf("Warn: "+format, args...)
}

// Package storage holds the ingested GTFS tables behind a small
// Storage/FeedWriter/FeedReader interface, adapted from the teacher
// repo's feed storage abstraction and re-scoped to what graph
// construction actually reads back: the five GTFS tables, nothing else.
// The departure-board and realtime query surface the teacher offers
// (ActiveServices, StopTimeEvents, RouteDirections, NearbyStops,
// MinMaxStopSeq) is not part of this interface — see DESIGN.md for why.
package storage

import "github.com/transitmodel/gtfs2gmns/model"

// Storage opens readers/writers for a single GTFS feed, identified by
// an arbitrary string key (a file path hash, a job ID, ...).
type Storage interface {
	GetWriter(key string) (FeedWriter, error)
	GetReader(key string) (FeedReader, error)
	Close() error
}

// FeedWriter writes GTFS records for a single feed. BeginStopTimes/
// EndStopTimes bracket the (potentially large) stop_times.txt load,
// mirroring the teacher's FeedWriter so a transactional backend can
// batch the writes.
type FeedWriter interface {
	WriteAgency(a model.Agency) error
	WriteStop(s model.Stop) error
	WriteRoute(r model.Route) error
	WriteTrip(t model.Trip) error
	BeginStopTimes() error
	WriteStopTime(st model.StopTime) error
	EndStopTimes() error
	Close() error
}

// FeedReader reads back everything parse.ParseFeed wrote.
type FeedReader interface {
	Agency() (model.Agency, error)
	Stops() ([]model.Stop, error)
	Routes() (map[string]model.Route, error)
	Trips() ([]model.Trip, error)
	StopTimes() ([]model.StopTime, error)
}

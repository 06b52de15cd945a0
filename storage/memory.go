package storage

import (
	"fmt"
	"sync"

	"github.com/transitmodel/gtfs2gmns/model"
)

// MemoryStorage is the default, in-process Storage backend: one run of
// the CLI converts one feed, so there is rarely a reason to reach for
// anything heavier. Adapted from the teacher's MemoryStorage.
type MemoryStorage struct {
	mu    sync.Mutex
	feeds map[string]*memoryFeed
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{feeds: map[string]*memoryFeed{}}
}

func (s *MemoryStorage) GetWriter(key string) (FeedWriter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := &memoryFeed{routes: map[string]model.Route{}}
	s.feeds[key] = f
	return f, nil
}

func (s *MemoryStorage) GetReader(key string) (FeedReader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.feeds[key]
	if !ok {
		return nil, fmt.Errorf("feed %q not found", key)
	}
	return f, nil
}

func (s *MemoryStorage) Close() error { return nil }

type memoryFeed struct {
	agency    model.Agency
	stops     []model.Stop
	routes    map[string]model.Route
	trips     []model.Trip
	stopTimes []model.StopTime
}

func (f *memoryFeed) WriteAgency(a model.Agency) error     { f.agency = a; return nil }
func (f *memoryFeed) WriteStop(s model.Stop) error         { f.stops = append(f.stops, s); return nil }
func (f *memoryFeed) WriteRoute(r model.Route) error       { f.routes[r.ID] = r; return nil }
func (f *memoryFeed) WriteTrip(t model.Trip) error         { f.trips = append(f.trips, t); return nil }
func (f *memoryFeed) BeginStopTimes() error                { return nil }
func (f *memoryFeed) WriteStopTime(st model.StopTime) error {
	f.stopTimes = append(f.stopTimes, st)
	return nil
}
func (f *memoryFeed) EndStopTimes() error { return nil }
func (f *memoryFeed) Close() error        { return nil }

func (f *memoryFeed) Agency() (model.Agency, error)           { return f.agency, nil }
func (f *memoryFeed) Stops() ([]model.Stop, error)            { return f.stops, nil }
func (f *memoryFeed) Routes() (map[string]model.Route, error) { return f.routes, nil }
func (f *memoryFeed) Trips() ([]model.Trip, error)             { return f.trips, nil }
func (f *memoryFeed) StopTimes() ([]model.StopTime, error)     { return f.stopTimes, nil }

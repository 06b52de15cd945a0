package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/transitmodel/gtfs2gmns/model"
)

// PostgresStorage is a Storage backend that keeps the ingested GTFS
// tables in a Postgres database, one set of rows per feed key, so
// several processes can share one database. Every conversion still
// parses the feed and rewrites its rows: GetWriter clears the feed's
// stop_time rows and the other tables are upserted. Adapted from the
// teacher's storage/postgres.go.
type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(connStr string) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	if _, err := db.Exec(postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating postgres schema: %w", err)
	}

	return &PostgresStorage{db: db}, nil
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS gtfs_agency (
	feed TEXT PRIMARY KEY,
	id TEXT NOT NULL,
	name TEXT NOT NULL,
	timezone TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS gtfs_stop (
	feed TEXT NOT NULL,
	id TEXT NOT NULL,
	name TEXT NOT NULL,
	lat DOUBLE PRECISION NOT NULL,
	lon DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (feed, id)
);
CREATE TABLE IF NOT EXISTS gtfs_route (
	feed TEXT NOT NULL,
	id TEXT NOT NULL,
	short_name TEXT NOT NULL,
	long_name TEXT NOT NULL,
	route_type INTEGER NOT NULL,
	PRIMARY KEY (feed, id)
);
CREATE TABLE IF NOT EXISTS gtfs_trip (
	feed TEXT NOT NULL,
	id TEXT NOT NULL,
	route_id TEXT NOT NULL,
	direction_id SMALLINT NOT NULL,
	PRIMARY KEY (feed, id)
);
CREATE TABLE IF NOT EXISTS gtfs_stop_time (
	feed TEXT NOT NULL,
	trip_id TEXT NOT NULL,
	stop_id TEXT NOT NULL,
	stop_sequence INTEGER NOT NULL,
	arrival_min INTEGER NOT NULL,
	departure_min INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS gtfs_stop_time_trip ON gtfs_stop_time (feed, trip_id);
`

func (s *PostgresStorage) GetWriter(key string) (FeedWriter, error) {
	if _, err := s.db.Exec(`DELETE FROM gtfs_stop_time WHERE feed = $1`, key); err != nil {
		return nil, fmt.Errorf("clearing prior stop_time rows: %w", err)
	}
	return &postgresFeedWriter{db: s.db, feed: key}, nil
}

func (s *PostgresStorage) GetReader(key string) (FeedReader, error) {
	return &postgresFeedReader{db: s.db, feed: key}, nil
}

func (s *PostgresStorage) Close() error { return s.db.Close() }

type postgresFeedWriter struct {
	db   *sql.DB
	feed string
	tx   *sql.Tx
	stmt *sql.Stmt
}

func (w *postgresFeedWriter) WriteAgency(a model.Agency) error {
	_, err := w.db.Exec(`
INSERT INTO gtfs_agency (feed, id, name, timezone) VALUES ($1, $2, $3, $4)
ON CONFLICT (feed) DO UPDATE SET id = $2, name = $3, timezone = $4`,
		w.feed, a.ID, a.Name, a.Timezone)
	return err
}

func (w *postgresFeedWriter) WriteStop(s model.Stop) error {
	_, err := w.db.Exec(`
INSERT INTO gtfs_stop (feed, id, name, lat, lon) VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (feed, id) DO UPDATE SET name = $3, lat = $4, lon = $5`,
		w.feed, s.ID, s.Name, s.Lat, s.Lon)
	return err
}

func (w *postgresFeedWriter) WriteRoute(r model.Route) error {
	_, err := w.db.Exec(`
INSERT INTO gtfs_route (feed, id, short_name, long_name, route_type) VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (feed, id) DO UPDATE SET short_name = $3, long_name = $4, route_type = $5`,
		w.feed, r.ID, r.ShortName, r.LongName, int(r.Type))
	return err
}

func (w *postgresFeedWriter) WriteTrip(t model.Trip) error {
	_, err := w.db.Exec(`
INSERT INTO gtfs_trip (feed, id, route_id, direction_id) VALUES ($1, $2, $3, $4)
ON CONFLICT (feed, id) DO UPDATE SET route_id = $3, direction_id = $4`,
		w.feed, t.ID, t.RouteID, t.DirectionID)
	return err
}

func (w *postgresFeedWriter) BeginStopTimes() error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning stop_time transaction: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO gtfs_stop_time (feed, trip_id, stop_id, stop_sequence, arrival_min, departure_min) VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing stop_time insert: %w", err)
	}
	w.tx = tx
	w.stmt = stmt
	return nil
}

func (w *postgresFeedWriter) WriteStopTime(st model.StopTime) error {
	_, err := w.stmt.Exec(w.feed, st.TripID, st.StopID, st.StopSequence, st.ArrivalMin, st.DepartureMin)
	return err
}

func (w *postgresFeedWriter) EndStopTimes() error {
	if err := w.stmt.Close(); err != nil {
		return fmt.Errorf("closing stop_time insert: %w", err)
	}
	if err := w.tx.Commit(); err != nil {
		return fmt.Errorf("committing stop_time transaction: %w", err)
	}
	return nil
}

func (w *postgresFeedWriter) Close() error { return nil }

type postgresFeedReader struct {
	db   *sql.DB
	feed string
}

func (r *postgresFeedReader) Agency() (model.Agency, error) {
	var a model.Agency
	row := r.db.QueryRow(`SELECT id, name, timezone FROM gtfs_agency WHERE feed = $1`, r.feed)
	err := row.Scan(&a.ID, &a.Name, &a.Timezone)
	return a, err
}

func (r *postgresFeedReader) Stops() ([]model.Stop, error) {
	rows, err := r.db.Query(`SELECT id, name, lat, lon FROM gtfs_stop WHERE feed = $1`, r.feed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stops := []model.Stop{}
	for rows.Next() {
		var s model.Stop
		if err := rows.Scan(&s.ID, &s.Name, &s.Lat, &s.Lon); err != nil {
			return nil, err
		}
		stops = append(stops, s)
	}
	return stops, rows.Err()
}

func (r *postgresFeedReader) Routes() (map[string]model.Route, error) {
	rows, err := r.db.Query(`SELECT id, short_name, long_name, route_type FROM gtfs_route WHERE feed = $1`, r.feed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := map[string]model.Route{}
	for rows.Next() {
		var rt model.Route
		var routeType int
		if err := rows.Scan(&rt.ID, &rt.ShortName, &rt.LongName, &routeType); err != nil {
			return nil, err
		}
		rt.Type = model.RouteType(routeType)
		routes[rt.ID] = rt
	}
	return routes, rows.Err()
}

func (r *postgresFeedReader) Trips() ([]model.Trip, error) {
	rows, err := r.db.Query(`SELECT id, route_id, direction_id FROM gtfs_trip WHERE feed = $1`, r.feed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := []model.Trip{}
	for rows.Next() {
		var t model.Trip
		if err := rows.Scan(&t.ID, &t.RouteID, &t.DirectionID); err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func (r *postgresFeedReader) StopTimes() ([]model.StopTime, error) {
	rows, err := r.db.Query(`SELECT trip_id, stop_id, stop_sequence, arrival_min, departure_min FROM gtfs_stop_time WHERE feed = $1`, r.feed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sts := []model.StopTime{}
	for rows.Next() {
		var st model.StopTime
		if err := rows.Scan(&st.TripID, &st.StopID, &st.StopSequence, &st.ArrivalMin, &st.DepartureMin); err != nil {
			return nil, err
		}
		sts = append(sts, st)
	}
	return sts, rows.Err()
}

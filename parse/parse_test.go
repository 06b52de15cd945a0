package parse_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/transitmodel/gtfs2gmns/gtfs2gmnserr"
	"github.com/transitmodel/gtfs2gmns/parse"
	"github.com/transitmodel/gtfs2gmns/storage"
	"github.com/transitmodel/gtfs2gmns/testutil"
)

func TestParseFeed(t *testing.T) {
	dir := testutil.WriteFeed(t, testutil.TwoStopLine())

	store := storage.NewMemoryStorage()
	writer, err := store.GetWriter(dir)
	require.NoError(t, err)

	result, err := parse.ParseFeed(dir, writer)
	require.NoError(t, err)
	require.Equal(t, "Test Transit", result.AgencyName)
	require.Zero(t, result.OrphanRouteCount)
	require.Zero(t, result.DroppedStopTimeRows)

	reader, err := store.GetReader(dir)
	require.NoError(t, err)

	stops, err := reader.Stops()
	require.NoError(t, err)
	require.Len(t, stops, 2)

	trips, err := reader.Trips()
	require.NoError(t, err)
	require.Len(t, trips, 1)
	require.EqualValues(t, 0, trips[0].DirectionID)

	stopTimes, err := reader.StopTimes()
	require.NoError(t, err)
	require.Len(t, stopTimes, 2)
	require.Equal(t, 430, stopTimes[0].ArrivalMin)
	require.Equal(t, 440, stopTimes[1].ArrivalMin)
}

func TestParseFeedMissingInputFile(t *testing.T) {
	files := testutil.TwoStopLine()
	delete(files, "routes.txt")
	dir := testutil.WriteFeed(t, files)

	store := storage.NewMemoryStorage()
	writer, err := store.GetWriter(dir)
	require.NoError(t, err)

	_, err = parse.ParseFeed(dir, writer)
	require.ErrorIs(t, err, gtfs2gmnserr.ErrMissingInputFile)
}

func TestParseFeedInputPath(t *testing.T) {
	store := storage.NewMemoryStorage()
	writer, err := store.GetWriter("missing")
	require.NoError(t, err)

	_, err = parse.ParseFeed("/does/not/exist", writer)
	require.ErrorIs(t, err, gtfs2gmnserr.ErrInputPath)
}

func TestParseFeedQuotingMismatch(t *testing.T) {
	dir := testutil.WriteFeed(t, testutil.QuotingMismatch())

	store := storage.NewMemoryStorage()
	writer, err := store.GetWriter(dir)
	require.NoError(t, err)

	_, err = parse.ParseFeed(dir, writer)
	require.NoError(t, err)

	reader, err := store.GetReader(dir)
	require.NoError(t, err)
	trips, err := reader.Trips()
	require.NoError(t, err)
	require.Len(t, trips, 1)
	require.Equal(t, "R1", trips[0].RouteID)

	routes, err := reader.Routes()
	require.NoError(t, err)
	require.Contains(t, routes, "R1")
}

func TestParseFeedOverflowDay(t *testing.T) {
	dir := testutil.WriteFeed(t, testutil.OverflowDay())

	store := storage.NewMemoryStorage()
	writer, err := store.GetWriter(dir)
	require.NoError(t, err)

	_, err = parse.ParseFeed(dir, writer)
	require.NoError(t, err)

	reader, err := store.GetReader(dir)
	require.NoError(t, err)
	stopTimes, err := reader.StopTimes()
	require.NoError(t, err)
	require.Equal(t, 1510, stopTimes[0].ArrivalMin)
}

func TestParseFeedDropsBlankTimes(t *testing.T) {
	files := testutil.TwoStopLine()
	files["stop_times.txt"] = "trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
		"T1,S1,1,07:10:00,07:10:00\n" +
		"T1,S2,2,,\n"
	dir := testutil.WriteFeed(t, files)

	store := storage.NewMemoryStorage()
	writer, err := store.GetWriter(dir)
	require.NoError(t, err)

	result, err := parse.ParseFeed(dir, writer)
	require.NoError(t, err)
	require.Equal(t, 1, result.DroppedStopTimeRows)

	reader, err := store.GetReader(dir)
	require.NoError(t, err)
	stopTimes, err := reader.StopTimes()
	require.NoError(t, err)
	require.Len(t, stopTimes, 1)
}

package convert_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/transitmodel/gtfs2gmns/convert"
	"github.com/transitmodel/gtfs2gmns/gtfs2gmnserr"
	"github.com/transitmodel/gtfs2gmns/testutil"
)

func TestConvertTwoStopLine(t *testing.T) {
	gtfsDir := testutil.WriteFeed(t, testutil.TwoStopLine())
	outDir := t.TempDir()

	result, err := convert.Convert(gtfsDir, outDir, "0700_0800")
	require.NoError(t, err)
	require.Equal(t, "Test Transit", result.AgencyName)
	require.Equal(t, 4, result.NodeCount) // 2 physical + 2 service
	require.Greater(t, result.LinkCount, 0)

	data, err := os.ReadFile(result.NodeCSVPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "node_id")

	data, err = os.ReadFile(result.LinkCSVPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "link_id")

	data, err = os.ReadFile(result.NodeGeoJSONPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "FeatureCollection")

	data, err = os.ReadFile(result.LinkGeoJSONPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "LineString")
}

func TestConvertEmptyWindow(t *testing.T) {
	// spec.md §8 scenario A: a window that excludes every trip's
	// earliest arrival still succeeds, producing empty output tables.
	gtfsDir := testutil.WriteFeed(t, testutil.TwoStopLine())
	outDir := t.TempDir()

	result, err := convert.Convert(gtfsDir, outDir, "0100_0200")
	require.NoError(t, err)
	require.Equal(t, 0, result.NodeCount)
	require.Equal(t, 0, result.LinkCount)
}

func TestConvertMissingInputFile(t *testing.T) {
	feed := testutil.TwoStopLine()
	delete(feed, "stops.txt")
	gtfsDir := testutil.WriteFeed(t, feed)
	outDir := t.TempDir()

	_, err := convert.Convert(gtfsDir, outDir, "0700_0800")
	require.ErrorIs(t, err, gtfs2gmnserr.ErrMissingInputFile)
}

func TestConvertInvalidInputDir(t *testing.T) {
	_, err := convert.Convert("/no/such/dir", t.TempDir(), "0700_0800")
	require.ErrorIs(t, err, gtfs2gmnserr.ErrInputPath)
}

func TestParsePeriod(t *testing.T) {
	start, end, err := convert.ParsePeriod("0700_0830")
	require.NoError(t, err)
	require.Equal(t, 420, start)
	require.Equal(t, 510, end)

	_, _, err = convert.ParsePeriod("bogus")
	require.Error(t, err)
}

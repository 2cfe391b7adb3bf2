package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvanzyl/shedwatch/internal/engine"
	"github.com/kvanzyl/shedwatch/internal/fixtures"
	"github.com/kvanzyl/shedwatch/internal/provider/memory"
	"github.com/kvanzyl/shedwatch/internal/server"
	"github.com/kvanzyl/shedwatch/internal/stagefeed"
	"github.com/kvanzyl/shedwatch/pkg/types"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// feedRanges converts the reference stage log, seed entry included, into the
// wire shape the public feed publishes.
func feedRanges() []types.StageRange {
	entries := append([]types.StageLogEntry{fixtures.TshwaneSeedEntry()}, fixtures.TshwaneStageLog()...)
	out := make([]types.StageRange, 0, len(entries))
	for _, e := range entries {
		out = append(out, types.StageRange{Start: e.Start, End: e.End, Stage: e.Stage})
	}
	return out
}

func serveFeed(t *testing.T, ranges []types.StageRange) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(ranges))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, h http.Handler, path string, out any) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

func suburbNames(subs []types.Suburb) []string {
	names := make([]string, 0, len(subs))
	for _, s := range subs {
		names = append(names, s.Name)
	}
	return names
}

// ---------------------------------------------------------------------------
// End to end: feed -> reconciler -> store -> engine -> HTTP API
// ---------------------------------------------------------------------------

// TestFeedToAPIPipeline seeds a region with an empty stage log, lets the
// updater ingest the full timeline from a fake feed, and then checks every
// read endpoint against known answers for that timeline.
func TestFeedToAPIPipeline(t *testing.T) {
	store := memory.New()
	fixtures.SeedTshwaneRegion(store)

	feedSrv := serveFeed(t, feedRanges())
	client := stagefeed.NewClient(feedSrv.URL, 5*time.Second)
	current := stagefeed.NewCurrentStage(0)
	updater := stagefeed.NewUpdater(store, client, current, nil, nil, time.Hour)

	ctx := context.Background()
	require.NoError(t, updater.ReconcileOnce(ctx))

	log, err := store.FindStageLogSince(ctx, 0)
	require.NoError(t, err)
	require.Len(t, log, 17)

	eng := engine.New(store, nil)
	srv := server.New(types.ServerConfig{}, eng, store, current)
	h := srv.Handler()

	// The timeline ended years ago, so the published stage is zero.
	var stageBody map[string]int
	require.Equal(t, http.StatusOK, getJSON(t, h, "/api/stage", &stageBody))
	assert.Equal(t, 0, stageBody["stage"])

	var status types.RegionStatus
	code := getJSON(t, h, "/api/municipalities/"+fixtures.MunicipalityID+"/status?stage=2&at=1688237449", &status)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"MUCKLENEUK", "NEWLANDS"}, suburbNames(status.Off))
	assert.Equal(t, []string{"SOSHANGUVE EAST", "MAGALIESKRUIN"}, suburbNames(status.On))
	assert.Equal(t, types.PowerOff, status.Features[1])
	assert.Equal(t, types.PowerOn, status.Features[4])

	var forecast struct {
		TimesOff []types.Interval `json:"timesOff"`
	}
	code = getJSON(t, h, "/api/suburbs/"+fixtures.SuburbMuckleneukID+"/forecast?at=1694660400", &forecast)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []types.Interval{{Start: 1694656800, End: 1694752200}}, forecast.TimesOff)

	var stats types.DowntimeReport
	code = getJSON(t, h, "/api/suburbs/"+fixtures.SuburbMuckleneukID+"/stats?at=1695265200", &stats)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, types.MinuteTally{On: 5490, Off: 4590}, stats.Total)

	// A second reconcile over an identical feed leaves the log untouched.
	before := store.StageLogSnapshot()
	require.NoError(t, updater.ReconcileOnce(ctx))
	assert.Equal(t, before, store.StageLogSnapshot())
}

// TestFeedCorrectionFlowsToForecast revises one stage range at the feed and
// verifies the next reconcile changes what the forecast endpoint reports.
func TestFeedCorrectionFlowsToForecast(t *testing.T) {
	store := memory.New()
	fixtures.SeedTshwaneRegion(store)

	ranges := feedRanges()
	feedSrv := serveFeed(t, ranges)
	client := stagefeed.NewClient(feedSrv.URL, 5*time.Second)
	current := stagefeed.NewCurrentStage(0)
	updater := stagefeed.NewUpdater(store, client, current, nil, nil, time.Hour)

	ctx := context.Background()
	require.NoError(t, updater.ReconcileOnce(ctx))

	eng := engine.New(store, nil)
	srv := server.New(types.ServerConfig{}, eng, store, current)
	h := srv.Handler()

	var forecast struct {
		TimesOff []types.Interval `json:"timesOff"`
	}
	path := "/api/suburbs/" + fixtures.SuburbMuckleneukID + "/forecast?at=1694660400"
	require.Equal(t, http.StatusOK, getJSON(t, h, path, &forecast))
	require.NotEmpty(t, forecast.TimesOff)

	// Stand the seed range down to stage zero and reconcile again.
	ranges[0].Stage = 0
	require.NoError(t, updater.ReconcileOnce(ctx))

	var revised struct {
		TimesOff []types.Interval `json:"timesOff"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, h, path, &revised))
	assert.NotEqual(t, forecast.TimesOff, revised.TimesOff)
}

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvanzyl/shedwatch/internal/engine"
	"github.com/kvanzyl/shedwatch/internal/fixtures"
	"github.com/kvanzyl/shedwatch/internal/provider/memory"
	"github.com/kvanzyl/shedwatch/internal/stagefeed"
	"github.com/kvanzyl/shedwatch/pkg/types"
)

func newTestServer(t *testing.T, cfg types.ServerConfig) (*Server, *memory.Store, *stagefeed.CurrentStage) {
	t.Helper()
	store := fixtures.NewTshwaneStore()
	store.AddStageLog(fixtures.TshwaneSeedEntry())
	current := stagefeed.NewCurrentStage(0)
	eng := engine.New(store, nil)
	return New(cfg, eng, store, current), store, current
}

func doGet(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t, types.ServerConfig{})
	rec := doGet(t, s, "/api/health")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestStageEndpoint(t *testing.T) {
	s, _, current := newTestServer(t, types.ServerConfig{})
	current.Set(4)

	rec := doGet(t, s, "/api/stage")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 4, body["stage"])
}

func TestMunicipalityStatus(t *testing.T) {
	s, _, _ := newTestServer(t, types.ServerConfig{})

	path := fmt.Sprintf("/api/municipalities/%s/status?stage=2&at=1688237449", fixtures.MunicipalityID)
	rec := doGet(t, s, path)
	require.Equal(t, http.StatusOK, rec.Code)

	var status types.RegionStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, 2, status.Stage)
	require.Len(t, status.Off, 2)
	assert.Equal(t, "MUCKLENEUK", status.Off[0].Name)
	assert.Equal(t, "NEWLANDS", status.Off[1].Name)
	assert.Equal(t, types.PowerUndefined, status.Features[3])
}

func TestMunicipalityStatus_UsesPublishedStage(t *testing.T) {
	s, _, current := newTestServer(t, types.ServerConfig{})
	current.Set(0)

	path := fmt.Sprintf("/api/municipalities/%s/status?at=1688237449", fixtures.MunicipalityID)
	rec := doGet(t, s, path)
	require.Equal(t, http.StatusOK, rec.Code)

	var status types.RegionStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Empty(t, status.Off)
}

func TestMunicipalityStatus_NotFound(t *testing.T) {
	s, _, _ := newTestServer(t, types.ServerConfig{})
	rec := doGet(t, s, "/api/municipalities/missing/status?stage=2")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMunicipalityStatus_BadParams(t *testing.T) {
	s, _, _ := newTestServer(t, types.ServerConfig{})

	path := fmt.Sprintf("/api/municipalities/%s/status", fixtures.MunicipalityID)
	assert.Equal(t, http.StatusBadRequest, doGet(t, s, path+"?at=later").Code)
	assert.Equal(t, http.StatusBadRequest, doGet(t, s, path+"?stage=high").Code)
}

func TestSuburbForecast(t *testing.T) {
	s, _, _ := newTestServer(t, types.ServerConfig{})

	path := fmt.Sprintf("/api/suburbs/%s/forecast?at=1694660400", fixtures.SuburbMuckleneukID)
	rec := doGet(t, s, path)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		TimesOff []types.Interval `json:"timesOff"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []types.Interval{{Start: 1694656800, End: 1694752200}}, body.TimesOff)
}

func TestSuburbForecast_UngroupedSuburb(t *testing.T) {
	s, _, _ := newTestServer(t, types.ServerConfig{})

	path := fmt.Sprintf("/api/suburbs/%s/forecast", fixtures.SuburbMagalieskruinID)
	rec := doGet(t, s, path)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestFeatureForecast(t *testing.T) {
	s, _, _ := newTestServer(t, types.ServerConfig{})

	// Feature 1 belongs to MUCKLENEUK.
	rec := doGet(t, s, "/api/features/1/forecast?at=1694660400")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		TimesOff []types.Interval `json:"timesOff"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []types.Interval{{Start: 1694656800, End: 1694752200}}, body.TimesOff)
}

func TestFeatureForecast_UnknownFeature(t *testing.T) {
	s, _, _ := newTestServer(t, types.ServerConfig{})
	rec := doGet(t, s, "/api/features/99/forecast")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSuburbStats(t *testing.T) {
	s, _, _ := newTestServer(t, types.ServerConfig{})

	path := fmt.Sprintf("/api/suburbs/%s/stats?at=1695265200", fixtures.SuburbMuckleneukID)
	rec := doGet(t, s, path)
	require.Equal(t, http.StatusOK, rec.Code)

	var report types.DowntimeReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, types.MinuteTally{On: 5490, Off: 4590}, report.Total)
	assert.Len(t, report.PerWeekday, 7)
}

func TestAPIKeyMiddleware(t *testing.T) {
	s, _, _ := newTestServer(t, types.ServerConfig{APIKey: "secret"})

	path := fmt.Sprintf("/api/municipalities/%s/status?stage=1", fixtures.MunicipalityID)
	rec := doGet(t, s, path)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("X-API-Key", "secret")
	authed := httptest.NewRecorder()
	s.Handler().ServeHTTP(authed, req)
	assert.Equal(t, http.StatusOK, authed.Code)

	// Health stays open.
	assert.Equal(t, http.StatusOK, doGet(t, s, "/api/health").Code)
}

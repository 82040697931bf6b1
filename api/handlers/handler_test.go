package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jusunglee/lirr-go/internal/metrics"
	"github.com/jusunglee/lirr-go/internal/models"
	"github.com/jusunglee/lirr-go/pkg/mta"
)

// MockClient implements mta.Client for testing
type MockClient struct {
	board     models.Board
	err       error
	gotStops  []string
	summaries []models.StopSummary
}

func (m *MockClient) GetDepartures(ctx context.Context, stopIDs []string) (models.Board, error) {
	m.gotStops = stopIDs
	return m.board, m.err
}

func (m *MockClient) GetStopSummaries(ctx context.Context) ([]models.StopSummary, error) {
	return m.summaries, m.err
}

func (m *MockClient) GetStations() ([]models.Station, error) {
	return []models.Station{{StopID: "102", StopName: "Jamaica"}, {StopID: "237", StopName: "Penn Station"}}, nil
}

func (m *MockClient) GetBranchColors() map[string]models.BranchColors {
	return map[string]models.BranchColors{"Babylon": {Background: "#00985F", Text: "#FFFFFF"}}
}

func (m *MockClient) GetHealth() mta.Health {
	return mta.Health{Status: "ok", Mode: "serverless", StationsLoaded: 2, TripsLoaded: 5}
}

func newRouter(t *testing.T, client mta.Client, m *metrics.Collector, publicDir string) *mux.Router {
	t.Helper()
	r := mux.NewRouter()
	NewHandler(client, slog.New(slog.NewTextHandler(io.Discard, nil)), m, publicDir).RegisterRoutes(r)
	return r
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestDepartures(t *testing.T) {
	client := &MockClient{board: models.Board{
		Departures: []models.Departure{
			{StopID: "237", StationName: "Penn Station", Route: "Babylon", Time: 1700000300000, Destination: "Babylon"},
		},
		ComputedAt: time.UnixMilli(1700000000000),
	}}
	r := newRouter(t, client, nil, "")

	rec := get(t, r, "/api/departures?stops=237,%20102,,")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, []string{"237", "102"}, client.gotStops)

	var body struct {
		UpdatedAt  int64              `json:"updatedAt"`
		Departures []models.Departure `json:"departures"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(1700000000000), body.UpdatedAt)
	require.Len(t, body.Departures, 1)
	assert.Equal(t, "Penn Station", body.Departures[0].StationName)
}

func TestDeparturesNoStops(t *testing.T) {
	client := &MockClient{board: models.Board{ComputedAt: time.Now()}}
	r := newRouter(t, client, nil, "")

	rec := get(t, r, "/api/departures")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, client.gotStops)
	assert.Contains(t, rec.Body.String(), `"departures":[]`)
}

func TestDeparturesError(t *testing.T) {
	r := newRouter(t, &MockClient{err: errors.New("boom")}, nil, "")

	rec := get(t, r, "/api/departures?stops=237")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Failed to fetch departures", body["error"])
	assert.Equal(t, []any{}, body["departures"])
	assert.Contains(t, body, "updatedAt")
}

func TestStaticEndpoints(t *testing.T) {
	r := newRouter(t, &MockClient{}, nil, "")

	tests := []struct {
		path string
		want string
	}{
		{"/api/stations", `{"stations":[{"stopId":"102","stopName":"Jamaica"},{"stopId":"237","stopName":"Penn Station"}]}`},
		{"/api/branch-colors", `{"Babylon":{"bg":"#00985F","text":"#FFFFFF"}}`},
		{"/health", `{"status":"ok","mode":"serverless","stationsLoaded":2,"tripsLoaded":5}`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, r, tt.path)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestDebugStops(t *testing.T) {
	client := &MockClient{summaries: []models.StopSummary{
		{StopID: "102", StationName: "Jamaica", Branches: []string{"Babylon"}, Count: 3},
	}}
	r := newRouter(t, client, nil, "")

	rec := get(t, r, "/api/debug/stops")
	require.Equal(t, http.StatusOK, rec.Code)

	var body DebugStopsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, client.summaries, body.Stops)

	rec = get(t, newRouter(t, &MockClient{}, nil, ""), "/api/debug/stops")
	assert.JSONEq(t, `{"stops":[],"total":0}`, rec.Body.String())
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>board</h1>"), 0o644))
	r := newRouter(t, &MockClient{}, nil, dir)

	rec := get(t, r, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>board</h1>")

	rec = get(t, r, "/health")
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestInstrumentRecordsRoute(t *testing.T) {
	m := metrics.NewCollector()
	r := newRouter(t, &MockClient{err: errors.New("boom")}, m, "")

	get(t, r, "/health")
	get(t, r, "/health")
	get(t, r, "/api/departures")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/health", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/api/departures", "500")))
}

func TestParseStops(t *testing.T) {
	assert.Nil(t, ParseStops(""))
	assert.Nil(t, ParseStops(" , ,"))
	assert.Equal(t, []string{"a", "b"}, ParseStops("a, b"))
}

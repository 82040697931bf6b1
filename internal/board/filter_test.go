package board

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jusunglee/lirr-go/internal/models"
)

func dep(stopID string, offset time.Duration) models.Departure {
	return models.Departure{StopID: stopID, Time: testNow.Add(offset).UnixMilli()}
}

func TestFilterWindowBounds(t *testing.T) {
	all := []models.Departure{
		dep("early", -time.Millisecond),
		dep("now", 0),
		dep("edge", Window),
		dep("late", Window+time.Millisecond),
		dep("mid", 45*time.Minute),
	}

	result := Filter(all, nil, testNow)
	require.Len(t, result, 3)
	assert.Equal(t, "now", result[0].StopID)
	assert.Equal(t, "mid", result[1].StopID)
	assert.Equal(t, "edge", result[2].StopID)
}

func TestFilterCapKeepsSoonest(t *testing.T) {
	var all []models.Departure
	// Latest first so an unsorted cap would keep the wrong ones
	for i := 80; i >= 1; i-- {
		all = append(all, dep(fmt.Sprintf("S%d", i), time.Duration(i)*time.Minute))
	}

	result := Filter(all, nil, testNow)
	require.Len(t, result, MaxDepartures)
	assert.Equal(t, "S1", result[0].StopID)
	assert.Equal(t, "S50", result[MaxDepartures-1].StopID)
}

func TestFilterStops(t *testing.T) {
	all := []models.Departure{
		dep("237", time.Minute),
		dep("102", 2*time.Minute),
		dep("1", 3*time.Minute),
	}

	tests := []struct {
		name     string
		stops    []string
		expected []string
	}{
		{"no filter", nil, []string{"237", "102", "1"}},
		{"single", []string{"237"}, []string{"237"}},
		{"multiple", []string{"1", "237"}, []string{"237", "1"}},
		{"blank ignored", []string{""}, []string{"237", "102", "1"}},
		{"no match", []string{"999"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Filter(all, StopSet(tt.stops), testNow)
			ids := make([]string, 0, len(result))
			for _, d := range result {
				ids = append(ids, d.StopID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestFilterTies(t *testing.T) {
	all := []models.Departure{
		dep("later", 10*time.Minute),
		dep("tie-a", 5*time.Minute),
		dep("tie-b", 5*time.Minute),
	}

	result := Filter(all, nil, testNow)
	require.Len(t, result, 3)
	assert.ElementsMatch(t, []string{"tie-a", "tie-b"}, []string{result[0].StopID, result[1].StopID})
	assert.Equal(t, "later", result[2].StopID)
}

func TestFilterDoesNotModifyInput(t *testing.T) {
	all := []models.Departure{
		dep("b", 2*time.Minute),
		dep("a", time.Minute),
	}

	Filter(all, nil, testNow)
	assert.Equal(t, "b", all[0].StopID)
}

func TestExtractDepartures(t *testing.T) {
	e := newTestEngine()
	trip := models.TripUpdate{
		StopTimeUpdates: []models.StopTimeUpdate{
			{StopID: "", StopSequence: 1, Departure: sec(time.Minute)},
			{StopID: "A", StopSequence: 2, Departure: sec(2 * time.Minute)},
			{StopID: "unmapped", StopSequence: 3, Departure: sec(3 * time.Minute)},
			{StopID: "B", StopSequence: 4},
			{StopID: "A", StopSequence: 5, Departure: sec(4 * time.Minute)},
			{StopID: "C", StopSequence: 6, Departure: sec(5 * time.Minute)},
		},
	}

	result := e.ExtractDepartures(trip, "Montauk", "Somewhere", "C")
	require.Len(t, result, 3)

	assert.Equal(t, "Alpha", result[0].StationName)
	assert.Equal(t, "unmapped", result[1].StationName)
	// Repeated stops pass through unchanged
	assert.Equal(t, "A", result[2].StopID)
	for _, d := range result {
		assert.Equal(t, "Montauk", d.Route)
		assert.Equal(t, "Somewhere", d.Destination)
	}
}

func TestExtractDeparturesLargeEpoch(t *testing.T) {
	e := newTestEngine()
	// Beyond 2^31 seconds the millisecond value must not truncate
	big := int64(4102444800)
	trip := models.TripUpdate{
		StopTimeUpdates: []models.StopTimeUpdate{
			{StopID: "A", StopSequence: 1, Departure: &big},
		},
	}

	result := e.ExtractDepartures(trip, "Babylon", "X", "")
	require.Len(t, result, 1)
	assert.Equal(t, int64(4102444800000), result[0].Time)
}

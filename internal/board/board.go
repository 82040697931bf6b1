// Package board derives a departure board from a realtime feed snapshot.
//
// The engine performs no I/O and keeps no state between calls. It only reads
// the station and headsign lookups and the branch registry, all of which are
// immutable once built, so an Engine is safe for concurrent use.
package board

import (
	"sort"
	"time"

	"github.com/jusunglee/lirr-go/internal/branch"
	"github.com/jusunglee/lirr-go/internal/models"
)

// Lookup resolves static schedule names. A miss is a normal outcome.
type Lookup interface {
	StationName(stopID string) (string, bool)
	Headsign(tripID string) (string, bool)
}

// Engine turns trip updates into departures
type Engine struct {
	lookup   Lookup
	registry *branch.Registry
}

// New creates an engine over the given lookups and branch registry
func New(lookup Lookup, registry *branch.Registry) *Engine {
	return &Engine{lookup: lookup, registry: registry}
}

// Derive returns every candidate departure in the snapshot, unfiltered and
// unsorted. Trips on routes outside the registry contribute nothing.
func (e *Engine) Derive(snapshot []models.TripUpdate) []models.Departure {
	var all []models.Departure
	for _, trip := range snapshot {
		b, ok := e.registry.Lookup(trip.RouteID)
		if !ok {
			continue
		}
		destination, finalStopID := e.ResolveDestination(trip)
		all = append(all, e.ExtractDepartures(trip, b.Name, destination, finalStopID)...)
	}
	return all
}

// Compute builds the departure board for the requested stops as of now.
// An empty stop set means all stops; an empty snapshot yields an empty board.
func (e *Engine) Compute(snapshot []models.TripUpdate, stopIDs map[string]struct{}, now time.Time) models.Board {
	return models.Board{
		Departures: Filter(e.Derive(snapshot), stopIDs, now),
		ComputedAt: now,
	}
}

// SummarizeStops groups departures by stop, listing the branches serving
// each stop. Results are sorted by station name.
func (e *Engine) SummarizeStops(departures []models.Departure) []models.StopSummary {
	type acc struct {
		count    int
		branches map[string]struct{}
	}
	byStop := make(map[string]*acc)
	for _, d := range departures {
		a, ok := byStop[d.StopID]
		if !ok {
			a = &acc{branches: make(map[string]struct{})}
			byStop[d.StopID] = a
		}
		a.count++
		a.branches[d.Route] = struct{}{}
	}

	result := make([]models.StopSummary, 0, len(byStop))
	for stopID, a := range byStop {
		branches := make([]string, 0, len(a.branches))
		for name := range a.branches {
			branches = append(branches, name)
		}
		sort.Strings(branches)
		result = append(result, models.StopSummary{
			StopID:      stopID,
			StationName: e.stationName(stopID),
			Branches:    branches,
			Count:       a.count,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].StationName != result[j].StationName {
			return result[i].StationName < result[j].StationName
		}
		return result[i].StopID < result[j].StopID
	})
	return result
}

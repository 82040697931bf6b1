package board

import "github.com/jusunglee/lirr-go/internal/models"

// UnknownDestination is shown when no destination strategy succeeds
const UnknownDestination = "Unknown"

// destinationStrategy returns a destination for the trip, or "" to defer
// to the next strategy.
type destinationStrategy struct {
	name    string
	resolve func(e *Engine, trip models.TripUpdate, finalStopID string) string
}

// destinationStrategies are tried in order; the first non-empty result wins.
var destinationStrategies = []destinationStrategy{
	{"final-stop", func(e *Engine, _ models.TripUpdate, finalStopID string) string {
		if finalStopID == "" {
			return ""
		}
		name, _ := e.lookup.StationName(finalStopID)
		return name
	}},
	{"static-headsign", func(e *Engine, trip models.TripUpdate, _ string) string {
		if trip.TripID == "" {
			return ""
		}
		h, _ := e.lookup.Headsign(trip.TripID)
		return h
	}},
	{"feed-headsign", func(_ *Engine, trip models.TripUpdate, _ string) string {
		return trip.ScheduledHeadsign
	}},
}

// FinalStop returns the stop id with the highest stop sequence.
// Among equal sequences the earliest entry in feed order wins.
func FinalStop(updates []models.StopTimeUpdate) string {
	if len(updates) == 0 {
		return ""
	}
	final := updates[0]
	for _, u := range updates[1:] {
		if u.StopSequence > final.StopSequence {
			final = u
		}
	}
	return final.StopID
}

// ResolveDestination determines the rider-facing destination of a trip and
// the stop id of its terminal stop.
func (e *Engine) ResolveDestination(trip models.TripUpdate) (destination, finalStopID string) {
	finalStopID = FinalStop(trip.StopTimeUpdates)
	for _, s := range destinationStrategies {
		if d := s.resolve(e, trip, finalStopID); d != "" {
			return d, finalStopID
		}
	}
	return UnknownDestination, finalStopID
}

package models

import (
	"encoding/json"
	"time"
)

// StopTimeUpdate is one stop's prediction within a trip update
type StopTimeUpdate struct {
	StopID       string
	StopSequence uint32
	// Departure is the predicted departure in epoch seconds, nil when the
	// feed carries no departure for this stop.
	Departure *int64
}

// TripUpdate is a single trip run as decoded from the realtime feed.
// Empty strings mean the field was absent.
type TripUpdate struct {
	RouteID           string
	TripID            string
	ScheduledHeadsign string
	StopTimeUpdates   []StopTimeUpdate
}

// Departure is a rider-facing boarding opportunity
type Departure struct {
	StopID      string `json:"stopId"`
	StationName string `json:"stationName"`
	Route       string `json:"route"`
	Time        int64  `json:"time"` // epoch milliseconds
	Destination string `json:"destination"`
}

// Board is the computed departure board for one request
type Board struct {
	Departures []Departure
	ComputedAt time.Time
}

type boardJSON struct {
	UpdatedAt  int64       `json:"updatedAt"`
	Departures []Departure `json:"departures"`
}

// MarshalJSON renders the board with an epoch-millisecond timestamp and
// never emits a null departures list.
func (b Board) MarshalJSON() ([]byte, error) {
	deps := b.Departures
	if deps == nil {
		deps = []Departure{}
	}
	return json.Marshal(boardJSON{
		UpdatedAt:  b.ComputedAt.UnixMilli(),
		Departures: deps,
	})
}

// Station pairs a stop id with its display name
type Station struct {
	StopID   string `json:"stopId"`
	StopName string `json:"stopName"`
}

// BranchColors is the display color pair for a branch
type BranchColors struct {
	Background string `json:"bg"`
	Text       string `json:"text"`
}

// StopSummary describes which branches currently depart from a stop
type StopSummary struct {
	StopID      string   `json:"stopId"`
	StationName string   `json:"stationName"`
	Branches    []string `json:"branches"`
	Count       int      `json:"count"`
}

package mta

import (
	"context"

	"github.com/jusunglee/lirr-go/internal/models"
)

// Client defines the interface for accessing the LIRR departure board.
// Abstracts different data sources (local vs remote) behind common interface
type Client interface {
	// GetDepartures returns the board for the given stops; no stops means all
	GetDepartures(ctx context.Context, stopIDs []string) (models.Board, error)
	GetStopSummaries(ctx context.Context) ([]models.StopSummary, error)

	GetStations() ([]models.Station, error)
	GetBranchColors() map[string]models.BranchColors

	GetHealth() Health
}

// Health reports how much static data the client has loaded
type Health struct {
	Status         string `json:"status"`
	Mode           string `json:"mode"`
	StationsLoaded int    `json:"stationsLoaded"`
	TripsLoaded    int    `json:"tripsLoaded"`
}

package mta

import (
	"context"
	"log/slog"
	"time"

	"github.com/jusunglee/lirr-go/internal/board"
	"github.com/jusunglee/lirr-go/internal/branch"
	"github.com/jusunglee/lirr-go/internal/feed"
	"github.com/jusunglee/lirr-go/internal/metrics"
	"github.com/jusunglee/lirr-go/internal/models"
	"github.com/jusunglee/lirr-go/internal/store"
)

// LocalClient implements the Client interface for local usage.
// Every board request fetches a fresh feed snapshot; nothing is cached
// between requests.
type LocalClient struct {
	store    *store.Store
	registry *branch.Registry
	engine   *board.Engine
	fetcher  *feed.Fetcher
	metrics  *metrics.Collector
	logger   *slog.Logger
	now      func() time.Time
}

// NewLocal creates a new local client, loading the static lookup tables.
// m may be nil to disable metrics.
func NewLocal(config Config, logger *slog.Logger, m *metrics.Collector) (*LocalClient, error) {
	s, err := store.Load(config.Data.StopsFile, config.Data.TripsFile, logger)
	if err != nil {
		return nil, err
	}

	registry := branch.LIRR()
	return &LocalClient{
		store:    s,
		registry: registry,
		engine:   board.New(s, registry),
		fetcher:  feed.NewFetcher(config.Feed.URL, config.Feed.APIKey, config.Feed.Timeout, logger, m),
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}, nil
}

func (c *LocalClient) GetDepartures(ctx context.Context, stopIDs []string) (models.Board, error) {
	snapshot := c.fetcher.Snapshot(ctx)
	b := c.engine.Compute(snapshot, board.StopSet(stopIDs), c.now())
	c.metrics.ObserveBoard(len(b.Departures))
	c.logger.Debug("computed board", "trip_updates", len(snapshot), "departures", len(b.Departures), "stops", stopIDs)
	return b, nil
}

func (c *LocalClient) GetStopSummaries(ctx context.Context) ([]models.StopSummary, error) {
	snapshot := c.fetcher.Snapshot(ctx)
	return c.engine.SummarizeStops(c.engine.Derive(snapshot)), nil
}

func (c *LocalClient) GetStations() ([]models.Station, error) {
	return c.store.Stations(), nil
}

func (c *LocalClient) GetBranchColors() map[string]models.BranchColors {
	return c.registry.Colors()
}

func (c *LocalClient) GetHealth() Health {
	return Health{
		Status:         "ok",
		Mode:           "serverless",
		StationsLoaded: c.store.StationCount(),
		TripsLoaded:    c.store.TripCount(),
	}
}

// GetLastStaticUpdate returns when the lookup tables were loaded
func (c *LocalClient) GetLastStaticUpdate() time.Time {
	return c.store.GetLastUpdate()
}

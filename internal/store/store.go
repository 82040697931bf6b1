package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jusunglee/lirr-go/internal/models"
)

// Store holds the static station-name and trip-headsign tables.
// It is built once at startup and only read afterwards, so it needs no locking.
type Store struct {
	stations   map[string]string
	headsigns  map[string]string
	lastUpdate time.Time
}

// NewStore creates a store from copies of the given tables
func NewStore(stations, headsigns map[string]string) *Store {
	return &Store{
		stations:   copyMap(stations),
		headsigns:  copyMap(headsigns),
		lastUpdate: time.Now(),
	}
}

// Load reads both lookup tables from their JSON files concurrently.
// A missing file is not fatal: the table stays empty and a warning is logged.
func Load(stopsFile, tripsFile string, logger *slog.Logger) (*Store, error) {
	var stations, headsigns map[string]string

	var g errgroup.Group
	g.Go(func() error {
		var err error
		stations, err = loadTable(stopsFile, "stations", logger)
		return err
	})
	g.Go(func() error {
		var err error
		headsigns, err = loadTable(tripsFile, "trip headsigns", logger)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := &Store{stations: stations, headsigns: headsigns, lastUpdate: time.Now()}
	if s.stations == nil {
		s.stations = map[string]string{}
	}
	if s.headsigns == nil {
		s.headsigns = map[string]string{}
	}
	return s, nil
}

func loadTable(path, what string, logger *slog.Logger) (map[string]string, error) {
	table, err := ReadTable(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("lookup table not found, run build-lookups", "table", what, "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	logger.Info("loaded lookup table", "table", what, "count", len(table))
	return table, nil
}

// ReadTable decodes a flat {"id": "name"} JSON object
func ReadTable(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var table map[string]string
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return table, nil
}

// StationName returns the display name for a stop id
func (s *Store) StationName(stopID string) (string, bool) {
	name, ok := s.stations[stopID]
	return name, ok && name != ""
}

// Headsign returns the scheduled headsign for a trip id
func (s *Store) Headsign(tripID string) (string, bool) {
	h, ok := s.headsigns[tripID]
	return h, ok && h != ""
}

// Stations returns every known station sorted by name in English
// collation order, so case and accents do not split the listing.
func (s *Store) Stations() []models.Station {
	result := make([]models.Station, 0, len(s.stations))
	for id, name := range s.stations {
		result = append(result, models.Station{StopID: id, StopName: name})
	}

	// A Collator is not safe for concurrent use.
	c := collate.New(language.English)
	sort.Slice(result, func(i, j int) bool {
		if n := c.CompareString(result[i].StopName, result[j].StopName); n != 0 {
			return n < 0
		}
		return result[i].StopID < result[j].StopID
	})
	return result
}

// StationCount returns the number of loaded stations
func (s *Store) StationCount() int {
	return len(s.stations)
}

// TripCount returns the number of loaded trip headsigns
func (s *Store) TripCount() int {
	return len(s.headsigns)
}

// GetLastUpdate returns when the tables were loaded
func (s *Store) GetLastUpdate() time.Time {
	return s.lastUpdate
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Package gtfs builds the station-name and trip-headsign lookup tables from
// a static GTFS schedule, either an unpacked directory or a zip archive.
package gtfs

import (
	"archive/zip"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Lookups are the two tables the departure board needs at runtime
type Lookups struct {
	Stops map[string]string // stop_id -> stop_name
	Trips map[string]string // trip_id -> trip_headsign
}

// Extract reads stops.txt and trips.txt from a GTFS directory or zip file
func Extract(path string) (*Lookups, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	open := openFromDir(path)
	if !info.IsDir() {
		zr, err := zip.OpenReader(path)
		if err != nil {
			return nil, fmt.Errorf("open zip: %w", err)
		}
		defer zr.Close()
		open = openFromZip(&zr.Reader)
	}

	stops, err := readFile(open, "stops.txt", "stop_id", "stop_name")
	if err != nil {
		return nil, err
	}
	trips, err := readFile(open, "trips.txt", "trip_id", "trip_headsign")
	if err != nil {
		return nil, err
	}
	return &Lookups{Stops: stops, Trips: trips}, nil
}

type opener func(name string) (io.ReadCloser, error)

func openFromDir(dir string) opener {
	return func(name string) (io.ReadCloser, error) {
		return os.Open(filepath.Join(dir, name))
	}
}

func openFromZip(zr *zip.Reader) opener {
	return func(name string) (io.ReadCloser, error) {
		for _, f := range zr.File {
			if strings.EqualFold(filepath.Base(f.Name), name) {
				return f.Open()
			}
		}
		return nil, fmt.Errorf("%s: %w", name, os.ErrNotExist)
	}
}

func readFile(open opener, name, keyCol, valueCol string) (map[string]string, error) {
	rc, err := open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	table, err := ReadTable(rc, keyCol, valueCol)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return table, nil
}

// ReadTable maps keyCol to valueCol for every CSV row where both are non-empty
func ReadTable(r io.Reader, keyCol, valueCol string) (map[string]string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\xef\xbb\xbf")
	}

	keyIdx, valueIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case keyCol:
			keyIdx = i
		case valueCol:
			valueIdx = i
		}
	}
	if keyIdx < 0 || valueIdx < 0 {
		return nil, fmt.Errorf("missing %s or %s column", keyCol, valueCol)
	}

	table := make(map[string]string)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if keyIdx >= len(record) || valueIdx >= len(record) {
			continue
		}
		key, value := record[keyIdx], record[valueIdx]
		if key != "" && value != "" {
			table[key] = value
		}
	}
	return table, nil
}

// WriteTable writes a lookup table as indented JSON, creating parent dirs
func WriteTable(path string, table map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Command build-lookups turns a static LIRR GTFS schedule into the JSON
// lookup tables the server loads at startup.
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jusunglee/lirr-go/internal/gtfs"
)

func main() {
	var (
		gtfsPath = flag.String("gtfs", "data/gtfs", "GTFS directory or zip file")
		outDir   = flag.String("out", "data", "Output directory")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	lookups, err := gtfs.Extract(*gtfsPath)
	if err != nil {
		logger.Error("Failed to read GTFS", "path", *gtfsPath, "error", err)
		os.Exit(1)
	}

	outputs := []struct {
		name  string
		table map[string]string
	}{
		{"lirr-stops.json", lookups.Stops},
		{"lirr-trips.json", lookups.Trips},
	}
	for _, o := range outputs {
		path := filepath.Join(*outDir, o.name)
		if err := gtfs.WriteTable(path, o.table); err != nil {
			logger.Error("Failed to write table", "path", path, "error", err)
			os.Exit(1)
		}
		logger.Info("Wrote table", "path", path, "entries", len(o.table))
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jusunglee/lirr-go/api/handlers"
	"github.com/jusunglee/lirr-go/pkg/mta"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config file")
		apiKey     = flag.String("api-key", "", "MTA API key (overrides config)")
		stops      = flag.String("stops", "", "Comma-separated stop ids (empty for all)")
		limit      = flag.Int("n", 10, "Number of departures to print")
		debugStops = flag.Bool("debug-stops", false, "List the stops present in the current feed")
	)
	flag.Parse()

	config, err := mta.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if *apiKey != "" {
		config.Feed.APIKey = *apiKey
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.Log.SlogLevel()}))

	client, err := mta.NewLocal(config, logger, nil)
	if err != nil {
		slog.Error("Failed to create LIRR client", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Feed.Timeout+5*time.Second)
	defer cancel()

	if *debugStops {
		summaries, err := client.GetStopSummaries(ctx)
		if err != nil {
			slog.Error("Failed to list stops", "error", err)
			os.Exit(1)
		}
		fmt.Printf("%d stops in feed:\n", len(summaries))
		for _, s := range summaries {
			fmt.Printf("- %s (%s) %d departures %v\n", s.StationName, s.StopID, s.Count, s.Branches)
		}
		return
	}

	board, err := client.GetDepartures(ctx, handlers.ParseStops(*stops))
	if err != nil {
		slog.Error("Failed to get departures", "error", err)
		os.Exit(1)
	}

	if len(board.Departures) == 0 {
		fmt.Println("No departures in the next 90 minutes.")
	}
	for _, d := range board.Departures[:min(*limit, len(board.Departures))] {
		at := time.UnixMilli(d.Time)
		fmt.Printf("%s  %-20s %-16s to %s\n", at.Format("3:04 PM"), d.StationName, d.Route, d.Destination)
	}

	fmt.Printf("\nBoard computed at %s\n", board.ComputedAt.Format("3:04 PM"))
	if staticUpdate := client.GetLastStaticUpdate(); !staticUpdate.IsZero() {
		fmt.Printf("Lookup tables loaded at %s\n", staticUpdate.Format("3:04 PM"))
	}
}

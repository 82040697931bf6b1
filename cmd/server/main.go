package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/jusunglee/lirr-go/api/handlers"
	"github.com/jusunglee/lirr-go/internal/metrics"
	"github.com/jusunglee/lirr-go/pkg/mta"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config file")
		port       = flag.Int("port", 0, "Server port (overrides config)")
		apiKey     = flag.String("api-key", "", "MTA API key (overrides config)")
	)
	flag.Parse()

	config, err := mta.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if *port != 0 {
		config.Server.Port = *port
	}
	if *apiKey != "" {
		config.Feed.APIKey = *apiKey
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: config.Log.SlogLevel()}))
	slog.SetDefault(logger)

	if err := run(config, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

func run(config mta.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector()

	client, err := mta.NewLocal(config, logger, collector)
	if err != nil {
		return err
	}
	logger.Info("Loaded lookup tables",
		"stations", client.GetHealth().StationsLoaded,
		"trips", client.GetHealth().TripsLoaded,
	)
	if config.Feed.APIKey == "" {
		logger.Info("No MTA API key configured, requesting feed without one")
	}

	r := mux.NewRouter()
	r.Use(loggingMiddleware(logger))
	r.Use(corsMiddleware)
	handlers.NewHandler(client, logger, collector, config.Server.PublicDir).RegisterRoutes(r)

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(config.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: config.Feed.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting", "port", config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if config.Metrics.Addr != "" {
		g.Go(func() error {
			return collector.Serve(ctx, config.Metrics.Addr, logger)
		})
	}

	return g.Wait()
}

func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Info("request", "method", r.Method, "uri", r.RequestURI, "took", time.Since(start))
		})
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

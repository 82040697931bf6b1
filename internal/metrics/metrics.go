package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service's Prometheus metrics. A nil *Collector is a
// valid no-op, so library users and tests can skip metrics entirely.
type Collector struct {
	reg *prometheus.Registry

	FeedFetches       *prometheus.CounterVec // result label: ok|error
	FeedFetchDuration prometheus.Histogram
	FeedTripUpdates   prometheus.Gauge

	DeparturesReturned prometheus.Histogram

	HTTPRequests        *prometheus.CounterVec // route, code
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewCollector creates a collector on its own registry
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lirr_feed_fetches_total",
			Help: "Realtime feed fetches by result.",
		}, []string{"result"}),
		FeedFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lirr_feed_fetch_duration_seconds",
			Help:    "Time to fetch and decode the realtime feed.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		FeedTripUpdates: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lirr_feed_trip_updates",
			Help: "Trip updates in the most recent snapshot.",
		}),
		DeparturesReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lirr_departures_returned",
			Help:    "Departures returned per board request.",
			Buckets: prometheus.LinearBuckets(0, 5, 11),
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lirr_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lirr_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		c.FeedFetches, c.FeedFetchDuration, c.FeedTripUpdates,
		c.DeparturesReturned,
		c.HTTPRequests, c.HTTPRequestDuration,
	)

	return c
}

// ObserveFetch records the outcome of one feed fetch
func (c *Collector) ObserveFetch(d time.Duration, tripUpdates int, err error) {
	if c == nil {
		return
	}
	c.FeedFetchDuration.Observe(d.Seconds())
	if err != nil {
		c.FeedFetches.WithLabelValues("error").Inc()
		return
	}
	c.FeedFetches.WithLabelValues("ok").Inc()
	c.FeedTripUpdates.Set(float64(tripUpdates))
}

// ObserveBoard records the size of a returned board
func (c *Collector) ObserveBoard(departures int) {
	if c == nil {
		return
	}
	c.DeparturesReturned.Observe(float64(departures))
}

// ObserveRequest records one HTTP request
func (c *Collector) ObserveRequest(route string, code int, d time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	c.HTTPRequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Handler exposes the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// Serve runs a /metrics listener on addr until ctx is cancelled
func (c *Collector) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

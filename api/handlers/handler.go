package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/jusunglee/lirr-go/internal/metrics"
	"github.com/jusunglee/lirr-go/internal/models"
	"github.com/jusunglee/lirr-go/pkg/mta"
)

// Handler handles HTTP requests
type Handler struct {
	client    mta.Client
	logger    *slog.Logger
	metrics   *metrics.Collector
	publicDir string
}

// NewHandler creates a new HTTP handler. m may be nil and publicDir may be
// empty to disable static file serving.
func NewHandler(client mta.Client, logger *slog.Logger, m *metrics.Collector, publicDir string) *Handler {
	return &Handler{client: client, logger: logger, metrics: m, publicDir: publicDir}
}

// RegisterRoutes registers all routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.Use(h.instrument)

	r.HandleFunc("/api/departures", h.handleDepartures).Methods("GET")
	r.HandleFunc("/api/stations", h.handleStations).Methods("GET")
	r.HandleFunc("/api/branch-colors", h.handleBranchColors).Methods("GET")
	r.HandleFunc("/api/debug/stops", h.handleDebugStops).Methods("GET")
	r.HandleFunc("/health", h.handleHealth).Methods("GET")

	if h.publicDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(h.publicDir))).Methods("GET")
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// StationsResponse lists every known station
type StationsResponse struct {
	Stations []models.Station `json:"stations"`
}

// DebugStopsResponse lists the stops present in the current feed
type DebugStopsResponse struct {
	Stops []models.StopSummary `json:"stops"`
	Total int                  `json:"total"`
}

func (h *Handler) handleDepartures(w http.ResponseWriter, r *http.Request) {
	stopIDs := ParseStops(r.URL.Query().Get("stops"))

	board, err := h.client.GetDepartures(r.Context(), stopIDs)
	if err != nil {
		h.logger.Error("failed to compute board", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(struct {
			Error      string             `json:"error"`
			Departures []models.Departure `json:"departures"`
			UpdatedAt  int64              `json:"updatedAt"`
		}{"Failed to fetch departures", []models.Departure{}, time.Now().UnixMilli()})
		return
	}

	h.writeJSON(w, board)
}

func (h *Handler) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.client.GetStations()
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if stations == nil {
		stations = []models.Station{}
	}
	h.writeJSON(w, StationsResponse{Stations: stations})
}

func (h *Handler) handleBranchColors(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.client.GetBranchColors())
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.client.GetHealth())
}

func (h *Handler) handleDebugStops(w http.ResponseWriter, r *http.Request) {
	stops, err := h.client.GetStopSummaries(r.Context())
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if stops == nil {
		stops = []models.StopSummary{}
	}
	h.writeJSON(w, DebugStopsResponse{Stops: stops, Total: len(stops)})
}

// ParseStops splits a comma-separated stops parameter, dropping blanks
func ParseStops(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.writeError(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// instrument records per-route request counts and latency
func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unknown"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.metrics.ObserveRequest(route, rec.status, time.Since(start))
	})
}

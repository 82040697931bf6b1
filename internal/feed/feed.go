package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	gtfs "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/jusunglee/lirr-go/internal/models"
)

// LIRRFeedURL is the MTA GTFS-realtime endpoint for the Long Island Rail Road
const LIRRFeedURL = "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/lirr%2Fgtfs-lirr"

// Metrics receives fetch outcomes
type Metrics interface {
	ObserveFetch(d time.Duration, tripUpdates int, err error)
}

// Fetcher retrieves realtime snapshots on demand
type Fetcher struct {
	url        string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    Metrics
}

// NewFetcher creates a fetcher. apiKey may be empty; metrics may be nil.
func NewFetcher(url, apiKey string, timeout time.Duration, logger *slog.Logger, metrics Metrics) *Fetcher {
	return &Fetcher{
		url:    url,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// Snapshot fetches and decodes the current feed. Failures are logged and
// reported as an empty snapshot, never as an error.
func (f *Fetcher) Snapshot(ctx context.Context) []models.TripUpdate {
	start := time.Now()
	trips, err := f.Fetch(ctx)
	if f.metrics != nil {
		f.metrics.ObserveFetch(time.Since(start), len(trips), err)
	}
	if err != nil {
		f.logger.Warn("feed fetch failed", "url", f.url, "error", err)
		return nil
	}
	f.logger.Debug("fetched feed", "trip_updates", len(trips), "took", time.Since(start))
	return trips
}

// Fetch retrieves and decodes the feed, returning any error
func (f *Fetcher) Fetch(ctx context.Context) ([]models.TripUpdate, error) {
	data, err := f.fetchFeed(ctx)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func (f *Fetcher) fetchFeed(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-protobuf")
	if f.apiKey != "" {
		req.Header.Set("x-api-key", f.apiKey)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, f.url)
	}

	return io.ReadAll(resp.Body)
}

// Decode parses a GTFS-realtime FeedMessage into trip updates.
// Entities without a trip update are ignored.
func Decode(data []byte) ([]models.TripUpdate, error) {
	var msg gtfs.FeedMessage
	if err := proto.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	trips := make([]models.TripUpdate, 0, len(msg.GetEntity()))
	for _, entity := range msg.GetEntity() {
		tu := entity.GetTripUpdate()
		if tu == nil || tu.GetTrip() == nil {
			continue
		}
		trips = append(trips, convertTripUpdate(tu))
	}
	return trips, nil
}

func convertTripUpdate(tu *gtfs.TripUpdate) models.TripUpdate {
	trip := models.TripUpdate{
		RouteID:           tu.GetTrip().GetRouteId(),
		TripID:            tu.GetTrip().GetTripId(),
		ScheduledHeadsign: tripHeadsign(tu),
		StopTimeUpdates:   make([]models.StopTimeUpdate, 0, len(tu.GetStopTimeUpdate())),
	}

	for _, stu := range tu.GetStopTimeUpdate() {
		update := models.StopTimeUpdate{
			StopID:       stu.GetStopId(),
			StopSequence: stu.GetStopSequence(),
		}
		if dep := stu.GetDeparture(); dep != nil && dep.Time != nil {
			t := dep.GetTime()
			update.Departure = &t
		}
		trip.StopTimeUpdates = append(trip.StopTimeUpdates, update)
	}
	return trip
}

// tripHeadsignField is trip_headsign's number inside TripProperties
const tripHeadsignField protowire.Number = 5

// tripHeadsign reads the experimental trip_properties.trip_headsign field.
// Bindings that predate the field keep it in the message's unknown bytes.
func tripHeadsign(tu *gtfs.TripUpdate) string {
	m := tu.ProtoReflect()
	fd := m.Descriptor().Fields().ByName("trip_properties")
	if fd == nil || fd.Kind() != protoreflect.MessageKind || !m.Has(fd) {
		return ""
	}

	props := m.Get(fd).Message()
	if hd := props.Descriptor().Fields().ByName("trip_headsign"); hd != nil {
		if hd.Kind() != protoreflect.StringKind || !props.Has(hd) {
			return ""
		}
		return props.Get(hd).String()
	}
	if props.Descriptor().Fields().ByNumber(tripHeadsignField) != nil {
		return ""
	}
	return unknownString(props.GetUnknown(), tripHeadsignField)
}

// unknownString returns the last length-delimited value of field num in raw,
// or "" if it is absent or raw is malformed.
func unknownString(raw protoreflect.RawFields, num protowire.Number) string {
	var value string
	b := []byte(raw)
	for len(b) > 0 {
		n, typ, tagLen := protowire.ConsumeTag(b)
		if tagLen < 0 {
			return ""
		}
		b = b[tagLen:]

		if n == num && typ == protowire.BytesType {
			v, vLen := protowire.ConsumeBytes(b)
			if vLen < 0 {
				return ""
			}
			value = string(v)
			b = b[vLen:]
			continue
		}

		skip := protowire.ConsumeFieldValue(n, typ, b)
		if skip < 0 {
			return ""
		}
		b = b[skip:]
	}
	return value
}

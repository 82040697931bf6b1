package board

import (
	"cmp"
	"slices"
	"time"

	"github.com/jusunglee/lirr-go/internal/models"
)

const (
	// Window is how far ahead of now departures are shown
	Window = 90 * time.Minute
	// MaxDepartures caps the board length
	MaxDepartures = 50
)

// Filter narrows departures to the requested stops, keeps those inside
// [now, now+Window], sorts them by time and returns at most MaxDepartures.
// Departures with equal times keep their input order.
// The input slice is not modified.
func Filter(all []models.Departure, stopIDs map[string]struct{}, now time.Time) []models.Departure {
	from := now.UnixMilli()
	until := now.Add(Window).UnixMilli()

	result := make([]models.Departure, 0, min(len(all), MaxDepartures))
	for _, d := range all {
		if len(stopIDs) > 0 {
			if _, ok := stopIDs[d.StopID]; !ok {
				continue
			}
		}
		if d.Time < from || d.Time > until {
			continue
		}
		result = append(result, d)
	}

	// Sorting before the cap keeps the soonest departures.
	slices.SortStableFunc(result, func(a, b models.Departure) int {
		return cmp.Compare(a.Time, b.Time)
	})

	if len(result) > MaxDepartures {
		result = result[:MaxDepartures]
	}
	return result
}

// StopSet builds a stop filter from ids, ignoring blanks
func StopSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

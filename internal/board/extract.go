package board

import "github.com/jusunglee/lirr-go/internal/models"

// ExtractDepartures emits one departure per stop of the trip that has a
// departure prediction, excluding the terminal stop.
func (e *Engine) ExtractDepartures(trip models.TripUpdate, branchName, destination, finalStopID string) []models.Departure {
	var result []models.Departure
	for _, stu := range trip.StopTimeUpdates {
		if stu.StopID == "" || stu.StopID == finalStopID || stu.Departure == nil {
			continue
		}
		result = append(result, models.Departure{
			StopID:      stu.StopID,
			StationName: e.stationName(stu.StopID),
			Route:       branchName,
			Time:        *stu.Departure * 1000,
			Destination: destination,
		})
	}
	return result
}

func (e *Engine) stationName(stopID string) string {
	if name, ok := e.lookup.StationName(stopID); ok {
		return name
	}
	return stopID
}

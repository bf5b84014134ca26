package visualization

import (
	"aqipredict/internal/models"
	"fmt"
	"math"
	"sort"
	"strconv"
)

const (
	SeriesActual    = "Actual"
	SeriesPredicted = "Predicted"

	// SnapshotIndex is the row label of the heatmap
	SnapshotIndex = "Value"
)

// DayOrder is the categorical x-axis order of the timeline
var DayOrder = []string{"7 days ago", "2 days ago", "1 day ago", "Today"}

// SnapshotColumns are the heatmap column names, inputs first then the prediction
var SnapshotColumns = []string{
	"Avg Temp (°F)",
	"Avg Dew Point (°F)",
	"Avg Humidity (%)",
	"Avg Wind Speed (mph)",
	"Avg Pressure (in)",
	"Predicted AQI",
}

// SnapshotTable builds the single-row heatmap: five inputs plus the prediction,
// each colored by its position between the row minimum and maximum.
func SnapshotTable(snapshot models.WeatherSnapshot, predicted float64) models.SnapshotTable {
	values := []float64{
		snapshot.AvgTemp,
		snapshot.AvgDewPoint,
		snapshot.AvgHumidity,
		snapshot.AvgWindSpeed,
		snapshot.AvgPressure,
		predicted,
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	table := models.SnapshotTable{
		Index: SnapshotIndex,
		Min:   lo,
		Max:   hi,
		Cells: make([]models.SnapshotCell, len(values)),
	}

	for i, v := range values {
		n := normalize(v, lo, hi)
		table.Cells[i] = models.SnapshotCell{
			Column:     SnapshotColumns[i],
			Value:      v,
			Normalized: n,
			Color:      DefaultGradient.ColorAt(n),
			Text:       strconv.FormatFloat(v, 'f', 1, 64),
		}
	}

	return table
}

// normalize places v in [0,1]; a flat row maps every value to 0
func normalize(v, lo, hi float64) float64 {
	if hi == lo || math.IsNaN(hi-lo) || math.IsInf(hi-lo, 0) {
		return 0
	}
	return (v - lo) / (hi - lo)
}

// Timeline returns the three historical lags and the prediction in day order
func Timeline(lags models.LagHistory, predicted float64) []models.TimelinePoint {
	return []models.TimelinePoint{
		{Day: DayOrder[0], Series: SeriesActual, AQI: lags.Lag7},
		{Day: DayOrder[1], Series: SeriesActual, AQI: lags.Lag2},
		{Day: DayOrder[2], Series: SeriesActual, AQI: lags.Lag1},
		{Day: DayOrder[3], Series: SeriesPredicted, AQI: predicted},
	}
}

// SortTimeline orders points by DayOrder rather than lexically.
// Unknown day labels keep their relative order after the known ones.
func SortTimeline(points []models.TimelinePoint) {
	sort.SliceStable(points, func(i, j int) bool {
		return dayRank(points[i].Day) < dayRank(points[j].Day)
	})
}

func dayRank(day string) int {
	for i, d := range DayOrder {
		if d == day {
			return i
		}
	}
	return len(DayOrder)
}

// FormatAQI renders the predicted value for the metric card
func FormatAQI(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

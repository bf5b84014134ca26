package models

import "time"

// WeatherSnapshot holds the current-condition inputs of a prediction
type WeatherSnapshot struct {
	AvgTemp      float64 `json:"avg_temp"`       // °F
	AvgDewPoint  float64 `json:"avg_dew_point"`  // °F
	AvgHumidity  float64 `json:"avg_humidity"`   // %
	AvgWindSpeed float64 `json:"avg_wind_speed"` // mph
	AvgPressure  float64 `json:"avg_pressure"`   // inHg
}

// LagHistory holds the AQI observed 1, 2 and 7 days before the prediction day
type LagHistory struct {
	Lag1 float64 `json:"aqi_lag_1"`
	Lag2 float64 `json:"aqi_lag_2"`
	Lag7 float64 `json:"aqi_lag_7"`
}

// FeatureVector is the ordered model input. Always built by features.Build.
type FeatureVector []float64

// Observation represents an observed daily AQI value for a location
type Observation struct {
	ID         int64     `json:"id"`
	Location   string    `json:"location"`
	ObservedOn time.Time `json:"observed_on"`
	AQI        float64   `json:"aqi"`
}

// TimelinePoint is a single point of the actual vs predicted line chart
type TimelinePoint struct {
	Day    string  `json:"day"`
	Series string  `json:"series"`
	AQI    float64 `json:"aqi"`
}

// SnapshotCell is one column of the feature snapshot heatmap
type SnapshotCell struct {
	Column     string  `json:"column"`
	Value      float64 `json:"value"`
	Normalized float64 `json:"normalized"` // 0-1 over the row
	Color      string  `json:"color"`
	Text       string  `json:"text"`
}

// SnapshotTable is the single-row heatmap dataset
type SnapshotTable struct {
	Index string         `json:"index"`
	Min   float64        `json:"min"`
	Max   float64        `json:"max"`
	Cells []SnapshotCell `json:"cells"`
}

// Image is a pre-rendered static image shown below the charts
type Image struct {
	Path    string `json:"path"`
	Caption string `json:"caption"`
}

package features

import "aqipredict/internal/models"

// Size is the number of model inputs
const Size = 8

// DefaultStep is the input granularity of every form field
const DefaultStep = 0.1

// Names lists the model inputs in training order
var Names = []string{
	"avg_temp",
	"avg_dew_point",
	"avg_humidity",
	"avg_wind_speed",
	"avg_pressure",
	"aqi_lag_1",
	"aqi_lag_2",
	"aqi_lag_7",
}

// Field describes one numeric input of the prediction form
type Field struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Group   string  `json:"group"`
	Unit    string  `json:"unit,omitempty"`
	Default float64 `json:"default"`
	Step    float64 `json:"step"`
}

// Fields is the form catalogue, in the same order as Names
var Fields = []Field{
	{Key: "avg_temp", Label: "Average Temperature (°F)", Group: "weather", Unit: "°F", Default: 70.0, Step: DefaultStep},
	{Key: "avg_dew_point", Label: "Average Dew Point (°F)", Group: "weather", Unit: "°F", Default: 50.0, Step: DefaultStep},
	{Key: "avg_humidity", Label: "Average Humidity (%)", Group: "weather", Unit: "%", Default: 60.0, Step: DefaultStep},
	{Key: "avg_wind_speed", Label: "Average Wind Speed (mph)", Group: "weather", Unit: "mph", Default: 5.0, Step: DefaultStep},
	{Key: "avg_pressure", Label: "Average Pressure (in)", Group: "weather", Unit: "in", Default: 29.0, Step: DefaultStep},
	{Key: "aqi_lag_1", Label: "AQI (1 day ago)", Group: "lags", Default: 100.0, Step: DefaultStep},
	{Key: "aqi_lag_2", Label: "AQI (2 days ago)", Group: "lags", Default: 100.0, Step: DefaultStep},
	{Key: "aqi_lag_7", Label: "AQI (7 days ago)", Group: "lags", Default: 100.0, Step: DefaultStep},
}

// DefaultLagAQI is used for any lag the caller does not know
const DefaultLagAQI = 100.0

// Build assembles the model input. The order must match Names exactly;
// any numeric value is forwarded as is.
func Build(snapshot models.WeatherSnapshot, lags models.LagHistory) models.FeatureVector {
	return models.FeatureVector{
		snapshot.AvgTemp,
		snapshot.AvgDewPoint,
		snapshot.AvgHumidity,
		snapshot.AvgWindSpeed,
		snapshot.AvgPressure,
		lags.Lag1,
		lags.Lag2,
		lags.Lag7,
	}
}

// DefaultSnapshot returns the form defaults for current conditions
func DefaultSnapshot() models.WeatherSnapshot {
	return models.WeatherSnapshot{
		AvgTemp:      Fields[0].Default,
		AvgDewPoint:  Fields[1].Default,
		AvgHumidity:  Fields[2].Default,
		AvgWindSpeed: Fields[3].Default,
		AvgPressure:  Fields[4].Default,
	}
}

// DefaultLags returns the form defaults for previous AQI values
func DefaultLags() models.LagHistory {
	return models.LagHistory{
		Lag1: DefaultLagAQI,
		Lag2: DefaultLagAQI,
		Lag7: DefaultLagAQI,
	}
}

package api

// Forecast is the subset of the Open-Meteo forecast response used to prefill inputs
type Forecast struct {
	Latitude         float64     `json:"latitude"`
	Longitude        float64     `json:"longitude"`
	Timezone         string      `json:"timezone"`
	HourlyUnits      HourlyUnits `json:"hourly_units"`
	Hourly           Hourly      `json:"hourly"`
	GenerationTimeMs float64     `json:"generation_time_ms"`
}

type HourlyUnits struct {
	Time               string `json:"time"`
	Temperature2m      string `json:"temperature_2m"`
	DewPoint2m         string `json:"dew_point_2m"`
	RelativeHumidity2m string `json:"relative_humidity_2m"`
	WindSpeed10m       string `json:"wind_speed_10m"`
	SurfacePressure    string `json:"surface_pressure"`
}

// Hourly values may be null when the model has no data for that hour
type Hourly struct {
	Time               []string   `json:"time"`
	Temperature2m      []*float64 `json:"temperature_2m"`
	DewPoint2m         []*float64 `json:"dew_point_2m"`
	RelativeHumidity2m []*float64 `json:"relative_humidity_2m"`
	WindSpeed10m       []*float64 `json:"wind_speed_10m"`
	SurfacePressure    []*float64 `json:"surface_pressure"`
}

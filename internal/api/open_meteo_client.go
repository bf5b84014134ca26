package api

import (
	"aqipredict/internal/metrics"
	"aqipredict/internal/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// hPaToInHg converts surface pressure to inches of mercury
const hPaToInHg = 0.0295299830714

// ConditionFields are the hourly variables averaged into a WeatherSnapshot
var ConditionFields = []string{
	"temperature_2m",
	"dew_point_2m",
	"relative_humidity_2m",
	"wind_speed_10m",
	"surface_pressure",
}

// ErrNoHourlyData is returned when the forecast has no usable hours
var ErrNoHourlyData = errors.New("no hourly data in forecast")

// OpenMeteoClient is a client for the Open-Meteo API
type OpenMeteoClient struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[*Forecast]
}

type ForecastParams struct {
	Latitude        float64
	Longitude       float64
	HourlyFields    []string
	Timezone        string
	TemperatureUnit string
	WindSpeedUnit   string
	PastDays        int // how many days in the past you want to get
	ForecastDays    int // how many days in the future you want to forecast
}

// ClientOptions configures throttling of outbound calls
type ClientOptions struct {
	BaseURL           string
	RequestsPerSecond float64 // 0 disables the limiter
	Burst             int
	Timeout           time.Duration
}

// NewOpenMeteoClient creates a new Open-Meteo API client
func NewOpenMeteoClient(opts ClientOptions) *OpenMeteoClient {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return &OpenMeteoClient{
		client:  &http.Client{Timeout: opts.Timeout},
		baseURL: opts.BaseURL,
		limiter: limiter,
		breaker: gobreaker.NewCircuitBreaker[*Forecast](gobreaker.Settings{
			Name:        "open-meteo",
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 5
			},
		}),
	}
}

// GetForecast fetches forecast data for the given parameters
func (c *OpenMeteoClient) GetForecast(ctx context.Context, forecastParams ForecastParams) (*Forecast, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	forecast, err := c.breaker.Execute(func() (*Forecast, error) {
		return c.fetch(ctx, c.BuildURL(forecastParams))
	})
	metrics.RecordWeatherRequest(err)
	return forecast, err
}

func (c *OpenMeteoClient) fetch(ctx context.Context, url string) (*Forecast, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var forecast Forecast
	if err := json.NewDecoder(resp.Body).Decode(&forecast); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &forecast, nil
}

// Builds URL for OpenMeteoClient request
func (c *OpenMeteoClient) BuildURL(forecastParams ForecastParams) string {
	if forecastParams.Timezone == "" {
		forecastParams.Timezone = "auto"
	}

	if forecastParams.TemperatureUnit == "" {
		forecastParams.TemperatureUnit = "fahrenheit"
	}

	if forecastParams.WindSpeedUnit == "" {
		forecastParams.WindSpeedUnit = "mph"
	}

	url := fmt.Sprintf("%s?latitude=%.4f&longitude=%.4f&timezone=%s&temperature_unit=%s&wind_speed_unit=%s",
		c.baseURL, forecastParams.Latitude, forecastParams.Longitude, forecastParams.Timezone,
		forecastParams.TemperatureUnit, forecastParams.WindSpeedUnit)

	if forecastParams.PastDays > 0 {
		url += fmt.Sprintf("&past_days=%d", forecastParams.PastDays)
	}

	if forecastParams.ForecastDays >= 0 {
		url += fmt.Sprintf("&forecast_days=%d", forecastParams.ForecastDays)
	}

	if len(forecastParams.HourlyFields) > 0 {
		url += "&hourly=" + strings.Join(forecastParams.HourlyFields, ",")
	}

	return url
}

// GetCurrentConditions averages today's hourly forecast into a WeatherSnapshot
// in the units the model expects (°F, °F, %, mph, inHg)
func (c *OpenMeteoClient) GetCurrentConditions(ctx context.Context, lat, long float64) (*models.WeatherSnapshot, error) {
	forecast, err := c.GetForecast(ctx, ForecastParams{
		Latitude:     lat,
		Longitude:    long,
		HourlyFields: ConditionFields,
		ForecastDays: 1,
	})
	if err != nil {
		return nil, err
	}

	return SnapshotFromForecast(forecast)
}

// SnapshotFromForecast converts hourly Open-Meteo data into daily averages
func SnapshotFromForecast(forecast *Forecast) (*models.WeatherSnapshot, error) {
	if forecast == nil || len(forecast.Hourly.Time) == 0 {
		return nil, ErrNoHourlyData
	}

	fieldData := map[string][]*float64{
		"temperature_2m":       forecast.Hourly.Temperature2m,
		"dew_point_2m":         forecast.Hourly.DewPoint2m,
		"relative_humidity_2m": forecast.Hourly.RelativeHumidity2m,
		"wind_speed_10m":       forecast.Hourly.WindSpeed10m,
		"surface_pressure":     forecast.Hourly.SurfacePressure,
	}

	means := make(map[string]float64, len(fieldData))
	for _, fieldName := range ConditionFields {
		mean, ok := meanOf(fieldData[fieldName])
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoHourlyData, fieldName)
		}
		means[fieldName] = mean
	}

	return &models.WeatherSnapshot{
		AvgTemp:      means["temperature_2m"],
		AvgDewPoint:  means["dew_point_2m"],
		AvgHumidity:  means["relative_humidity_2m"],
		AvgWindSpeed: means["wind_speed_10m"],
		AvgPressure:  means["surface_pressure"] * hPaToInHg,
	}, nil
}

// meanOf averages the non-null values
func meanOf(values []*float64) (float64, bool) {
	sum, n := 0.0, 0
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

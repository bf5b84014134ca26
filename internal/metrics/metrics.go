package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prediction metrics
var (
	// PredictionsTotal counts successful predictions by AQI category
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aqi_predictions_total",
			Help: "Total number of successful AQI predictions",
		},
		[]string{"category"},
	)

	// PredictionDuration tracks model inference latency
	PredictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aqi_prediction_duration_seconds",
			Help:    "Duration of model inference in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend"},
	)

	// InferenceErrorsTotal counts predictions rejected by the model
	InferenceErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aqi_inference_errors_total",
			Help: "Total number of failed model inferences",
		},
		[]string{"backend"},
	)

	// LastPredictedAQI is the most recent predicted value
	LastPredictedAQI = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aqi_last_predicted_value",
			Help: "Most recently predicted PM2.5 AQI",
		},
	)

	// ModelLoadsTotal counts model load attempts
	ModelLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aqi_model_loads_total",
			Help: "Total number of model load attempts",
		},
		[]string{"backend", "status"},
	)

	// ModelLoadDuration records how long the last model load took
	ModelLoadDuration = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aqi_model_load_duration_seconds",
			Help: "Duration of the last model load in seconds",
		},
		[]string{"backend"},
	)
)

// HTTP and upstream metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aqi_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aqi_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// WeatherRequestsTotal counts calls to the weather conditions API
	WeatherRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aqi_weather_requests_total",
			Help: "Total number of weather API requests",
		},
		[]string{"status"},
	)
)

// Database metrics
var (
	// DBQueriesTotal tracks the total number of database queries
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Total number of database queries executed",
		},
		[]string{"query_type", "table", "status"},
	)

	// DBQueryDuration tracks the duration of database queries
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query_type", "table"},
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_open",
			Help: "Number of established connections both in use and idle",
		},
	)

	DBConnectionsInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_in_use",
			Help: "Number of connections currently in use",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle connections",
		},
	)
)

var (
	// AppInfo provides static information about the application
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aqi_app_info",
			Help: "Application information (always 1)",
		},
		[]string{"backend"},
	)

	// AppStartTime records when the application started
	AppStartTime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aqi_app_start_time_seconds",
			Help: "Unix timestamp of when the application started",
		},
	)
)

func init() {
	AppStartTime.SetToCurrentTime()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordPrediction records a successful prediction
func RecordPrediction(backend, category string, value float64, duration time.Duration) {
	PredictionsTotal.WithLabelValues(category).Inc()
	PredictionDuration.WithLabelValues(backend).Observe(duration.Seconds())
	LastPredictedAQI.Set(value)
}

// RecordInferenceError records a failed inference
func RecordInferenceError(backend string) {
	InferenceErrorsTotal.WithLabelValues(backend).Inc()
}

// RecordModelLoad records a model load attempt
func RecordModelLoad(backend string, duration time.Duration, err error) {
	ModelLoadsTotal.WithLabelValues(backend, status(err)).Inc()
	ModelLoadDuration.WithLabelValues(backend).Set(duration.Seconds())
}

// RecordHTTPRequest records a served HTTP request
func RecordHTTPRequest(method, route string, code int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordWeatherRequest records a call to the weather API
func RecordWeatherRequest(err error) {
	WeatherRequestsTotal.WithLabelValues(status(err)).Inc()
}

// RecordDBQuery records a database query execution
func RecordDBQuery(queryType, table string, duration time.Duration, err error) {
	DBQueriesTotal.WithLabelValues(queryType, table, status(err)).Inc()
	DBQueryDuration.WithLabelValues(queryType, table).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics
func UpdateDBConnectionStats(open, inUse, idle int) {
	DBConnectionsOpen.Set(float64(open))
	DBConnectionsInUse.Set(float64(inUse))
	DBConnectionsIdle.Set(float64(idle))
}

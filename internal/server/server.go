package server

import (
	"aqipredict/internal/database"
	"aqipredict/internal/models"
	"aqipredict/internal/prediction"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WeatherClient prefills the weather inputs from an upstream source
type WeatherClient interface {
	GetCurrentConditions(ctx context.Context, lat, long float64) (*models.WeatherSnapshot, error)
}

// ObservationStore persists observed AQI and resolves lag history from it
type ObservationStore interface {
	StoreObservation(obs models.Observation) error
	GetLagHistory(location string, date time.Time) (*database.LagLookup, error)
}

// Options holds the optional collaborators of the server. A nil Weather or
// Store disables the matching endpoints.
type Options struct {
	Weather   WeatherClient
	Store     ObservationStore
	Images    []models.Image
	StaticDir string
}

// Server represents the HTTP server
type Server struct {
	service   *prediction.Service
	weather   WeatherClient
	store     ObservationStore
	images    []models.Image
	staticDir string
	validate  *validator.Validate
	router    *mux.Router
}

// NewServer creates a new HTTP server around a loaded prediction service
func NewServer(service *prediction.Service, opts Options) *Server {
	s := &Server{
		service:   service,
		weather:   opts.Weather,
		store:     opts.Store,
		images:    staticImages(opts.Images),
		staticDir: opts.StaticDir,
		validate:  validator.New(),
		router:    mux.NewRouter(),
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.metricsMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	v1 := s.router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/form", s.handleForm).Methods(http.MethodGet)
	v1.HandleFunc("/predict", s.handlePredict).Methods(http.MethodPost)
	v1.HandleFunc("/categories", s.handleCategories).Methods(http.MethodGet)
	v1.HandleFunc("/images", s.handleImages).Methods(http.MethodGet)
	v1.HandleFunc("/conditions", s.handleConditions).Methods(http.MethodGet)
	v1.HandleFunc("/locations/{location}/lags", s.handleLags).Methods(http.MethodGet)
	v1.HandleFunc("/observations", s.handleStoreObservation).Methods(http.MethodPost)

	if s.staticDir != "" {
		s.router.PathPrefix("/static/").Handler(
			http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir))))
	}
}

// Handler returns the router wrapped with recovery, compression and access logging
func (s *Server) Handler() http.Handler {
	var h http.Handler = handlers.LoggingHandler(os.Stdout, s.router)
	h = gzhttp.GzipHandler(h)
	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
}

// staticImages points configured image files at the /static/ mount
func staticImages(images []models.Image) []models.Image {
	out := make([]models.Image, len(images))
	for i, img := range images {
		out[i] = models.Image{Path: path.Join("/static", img.Path), Caption: img.Caption}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

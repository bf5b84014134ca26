package server

import (
	"aqipredict/internal/category"
	"aqipredict/internal/database"
	"aqipredict/internal/features"
	"aqipredict/internal/models"
	"aqipredict/internal/prediction"
	"aqipredict/internal/predictor"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

// WeatherInput mirrors models.WeatherSnapshot; absent fields take the form defaults
type WeatherInput struct {
	AvgTemp      *float64 `json:"avg_temp"`
	AvgDewPoint  *float64 `json:"avg_dew_point"`
	AvgHumidity  *float64 `json:"avg_humidity"`
	AvgWindSpeed *float64 `json:"avg_wind_speed"`
	AvgPressure  *float64 `json:"avg_pressure"`
}

// LagInput mirrors models.LagHistory; absent fields take the form defaults
type LagInput struct {
	Lag1 *float64 `json:"aqi_lag_1"`
	Lag2 *float64 `json:"aqi_lag_2"`
	Lag7 *float64 `json:"aqi_lag_7"`
}

type PredictRequest struct {
	Weather WeatherInput `json:"weather"`
	Lags    LagInput     `json:"lags"`
}

type PredictResponse struct {
	*prediction.Result
	Images []models.Image `json:"images"`
}

type ObservationRequest struct {
	Location string   `json:"location" validate:"required,max=255"`
	Date     string   `json:"date" validate:"required,datetime=2006-01-02"`
	AQI      *float64 `json:"aqi" validate:"required,gte=0"`
}

type CategoryResponse struct {
	Name    string        `json:"name"`
	Label   string        `json:"label"`
	Tone    category.Tone `json:"tone"`
	Lower   *float64      `json:"lower"` // exclusive, null when unbounded
	Upper   *float64      `json:"upper"` // inclusive, null when unbounded
	Emoji   string        `json:"emoji"`
	Message string        `json:"message,omitempty"`
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// Snapshot fills the weather inputs, defaulting anything missing
func (in WeatherInput) Snapshot() models.WeatherSnapshot {
	d := features.DefaultSnapshot()
	return models.WeatherSnapshot{
		AvgTemp:      orDefault(in.AvgTemp, d.AvgTemp),
		AvgDewPoint:  orDefault(in.AvgDewPoint, d.AvgDewPoint),
		AvgHumidity:  orDefault(in.AvgHumidity, d.AvgHumidity),
		AvgWindSpeed: orDefault(in.AvgWindSpeed, d.AvgWindSpeed),
		AvgPressure:  orDefault(in.AvgPressure, d.AvgPressure),
	}
}

// History fills the lag inputs, defaulting anything missing
func (in LagInput) History() models.LagHistory {
	d := features.DefaultLags()
	return models.LagHistory{
		Lag1: orDefault(in.Lag1, d.Lag1),
		Lag2: orDefault(in.Lag2, d.Lag2),
		Lag7: orDefault(in.Lag7, d.Lag7),
	}
}

// handleHealth returns the server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"backend": s.service.Backend(),
		"time":    time.Now().UTC().String(),
	})
}

// handleForm returns the input catalogue
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"title":  "AQI PM2.5 Predictor",
		"fields": features.Fields,
		"step":   features.DefaultStep,
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := s.service.Predict(r.Context(), req.Weather.Snapshot(), req.Lags.History())
	if err != nil {
		var infErr *predictor.InferenceError
		if errors.As(err, &infErr) {
			writeError(w, http.StatusUnprocessableEntity, infErr.Error())
			return
		}
		log.Printf("Prediction failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, PredictResponse{Result: result, Images: s.images})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	bands := category.Bands()
	resp := make([]CategoryResponse, len(bands))
	for i, c := range bands {
		lower, upper := c.Bounds()
		resp[i] = CategoryResponse{
			Name:    c.Name,
			Label:   c.Label,
			Tone:    c.Tone,
			Lower:   lower,
			Upper:   upper,
			Emoji:   c.Emoji,
			Message: c.Message,
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":      len(resp),
		"categories": resp,
	})
}

func (s *Server) handleImages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(s.images),
		"images": s.images,
	})
}

// handleConditions prefills the weather inputs for a coordinate
func (s *Server) handleConditions(w http.ResponseWriter, r *http.Request) {
	if s.weather == nil {
		writeError(w, http.StatusServiceUnavailable, "weather lookup is disabled")
		return
	}

	lat, err := strconv.ParseFloat(r.URL.Query().Get("latitude"), 64)
	if err != nil || lat < -90 || lat > 90 {
		writeError(w, http.StatusBadRequest, "Latitude must be between -90 and 90")
		return
	}

	long, err := strconv.ParseFloat(r.URL.Query().Get("longitude"), 64)
	if err != nil || long < -180 || long > 180 {
		writeError(w, http.StatusBadRequest, "Longitude must be between -180 and 180")
		return
	}

	snapshot, err := s.weather.GetCurrentConditions(r.Context(), lat, long)
	if err != nil {
		log.Printf("Weather lookup failed for %.4f,%.4f: %v", lat, long, err)
		writeError(w, http.StatusBadGateway, "weather lookup failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"latitude":  lat,
		"longitude": long,
		"weather":   snapshot,
	})
}

// handleLags resolves the lag inputs from stored observations
func (s *Server) handleLags(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "observation store is disabled")
		return
	}

	location := mux.Vars(r)["location"]

	date := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(database.DateLayout, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	lookup, err := s.store.GetLagHistory(location, date)
	if err != nil {
		log.Printf("Lag lookup failed for %s: %v", location, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, lookup)
}

func (s *Server) handleStoreObservation(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "observation store is disabled")
		return
	}

	var req ObservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// already checked by the datetime rule
	observedOn, _ := time.Parse(database.DateLayout, req.Date)

	obs := models.Observation{Location: req.Location, ObservedOn: observedOn, AQI: *req.AQI}
	if err := s.store.StoreObservation(obs); err != nil {
		log.Printf("Failed to store observation: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, obs)
}

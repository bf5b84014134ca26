package prediction

import (
	"aqipredict/internal/category"
	"aqipredict/internal/features"
	"aqipredict/internal/metrics"
	"aqipredict/internal/models"
	"aqipredict/internal/predictor"
	"aqipredict/internal/visualization"
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Result carries every output of one prediction. It is only ever returned whole.
type Result struct {
	ID           string                 `json:"id"`
	PredictedAQI float64                `json:"predicted_aqi"`
	Display      string                 `json:"display"`
	Category     category.Category      `json:"category"`
	Snapshot     models.SnapshotTable   `json:"snapshot"`
	Timeline     []models.TimelinePoint `json:"timeline"`
	Inputs       Inputs                 `json:"inputs"`
	PredictedAt  time.Time              `json:"predicted_at"`
}

// Inputs echoes what the prediction was computed from
type Inputs struct {
	Weather models.WeatherSnapshot `json:"weather"`
	Lags    models.LagHistory      `json:"lags"`
}

// Service runs the build → predict → classify → visualize pipeline
type Service struct {
	predictor predictor.Predictor
}

// NewService wires an already loaded predictor into the pipeline
func NewService(p predictor.Predictor) *Service {
	return &Service{predictor: p}
}

// Backend names the model implementation behind the service
func (s *Service) Backend() string {
	return s.predictor.Name()
}

// PredictAQI runs inference on a prebuilt vector. Failures and non-finite
// outputs come back as *predictor.InferenceError and are never retried.
func (s *Service) PredictAQI(ctx context.Context, fv models.FeatureVector) (float64, error) {
	backend := s.predictor.Name()

	value, err := s.predictor.Predict(ctx, fv)
	if err != nil {
		metrics.RecordInferenceError(backend)
		return 0, &predictor.InferenceError{Backend: backend, Err: err}
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		metrics.RecordInferenceError(backend)
		return 0, &predictor.InferenceError{Backend: backend, Err: fmt.Errorf("model returned non-finite value %v", value)}
	}

	return value, nil
}

// Predict runs the whole pipeline for one request
func (s *Service) Predict(ctx context.Context, snapshot models.WeatherSnapshot, lags models.LagHistory) (*Result, error) {
	start := time.Now()

	fv := features.Build(snapshot, lags)

	predicted, err := s.PredictAQI(ctx, fv)
	if err != nil {
		return nil, err
	}

	cat, err := category.Classify(predicted)
	if err != nil {
		return nil, fmt.Errorf("failed to classify %v: %w", predicted, err)
	}

	metrics.RecordPrediction(s.predictor.Name(), cat.Name, predicted, time.Since(start))

	return &Result{
		ID:           uuid.NewString(),
		PredictedAQI: predicted,
		Display:      visualization.FormatAQI(predicted),
		Category:     cat,
		Snapshot:     visualization.SnapshotTable(snapshot, predicted),
		Timeline:     visualization.Timeline(lags, predicted),
		Inputs:       Inputs{Weather: snapshot, Lags: lags},
		PredictedAt:  time.Now().UTC(),
	}, nil
}

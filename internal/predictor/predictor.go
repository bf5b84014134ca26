package predictor

import (
	"aqipredict/internal/features"
	"aqipredict/internal/models"
	"context"
	"fmt"
)

// Predictor turns one feature vector into a predicted AQI
type Predictor interface {
	Predict(ctx context.Context, fv models.FeatureVector) (float64, error)
	Name() string
}

// Constant is a stub Predictor that always returns Value
type Constant struct {
	Value float64
}

func (c Constant) Predict(ctx context.Context, fv models.FeatureVector) (float64, error) {
	if err := checkArity(len(fv)); err != nil {
		return 0, err
	}
	return c.Value, nil
}

func (c Constant) Name() string {
	return "stub"
}

// Func adapts a plain function to the Predictor interface
type Func func(ctx context.Context, fv models.FeatureVector) (float64, error)

func (f Func) Predict(ctx context.Context, fv models.FeatureVector) (float64, error) {
	return f(ctx, fv)
}

func (f Func) Name() string {
	return "func"
}

func checkArity(n int) error {
	if n != features.Size {
		return fmt.Errorf("expected %d features, got %d", features.Size, n)
	}
	return nil
}

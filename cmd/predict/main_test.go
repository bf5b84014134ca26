package main

import (
	"aqipredict/internal/features"
	"aqipredict/internal/prediction"
	"aqipredict/internal/predictor"
	"bytes"
	"context"
	"math"
	"strings"
	"testing"
)

func TestLoadModel_Stub(t *testing.T) {
	model, err := loadModel("", "does-not-exist.yaml", 42)
	if err != nil {
		t.Fatalf("loadModel() error = %v", err)
	}
	if model.Name() != "stub" {
		t.Errorf("loadModel() backend = %v, want stub", model.Name())
	}
}

func TestLoadModel_MissingArtifact(t *testing.T) {
	_, err := loadModel("", "does-not-exist.yaml", math.NaN())
	if err == nil {
		t.Fatal("loadModel() error = nil, want ModelLoadError")
	}
	if !strings.Contains(err.Error(), "does-not-exist.yaml") {
		t.Errorf("loadModel() error = %v, want the artifact path", err)
	}
}

func TestPrintResult(t *testing.T) {
	result, err := prediction.NewService(predictor.Constant{Value: 42}).
		Predict(context.Background(), features.DefaultSnapshot(), features.DefaultLags())
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	var buf bytes.Buffer
	printResult(&buf, result)
	out := buf.String()

	for _, want := range []string{"Predicted AQI: 42.00", "Good - Air quality is satisfactory", "Avg Temp (°F)", "Value", "7 days ago", "Today"} {
		if !strings.Contains(out, want) {
			t.Errorf("printResult() output missing %q:\n%s", want, out)
		}
	}
}

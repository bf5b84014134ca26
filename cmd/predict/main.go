package main

import (
	"aqipredict/internal/config"
	"aqipredict/internal/features"
	"aqipredict/internal/models"
	"aqipredict/internal/prediction"
	"aqipredict/internal/predictor"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strings"
	"unicode/utf8"
)

func main() {
	configPath := flag.String("config", "", "config file; when set the model section picks the backend")
	modelPath := flag.String("model", "model.yaml", "linear model artifact")
	stub := flag.Float64("stub", math.NaN(), "skip the model and always predict this value")

	snapshot := features.DefaultSnapshot()
	lags := features.DefaultLags()
	flag.Float64Var(&snapshot.AvgTemp, "avg-temp", snapshot.AvgTemp, "average temperature (°F)")
	flag.Float64Var(&snapshot.AvgDewPoint, "avg-dew-point", snapshot.AvgDewPoint, "average dew point (°F)")
	flag.Float64Var(&snapshot.AvgHumidity, "avg-humidity", snapshot.AvgHumidity, "average humidity (%)")
	flag.Float64Var(&snapshot.AvgWindSpeed, "avg-wind-speed", snapshot.AvgWindSpeed, "average wind speed (mph)")
	flag.Float64Var(&snapshot.AvgPressure, "avg-pressure", snapshot.AvgPressure, "average pressure (in)")
	flag.Float64Var(&lags.Lag1, "lag-1", lags.Lag1, "AQI 1 day ago")
	flag.Float64Var(&lags.Lag2, "lag-2", lags.Lag2, "AQI 2 days ago")
	flag.Float64Var(&lags.Lag7, "lag-7", lags.Lag7, "AQI 7 days ago")
	flag.Parse()

	model, err := loadModel(*configPath, *modelPath, *stub)
	if err != nil {
		log.Fatalf("Failed to load model: %v", err)
	}

	result, err := prediction.NewService(model).Predict(context.Background(), snapshot, lags)
	if err != nil {
		log.Fatalf("Prediction failed: %v", err)
	}

	printResult(os.Stdout, result)
}

func loadModel(configPath, modelPath string, stub float64) (predictor.Predictor, error) {
	if !math.IsNaN(stub) {
		return predictor.Constant{Value: stub}, nil
	}

	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		return predictor.ProviderFromConfig(cfg.Model, config.GetRedisConfig()).Load()
	}

	return predictor.NewProvider(modelPath, predictor.FileLoader(modelPath)).Load()
}

func printResult(w io.Writer, result *prediction.Result) {
	fmt.Fprintln(w, "=== Predicted PM2.5 AQI ===")
	fmt.Fprintf(w, "Predicted AQI: %s\n", result.Display)
	fmt.Fprintf(w, "%s %s\n", result.Category.Emoji, result.Category.Label)

	fmt.Fprintln(w, "\n=== Feature Snapshot ===")
	printSnapshot(w, result.Snapshot)

	fmt.Fprintln(w, "\n=== AQI Timeline ===")
	for _, p := range result.Timeline {
		fmt.Fprintf(w, "  %-11s %-9s %7.2f\n", p.Day, p.Series, p.AQI)
	}
}

func printSnapshot(w io.Writer, table models.SnapshotTable) {
	header := make([]string, len(table.Cells))
	row := make([]string, len(table.Cells))
	for i, c := range table.Cells {
		width := utf8.RuneCountInString(c.Column)
		if n := utf8.RuneCountInString(c.Text); n > width {
			width = n
		}
		header[i] = fmt.Sprintf("%*s", width, c.Column)
		row[i] = fmt.Sprintf("%*s", width, c.Text)
	}
	fmt.Fprintf(w, "  %-5s  %s\n", "", strings.Join(header, "  "))
	fmt.Fprintf(w, "  %-5s  %s\n", table.Index, strings.Join(row, "  "))
}

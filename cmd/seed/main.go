package main

import (
	"aqipredict/internal/config"
	"aqipredict/internal/database"
	"aqipredict/internal/models"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	csvPath := flag.String("csv", "observations_seed.csv", "CSV with location,date,aqi rows")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	db, err := database.NewDB(config.GetDatabaseDSN())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	file, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	observations, skipped, err := readObservations(file)
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}

	if err := db.StoreObservations(observations); err != nil {
		log.Fatalf("Failed to store observations: %v", err)
	}

	log.Printf("Import complete! Successfully stored %d observations, skipped %d", len(observations), skipped)
}

// readObservations parses location,date,aqi rows after a header row.
// Malformed rows are logged and skipped.
func readObservations(r io.Reader) ([]models.Observation, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV header: %w", err)
	}
	log.Printf("CSV Header: %v", header)

	var observations []models.Observation
	skipped := 0

	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, skipped, fmt.Errorf("failed to read CSV record: %w", err)
		}

		obs, err := parseRecord(record)
		if err != nil {
			log.Printf("Skipping record %v: %v", record, err)
			skipped++
			continue
		}

		observations = append(observations, obs)
	}

	return observations, skipped, nil
}

func parseRecord(record []string) (models.Observation, error) {
	if len(record) < 3 {
		return models.Observation{}, fmt.Errorf("expected 3 fields, got %d", len(record))
	}

	location := strings.TrimSpace(record[0])
	if location == "" {
		return models.Observation{}, fmt.Errorf("empty location")
	}

	observedOn, err := time.Parse(database.DateLayout, strings.TrimSpace(record[1]))
	if err != nil {
		return models.Observation{}, fmt.Errorf("invalid date: %w", err)
	}

	aqi, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return models.Observation{}, fmt.Errorf("invalid aqi: %w", err)
	}
	if aqi < 0 {
		return models.Observation{}, fmt.Errorf("negative aqi %v", aqi)
	}

	return models.Observation{Location: location, ObservedOn: observedOn, AQI: aqi}, nil
}

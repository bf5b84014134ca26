package main

import (
	"strings"
	"testing"
	"time"
)

func TestReadObservations_Skips(t *testing.T) {
	input := "location,date,aqi\n" +
		"Denver,2024-03-14,55\n" +
		"Denver, 2024-03-13 ,60.5\n" +
		"Denver,2024-03-32,70\n" +
		",2024-03-12,40\n" +
		"Denver,2024-03-11,-1\n" +
		"Denver,2024-03-10\n" +
		"Boston,2024-03-14,abc\n"

	observations, skipped, err := readObservations(strings.NewReader(input))
	if err != nil {
		t.Fatalf("readObservations() error = %v", err)
	}

	if len(observations) != 2 {
		t.Fatalf("readObservations() returned %d observations, want 2", len(observations))
	}
	if skipped != 5 {
		t.Errorf("skipped = %d, want 5", skipped)
	}

	second := observations[1]
	if second.AQI != 60.5 || !second.ObservedOn.Equal(time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("second observation = %+v", second)
	}
}

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  []string
		wantErr bool
	}{
		{"valid", []string{"Denver", "2024-03-14", "55"}, false},
		{"zero aqi", []string{"Denver", "2024-03-14", "0"}, false},
		{"too short", []string{"Denver", "2024-03-14"}, true},
		{"bad date", []string{"Denver", "14/03/2024", "55"}, true},
		{"empty location", []string{" ", "2024-03-14", "55"}, true},
		{"negative", []string{"Denver", "2024-03-14", "-5"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRecord(tt.record)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseRecord() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

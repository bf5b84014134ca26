package database

import (
	"aqipredict/internal/models"
	"reflect"
	"testing"
	"time"
)

func TestLagDates(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want []string
	}{
		{
			name: "mid month",
			date: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			want: []string{"2024-03-14", "2024-03-13", "2024-03-08"},
		},
		{
			name: "crosses leap day",
			date: time.Date(2024, 3, 2, 12, 30, 0, 0, time.UTC),
			want: []string{"2024-03-01", "2024-02-29", "2024-02-24"},
		},
		{
			name: "crosses year",
			date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			want: []string{"2024-01-02", "2024-01-01", "2023-12-27"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LagDates(tt.date); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LagDates() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveLags(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		observed    map[string]float64
		wantLags    models.LagHistory
		wantMissing []int
	}{
		{
			name:        "all observed",
			observed:    map[string]float64{"2024-03-14": 55, "2024-03-13": 60, "2024-03-08": 120},
			wantLags:    models.LagHistory{Lag1: 55, Lag2: 60, Lag7: 120},
			wantMissing: []int{},
		},
		{
			name:        "week-old day missing",
			observed:    map[string]float64{"2024-03-14": 55, "2024-03-13": 60},
			wantLags:    models.LagHistory{Lag1: 55, Lag2: 60, Lag7: 100},
			wantMissing: []int{7},
		},
		{
			name:        "nothing observed",
			observed:    map[string]float64{},
			wantLags:    models.LagHistory{Lag1: 100, Lag2: 100, Lag7: 100},
			wantMissing: []int{1, 2, 7},
		},
		{
			name:        "unrelated days ignored",
			observed:    map[string]float64{"2024-03-15": 10, "2024-03-12": 20},
			wantLags:    models.LagHistory{Lag1: 100, Lag2: 100, Lag7: 100},
			wantMissing: []int{1, 2, 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveLags("Denver", date, tt.observed)

			if got.Lags != tt.wantLags {
				t.Errorf("ResolveLags().Lags = %+v, want %+v", got.Lags, tt.wantLags)
			}
			if !reflect.DeepEqual(got.Missing, tt.wantMissing) {
				t.Errorf("ResolveLags().Missing = %v, want %v", got.Missing, tt.wantMissing)
			}
			if got.Location != "Denver" || got.Date != "2024-03-15" {
				t.Errorf("ResolveLags() = %s/%s, want Denver/2024-03-15", got.Location, got.Date)
			}
		})
	}
}

func TestClose_NilConn(t *testing.T) {
	db := &DB{}
	if err := db.Close(); err != nil {
		t.Errorf("Close() error = %v, want nil", err)
	}
}

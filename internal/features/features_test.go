package features

import (
	"aqipredict/internal/models"
	"testing"
)

func TestBuild_Order(t *testing.T) {
	snapshot := models.WeatherSnapshot{
		AvgTemp:      1.0,
		AvgDewPoint:  2.0,
		AvgHumidity:  3.0,
		AvgWindSpeed: 4.0,
		AvgPressure:  5.0,
	}
	lags := models.LagHistory{Lag1: 6.0, Lag2: 7.0, Lag7: 8.0}

	got := Build(snapshot, lags)
	if len(got) != Size {
		t.Fatalf("Build() returned %d values, want %d", len(got), Size)
	}

	for i, v := range got {
		if v != float64(i+1) {
			t.Errorf("Build()[%d] (%s) = %v, want %v", i, Names[i], v, float64(i+1))
		}
	}
}

func TestBuild_AcceptsAnyValue(t *testing.T) {
	tests := []struct {
		name     string
		snapshot models.WeatherSnapshot
		lags     models.LagHistory
	}{
		{
			name:     "negative values",
			snapshot: models.WeatherSnapshot{AvgTemp: -40.0, AvgDewPoint: -60.0, AvgHumidity: -1.0, AvgWindSpeed: -5.0, AvgPressure: -29.0},
			lags:     models.LagHistory{Lag1: -10.0, Lag2: -20.0, Lag7: -70.0},
		},
		{
			name:     "implausible values",
			snapshot: models.WeatherSnapshot{AvgTemp: 1000.0, AvgDewPoint: 900.0, AvgHumidity: 500.0, AvgWindSpeed: 300.0, AvgPressure: 0.0},
			lags:     models.LagHistory{Lag1: 9999.0, Lag2: 0.0, Lag7: 1e6},
		},
		{
			name: "zero values",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.snapshot, tt.lags)
			want := []float64{
				tt.snapshot.AvgTemp, tt.snapshot.AvgDewPoint, tt.snapshot.AvgHumidity,
				tt.snapshot.AvgWindSpeed, tt.snapshot.AvgPressure,
				tt.lags.Lag1, tt.lags.Lag2, tt.lags.Lag7,
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("Build()[%d] = %v, want %v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestFields_MatchNames(t *testing.T) {
	if len(Fields) != len(Names) || len(Names) != Size {
		t.Fatalf("len(Fields) = %d, len(Names) = %d, want %d", len(Fields), len(Names), Size)
	}

	for i, f := range Fields {
		if f.Key != Names[i] {
			t.Errorf("Fields[%d].Key = %v, want %v", i, f.Key, Names[i])
		}
		if f.Step != 0.1 {
			t.Errorf("Fields[%d].Step = %v, want 0.1", i, f.Step)
		}
	}
}

func TestDefaults(t *testing.T) {
	got := Build(DefaultSnapshot(), DefaultLags())
	want := []float64{70.0, 50.0, 60.0, 5.0, 29.0, 100.0, 100.0, 100.0}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("default %s = %v, want %v", Names[i], got[i], want[i])
		}
	}
}

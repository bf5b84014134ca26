package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

const testConfig = `server:
  addr: ":9090"
  static_dir: "./assets"
model:
  backend: file
  path: "models/aqi.yaml"
weather:
  enabled: true
  requests_per_second: 0.5
  burst: 2
storage:
  enabled: true
images:
  - path: heatmap.png
    caption: "AQI Heatmap"
locations:
  - name: "San Francisco"
    latitude: 37.7749
    longitude: -122.4194
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

func reset() {
	instance = nil
	loadErr = nil
	once = *new(sync.Once)
}

func TestLoad(t *testing.T) {
	reset()

	cfg, err := Load(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %v, want :9090", cfg.Server.Addr)
	}
	if cfg.Server.StaticDir != "./assets" {
		t.Errorf("Server.StaticDir = %v, want ./assets", cfg.Server.StaticDir)
	}
	if cfg.Model.Path != "models/aqi.yaml" {
		t.Errorf("Model.Path = %v, want models/aqi.yaml", cfg.Model.Path)
	}
	if !cfg.Weather.Enabled || cfg.Weather.RequestsPerSecond != 0.5 || cfg.Weather.Burst != 2 {
		t.Errorf("Weather = %+v, want enabled at 0.5 rps burst 2", cfg.Weather)
	}
	if !cfg.Storage.Enabled {
		t.Error("Storage.Enabled = false, want true")
	}
	if len(cfg.Images) != 1 {
		t.Errorf("Expected 1 image, got %d", len(cfg.Images))
	}
	if len(cfg.Locations) != 1 || cfg.Locations[0].Name != "San Francisco" {
		t.Errorf("Locations = %+v, want San Francisco", cfg.Locations)
	}
}

func TestLoad_Defaults(t *testing.T) {
	reset()

	cfg, err := Load(writeConfig(t, "locations: []\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %v, want :8080", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 30s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Model.Backend != BackendFile || cfg.Model.Path != "model.yaml" {
		t.Errorf("Model = %+v, want file backend at model.yaml", cfg.Model)
	}
	if len(cfg.Images) != 2 {
		t.Fatalf("Expected 2 default images, got %d", len(cfg.Images))
	}
	if cfg.Images[0].Path != "heatmap.png" || cfg.Images[1].Path != "line.png" {
		t.Errorf("Images = %+v, want heatmap.png and line.png", cfg.Images)
	}
}

func TestLoad_Durations(t *testing.T) {
	reset()

	cfg, err := Load(writeConfig(t, "server:\n  addr: \":8080\"\n  read_timeout: 5s\nmodel:\n  backend: redis\n  timeout: 2m\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	if cfg.Model.Timeout != 2*time.Minute {
		t.Errorf("Model.Timeout = %v, want 2m", cfg.Model.Timeout)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	reset()
	t.Setenv("AQI_SERVER_ADDR", ":7070")
	t.Setenv("AQI_MODEL_PATH", "/srv/model.json")
	t.Setenv("AQI_WEATHER_ENABLED", "false")

	cfg, err := Load(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":7070" {
		t.Errorf("Server.Addr = %v, want :7070", cfg.Server.Addr)
	}
	if cfg.Model.Path != "/srv/model.json" {
		t.Errorf("Model.Path = %v, want /srv/model.json", cfg.Model.Path)
	}
	if cfg.Weather.Enabled {
		t.Error("Weather.Enabled = true, want false from environment")
	}
	if cfg.Server.StaticDir != "./assets" {
		t.Errorf("Server.StaticDir = %v, want file value ./assets", cfg.Server.StaticDir)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	reset()

	_, err := Load(writeConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Expected error for invalid YAML, got nil")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	reset()

	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Expected error for missing file, got nil")
	}

	// the failure is remembered
	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Error("Expected cached error on second Load, got nil")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown backend", "model:\n  backend: pickle\n"},
		{"file backend without path", "model:\n  backend: file\n  path: \"\"\n"},
		{"empty addr", "server:\n  addr: \"\"\n"},
		{"bad latitude", "locations:\n  - name: nowhere\n    latitude: 91\n    longitude: 0\n"},
		{"image without path", "images:\n  - caption: orphan\n"},
		{"negative rate", "weather:\n  requests_per_second: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reset()
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestGet(t *testing.T) {
	reset()

	if _, err := Load(writeConfig(t, testConfig)); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Get().Server.Addr = %v, want :9090", cfg.Server.Addr)
	}
}

func TestGet_Panic(t *testing.T) {
	reset()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected Get() to panic when config not loaded")
		}
	}()

	Get()
}

func TestLocationByName(t *testing.T) {
	cfg := &Config{Locations: []Location{{Name: "Denver", Latitude: 39.7, Longitude: -104.9}}}

	if loc, ok := cfg.LocationByName("Denver"); !ok || loc.Latitude != 39.7 {
		t.Errorf("LocationByName(Denver) = %+v, %v", loc, ok)
	}
	if _, ok := cfg.LocationByName("Boston"); ok {
		t.Error("LocationByName(Boston) should not be found")
	}
}

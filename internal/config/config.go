package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

type Location struct {
	Name      string  `yaml:"name" validate:"required"`
	Latitude  float64 `yaml:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `yaml:"longitude" validate:"gte=-180,lte=180"`
}

// Image is a pre-rendered visualization served from the static dir
type Image struct {
	Path    string `yaml:"path" validate:"required"`
	Caption string `yaml:"caption"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" envconfig:"AQI_SERVER_ADDR" validate:"required"`
	StaticDir       string        `yaml:"static_dir" envconfig:"AQI_SERVER_STATIC_DIR"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"AQI_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"AQI_SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"AQI_SERVER_SHUTDOWN_TIMEOUT"`
}

type ModelConfig struct {
	Backend string        `yaml:"backend" envconfig:"AQI_MODEL_BACKEND" validate:"oneof=file redis"`
	Path    string        `yaml:"path" envconfig:"AQI_MODEL_PATH" validate:"required_if=Backend file"`
	Timeout time.Duration `yaml:"timeout" envconfig:"AQI_MODEL_TIMEOUT"` // redis backend only
}

type WeatherConfig struct {
	Enabled           bool    `yaml:"enabled" envconfig:"AQI_WEATHER_ENABLED"`
	BaseURL           string  `yaml:"base_url" envconfig:"AQI_WEATHER_BASE_URL" validate:"omitempty,url"`
	RequestsPerSecond float64 `yaml:"requests_per_second" envconfig:"AQI_WEATHER_REQUESTS_PER_SECOND" validate:"gte=0"`
	Burst             int     `yaml:"burst" envconfig:"AQI_WEATHER_BURST" validate:"gte=0"`
}

// StorageConfig toggles the MySQL observation store used for lag lookup
type StorageConfig struct {
	Enabled bool `yaml:"enabled" envconfig:"AQI_STORAGE_ENABLED"`
}

var (
	instance *Config
	loadErr  error
	once     sync.Once
)

// Config - YAML file first, then AQI_* environment overrides
type Config struct {
	Server    ServerConfig  `yaml:"server"`
	Model     ModelConfig   `yaml:"model"`
	Weather   WeatherConfig `yaml:"weather"`
	Storage   StorageConfig `yaml:"storage"`
	Images    []Image       `yaml:"images" validate:"dive"`
	Locations []Location    `yaml:"locations" validate:"dive"`
}

// Defaults returns the configuration used for anything the file leaves out
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			StaticDir:       "./static",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    45 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Model: ModelConfig{
			Backend: BackendFile,
			Path:    "model.yaml",
			Timeout: 30 * time.Second,
		},
		Weather: WeatherConfig{
			BaseURL:           "https://api.open-meteo.com/v1/forecast",
			RequestsPerSecond: 1,
			Burst:             5,
		},
		Images: []Image{
			{Path: "heatmap.png", Caption: "AQI Heatmap"},
			{Path: "line.png", Caption: "AQI Trend"},
		},
	}
}

func Load(configPath string) (*Config, error) {
	once.Do(func() {
		instance, loadErr = load(configPath)
	})

	return instance, loadErr
}

func load(configPath string) (*Config, error) {
	cfg := Defaults()

	data, readErr := os.ReadFile(configPath)
	if readErr != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, readErr)
	}

	if parseErr := yaml.Unmarshal(data, cfg); parseErr != nil {
		return nil, fmt.Errorf("failed to parse config: %w", parseErr)
	}

	if envErr := cfg.applyEnv(); envErr != nil {
		return nil, envErr
	}

	if validateErr := cfg.validate(); validateErr != nil {
		return nil, validateErr
	}

	return cfg, nil
}

func Get() *Config {
	if instance == nil {
		panic("config not loaded - call config.Load() first")
	}
	return instance
}

// applyEnv overlays AQI_SERVER_*, AQI_MODEL_*, AQI_WEATHER_* and AQI_STORAGE_*;
// unset variables leave the file values untouched
func (c *Config) applyEnv() error {
	// tags carry the full variable name, so no prefix is passed
	for _, section := range []interface{}{&c.Server, &c.Model, &c.Weather, &c.Storage} {
		if err := envconfig.Process("", section); err != nil {
			return fmt.Errorf("failed to apply environment overrides: %w", err)
		}
	}
	return nil
}

func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LocationByName looks a configured location up
func (c *Config) LocationByName(name string) (Location, bool) {
	for _, l := range c.Locations {
		if l.Name == name {
			return l, true
		}
	}
	return Location{}, false
}

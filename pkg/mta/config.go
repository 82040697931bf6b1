package mta

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jusunglee/lirr-go/internal/feed"
)

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port      int    `yaml:"port" validate:"gt=0,lte=65535"`
	PublicDir string `yaml:"publicDir"`
}

// FeedConfig contains realtime feed settings.
// APIKey is optional; the header is only sent when it is set.
type FeedConfig struct {
	URL     string        `yaml:"url" validate:"required,url"`
	APIKey  string        `yaml:"apiKey"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

// DataConfig points at the prebuilt lookup tables
type DataConfig struct {
	StopsFile string `yaml:"stopsFile" validate:"required"`
	TripsFile string `yaml:"tripsFile" validate:"required"`
}

// MetricsConfig enables the Prometheus listener when Addr is set
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig sets the minimum log level
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// Config holds configuration for the LIRR client and server
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Feed    FeedConfig    `yaml:"feed"`
	Data    DataConfig    `yaml:"data"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:      3000,
			PublicDir: "public",
		},
		Feed: FeedConfig{
			URL:     feed.LIRRFeedURL,
			Timeout: 15 * time.Second,
		},
		Data: DataConfig{
			StopsFile: "data/lirr-stops.json",
			TripsFile: "data/lirr-trips.json",
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file,
// a .env file if present, and environment variables, in that order.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("MTA_API_KEY"); v != "" {
		c.Feed.APIKey = v
	}
	if v := os.Getenv("LIRR_FEED_URL"); v != "" {
		c.Feed.URL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %q", v)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("LIRR_STOPS_FILE"); v != "" {
		c.Data.StopsFile = v
	}
	if v := os.Getenv("LIRR_TRIPS_FILE"); v != "" {
		c.Data.TripsFile = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(strings.TrimSpace(v))
	}
	return nil
}

// Validate checks the configuration against its struct tags
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SlogLevel maps the configured level name to a slog.Level
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

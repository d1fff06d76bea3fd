package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/anton95i/device-insights/internal/domain"
)

// MinDateDisabled disables the minimum-creation-date cutoff when set as
// the MIN_CREATED_DATE value.
const MinDateDisabled = "none"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	DatasetPath     string
	BoundarySource  string
	BoundaryTimeout time.Duration
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// MinCreatedDate drops rows dated at or before it. Zero when the
	// cutoff is disabled.
	MinCreatedDate time.Time

	// DefaultViewWidth is the display width assumed for viewport zoom
	// scaling when a request does not supply its own.
	DefaultViewWidth int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	boundaryTimeout, err := parseDuration("BOUNDARY_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	minCreated, err := parseMinCreatedDate()
	if err != nil {
		return nil, err
	}

	viewWidth, err := parseViewWidth()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:         envOrDefault("HTTP_ADDR", ":8080"),
		DatasetPath:      envOrDefault("DATASET_PATH", "./data/devices.csv"),
		BoundarySource:   envOrDefault("BOUNDARY_SOURCE", "./data/laender.geojson"),
		BoundaryTimeout:  boundaryTimeout,
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:  shutdownTimeout,
		MinCreatedDate:   minCreated,
		DefaultViewWidth: viewWidth,
	}

	if cfg.DatasetPath == "" {
		return nil, errors.New("DATASET_PATH is required")
	}

	return cfg, nil
}

// parseMinCreatedDate reads the minimum-date cutoff. The stricter loader
// variant is the default; set MIN_CREATED_DATE=none to keep every row
// with a parsable date.
func parseMinCreatedDate() (time.Time, error) {
	raw := envOrDefault("MIN_CREATED_DATE", "01.01.2000")
	if strings.EqualFold(raw, MinDateDisabled) {
		return time.Time{}, nil
	}

	d, ok := domain.ParseDay(raw)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid MIN_CREATED_DATE %q: want DD.MM.YYYY or %q", raw, MinDateDisabled)
	}
	return d, nil
}

func parseViewWidth() (int, error) {
	raw := envOrDefault("DEFAULT_VIEW_WIDTH", "1500")
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid DEFAULT_VIEW_WIDTH %q: want a positive integer", raw)
	}
	return n, nil
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := envOrDefault(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: want a positive duration", key, raw)
	}
	return d, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

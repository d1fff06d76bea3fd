package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "./data/devices.csv", cfg.DatasetPath)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 1500, cfg.DefaultViewWidth)
	assert.Equal(t, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), cfg.MinCreatedDate)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("DATASET_PATH", "/srv/devices.csv")
	t.Setenv("BOUNDARY_SOURCE", "https://example.com/laender.geojson")
	t.Setenv("MIN_CREATED_DATE", "15.06.2021")
	t.Setenv("DEFAULT_VIEW_WIDTH", "900")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "/srv/devices.csv", cfg.DatasetPath)
	assert.Equal(t, "https://example.com/laender.geojson", cfg.BoundarySource)
	assert.Equal(t, time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC), cfg.MinCreatedDate)
	assert.Equal(t, 900, cfg.DefaultViewWidth)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_DisabledThreshold(t *testing.T) {
	t.Setenv("MIN_CREATED_DATE", "none")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MinCreatedDate.IsZero())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad min date", "MIN_CREATED_DATE", "2021-06-15"},
		{"bad view width", "DEFAULT_VIEW_WIDTH", "wide"},
		{"negative view width", "DEFAULT_VIEW_WIDTH", "-10"},
		{"bad shutdown timeout", "SHUTDOWN_TIMEOUT", "soon"},
		{"bad boundary timeout", "BOUNDARY_TIMEOUT", "-1s"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

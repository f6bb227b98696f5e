package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "PLANNER_DB_DSN", "PLANNER_ASSETS_MAX_MB", "LOG_JSON", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "data/db/planner.db", cfg.DatabaseDSN)
	assert.False(t, cfg.LogJSON)
	assert.False(t, cfg.JSONLogs())
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, int64(64<<20), cfg.AssetsMaxBytes())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("READ_TIMEOUT", "not-a-number")
	t.Setenv("LOG_JSON", "true")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("ENV", "production")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10, cfg.ReadTimeout)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.IsProduction())
}

func TestProductionForcesJSONLogs(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("LOG_JSON", "false")
	t.Setenv("PLANNER_ASSETS_MAX_MB", "8")

	cfg := Load()
	assert.False(t, cfg.LogJSON)
	assert.True(t, cfg.JSONLogs())
	assert.Equal(t, int64(8<<20), cfg.AssetsMaxBytes())

	cfg.AssetsMaxMB = -1
	assert.Equal(t, int64(64<<20), cfg.AssetsMaxBytes())
}

func TestParseSettingsKeepsDefaults(t *testing.T) {
	s, err := ParseSettings([]byte("blueprint:\n  wallHeight: 300\nplanar:\n  width: 1024\n"))
	require.NoError(t, err)

	assert.Equal(t, 300.0, s.Blueprint.WallHeight)
	assert.Equal(t, 10.0, s.Blueprint.WallThickness)
	assert.Equal(t, 1024.0, s.Planar.Width)
	assert.Equal(t, 600.0, s.Planar.Height)
}

func TestParseSettingsValidates(t *testing.T) {
	_, err := ParseSettings([]byte("blueprint:\n  wallThickness: -1\n"))
	assert.Error(t, err)

	_, err = ParseSettings([]byte("planar:\n  zoom: 2\n"))
	assert.Error(t, err, "unknown keys are rejected")
}

func TestLoadSettingsFile(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)

	path := filepath.Join(t.TempDir(), "planner.yaml")
	require.NoError(t, os.WriteFile(path, []byte("planar:\n  cmPerPixel: 1\n"), 0o644))
	s, err = LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Planar.CmPerPixel)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	s, err = LoadSettings(empty)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(old) })
}

func TestLoad_Defaults(t *testing.T) {
	// Run from an empty directory so no config.yaml is picked up.
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, FrequencyAuto, cfg.Analysis.Frequency)
	assert.Equal(t, 1.5, cfg.Analysis.IQRMultiplier)
	assert.Equal(t, 0.05, cfg.Analysis.JumpThreshold)
	assert.Equal(t, 30, cfg.Analysis.TrendWindow)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Security.RateLimit.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("TSCHECK_SERVER_PORT", "9090")
	t.Setenv("TSCHECK_ANALYSIS_FREQUENCY", FrequencyBusinessDay)
	t.Setenv("TSCHECK_ANALYSIS_JUMP_THRESHOLD", "0.1")
	t.Setenv("TSCHECK_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, FrequencyBusinessDay, cfg.Analysis.Frequency)
	assert.Equal(t, 0.1, cfg.Analysis.JumpThreshold)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 7070
analysis:
  frequency: calendar-day
  iqr_multiplier: 3.0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, FrequencyCalendarDay, cfg.Analysis.Frequency)
	assert.Equal(t, 3.0, cfg.Analysis.IQRMultiplier)
	// Untouched values keep their defaults.
	assert.Equal(t, 0.05, cfg.Analysis.JumpThreshold)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "server:\n  port: 7070\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))
	chdir(t, dir)

	t.Setenv("TSCHECK_SERVER_PORT", "9191")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
}

func TestLoad_InvalidFrequency(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TSCHECK_ANALYSIS_FREQUENCY", "hourly")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frequency")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "port"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "port"},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }, "read timeout"},
		{"no origins", func(c *Config) { c.Security.AllowedOrigins = nil }, "origin"},
		{"negative iqr", func(c *Config) { c.Analysis.IQRMultiplier = -1 }, "iqr"},
		{"zero jump threshold", func(c *Config) { c.Analysis.JumpThreshold = 0 }, "jump threshold"},
		{"trend window too small", func(c *Config) { c.Analysis.TrendWindow = 1 }, "trend window"},
		{"zero concurrency", func(c *Config) { c.Analysis.MaxConcurrency = 0 }, "concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidate_NormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())
	assert.Equal(t, 32<<20, int(cfg.Server.MaxUploadBytes))
	assert.Equal(t, 5*time.Minute, cfg.Server.AnalysisTimeout)
}

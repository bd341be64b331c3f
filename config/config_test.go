package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{
		"SALESCOPE_LOG_LEVEL", "SALESCOPE_LOG_PRETTY", "SALESCOPE_TIMEFRAME",
		"SALESCOPE_FORECAST_PERIODS", "SALESCOPE_REALIZATION_DAYS", "SALESCOPE_DATA_FILE",
	} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogPretty)
	assert.Equal(t, "mtd", cfg.Timeframe)
	assert.Equal(t, 3, cfg.ForecastPeriods)
	assert.Equal(t, 30, cfg.RealizationDays)
	assert.Empty(t, cfg.DefaultDataFile)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SALESCOPE_LOG_LEVEL", "debug")
	t.Setenv("SALESCOPE_LOG_PRETTY", "true")
	t.Setenv("SALESCOPE_TIMEFRAME", "ytd")
	t.Setenv("SALESCOPE_FORECAST_PERIODS", "6")
	t.Setenv("SALESCOPE_REALIZATION_DAYS", "45")
	t.Setenv("SALESCOPE_DATA_FILE", "sales.json")

	cfg := FromEnv()
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, "ytd", cfg.Timeframe)
	assert.Equal(t, 6, cfg.ForecastPeriods)
	assert.Equal(t, 45, cfg.RealizationDays)
	assert.Equal(t, "sales.json", cfg.DefaultDataFile)
}

func TestFromEnvInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("SALESCOPE_FORECAST_PERIODS", "three")
	t.Setenv("SALESCOPE_LOG_PRETTY", "maybe")

	cfg := FromEnv()
	assert.Equal(t, 3, cfg.ForecastPeriods)
	assert.False(t, cfg.LogPretty)
}

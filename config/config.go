// Package config loads CLI defaults from the environment and an optional .env file.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	LogLevel        string
	LogPretty       bool
	Timeframe       string // mtd, qtd, ytd
	ForecastPeriods int
	RealizationDays int
	DefaultDataFile string
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first when present;
// variables already set in the environment win.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() *Config {
	return &Config{
		LogLevel:        getEnv("SALESCOPE_LOG_LEVEL", "info"),
		LogPretty:       getEnvAsBool("SALESCOPE_LOG_PRETTY", false),
		Timeframe:       getEnv("SALESCOPE_TIMEFRAME", "mtd"),
		ForecastPeriods: getEnvAsInt("SALESCOPE_FORECAST_PERIODS", 3),
		RealizationDays: getEnvAsInt("SALESCOPE_REALIZATION_DAYS", 30),
		DefaultDataFile: getEnv("SALESCOPE_DATA_FILE", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

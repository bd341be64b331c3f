package engine

import "time"

// ============================================================================
// ENGINE OPTIONS — Functional options shared by every entry point
// ============================================================================

// Defaults for the tunable horizons.
const (
	DefaultForecastPeriods = 3
	DefaultRealizationDays = 30
)

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Now             time.Time // reference "today" in UTC; zero means wall clock
	ForecastPeriods int
	RealizationDays int
	Filters         Filters // dimension filters applied before aggregation
}

// WithNow pins the reference time used for windows, aging and realization.
// Tests and reproducible reports should always set it.
func WithNow(now time.Time) Option {
	return func(c *config) {
		c.Now = now
	}
}

// WithForecastPeriods sets how many future months the forecast projects.
func WithForecastPeriods(n int) Option {
	return func(c *config) {
		c.ForecastPeriods = n
	}
}

// WithRealizationDays sets the look-ahead horizon of the realization classifier.
func WithRealizationDays(days int) Option {
	return func(c *config) {
		c.RealizationDays = days
	}
}

// WithFilters restricts the dashboard to records matching the dimension filters.
func WithFilters(f Filters) Option {
	return func(c *config) {
		c.Filters = f
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		ForecastPeriods: DefaultForecastPeriods,
		RealizationDays: DefaultRealizationDays,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	// Naive record dates parse as UTC, so periods are UTC calendar periods.
	cfg.Now = cfg.Now.UTC()
	return cfg
}

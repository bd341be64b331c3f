package engine

import (
	"math"
	"sort"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ============================================================================
// FORECAST ENGINE — single exponential smoothing + weighted pipeline
// ============================================================================
// projected[i] = level·(1+BaselineGrowth) + pipelineImpact/periods
// halfWidth[i] = Z95 · σ · √i                       (i = 1..periods)
//
// The same smoothed level is the base for every projected period; growth is
// not compounded from one period to the next.
// ============================================================================

// Forecast constants.
const (
	SmoothingAlpha = 0.3
	BaselineGrowth = 0.10
	Z95            = 1.96
)

// Pipeline stage weights; any other stage gets DefaultStageWeight.
var stageWeights = map[string]float64{
	PaymentPending:    0.2,
	PaymentProcessing: 0.4,
	PaymentApproved:   0.6,
	PaymentPaid:       1.0,
}

// DefaultStageWeight applies to stages missing from the weight table.
const DefaultStageWeight = 0.3

// StageWeight returns the share of a pipeline amount expected to land.
func StageWeight(stage string) float64 {
	if w, ok := stageWeights[stage]; ok {
		return w
	}
	return DefaultStageWeight
}

// PipelineImpact is the stage-weighted sum of pipeline amounts.
func PipelineImpact(pipeline []ProcessedRecord) float64 {
	var total float64
	for _, p := range pipeline {
		total += finite(p.Amount) * StageWeight(p.Stage)
	}
	return total
}

// SmoothingFit is the result of running single exponential smoothing over a
// series.
type SmoothingFit struct {
	Level  float64   // final smoothed value
	Errors []float64 // one-step errors, len(amounts)-1 of them
	Bias   float64   // mean error
	StdDev float64   // sqrt(Σe² / (n-1)); 0 when n <= 1
}

// FitSmoothing seeds the level with the last amount, then walks the series
// from the second point, recording amount-level errors and updating
// level = alpha·amount + (1-alpha)·level.
func FitSmoothing(amounts []float64, alpha float64) SmoothingFit {
	if len(amounts) == 0 {
		return SmoothingFit{}
	}

	fit := SmoothingFit{Level: amounts[len(amounts)-1]}
	fit.Errors = make([]float64, 0, len(amounts)-1)
	for _, a := range amounts[1:] {
		fit.Errors = append(fit.Errors, a-fit.Level)
		fit.Level = alpha*a + (1-alpha)*fit.Level
	}

	if n := len(fit.Errors); n > 0 {
		fit.Bias = stat.Mean(fit.Errors, nil)
		fit.StdDev = math.Sqrt(floats.Dot(fit.Errors, fit.Errors) / float64(n))
	}
	fit.Level = finite(fit.Level)
	fit.Bias = finite(fit.Bias)
	fit.StdDev = finite(fit.StdDev)
	return fit
}

// CalculateRevenueForecast returns every dated historical record as an
// unprojected point (ascending by date) followed by the configured number of
// projected monthly points. Undated history is skipped. With no history the
// projection starts from a zero level at the configured now.
func CalculateRevenueForecast(historical, pipeline []ProcessedRecord, opts ...Option) []ForecastPoint {
	cfg := applyOptions(opts)

	history := make([]ProcessedRecord, 0, len(historical))
	for _, h := range historical {
		if h.Dated() {
			history = append(history, h)
		}
	}
	sort.SliceStable(history, func(i, j int) bool { return history[i].Date.Before(history[j].Date) })

	amounts := make([]float64, len(history))
	for i, h := range history {
		amounts[i] = finite(h.Amount)
	}
	fit := FitSmoothing(amounts, SmoothingAlpha)

	periods := cfg.ForecastPeriods
	if periods < 0 {
		periods = 0
	}
	points := make([]ForecastPoint, 0, len(history)+periods)
	for i, h := range history {
		points = append(points, ForecastPoint{Date: h.Date, Value: amounts[i]})
	}
	if periods == 0 {
		return points
	}

	base := cfg.Now
	if len(history) > 0 {
		base = history[len(history)-1].Date
	}
	impact := PipelineImpact(pipeline)
	perPeriod := impact / float64(periods)
	value := finite(fit.Level*(1+BaselineGrowth) + perPeriod)

	log.Debug().
		Int("history", len(history)).
		Int("pipeline", len(pipeline)).
		Float64("level", fit.Level).
		Float64("bias", fit.Bias).
		Float64("std_dev", fit.StdDev).
		Float64("pipeline_impact", impact).
		Int("periods", periods).
		Msg("revenue forecast fit")

	for i := 1; i <= periods; i++ {
		half := Z95 * fit.StdDev * math.Sqrt(float64(i))
		low := math.Max(0, value-half)
		high := math.Max(low, value+half)
		points = append(points, ForecastPoint{
			Date:           AddMonths(base, i),
			Value:          value,
			IsProjected:    true,
			ConfidenceLow:  &low,
			ConfidenceHigh: &high,
		})
	}
	return points
}

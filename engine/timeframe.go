package engine

import (
	"fmt"
	"strings"
	"time"
)

// ============================================================================
// TIMEFRAME — calendar window math
// ============================================================================
// All period boundaries live here. "now" is always passed in; nothing in this
// file reads the wall clock.
//
// Current window: [start of the period containing now, now]
// Prior window:   the full preceding period of the same granularity
//                 (previous month / calendar quarter / calendar year)
// ============================================================================

// Timeframe selects a reporting window.
type Timeframe string

const (
	MonthToDate   Timeframe = "mtd"
	QuarterToDate Timeframe = "qtd"
	YearToDate    Timeframe = "ytd"
)

// ParseTimeframe validates a selector string. Unlike the window functions,
// which fall back to month-to-date, it rejects unknown values.
func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(strings.ToLower(strings.TrimSpace(s))); tf {
	case MonthToDate, QuarterToDate, YearToDate:
		return tf, nil
	default:
		return "", fmt.Errorf("unknown timeframe %q (want mtd, qtd or ytd)", s)
	}
}

// Valid reports whether tf is one of the known selectors.
func (tf Timeframe) Valid() bool {
	switch tf {
	case MonthToDate, QuarterToDate, YearToDate:
		return true
	}
	return false
}

// OrDefault returns tf, or MonthToDate when tf is unknown.
func (tf Timeframe) OrDefault() Timeframe {
	if tf.Valid() {
		return tf
	}
	return MonthToDate
}

// Label returns a human-readable name for the timeframe.
func (tf Timeframe) Label() string {
	switch tf {
	case QuarterToDate:
		return "Quarter to Date"
	case YearToDate:
		return "Year to Date"
	default:
		return "Month to Date"
	}
}

// Window is an inclusive [Start, End] time range.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies within the window, both ends inclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// String renders the window as "2006-01-02 – 2006-01-02".
func (w Window) String() string {
	return fmt.Sprintf("%s – %s", w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
}

// PeriodStart returns the first instant (UTC) of the UTC calendar period
// containing now.
func PeriodStart(tf Timeframe, now time.Time) time.Time {
	y, m, _ := now.UTC().Date()
	loc := time.UTC
	switch tf {
	case QuarterToDate:
		quarter := (int(m) - 1) / 3
		return time.Date(y, time.Month(quarter*3+1), 1, 0, 0, 0, 0, loc)
	case YearToDate:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	}
}

// CurrentWindow returns [period start, now].
func CurrentWindow(tf Timeframe, now time.Time) Window {
	return Window{Start: PeriodStart(tf, now), End: now}
}

// PriorWindow returns the full period immediately preceding the current one.
// For a first-quarter now this is Q4 of the previous year.
func PriorWindow(tf Timeframe, now time.Time) Window {
	start := PeriodStart(tf, now)
	var prevStart time.Time
	switch tf {
	case QuarterToDate:
		prevStart = start.AddDate(0, -3, 0)
	case YearToDate:
		prevStart = start.AddDate(-1, 0, 0)
	default:
		prevStart = start.AddDate(0, -1, 0)
	}
	return Window{Start: prevStart, End: start.Add(-time.Nanosecond)}
}

// FilterWindow returns the records whose order date parses and falls inside w.
func FilterWindow(view RecordView, w Window) RecordView {
	return FilterView(view, func(v RecordView, i int) bool {
		d, ok := v.Date(i, DateOrder)
		return ok && w.Contains(d)
	})
}

// AddMonths moves t by n calendar months, clamping the day to the last day of
// the target month (Jan 31 + 1 month = Feb 28/29).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(first); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// EndOfDay returns the last instant of t's UTC calendar day. A bare report
// date ("2025-03-15") used as now should cover the whole day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
}

// DaysBetween returns floor((to - from) / 24h).
func DaysBetween(from, to time.Time) int {
	d := to.Sub(from)
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}

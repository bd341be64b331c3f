package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeframe(t *testing.T) {
	for _, in := range []string{"mtd", "QTD", " ytd "} {
		tf, err := ParseTimeframe(in)
		require.NoError(t, err, in)
		assert.True(t, tf.Valid())
	}

	_, err := ParseTimeframe("weekly")
	assert.Error(t, err)
	assert.Equal(t, MonthToDate, Timeframe("weekly").OrDefault())
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2025, time.August, 20, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, day(2025, time.August, 1), PeriodStart(MonthToDate, now))
	assert.Equal(t, day(2025, time.July, 1), PeriodStart(QuarterToDate, now))
	assert.Equal(t, day(2025, time.January, 1), PeriodStart(YearToDate, now))
	assert.Equal(t, day(2025, time.August, 1), PeriodStart("bogus", now))
}

func TestCurrentWindowEndsAtNow(t *testing.T) {
	w := CurrentWindow(QuarterToDate, refNow)
	assert.Equal(t, day(2025, time.January, 1), w.Start)
	assert.Equal(t, refNow, w.End)
	assert.True(t, w.Contains(refNow))
	assert.True(t, w.Contains(w.Start))
	assert.False(t, w.Contains(refNow.Add(time.Nanosecond)))
}

func TestPriorWindowQuarterRollover(t *testing.T) {
	w := PriorWindow(QuarterToDate, time.Date(2025, time.February, 15, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, day(2024, time.October, 1), w.Start)
	assert.Equal(t, day(2025, time.January, 1).Add(-time.Nanosecond), w.End)
	assert.True(t, w.Contains(time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, w.Contains(day(2025, time.January, 1)))
}

func TestPriorWindowMonthAcrossYear(t *testing.T) {
	w := PriorWindow(MonthToDate, time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, day(2024, time.December, 1), w.Start)
	assert.Equal(t, 31, w.End.Day())
	assert.Equal(t, time.December, w.End.Month())
}

func TestWindowsAreDisjointAndFullLength(t *testing.T) {
	nows := []time.Time{
		day(2025, time.January, 1),
		day(2025, time.March, 31),
		time.Date(2024, time.February, 29, 23, 0, 0, 0, time.UTC),
		day(2025, time.July, 15),
		time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC),
	}
	months := map[Timeframe]int{MonthToDate: 1, QuarterToDate: 3, YearToDate: 12}

	for _, now := range nows {
		for tf, n := range months {
			cur, prev := CurrentWindow(tf, now), PriorWindow(tf, now)
			assert.True(t, prev.End.Before(cur.Start), "%s %s: prior must end before current", tf, now)
			assert.Equal(t, cur.Start, prev.End.Add(time.Nanosecond), "%s %s: windows must be adjacent", tf, now)
			assert.Equal(t, cur.Start, prev.Start.AddDate(0, n, 0), "%s %s: prior must span a full period", tf, now)
			assert.Equal(t, 1, prev.Start.Day())
		}
	}
}

func TestFilterWindowSkipsUndated(t *testing.T) {
	view := SalesView([]SalesRecord{
		sale("1", "2025-03-01", 1),
		sale("2", "2025-02-28", 1),
		sale("3", "", 1),
		sale("4", "2025-03-15", 1),
	})
	got := FilterWindow(view, CurrentWindow(MonthToDate, refNow))
	require.Equal(t, 2, got.Len())
	assert.Equal(t, "1", got.Dimension(0, DimOrderID))
	assert.Equal(t, "4", got.Dimension(1, DimOrderID))
}

func TestAddMonthsClampsDay(t *testing.T) {
	assert.Equal(t, day(2025, time.February, 28), AddMonths(day(2025, time.January, 31), 1))
	assert.Equal(t, day(2024, time.February, 29), AddMonths(day(2024, time.January, 31), 1))
	assert.Equal(t, day(2025, time.April, 30), AddMonths(day(2025, time.January, 31), 3))
	assert.Equal(t, day(2026, time.January, 15), AddMonths(day(2025, time.November, 15), 2))
	assert.Equal(t, day(2024, time.December, 31), AddMonths(day(2025, time.March, 31), -3))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 45, DaysBetween(refNow.AddDate(0, 0, -45), refNow))
	assert.Equal(t, 0, DaysBetween(refNow, refNow.Add(23*time.Hour)))
	assert.Equal(t, -1, DaysBetween(refNow, refNow.Add(-time.Hour)))
	assert.Equal(t, -2, DaysBetween(refNow, refNow.Add(-36*time.Hour)))
}

func TestWindowsUseUTCCalendarForZonedNow(t *testing.T) {
	eastern := time.FixedZone("EST", -5*3600)
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, eastern)
	first, ok := ParseDate("2025-03-01")
	require.True(t, ok)

	cur, prior := CurrentWindow(MonthToDate, now), PriorWindow(MonthToDate, now)
	assert.Equal(t, day(2025, time.March, 1), cur.Start)
	assert.True(t, cur.Contains(first))
	assert.False(t, prior.Contains(first))

	// 08:00 on Apr 1 in +09:00 is still Mar 31 in UTC.
	tokyo := time.FixedZone("JST", 9*3600)
	late := time.Date(2025, time.April, 1, 8, 0, 0, 0, tokyo)
	assert.Equal(t, day(2025, time.March, 1), PeriodStart(MonthToDate, late))
}

func TestEndOfDay(t *testing.T) {
	end := EndOfDay(day(2025, time.March, 15))
	assert.Equal(t, day(2025, time.March, 16).Add(-time.Nanosecond), end)
	assert.True(t, CurrentWindow(MonthToDate, end).Contains(time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)))
	assert.Equal(t, end, EndOfDay(end))
}

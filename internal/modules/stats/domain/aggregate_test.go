package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"chapterly/internal/modules/stats/domain"
	"chapterly/internal/platform/calendar"
)

// Wednesday
var ref = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func at(day, hour int, hours float64) domain.Entry {
	return domain.Entry{BookID: "b1", Date: time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC), Hours: hours}
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func TestEmptyWeekIsSevenZeros(t *testing.T) {
	s := domain.Summarize(nil, calendar.Week, ref)

	assert.Equal(t, make([]float64, 7), s.Series)
	assert.Zero(t, s.Total)
	assert.Zero(t, s.Average)
	assert.Zero(t, s.Longest)
	assert.Zero(t, s.SessionCount)
}

func TestWeekSeriesIndexesMondayFirst(t *testing.T) {
	entries := []domain.Entry{
		at(18, 9, 0.5),  // Monday
		at(18, 21, 0.5), // Monday again
		at(20, 8, 1.0),  // Wednesday
		at(24, 23, 2.0), // Sunday
		at(25, 1, 9.0),  // next Monday, outside
	}

	s := domain.Summarize(entries, calendar.Week, ref)

	assert.Equal(t, []float64{1.0, 0, 1.0, 0, 0, 0, 2.0}, s.Series)
	assert.InDelta(t, 4.0, s.Total, 1e-9)
	assert.InDelta(t, 4.0/3.0, s.Average, 1e-9, "three distinct reading days")
	assert.InDelta(t, 2.0, s.Longest, 1e-9)
	assert.Equal(t, 4, s.SessionCount)
	assert.InDelta(t, s.Total, sum(s.Series), 1e-9)
}

func TestMonthSeriesLengthFollowsCalendar(t *testing.T) {
	feb := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	entries := []domain.Entry{
		{Date: time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC), Hours: 1},
		{Date: time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC), Hours: 0.25},
		{Date: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), Hours: 5},
	}

	s := domain.Summarize(entries, calendar.Month, feb)

	assert.Len(t, s.Series, 29)
	assert.InDelta(t, 1, s.Series[0], 1e-9)
	assert.InDelta(t, 0.25, s.Series[28], 1e-9)
	assert.InDelta(t, 1.25, s.Total, 1e-9)
	assert.InDelta(t, s.Total, sum(s.Series), 1e-9)
	assert.Len(t, domain.SlotLabels(calendar.Month, feb), 29)
}

func TestDaySeriesHasOneSlot(t *testing.T) {
	entries := []domain.Entry{at(20, 7, 0.75), at(20, 22, 0.25), at(19, 22, 3)}

	s := domain.Summarize(entries, calendar.Day, ref)

	assert.Equal(t, []float64{1.0}, s.Series)
	assert.InDelta(t, 1.0, s.Average, 1e-9)
}

func TestSeriesUsesReferenceLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	localRef := time.Date(2024, 3, 20, 12, 0, 0, 0, tokyo)
	// 2024-03-19 20:00 UTC is Wednesday 05:00 in Tokyo
	entries := []domain.Entry{{Date: time.Date(2024, 3, 19, 20, 0, 0, 0, time.UTC), Hours: 1}}

	s := domain.Summarize(entries, calendar.Week, localRef)

	assert.InDelta(t, 1.0, s.Series[2], 1e-9)
}

func TestSeriesSumMatchesTotalForEveryTimeframe(t *testing.T) {
	entries := []domain.Entry{at(1, 1, 0.1), at(18, 3, 0.2), at(20, 4, 0.3), at(20, 23, 0.4), at(31, 23, 0.5)}
	for _, tf := range []calendar.Timeframe{calendar.Day, calendar.Week, calendar.Month} {
		s := domain.Summarize(entries, tf, ref)
		assert.InDelta(t, s.Total, sum(s.Series), 1e-9, string(tf))
		assert.Len(t, s.Series, calendar.Slots(tf, ref), string(tf))
	}
}

func TestZeroDurationSessionsCountAsDays(t *testing.T) {
	entries := []domain.Entry{at(18, 9, 0), at(19, 9, 1)}

	assert.InDelta(t, 0.5, domain.AverageDailyHours(entries, time.UTC), 1e-9)
	assert.InDelta(t, 1, domain.LongestSession(entries), 1e-9)
}

// Package calendar holds the timeframe windows shared by the session store and the statistics engine.
// Every window is computed in the location of its reference instant.
package calendar

import (
	"fmt"
	"strings"
	"time"

	apperrors "chapterly/internal/platform/errors"
)

type Timeframe string

const (
	Day   Timeframe = "day"
	Week  Timeframe = "week"
	Month Timeframe = "month"
)

func ParseTimeframe(raw string) (Timeframe, error) {
	switch Timeframe(strings.ToLower(strings.TrimSpace(raw))) {
	case Day:
		return Day, nil
	case Week:
		return Week, nil
	case Month:
		return Month, nil
	default:
		return "", fmt.Errorf("%w: unknown timeframe %q", apperrors.ErrInvalidInput, raw)
	}
}

// Window returns the half-open interval [from, to) that contains ref.
// Weeks start on Monday, so membership matches ISO 8601 weeks.
func Window(tf Timeframe, ref time.Time) (time.Time, time.Time) {
	day := StartOfDay(ref)
	switch tf {
	case Week:
		from := day.AddDate(0, 0, -WeekdayIndex(ref))
		return from, from.AddDate(0, 0, 7)
	case Month:
		from := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		return from, from.AddDate(0, 1, 0)
	default:
		return day, day.AddDate(0, 0, 1)
	}
}

// Slots is the length of the series for tf at ref.
func Slots(tf Timeframe, ref time.Time) int {
	switch tf {
	case Week:
		return 7
	case Month:
		return DaysIn(ref.Year(), ref.Month())
	default:
		return 1
	}
}

// SlotIndex maps t (already in the window's location) to its series position.
func SlotIndex(tf Timeframe, t time.Time) int {
	switch tf {
	case Week:
		return WeekdayIndex(t)
	case Month:
		return t.Day() - 1
	default:
		return 0
	}
}

// WeekdayIndex numbers Monday as 0 and Sunday as 6.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DateKey identifies the calendar date of t in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.DateOnly)
}

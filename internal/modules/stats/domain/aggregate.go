package domain

import (
	"time"

	"chapterly/internal/platform/calendar"
)

// Entry is one session as the statistics engine sees it. Hours is non-negative.
type Entry struct {
	BookID string
	Date   time.Time
	Hours  float64
}

type Summary struct {
	Timeframe    calendar.Timeframe
	Reference    time.Time
	From         time.Time
	To           time.Time
	Total        float64
	Average      float64
	Longest      float64
	Series       []float64
	SessionCount int
}

func TotalHours(entries []Entry) float64 {
	total := 0.0
	for _, e := range entries {
		total += e.Hours
	}
	return total
}

// AverageDailyHours divides the total by the number of distinct calendar dates in loc that
// have at least one session. Zero when there are none.
func AverageDailyHours(entries []Entry, loc *time.Location) float64 {
	if len(entries) == 0 {
		return 0
	}
	days := map[string]struct{}{}
	for _, e := range entries {
		days[calendar.DateKey(e.Date, loc)] = struct{}{}
	}
	return TotalHours(entries) / float64(len(days))
}

func LongestSession(entries []Entry) float64 {
	longest := 0.0
	for _, e := range entries {
		if e.Hours > longest {
			longest = e.Hours
		}
	}
	return longest
}

// BucketedSeries sums hours per slot: one slot for a day, Monday..Sunday for a week and
// one per day of the month. Entries outside the window are ignored.
func BucketedSeries(entries []Entry, tf calendar.Timeframe, ref time.Time) []float64 {
	series := make([]float64, calendar.Slots(tf, ref))
	for _, e := range InWindow(entries, tf, ref) {
		series[calendar.SlotIndex(tf, e.Date.In(ref.Location()))] += e.Hours
	}
	return series
}

func InWindow(entries []Entry, tf calendar.Timeframe, ref time.Time) []Entry {
	from, to := calendar.Window(tf, ref)
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.Date.Before(from) && e.Date.Before(to) {
			out = append(out, e)
		}
	}
	return out
}

// Summarize restricts entries to the window first, so the series always sums to Total.
func Summarize(entries []Entry, tf calendar.Timeframe, ref time.Time) Summary {
	from, to := calendar.Window(tf, ref)
	window := InWindow(entries, tf, ref)
	return Summary{
		Timeframe:    tf,
		Reference:    ref,
		From:         from,
		To:           to,
		Total:        TotalHours(window),
		Average:      AverageDailyHours(window, ref.Location()),
		Longest:      LongestSession(window),
		Series:       BucketedSeries(window, tf, ref),
		SessionCount: len(window),
	}
}

// SlotLabels names each series slot.
func SlotLabels(tf calendar.Timeframe, ref time.Time) []string {
	switch tf {
	case calendar.Week:
		return []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	case calendar.Month:
		n := calendar.Slots(tf, ref)
		out := make([]string, n)
		for i := range out {
			out[i] = time.Date(ref.Year(), ref.Month(), i+1, 0, 0, 0, 0, ref.Location()).Format("02")
		}
		return out
	default:
		return []string{ref.Format("Mon 02 Jan")}
	}
}

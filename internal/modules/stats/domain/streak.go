package domain

import (
	"fmt"
	"sort"
	"time"

	"chapterly/internal/platform/calendar"
)

// Streak counts consecutive calendar days with at least one session.
type Streak struct {
	Current   int
	Longest   int
	ReadToday bool
}

// Streaks computes the streak as of today, in today's location. A run that ended yesterday
// is still current until today is over.
func Streaks(entries []Entry, today time.Time) Streak {
	loc := today.Location()
	days := map[string]struct{}{}
	for _, e := range entries {
		days[calendar.DateKey(e.Date, loc)] = struct{}{}
	}
	if len(days) == 0 {
		return Streak{}
	}

	has := func(d time.Time) bool {
		_, ok := days[calendar.DateKey(d, loc)]
		return ok
	}
	day := midnight(today)
	streak := Streak{ReadToday: has(day)}
	if !streak.ReadToday {
		day = day.AddDate(0, 0, -1)
	}
	for has(day) {
		streak.Current++
		day = day.AddDate(0, 0, -1)
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	run := 0
	var prev time.Time
	for idx, k := range keys {
		d, _ := time.ParseInLocation(time.DateOnly, k, loc)
		if idx > 0 && calendar.DateKey(prev.AddDate(0, 0, 1), loc) == k {
			run++
		} else {
			run = 1
		}
		streak.Longest = max(streak.Longest, run)
		prev = d
	}
	return streak
}

// FormatStreak renders "3 days (best 7)", or "none" before the first session.
func FormatStreak(current, longest int) string {
	if longest == 0 {
		return "none"
	}
	unit := "days"
	if current == 1 {
		unit = "day"
	}
	return fmt.Sprintf("%d %s (best %d)", current, unit, longest)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

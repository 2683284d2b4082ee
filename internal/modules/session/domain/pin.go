package domain

import "time"

// Pin is what the timer tells the most-read projection: the book it is holding, if any,
// and whether the clock is moving.
type Pin struct {
	BookID    string
	Running   bool
	StartTime time.Time
}

func (s Stopwatch) Pin() Pin {
	if s.IsIdle() {
		return Pin{}
	}
	return Pin{BookID: s.ActiveBookID, Running: s.Status == StatusRunning, StartTime: s.StartTime}
}

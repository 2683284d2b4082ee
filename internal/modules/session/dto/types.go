package dto

import "time"

type StartInput struct {
	BookID string
}

type TimeframeInput struct {
	Timeframe string
	Reference time.Time
}

type ExportInput struct {
	Dir string
}

type TimerOutput struct {
	Status    string
	BookID    string
	BookTitle string
	StartTime time.Time
	Elapsed   time.Duration
}

type SessionOutput struct {
	ID       string
	BookID   string
	Date     time.Time
	Duration float64
}

type StopOutput struct {
	Session            SessionOutput
	Elapsed            time.Duration
	BookTotal          float64
	AccumulatorSkipped bool
}

type ExportOutput struct {
	Paths []string
}

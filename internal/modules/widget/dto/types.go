package dto

import "time"

type RefreshInput struct {
	BookID         string
	TimerRunning   bool
	TimerStartTime time.Time
}

type SnapshotOutput struct {
	Cleared          bool
	BookID           string
	BookTitle        string
	BookAuthor       string
	TotalReadingTime float64
	HasCover         bool
	CoverImage       []byte
	IsTimerRunning   bool
	TimerStartTime   time.Time
	StreakDays       int
	PublishedAt      time.Time
}

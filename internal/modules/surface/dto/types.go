package dto

import "time"

type SurfaceInfo struct {
	Name         string
	Version      string
	Enabled      bool
	Binary       string
	Capabilities []string
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}

type SnapshotInput struct {
	BookID           string
	BookTitle        string
	BookAuthor       string
	TotalReadingTime float64
	CoverImage       []byte
	IsTimerRunning   bool
	TimerStartTime   time.Time
	StreakDays       int
	PublishedAt      time.Time
}

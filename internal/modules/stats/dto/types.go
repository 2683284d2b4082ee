package dto

import "time"

type StatisticsInput struct {
	Timeframe string
	Reference time.Time
}

type StatisticsOutput struct {
	Timeframe    string
	Reference    time.Time
	From         time.Time
	To           time.Time
	Total        float64
	Average      float64
	Longest      float64
	Series       []float64
	Labels       []string
	SessionCount int
	Streak       StreakOutput
}

type StreakInput struct {
	Reference time.Time
}

type StreakOutput struct {
	Current   int
	Longest   int
	ReadToday bool
}

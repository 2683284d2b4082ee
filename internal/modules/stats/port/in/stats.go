package in

import (
	"context"

	"chapterly/internal/modules/stats/dto"
)

type Usecase interface {
	Statistics(ctx context.Context, input dto.StatisticsInput) (dto.StatisticsOutput, error)
	// Streak is as of the reference day, in the reference location. Today in local time when empty.
	Streak(ctx context.Context, input dto.StreakInput) (dto.StreakOutput, error)
}

package in

import (
	"context"
	"time"

	statsdto "chapterly/internal/modules/stats/dto"
	statsin "chapterly/internal/modules/stats/port/in"
)

type CLIHandler struct {
	usecase statsin.Usecase
}

func NewCLIHandler(usecase statsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Statistics(ctx context.Context, timeframe string, reference time.Time) (statsdto.StatisticsOutput, error) {
	return h.usecase.Statistics(ctx, statsdto.StatisticsInput{Timeframe: timeframe, Reference: reference})
}

func (h CLIHandler) Streak(ctx context.Context, reference time.Time) (statsdto.StreakOutput, error) {
	return h.usecase.Streak(ctx, statsdto.StreakInput{Reference: reference})
}

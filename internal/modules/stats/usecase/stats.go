package usecase

import (
	"context"
	"log/slog"

	"chapterly/internal/modules/stats/domain"
	"chapterly/internal/modules/stats/dto"
	statsin "chapterly/internal/modules/stats/port/in"
	statsout "chapterly/internal/modules/stats/port/out"
	"chapterly/internal/platform/calendar"
	"chapterly/internal/platform/clock"
	"chapterly/internal/platform/logging"
)

type Interactor struct {
	sessions statsout.SessionSource
	clock    clock.Clock
	logger   *slog.Logger
}

func NewInteractor(sessions statsout.SessionSource, clk clock.Clock, logger *slog.Logger) statsin.Usecase {
	return &Interactor{sessions: sessions, clock: clk, logger: logging.OrDiscard(logger)}
}

// Statistics defaults to the current week when timeframe and reference are empty.
func (i *Interactor) Statistics(ctx context.Context, input dto.StatisticsInput) (dto.StatisticsOutput, error) {
	raw := input.Timeframe
	if raw == "" {
		raw = string(calendar.Week)
	}
	tf, err := calendar.ParseTimeframe(raw)
	if err != nil {
		return dto.StatisticsOutput{}, err
	}
	ref := input.Reference
	if ref.IsZero() {
		ref = i.clock.Now()
	}

	entries, err := i.sessions.InTimeframe(ctx, tf, ref)
	if err != nil {
		return dto.StatisticsOutput{}, err
	}
	summary := domain.Summarize(entries, tf, ref)
	streak, err := i.Streak(ctx, dto.StreakInput{Reference: i.clock.Now().In(ref.Location())})
	if err != nil {
		return dto.StatisticsOutput{}, err
	}
	i.logger.Debug("statistics computed", "timeframe", tf, "sessions", summary.SessionCount, "total_hours", summary.Total, "streak", streak.Current)

	return dto.StatisticsOutput{
		Timeframe:    string(summary.Timeframe),
		Reference:    summary.Reference,
		From:         summary.From,
		To:           summary.To,
		Total:        summary.Total,
		Average:      summary.Average,
		Longest:      summary.Longest,
		Series:       summary.Series,
		Labels:       domain.SlotLabels(tf, ref),
		SessionCount: summary.SessionCount,
		Streak:       streak,
	}, nil
}

func (i *Interactor) Streak(ctx context.Context, input dto.StreakInput) (dto.StreakOutput, error) {
	ref := input.Reference
	if ref.IsZero() {
		ref = i.clock.Now().Local()
	}
	entries, err := i.sessions.All(ctx)
	if err != nil {
		return dto.StreakOutput{}, err
	}
	s := domain.Streaks(entries, ref)
	return dto.StreakOutput{Current: s.Current, Longest: s.Longest, ReadToday: s.ReadToday}, nil
}

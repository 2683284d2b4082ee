package in

import (
	"context"
	"time"

	"chapterly/internal/modules/session/dto"
)

type Usecase interface {
	StartTiming(ctx context.Context, input dto.StartInput) (dto.TimerOutput, error)
	PauseTiming(ctx context.Context) (dto.TimerOutput, error)
	StopTiming(ctx context.Context) (dto.StopOutput, error)
	CurrentElapsed(ctx context.Context) (dto.TimerOutput, error)
	// Subscribe delivers the elapsed time on every tick until ctx is done.
	Subscribe(ctx context.Context) <-chan time.Duration
	SessionsFor(ctx context.Context, bookID string) ([]dto.SessionOutput, error)
	SessionsInTimeframe(ctx context.Context, input dto.TimeframeInput) ([]dto.SessionOutput, error)
	// AllSessions is oldest first.
	AllSessions(ctx context.Context) ([]dto.SessionOutput, error)
	ExportLog(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
	RefreshProjection(ctx context.Context) error
	Restore(ctx context.Context) (dto.TimerOutput, error)
	Close()
}

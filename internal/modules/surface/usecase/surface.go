package usecase

import (
	"context"

	"chapterly/internal/modules/surface/domain"
	"chapterly/internal/modules/surface/dto"
	surfacein "chapterly/internal/modules/surface/port/in"
	"chapterly/internal/modules/surface/service"
)

type Interactor struct {
	svc *service.SurfaceService
}

func NewInteractor(svc *service.SurfaceService) surfacein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.SurfaceInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) Broadcast(ctx context.Context, input dto.SnapshotInput) error {
	return i.svc.Broadcast(ctx, domain.Snapshot{
		BookID:           input.BookID,
		BookTitle:        input.BookTitle,
		BookAuthor:       input.BookAuthor,
		TotalReadingTime: input.TotalReadingTime,
		CoverImage:       input.CoverImage,
		IsTimerRunning:   input.IsTimerRunning,
		TimerStartTime:   input.TimerStartTime,
		StreakDays:       input.StreakDays,
		PublishedAt:      input.PublishedAt,
	})
}

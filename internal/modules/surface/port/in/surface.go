package in

import (
	"context"

	"chapterly/internal/modules/surface/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.SurfaceInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	// Broadcast pushes the snapshot to every enabled surface, clearing them when it carries no book.
	Broadcast(ctx context.Context, input dto.SnapshotInput) error
}

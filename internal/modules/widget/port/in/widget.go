package in

import (
	"context"

	"chapterly/internal/modules/widget/dto"
)

type Usecase interface {
	// Refresh recomputes the projection and publishes it. Publication failures are logged, never returned.
	Refresh(ctx context.Context, input dto.RefreshInput) (dto.SnapshotOutput, error)
	// Show reads the snapshot currently held by the shared-state surface.
	Show(ctx context.Context) (dto.SnapshotOutput, error)
}

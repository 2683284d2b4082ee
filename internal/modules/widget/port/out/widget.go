package out

import (
	"context"
	"time"

	"chapterly/internal/modules/widget/domain"
)

type BookSource interface {
	Candidates(ctx context.Context) ([]domain.Candidate, error)
	Cover(ctx context.Context, id string) ([]byte, error)
}

// Surface receives whole snapshots. A cleared snapshot replaces whatever was shown.
type Surface interface {
	Name() string
	Replace(ctx context.Context, snapshot domain.Snapshot) error
}

// StreakSource reports the reading streak as of now, in days.
type StreakSource interface {
	CurrentStreak(ctx context.Context, now time.Time) (int, error)
}

type SurfaceReader interface {
	Read(ctx context.Context) (domain.Snapshot, error)
}

package out

import (
	"context"

	surfacedto "chapterly/internal/modules/surface/dto"
	surfacein "chapterly/internal/modules/surface/port/in"
	"chapterly/internal/modules/widget/domain"
	widgetout "chapterly/internal/modules/widget/port/out"
)

// DisplaySurfaces forwards snapshots to the enabled display plugins.
type DisplaySurfaces struct {
	surfaces surfacein.Usecase
}

func NewDisplaySurfaces(surfaces surfacein.Usecase) widgetout.Surface {
	return &DisplaySurfaces{surfaces: surfaces}
}

func (d *DisplaySurfaces) Name() string {
	return "plugins"
}

func (d *DisplaySurfaces) Replace(ctx context.Context, snapshot domain.Snapshot) error {
	return d.surfaces.Broadcast(ctx, surfacedto.SnapshotInput{
		BookID:           snapshot.BookID,
		BookTitle:        snapshot.BookTitle,
		BookAuthor:       snapshot.BookAuthor,
		TotalReadingTime: snapshot.TotalReadingTime,
		CoverImage:       snapshot.CoverImage,
		IsTimerRunning:   snapshot.IsTimerRunning,
		TimerStartTime:   snapshot.TimerStartTime,
		StreakDays:       snapshot.StreakDays,
		PublishedAt:      snapshot.PublishedAt,
	})
}

package usecase

import (
	"context"
	"log/slog"
	"time"

	"chapterly/internal/modules/widget/domain"
	"chapterly/internal/modules/widget/dto"
	widgetin "chapterly/internal/modules/widget/port/in"
	widgetout "chapterly/internal/modules/widget/port/out"
	"chapterly/internal/modules/widget/service"
	"chapterly/internal/platform/clock"
	"chapterly/internal/platform/logging"
)

type Interactor struct {
	books     widgetout.BookSource
	publisher *service.Publisher
	reader    widgetout.SurfaceReader
	streak    widgetout.StreakSource
	clock     clock.Clock
	logger    *slog.Logger
}

func NewInteractor(
	books widgetout.BookSource,
	publisher *service.Publisher,
	reader widgetout.SurfaceReader,
	streak widgetout.StreakSource,
	clk clock.Clock,
	logger *slog.Logger,
) widgetin.Usecase {
	return &Interactor{books: books, publisher: publisher, reader: reader, streak: streak, clock: clk, logger: logging.OrDiscard(logger)}
}

func (i *Interactor) Refresh(ctx context.Context, input dto.RefreshInput) (dto.SnapshotOutput, error) {
	candidates, err := i.books.Candidates(ctx)
	if err != nil {
		return dto.SnapshotOutput{}, err
	}
	pin := domain.Pin{BookID: input.BookID, Running: input.TimerRunning, StartTime: input.TimerStartTime}
	book, found := domain.Choose(candidates, pin)

	now := i.clock.Now()
	var cover []byte
	var streak int
	if found {
		cover, err = i.books.Cover(ctx, book.ID)
		if err != nil {
			i.logger.Warn("cover unavailable for projection", "book_id", book.ID, "error", err)
			cover = nil
		}
		streak = i.currentStreak(ctx, now)
	}
	snapshot := domain.Project(book, found, pin, cover, streak, now)
	if err := i.publisher.Publish(ctx, snapshot); err != nil {
		i.logger.Error("projection not published", "book_id", snapshot.BookID, "error", err)
	}
	return toOutput(snapshot), nil
}

func (i *Interactor) currentStreak(ctx context.Context, now time.Time) int {
	if i.streak == nil {
		return 0
	}
	days, err := i.streak.CurrentStreak(ctx, now)
	if err != nil {
		i.logger.Warn("streak unavailable for projection", "error", err)
		return 0
	}
	return days
}

func (i *Interactor) Show(ctx context.Context) (dto.SnapshotOutput, error) {
	snapshot, err := i.reader.Read(ctx)
	if err != nil {
		return dto.SnapshotOutput{}, err
	}
	return toOutput(snapshot), nil
}

func toOutput(s domain.Snapshot) dto.SnapshotOutput {
	return dto.SnapshotOutput{
		Cleared:          s.Cleared(),
		BookID:           s.BookID,
		BookTitle:        s.BookTitle,
		BookAuthor:       s.BookAuthor,
		TotalReadingTime: s.TotalReadingTime,
		HasCover:         len(s.CoverImage) > 0,
		CoverImage:       s.CoverImage,
		IsTimerRunning:   s.IsTimerRunning,
		TimerStartTime:   s.TimerStartTime,
		StreakDays:       s.StreakDays,
		PublishedAt:      s.PublishedAt,
	}
}

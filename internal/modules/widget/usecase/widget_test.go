package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	widgetadapter "chapterly/internal/modules/widget/adapter/out"
	"chapterly/internal/modules/widget/domain"
	"chapterly/internal/modules/widget/dto"
	widgetout "chapterly/internal/modules/widget/port/out"
	"chapterly/internal/modules/widget/service"
	"chapterly/internal/modules/widget/usecase"
	"chapterly/internal/platform/clock"
	"chapterly/internal/platform/logging"
)

var now = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

type memoryBooks struct {
	books  []domain.Candidate
	covers map[string][]byte
}

func (m *memoryBooks) Candidates(context.Context) ([]domain.Candidate, error) {
	return m.books, nil
}

func (m *memoryBooks) Cover(_ context.Context, id string) ([]byte, error) {
	return m.covers[id], nil
}

type fixedStreak struct {
	days int
	err  error
	at   time.Time
}

func (f *fixedStreak) CurrentStreak(_ context.Context, at time.Time) (int, error) {
	f.at = at
	return f.days, f.err
}

type brokenSurface struct{ calls int }

func (b *brokenSurface) Name() string { return "broken" }

func (b *brokenSurface) Replace(context.Context, domain.Snapshot) error {
	b.calls++
	return errors.New("disk full")
}

func newInteractor(t *testing.T, books *memoryBooks, streak widgetout.StreakSource, extra ...widgetout.Surface) (*widgetadapter.FileSurface, *logging.RecordingHandler, func(dto.RefreshInput) dto.SnapshotOutput, func() dto.SnapshotOutput) {
	t.Helper()
	file := widgetadapter.NewFileSurface(filepath.Join(t.TempDir(), "state", "widget.json"))
	handler := logging.NewRecordingHandler()
	logger := slog.New(handler)
	surfaces := append([]widgetout.Surface{file}, extra...)
	publisher := service.NewPublisher(surfaces, service.PublishOptions{Attempts: 3, BaseDelay: time.Millisecond}, logger)
	interactor := usecase.NewInteractor(books, publisher, file, streak, clock.Fixed{At: now}, logger)

	refresh := func(in dto.RefreshInput) dto.SnapshotOutput {
		out, err := interactor.Refresh(context.Background(), in)
		require.NoError(t, err)
		return out
	}
	show := func() dto.SnapshotOutput {
		out, err := interactor.Show(context.Background())
		require.NoError(t, err)
		return out
	}
	return file, handler, refresh, show
}

func TestRefreshPublishesMostReadBook(t *testing.T) {
	books := &memoryBooks{
		books: []domain.Candidate{
			{ID: "a", Title: "Dune", Author: "Frank Herbert", TotalReadingTime: 4},
			{ID: "b", Title: "Emma", Author: "Jane Austen", TotalReadingTime: 1},
		},
		covers: map[string][]byte{"a": {0xff, 0xd8}},
	}
	_, _, refresh, show := newInteractor(t, books, nil)

	out := refresh(dto.RefreshInput{})
	assert.Equal(t, "a", out.BookID)
	assert.True(t, out.HasCover)

	shown := show()
	assert.Equal(t, "Dune", shown.BookTitle)
	assert.Equal(t, "Frank Herbert", shown.BookAuthor)
	assert.InDelta(t, 4, shown.TotalReadingTime, 1e-9)
	assert.Equal(t, []byte{0xff, 0xd8}, shown.CoverImage)
	assert.False(t, shown.IsTimerRunning)
	assert.Equal(t, now, shown.PublishedAt)
}

func TestRefreshPinsActivelyTimedBook(t *testing.T) {
	books := &memoryBooks{books: []domain.Candidate{
		{ID: "a", Title: "Dune", TotalReadingTime: 4},
		{ID: "b", Title: "Emma", TotalReadingTime: 1},
	}}
	_, _, refresh, show := newInteractor(t, books, nil)
	start := now.Add(-10 * time.Minute)

	refresh(dto.RefreshInput{BookID: "b", TimerRunning: true, TimerStartTime: start})

	shown := show()
	assert.Equal(t, "b", shown.BookID)
	assert.True(t, shown.IsTimerRunning)
	assert.Equal(t, start, shown.TimerStartTime)

	refresh(dto.RefreshInput{})
	assert.Equal(t, "a", show().BookID)
}

func TestRefreshClearsSurfaceWhenLibraryIsEmpty(t *testing.T) {
	books := &memoryBooks{books: []domain.Candidate{{ID: "a", Title: "Dune", TotalReadingTime: 4}}}
	_, _, refresh, show := newInteractor(t, books, nil)
	refresh(dto.RefreshInput{})
	require.Equal(t, "a", show().BookID)

	books.books = nil
	out := refresh(dto.RefreshInput{BookID: "a"})

	assert.True(t, out.Cleared)
	shown := show()
	assert.True(t, shown.Cleared)
	assert.Empty(t, shown.BookTitle)
}

func TestShowBeforeAnyPublication(t *testing.T) {
	_, _, _, show := newInteractor(t, &memoryBooks{}, nil)

	assert.True(t, show().Cleared)
}

func TestRefreshSwallowsPublicationFailures(t *testing.T) {
	books := &memoryBooks{books: []domain.Candidate{{ID: "a", Title: "Dune", TotalReadingTime: 4}}}
	broken := &brokenSurface{}
	_, handler, refresh, show := newInteractor(t, books, nil, broken)

	out := refresh(dto.RefreshInput{})

	assert.Equal(t, "a", out.BookID)
	assert.Equal(t, 3, broken.calls)
	assert.Equal(t, "a", show().BookID, "healthy surfaces still receive the snapshot")
	assert.Equal(t, []string{"projection not published"}, handler.Messages(slog.LevelError))
}

func TestRefreshCarriesReadingStreak(t *testing.T) {
	books := &memoryBooks{books: []domain.Candidate{{ID: "a", Title: "Dune", TotalReadingTime: 4}}}
	streak := &fixedStreak{days: 6}
	_, _, refresh, show := newInteractor(t, books, streak)

	out := refresh(dto.RefreshInput{})

	assert.Equal(t, 6, out.StreakDays)
	assert.Equal(t, 6, show().StreakDays)
	assert.Equal(t, now, streak.at)
}

func TestRefreshPublishesWithoutStreakWhenStatsFail(t *testing.T) {
	books := &memoryBooks{books: []domain.Candidate{{ID: "a", Title: "Dune", TotalReadingTime: 4}}}
	_, handler, refresh, show := newInteractor(t, books, &fixedStreak{days: 6, err: errors.New("db locked")})

	out := refresh(dto.RefreshInput{})

	assert.Equal(t, "a", out.BookID)
	assert.Zero(t, show().StreakDays)
	assert.Equal(t, []string{"streak unavailable for projection"}, handler.Messages(slog.LevelWarn))
}

func TestClearedSnapshotCarriesNoStreak(t *testing.T) {
	streak := &fixedStreak{days: 3}
	_, _, refresh, _ := newInteractor(t, &memoryBooks{}, streak)

	out := refresh(dto.RefreshInput{})

	assert.True(t, out.Cleared)
	assert.Zero(t, out.StreakDays)
	assert.True(t, streak.at.IsZero(), "no streak lookup without a book")
}

package out

import (
	"context"
	"time"

	"chapterly/internal/modules/session/domain"
)

// SessionStore is append-only.
type SessionStore interface {
	Append(ctx context.Context, session domain.Session) error
	// Get returns ErrNotFound when no session has the id.
	Get(ctx context.Context, id string) (domain.Session, error)
	ListByBook(ctx context.Context, bookID string) ([]domain.Session, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]domain.Session, error)
	ListAll(ctx context.Context) ([]domain.Session, error)
}

type TimerStateStore interface {
	Save(ctx context.Context, state domain.Stopwatch) error
	Load(ctx context.Context) (domain.Stopwatch, error)
	Clear(ctx context.Context) error
}

type BookCatalog interface {
	ReadBook(ctx context.Context, id string) (domain.BookRef, error)
	WriteAccumulator(ctx context.Context, id string, totalHours float64) error
}

type ProjectionPublisher interface {
	Publish(ctx context.Context, pin domain.Pin) error
}

type LogExporter interface {
	Export(ctx context.Context, dir string, logs []domain.BookLog) ([]string, error)
}

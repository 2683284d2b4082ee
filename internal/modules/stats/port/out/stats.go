package out

import (
	"context"
	"time"

	"chapterly/internal/modules/stats/domain"
	"chapterly/internal/platform/calendar"
)

type SessionSource interface {
	// InTimeframe returns the sessions inside the window of tf that contains ref.
	InTimeframe(ctx context.Context, tf calendar.Timeframe, ref time.Time) ([]domain.Entry, error)
	All(ctx context.Context) ([]domain.Entry, error)
}

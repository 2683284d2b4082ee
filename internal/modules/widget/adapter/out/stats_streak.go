package out

import (
	"context"
	"sync"
	"time"

	statsdto "chapterly/internal/modules/stats/dto"
	statsin "chapterly/internal/modules/stats/port/in"
	widgetout "chapterly/internal/modules/widget/port/out"
)

// StatsStreak is bound once stats exists; stats reads sessions, which publish through the widget.
type StatsStreak struct {
	mu    sync.RWMutex
	stats statsin.Usecase
}

var _ widgetout.StreakSource = (*StatsStreak)(nil)

func NewStatsStreak() *StatsStreak {
	return &StatsStreak{}
}

func (s *StatsStreak) Bind(stats statsin.Usecase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
}

// CurrentStreak counts local calendar days. It is zero until Bind is called.
func (s *StatsStreak) CurrentStreak(ctx context.Context, now time.Time) (int, error) {
	s.mu.RLock()
	stats := s.stats
	s.mu.RUnlock()
	if stats == nil {
		return 0, nil
	}
	out, err := stats.Streak(ctx, statsdto.StreakInput{Reference: now.Local()})
	if err != nil {
		return 0, err
	}
	return out.Current, nil
}

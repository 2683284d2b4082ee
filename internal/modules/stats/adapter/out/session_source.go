package out

import (
	"context"
	"time"

	sessiondto "chapterly/internal/modules/session/dto"
	sessionin "chapterly/internal/modules/session/port/in"
	"chapterly/internal/modules/stats/domain"
	statsout "chapterly/internal/modules/stats/port/out"
	"chapterly/internal/platform/calendar"
)

type SessionSource struct {
	sessions sessionin.Usecase
}

func NewSessionSource(sessions sessionin.Usecase) statsout.SessionSource {
	return &SessionSource{sessions: sessions}
}

func (s *SessionSource) InTimeframe(ctx context.Context, tf calendar.Timeframe, ref time.Time) ([]domain.Entry, error) {
	rows, err := s.sessions.SessionsInTimeframe(ctx, sessiondto.TimeframeInput{Timeframe: string(tf), Reference: ref})
	if err != nil {
		return nil, err
	}
	return toEntries(rows), nil
}

func (s *SessionSource) All(ctx context.Context) ([]domain.Entry, error) {
	rows, err := s.sessions.AllSessions(ctx)
	if err != nil {
		return nil, err
	}
	return toEntries(rows), nil
}

func toEntries(rows []sessiondto.SessionOutput) []domain.Entry {
	entries := make([]domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.Entry{BookID: row.BookID, Date: row.Date, Hours: row.Duration})
	}
	return entries
}

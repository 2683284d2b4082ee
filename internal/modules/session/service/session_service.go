package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"chapterly/internal/modules/session/domain"
	sessionout "chapterly/internal/modules/session/port/out"
	"chapterly/internal/platform/calendar"
	apperrors "chapterly/internal/platform/errors"
	"chapterly/internal/platform/id"
)

type SessionService struct {
	idGen id.Generator
	store sessionout.SessionStore
}

func NewSessionService(idGen id.Generator, store sessionout.SessionStore) *SessionService {
	return &SessionService{idGen: idGen, store: store}
}

// NewID reserves the id of a session before it is committed.
func (s *SessionService) NewID() string {
	return s.idGen.New()
}

// Commit appends one session dated at. Zero-length sessions are kept.
func (s *SessionService) Commit(ctx context.Context, sessionID, bookID string, hours float64, at time.Time) (domain.Session, error) {
	session := domain.Session{ID: sessionID, BookID: bookID, Date: at, Duration: hours}
	if err := session.Validate(); err != nil {
		return domain.Session{}, err
	}
	if err := s.store.Append(ctx, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// Committed reports whether a session with id is already stored.
func (s *SessionService) Committed(ctx context.Context, id string) (bool, error) {
	_, err := s.store.Get(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperrors.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *SessionService) ListByBook(ctx context.Context, bookID string) ([]domain.Session, error) {
	if bookID == "" {
		return nil, fmt.Errorf("%w: book id is required", apperrors.ErrInvalidInput)
	}
	return s.store.ListByBook(ctx, bookID)
}

func (s *SessionService) All(ctx context.Context) ([]domain.Session, error) {
	return s.store.ListAll(ctx)
}

// InTimeframe returns the sessions whose date falls in the window around ref, in ref's location.
func (s *SessionService) InTimeframe(ctx context.Context, tf calendar.Timeframe, ref time.Time) ([]domain.Session, error) {
	from, to := calendar.Window(tf, ref)
	return s.store.ListBetween(ctx, from, to)
}

// Logs groups every session by book, books in first-read order.
func (s *SessionService) Logs(ctx context.Context) ([]domain.BookLog, error) {
	sessions, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byBook := map[string]*domain.BookLog{}
	order := []string{}
	for _, session := range sessions {
		log, ok := byBook[session.BookID]
		if !ok {
			log = &domain.BookLog{Book: domain.BookRef{ID: session.BookID}}
			byBook[session.BookID] = log
			order = append(order, session.BookID)
		}
		log.Sessions = append(log.Sessions, session)
	}
	out := make([]domain.BookLog, 0, len(order))
	for _, bookID := range order {
		log := byBook[bookID]
		sort.SliceStable(log.Sessions, func(i, j int) bool { return log.Sessions[i].Date.Before(log.Sessions[j].Date) })
		out = append(out, *log)
	}
	return out, nil
}

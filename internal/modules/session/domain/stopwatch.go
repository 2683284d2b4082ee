package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "chapterly/internal/platform/errors"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)

// Stopwatch is the timer state. Transitions return a new value and leave the receiver
// untouched, so a caller can discard the result when persisting it fails.
type Stopwatch struct {
	Status                 Status        `json:"status"`
	ActiveBookID           string        `json:"active_book_id,omitempty"`
	StartTime              time.Time     `json:"start_time,omitempty"`
	AccumulatedBeforePause time.Duration `json:"accumulated_before_pause"`
	// CommittingSessionID is set while a stop is committing. After a crash it tells
	// Restore whether the reading already landed in the session store.
	CommittingSessionID string `json:"committing_session_id,omitempty"`
}

func Idle() Stopwatch {
	return Stopwatch{Status: StatusIdle}
}

func (s Stopwatch) IsIdle() bool {
	return s.Status == "" || s.Status == StatusIdle
}

// Start begins timing bookID, or resumes it when paused on the same book.
func (s Stopwatch) Start(bookID string, now time.Time) (Stopwatch, error) {
	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return s, fmt.Errorf("%w: book id is required", apperrors.ErrInvalidInput)
	}
	switch {
	case s.Status == StatusRunning:
		return s, apperrors.ErrTimerAlreadyRunning
	case s.Status == StatusPaused:
		if s.ActiveBookID != bookID {
			return s, fmt.Errorf("%w: paused on %s", apperrors.ErrTimerBusy, s.ActiveBookID)
		}
		return Stopwatch{Status: StatusRunning, ActiveBookID: bookID, StartTime: now, AccumulatedBeforePause: s.AccumulatedBeforePause}, nil
	default:
		return Stopwatch{Status: StatusRunning, ActiveBookID: bookID, StartTime: now}, nil
	}
}

// Pause banks the running segment.
func (s Stopwatch) Pause(now time.Time) (Stopwatch, error) {
	if s.Status != StatusRunning {
		return s, apperrors.ErrNoActiveTimer
	}
	return Stopwatch{
		Status:                 StatusPaused,
		ActiveBookID:           s.ActiveBookID,
		AccumulatedBeforePause: s.AccumulatedBeforePause + segment(s.StartTime, now),
	}, nil
}

// Stop returns the idle state and the total elapsed time to commit.
func (s Stopwatch) Stop(now time.Time) (Stopwatch, time.Duration, error) {
	if s.IsIdle() {
		return s, 0, apperrors.ErrNoActiveTimer
	}
	return Idle(), s.Elapsed(now), nil
}

// Committing marks the state with the id of the session a stop is about to commit.
// An empty id clears the mark.
func (s Stopwatch) Committing(sessionID string) Stopwatch {
	s.CommittingSessionID = sessionID
	return s
}

// Elapsed is the banked time plus the current segment while running.
func (s Stopwatch) Elapsed(now time.Time) time.Duration {
	switch s.Status {
	case StatusRunning:
		return s.AccumulatedBeforePause + segment(s.StartTime, now)
	case StatusPaused:
		return s.AccumulatedBeforePause
	default:
		return 0
	}
}

func (s Stopwatch) Validate() error {
	switch s.Status {
	case "", StatusIdle:
		return nil
	case StatusRunning, StatusPaused:
		if strings.TrimSpace(s.ActiveBookID) == "" {
			return fmt.Errorf("%w: %s timer without a book", apperrors.ErrInvalidInput, s.Status)
		}
		if s.AccumulatedBeforePause < 0 {
			return fmt.Errorf("%w: negative accumulated time", apperrors.ErrInvalidInput)
		}
		if s.Status == StatusRunning && s.StartTime.IsZero() {
			return fmt.Errorf("%w: running timer without a start time", apperrors.ErrInvalidInput)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown timer status %q", apperrors.ErrInvalidInput, s.Status)
	}
}

// segment clamps to zero when the wall clock stepped backwards.
func segment(from, to time.Time) time.Duration {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return d
}

func Hours(d time.Duration) float64 {
	return d.Hours()
}

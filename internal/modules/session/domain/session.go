package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	apperrors "chapterly/internal/platform/errors"
)

const SchemaVersion = 1

// Session is one committed reading session. Duration is in hours.
type Session struct {
	ID       string
	BookID   string
	Date     time.Time
	Duration float64
}

func (s Session) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(s.BookID) == "" {
		return fmt.Errorf("%w: book id is required", apperrors.ErrInvalidInput)
	}
	if s.Date.IsZero() {
		return fmt.Errorf("%w: session date is required", apperrors.ErrInvalidInput)
	}
	if s.Duration < 0 || math.IsNaN(s.Duration) || math.IsInf(s.Duration, 0) {
		return fmt.Errorf("%w: duration must be a non-negative number of hours", apperrors.ErrInvalidInput)
	}
	return nil
}

// BookRef is the slice of a book the timer needs.
type BookRef struct {
	ID               string
	Title            string
	Author           string
	ISBN             string
	TotalReadingTime float64
}

package domain

import "time"

// Candidate is a book the projection may show.
type Candidate struct {
	ID               string
	Title            string
	Author           string
	TotalReadingTime float64
	DateAdded        time.Time
}

// Pin names the book the timer is holding. An empty BookID means the timer is idle.
type Pin struct {
	BookID    string
	Running   bool
	StartTime time.Time
}

// Snapshot is the whole published projection. Surfaces replace it as a unit.
type Snapshot struct {
	BookID           string    `json:"book_id,omitempty"`
	BookTitle        string    `json:"book_title,omitempty"`
	BookAuthor       string    `json:"book_author,omitempty"`
	TotalReadingTime float64   `json:"total_reading_time"`
	CoverImage       []byte    `json:"cover_image,omitempty"`
	IsTimerRunning   bool      `json:"is_timer_running"`
	TimerStartTime   time.Time `json:"timer_start_time,omitempty"`
	StreakDays       int       `json:"streak_days"`
	PublishedAt      time.Time `json:"published_at"`
}

// Cleared reports whether the snapshot carries no book.
func (s Snapshot) Cleared() bool {
	return s.BookID == ""
}

// Choose picks the book to display. A pinned book wins while it exists. Otherwise the
// largest total wins, ties going to the most recently added book and then to the larger id.
func Choose(books []Candidate, pin Pin) (Candidate, bool) {
	if pin.BookID != "" {
		for _, b := range books {
			if b.ID == pin.BookID {
				return b, true
			}
		}
	}
	if len(books) == 0 {
		return Candidate{}, false
	}
	best := books[0]
	for _, b := range books[1:] {
		if outranks(b, best) {
			best = b
		}
	}
	return best, true
}

func outranks(a, b Candidate) bool {
	if a.TotalReadingTime != b.TotalReadingTime {
		return a.TotalReadingTime > b.TotalReadingTime
	}
	if !a.DateAdded.Equal(b.DateAdded) {
		return a.DateAdded.After(b.DateAdded)
	}
	return a.ID > b.ID
}

// Project builds the snapshot for the chosen book. The timer signal is only set when the
// chosen book is the pinned one. A cleared snapshot carries no streak either.
func Project(book Candidate, found bool, pin Pin, cover []byte, streakDays int, now time.Time) Snapshot {
	if !found {
		return Snapshot{PublishedAt: now}
	}
	snap := Snapshot{
		BookID:           book.ID,
		BookTitle:        book.Title,
		BookAuthor:       book.Author,
		TotalReadingTime: book.TotalReadingTime,
		CoverImage:       cover,
		StreakDays:       streakDays,
		PublishedAt:      now,
	}
	if pin.BookID == book.ID && pin.Running {
		snap.IsTimerRunning = true
		snap.TimerStartTime = pin.StartTime
	}
	return snap
}

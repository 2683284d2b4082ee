package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	apperrors "chapterly/internal/platform/errors"
)

type Status string

const (
	StatusLibrary   Status = "library"
	StatusToBeRead  Status = "to_be_read"
	StatusCompleted Status = "completed"
	StatusWishlist  Status = "wishlist"
	StatusAudiobook Status = "audiobook"
)

var Statuses = []Status{StatusLibrary, StatusToBeRead, StatusCompleted, StatusWishlist, StatusAudiobook}

func ParseStatus(raw string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	if normalized == "" {
		return StatusLibrary, nil
	}
	for _, s := range Statuses {
		if string(s) == normalized {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported status %q", apperrors.ErrInvalidInput, raw)
}

func (s Status) Label() string {
	switch s {
	case StatusToBeRead:
		return "To Be Read"
	case StatusCompleted:
		return "Completed"
	case StatusWishlist:
		return "Wishlist"
	case StatusAudiobook:
		return "Audiobook"
	default:
		return "Library"
	}
}

type Genre string

const (
	GenreFantasy           Genre = "fantasy"
	GenreScienceFiction    Genre = "science_fiction"
	GenreMystery           Genre = "mystery"
	GenreRomance           Genre = "romance"
	GenreHistoricalFiction Genre = "historical_fiction"
	GenreNonFiction        Genre = "non_fiction"
	GenreThriller          Genre = "thriller"
	GenreYoungAdult        Genre = "young_adult"
)

// genreHints is ordered; the first keyword found in the categories wins.
var genreHints = []struct {
	keyword string
	genre   Genre
}{
	{"fantasy", GenreFantasy},
	{"science fiction", GenreScienceFiction},
	{"mystery", GenreMystery},
	{"romance", GenreRomance},
	{"historical", GenreHistoricalFiction},
	{"non-fiction", GenreNonFiction},
	{"thriller", GenreThriller},
	{"young adult", GenreYoungAdult},
}

// InferGenre guesses a genre from free-form catalog categories. Empty when nothing matches.
func InferGenre(categories string) Genre {
	lower := strings.ToLower(categories)
	for _, hint := range genreHints {
		if strings.Contains(lower, hint.keyword) {
			return hint.genre
		}
	}
	return ""
}

type Mood string

const (
	MoodInspirational    Mood = "inspirational"
	MoodAdventurous      Mood = "adventurous"
	MoodRelaxing         Mood = "relaxing"
	MoodThoughtProvoking Mood = "thought_provoking"
	MoodEmotional        Mood = "emotional"
	MoodHumorous         Mood = "humorous"
)

func ParseMood(raw string) (Mood, error) {
	normalized := strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(strings.TrimSpace(raw)))
	switch Mood(normalized) {
	case "":
		return "", nil
	case MoodInspirational, MoodAdventurous, MoodRelaxing, MoodThoughtProvoking, MoodEmotional, MoodHumorous:
		return Mood(normalized), nil
	default:
		return "", fmt.Errorf("%w: unsupported mood %q", apperrors.ErrInvalidInput, raw)
	}
}

type Book struct {
	ID          string
	Title       string
	Author      string
	Description string
	CoverImage  []byte
	Status      Status
	DateAdded   time.Time
	Rating      int
	Notes       string
	Price       float64

	Genre       Genre
	Mood        Mood
	PageCount   int
	PublishDate string
	Categories  string
	ISBN        string

	AudiobookDuration time.Duration
	Narrator          string

	// TotalReadingTime is in hours. Only session commits and an explicit reset change it.
	TotalReadingTime float64
}

func (b Book) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("%w: id is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrInvalidInput)
	}
	if _, err := ParseStatus(string(b.Status)); err != nil {
		return err
	}
	if b.Rating < 0 || b.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 0 and 5", apperrors.ErrInvalidInput)
	}
	if b.PageCount < 0 {
		return fmt.Errorf("%w: page count must not be negative", apperrors.ErrInvalidInput)
	}
	return ValidateReadingTime(b.TotalReadingTime)
}

func ValidateReadingTime(hours float64) error {
	if hours < 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return fmt.Errorf("%w: reading time must be a non-negative number of hours", apperrors.ErrInvalidInput)
	}
	return nil
}

func (b Book) IsAudiobook() bool {
	return b.Status == StatusAudiobook
}

package dto

import "time"

type AddBookInput struct {
	Title             string
	Author            string
	Description       string
	Status            string
	Mood              string
	PageCount         int
	PublishDate       string
	Categories        string
	ISBN              string
	Narrator          string
	AudiobookDuration time.Duration
	CoverImage        []byte
}

type ImportPDFInput struct {
	Path   string
	Title  string
	Status string
}

type LookupInput struct {
	Query string
	ISBN  string
	Limit int
}

type SearchResultOutput struct {
	ID            string
	Title         string
	Authors       []string
	Description   string
	PageCount     int
	Categories    []string
	PublishedDate string
	AverageRating float64
	ISBN          string
	ThumbnailURL  string
}

type RecommendInput struct {
	Genres []string
	Moods  []string
	Limit  int
}

type RecommendationOutput struct {
	Result SearchResultOutput
	Score  int
}

type AddFromCatalogInput struct {
	Result SearchResultOutput
	Status string
}

type ListBooksInput struct {
	Status string
}

type UpdateStatusInput struct {
	BookID string
	Status string
}

type UpdateDetailsInput struct {
	BookID string
	Rating *int
	Notes  *string
	Mood   *string
}

type SetReadingTimeInput struct {
	BookID     string
	TotalHours float64
}

type BookOutput struct {
	ID               string
	Title            string
	Author           string
	Status           string
	TotalReadingTime float64
	DateAdded        time.Time
	HasCover         bool
}

type BookDetailOutput struct {
	ID                string
	Title             string
	Author            string
	Description       string
	Status            string
	StatusLabel       string
	Genre             string
	Mood              string
	Rating            int
	Notes             string
	PageCount         int
	PublishDate       string
	Categories        string
	ISBN              string
	Narrator          string
	AudiobookDuration time.Duration
	CoverImage        []byte
	DateAdded         time.Time
	TotalReadingTime  float64
}

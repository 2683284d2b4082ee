package domain

// CatalogEntry is one normalized volume returned by the external book catalog.
type CatalogEntry struct {
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

type CatalogQuery struct {
	Text  string
	ISBN  string
	Limit int
}

// DocumentInfo is the metadata extracted from an imported document.
type DocumentInfo struct {
	Title     string
	Author    string
	PageCount int
}

package in

import (
	"context"

	"chapterly/internal/modules/library/dto"
)

type Usecase interface {
	AddBook(ctx context.Context, input dto.AddBookInput) (dto.BookOutput, error)
	ImportPDF(ctx context.Context, input dto.ImportPDFInput) (dto.BookOutput, error)
	Lookup(ctx context.Context, input dto.LookupInput) ([]dto.SearchResultOutput, error)
	AddFromCatalog(ctx context.Context, input dto.AddFromCatalogInput) (dto.BookOutput, error)
	// Recommend ranks catalog volumes against the chosen genres and moods.
	Recommend(ctx context.Context, input dto.RecommendInput) ([]dto.RecommendationOutput, error)
	ListBooks(ctx context.Context, input dto.ListBooksInput) ([]dto.BookOutput, error)
	GetBook(ctx context.Context, id string) (dto.BookDetailOutput, error)
	UpdateStatus(ctx context.Context, input dto.UpdateStatusInput) (dto.BookOutput, error)
	UpdateDetails(ctx context.Context, input dto.UpdateDetailsInput) (dto.BookDetailOutput, error)
	RemoveBook(ctx context.Context, id string) error
	SetReadingTime(ctx context.Context, input dto.SetReadingTimeInput) error
	ResetReadingTime(ctx context.Context, id string) error
}

package in

import (
	"context"

	"chapterly/internal/modules/library/dto"
	libraryin "chapterly/internal/modules/library/port/in"
)

type CLIHandler struct {
	usecase libraryin.Usecase
}

func NewCLIHandler(usecase libraryin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) AddBook(ctx context.Context, input dto.AddBookInput) (dto.BookOutput, error) {
	return h.usecase.AddBook(ctx, input)
}

func (h CLIHandler) ImportPDF(ctx context.Context, path, title, status string) (dto.BookOutput, error) {
	return h.usecase.ImportPDF(ctx, dto.ImportPDFInput{Path: path, Title: title, Status: status})
}

func (h CLIHandler) Lookup(ctx context.Context, query, isbn string, limit int) ([]dto.SearchResultOutput, error) {
	return h.usecase.Lookup(ctx, dto.LookupInput{Query: query, ISBN: isbn, Limit: limit})
}

func (h CLIHandler) AddFromCatalog(ctx context.Context, result dto.SearchResultOutput, status string) (dto.BookOutput, error) {
	return h.usecase.AddFromCatalog(ctx, dto.AddFromCatalogInput{Result: result, Status: status})
}

func (h CLIHandler) Recommend(ctx context.Context, genres, moods []string, limit int) ([]dto.RecommendationOutput, error) {
	return h.usecase.Recommend(ctx, dto.RecommendInput{Genres: genres, Moods: moods, Limit: limit})
}

func (h CLIHandler) ListBooks(ctx context.Context, status string) ([]dto.BookOutput, error) {
	return h.usecase.ListBooks(ctx, dto.ListBooksInput{Status: status})
}

func (h CLIHandler) GetBook(ctx context.Context, id string) (dto.BookDetailOutput, error) {
	return h.usecase.GetBook(ctx, id)
}

func (h CLIHandler) UpdateStatus(ctx context.Context, id, status string) (dto.BookOutput, error) {
	return h.usecase.UpdateStatus(ctx, dto.UpdateStatusInput{BookID: id, Status: status})
}

func (h CLIHandler) UpdateDetails(ctx context.Context, input dto.UpdateDetailsInput) (dto.BookDetailOutput, error) {
	return h.usecase.UpdateDetails(ctx, input)
}

func (h CLIHandler) RemoveBook(ctx context.Context, id string) error {
	return h.usecase.RemoveBook(ctx, id)
}

func (h CLIHandler) ResetReadingTime(ctx context.Context, id string) error {
	return h.usecase.ResetReadingTime(ctx, id)
}

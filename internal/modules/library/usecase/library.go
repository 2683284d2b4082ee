package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"chapterly/internal/modules/library/domain"
	"chapterly/internal/modules/library/dto"
	libraryin "chapterly/internal/modules/library/port/in"
	libraryout "chapterly/internal/modules/library/port/out"
	"chapterly/internal/modules/library/service"
	apperrors "chapterly/internal/platform/errors"
	"chapterly/internal/platform/logging"
)

type Interactor struct {
	svc       *service.BookService
	catalog   libraryout.Catalog
	inspector libraryout.DocumentInspector
	notifier  libraryout.ChangeNotifier
	logger    *slog.Logger
}

func NewInteractor(
	svc *service.BookService,
	catalog libraryout.Catalog,
	inspector libraryout.DocumentInspector,
	notifier libraryout.ChangeNotifier,
	logger *slog.Logger,
) libraryin.Usecase {
	return &Interactor{svc: svc, catalog: catalog, inspector: inspector, notifier: notifier, logger: logging.OrDiscard(logger)}
}

func (i *Interactor) AddBook(ctx context.Context, input dto.AddBookInput) (dto.BookOutput, error) {
	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return dto.BookOutput{}, err
	}
	mood, err := domain.ParseMood(input.Mood)
	if err != nil {
		return dto.BookOutput{}, err
	}
	book, err := i.svc.Add(ctx, domain.Book{
		Title:             input.Title,
		Author:            input.Author,
		Description:       input.Description,
		Status:            status,
		Mood:              mood,
		PageCount:         input.PageCount,
		PublishDate:       input.PublishDate,
		Categories:        input.Categories,
		ISBN:              input.ISBN,
		Narrator:          input.Narrator,
		AudiobookDuration: input.AudiobookDuration,
		CoverImage:        input.CoverImage,
	})
	if err != nil {
		return dto.BookOutput{}, err
	}
	i.notify(ctx, "add", book.ID)
	return toOutput(book), nil
}

func (i *Interactor) ImportPDF(ctx context.Context, input dto.ImportPDFInput) (dto.BookOutput, error) {
	if strings.TrimSpace(input.Path) == "" {
		return dto.BookOutput{}, fmt.Errorf("%w: pdf path is required", apperrors.ErrInvalidInput)
	}
	info, err := i.inspector.Inspect(ctx, input.Path)
	if err != nil {
		return dto.BookOutput{}, err
	}
	title := info.Title
	if strings.TrimSpace(input.Title) != "" {
		title = input.Title
	}
	return i.AddBook(ctx, dto.AddBookInput{
		Title:     title,
		Author:    info.Author,
		Status:    input.Status,
		PageCount: info.PageCount,
	})
}

func (i *Interactor) Lookup(ctx context.Context, input dto.LookupInput) ([]dto.SearchResultOutput, error) {
	entries, err := i.catalog.Search(ctx, domain.CatalogQuery{Text: input.Query, ISBN: input.ISBN, Limit: input.Limit})
	if err != nil {
		return nil, err
	}
	out := make([]dto.SearchResultOutput, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toSearchResult(entry))
	}
	return out, nil
}

func (i *Interactor) Recommend(ctx context.Context, input dto.RecommendInput) ([]dto.RecommendationOutput, error) {
	prefs := domain.NewPreferences(input.Genres, input.Moods)
	if prefs.Empty() {
		return nil, fmt.Errorf("%w: choose at least one genre or mood", apperrors.ErrInvalidInput)
	}
	entries, err := i.catalog.Browse(ctx, prefs.Terms())
	if err != nil {
		return nil, err
	}
	ranked := domain.Recommend(entries, prefs, input.Limit)
	i.logger.Debug("recommendations ranked", "candidates", len(entries), "kept", len(ranked))
	out := make([]dto.RecommendationOutput, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, dto.RecommendationOutput{Result: toSearchResult(r.Entry), Score: r.Score})
	}
	return out, nil
}

func toSearchResult(entry domain.CatalogEntry) dto.SearchResultOutput {
	return dto.SearchResultOutput{
		ID:            entry.ID,
		Title:         entry.Title,
		Authors:       entry.Authors,
		Description:   entry.Description,
		PageCount:     entry.PageCount,
		Categories:    entry.Categories,
		PublishedDate: entry.PublishedDate,
		AverageRating: entry.AverageRating,
		ISBN:          entry.ISBN,
		ThumbnailURL:  entry.ThumbnailURL,
	}
}

// AddFromCatalog stores a lookup result. The cover download is best-effort.
func (i *Interactor) AddFromCatalog(ctx context.Context, input dto.AddFromCatalogInput) (dto.BookOutput, error) {
	result := input.Result
	var cover []byte
	if result.ThumbnailURL != "" {
		raw, err := i.catalog.FetchCover(ctx, result.ThumbnailURL)
		if err != nil {
			i.logger.Warn("cover download failed", "volume_id", result.ID, "error", err)
		} else {
			cover = raw
		}
	}
	return i.AddBook(ctx, dto.AddBookInput{
		Title:       result.Title,
		Author:      strings.Join(result.Authors, ", "),
		Description: result.Description,
		Status:      input.Status,
		PageCount:   result.PageCount,
		PublishDate: result.PublishedDate,
		Categories:  strings.Join(result.Categories, ", "),
		ISBN:        result.ISBN,
		CoverImage:  cover,
	})
}

func (i *Interactor) ListBooks(ctx context.Context, input dto.ListBooksInput) ([]dto.BookOutput, error) {
	var status domain.Status
	if strings.TrimSpace(input.Status) != "" {
		parsed, err := domain.ParseStatus(input.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}
	books, err := i.svc.List(ctx, status)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BookOutput, 0, len(books))
	for _, book := range books {
		out = append(out, toOutput(book))
	}
	return out, nil
}

func (i *Interactor) GetBook(ctx context.Context, id string) (dto.BookDetailOutput, error) {
	book, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.BookDetailOutput{}, err
	}
	return toDetail(book), nil
}

func (i *Interactor) UpdateStatus(ctx context.Context, input dto.UpdateStatusInput) (dto.BookOutput, error) {
	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return dto.BookOutput{}, err
	}
	book, err := i.svc.UpdateStatus(ctx, input.BookID, status)
	if err != nil {
		return dto.BookOutput{}, err
	}
	return toOutput(book), nil
}

func (i *Interactor) UpdateDetails(ctx context.Context, input dto.UpdateDetailsInput) (dto.BookDetailOutput, error) {
	var mood *domain.Mood
	if input.Mood != nil {
		parsed, err := domain.ParseMood(*input.Mood)
		if err != nil {
			return dto.BookDetailOutput{}, err
		}
		mood = &parsed
	}
	book, err := i.svc.UpdateDetails(ctx, input.BookID, input.Rating, input.Notes, mood)
	if err != nil {
		return dto.BookDetailOutput{}, err
	}
	return toDetail(book), nil
}

func (i *Interactor) RemoveBook(ctx context.Context, id string) error {
	if err := i.svc.Remove(ctx, id); err != nil {
		return err
	}
	i.notify(ctx, "remove", id)
	return nil
}

// SetReadingTime writes the accumulator without notifying; the timer recomputes after its own commit.
func (i *Interactor) SetReadingTime(ctx context.Context, input dto.SetReadingTimeInput) error {
	return i.svc.SetReadingTime(ctx, input.BookID, input.TotalHours)
}

func (i *Interactor) ResetReadingTime(ctx context.Context, id string) error {
	if _, err := i.svc.Get(ctx, id); err != nil {
		return err
	}
	if err := i.svc.SetReadingTime(ctx, id, 0); err != nil {
		return err
	}
	i.notify(ctx, "reset", id)
	return nil
}

func (i *Interactor) notify(ctx context.Context, op, bookID string) {
	if i.notifier == nil {
		return
	}
	if err := i.notifier.BooksChanged(ctx); err != nil {
		i.logger.Warn("projection refresh failed", "op", op, "book_id", bookID, "error", err)
	}
}

func toOutput(book domain.Book) dto.BookOutput {
	return dto.BookOutput{
		ID:               book.ID,
		Title:            book.Title,
		Author:           book.Author,
		Status:           string(book.Status),
		TotalReadingTime: book.TotalReadingTime,
		DateAdded:        book.DateAdded,
		HasCover:         len(book.CoverImage) > 0,
	}
}

func toDetail(book domain.Book) dto.BookDetailOutput {
	return dto.BookDetailOutput{
		ID:                book.ID,
		Title:             book.Title,
		Author:            book.Author,
		Description:       book.Description,
		Status:            string(book.Status),
		StatusLabel:       book.Status.Label(),
		Genre:             string(book.Genre),
		Mood:              string(book.Mood),
		Rating:            book.Rating,
		Notes:             book.Notes,
		PageCount:         book.PageCount,
		PublishDate:       book.PublishDate,
		Categories:        book.Categories,
		ISBN:              book.ISBN,
		Narrator:          book.Narrator,
		AudiobookDuration: book.AudiobookDuration,
		CoverImage:        book.CoverImage,
		DateAdded:         book.DateAdded,
		TotalReadingTime:  book.TotalReadingTime,
	}
}

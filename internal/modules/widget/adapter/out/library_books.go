package out

import (
	"context"

	librarydto "chapterly/internal/modules/library/dto"
	libraryin "chapterly/internal/modules/library/port/in"
	"chapterly/internal/modules/widget/domain"
	widgetout "chapterly/internal/modules/widget/port/out"
)

type LibraryBooks struct {
	library libraryin.Usecase
}

func NewLibraryBooks(library libraryin.Usecase) widgetout.BookSource {
	return &LibraryBooks{library: library}
}

func (b *LibraryBooks) Candidates(ctx context.Context) ([]domain.Candidate, error) {
	books, err := b.library.ListBooks(ctx, librarydto.ListBooksInput{})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Candidate, 0, len(books))
	for _, book := range books {
		out = append(out, domain.Candidate{
			ID:               book.ID,
			Title:            book.Title,
			Author:           book.Author,
			TotalReadingTime: book.TotalReadingTime,
			DateAdded:        book.DateAdded,
		})
	}
	return out, nil
}

func (b *LibraryBooks) Cover(ctx context.Context, id string) ([]byte, error) {
	book, err := b.library.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	return book.CoverImage, nil
}

package out

import (
	"context"

	librarydto "chapterly/internal/modules/library/dto"
	libraryin "chapterly/internal/modules/library/port/in"
	"chapterly/internal/modules/session/domain"
	sessionout "chapterly/internal/modules/session/port/out"
)

type LibraryBooks struct {
	library libraryin.Usecase
}

func NewLibraryBooks(library libraryin.Usecase) sessionout.BookCatalog {
	return &LibraryBooks{library: library}
}

func (b *LibraryBooks) ReadBook(ctx context.Context, id string) (domain.BookRef, error) {
	book, err := b.library.GetBook(ctx, id)
	if err != nil {
		return domain.BookRef{}, err
	}
	return domain.BookRef{ID: book.ID, Title: book.Title, Author: book.Author, ISBN: book.ISBN, TotalReadingTime: book.TotalReadingTime}, nil
}

func (b *LibraryBooks) WriteAccumulator(ctx context.Context, id string, totalHours float64) error {
	return b.library.SetReadingTime(ctx, librarydto.SetReadingTimeInput{BookID: id, TotalHours: totalHours})
}

package service

import (
	"context"
	"fmt"
	"strings"

	"chapterly/internal/modules/library/domain"
	libraryout "chapterly/internal/modules/library/port/out"
	"chapterly/internal/platform/clock"
	apperrors "chapterly/internal/platform/errors"
	"chapterly/internal/platform/id"
)

type BookService struct {
	clock clock.Clock
	idGen id.Generator
	store libraryout.BookStore
}

func NewBookService(clock clock.Clock, idGen id.Generator, store libraryout.BookStore) *BookService {
	return &BookService{clock: clock, idGen: idGen, store: store}
}

// Add assigns an id and DateAdded, then stores the book with a zero accumulator.
func (s *BookService) Add(ctx context.Context, book domain.Book) (domain.Book, error) {
	book.ID = s.idGen.New()
	book.Title = strings.TrimSpace(book.Title)
	book.Author = strings.TrimSpace(book.Author)
	book.DateAdded = s.clock.Now()
	book.TotalReadingTime = 0
	if book.Status == "" {
		book.Status = domain.StatusLibrary
	}
	if book.Genre == "" {
		book.Genre = domain.InferGenre(book.Categories)
	}
	if err := book.Validate(); err != nil {
		return domain.Book{}, err
	}
	if err := s.store.Insert(ctx, book); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

func (s *BookService) Get(ctx context.Context, id string) (domain.Book, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Book{}, fmt.Errorf("%w: book id is required", apperrors.ErrInvalidInput)
	}
	return s.store.FindByID(ctx, id)
}

func (s *BookService) List(ctx context.Context, status domain.Status) ([]domain.Book, error) {
	return s.store.List(ctx, status)
}

func (s *BookService) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Book, error) {
	book, err := s.Get(ctx, id)
	if err != nil {
		return domain.Book{}, err
	}
	book.Status = status
	if err := s.store.Update(ctx, book); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

func (s *BookService) UpdateDetails(ctx context.Context, id string, rating *int, notes *string, mood *domain.Mood) (domain.Book, error) {
	book, err := s.Get(ctx, id)
	if err != nil {
		return domain.Book{}, err
	}
	if rating != nil {
		book.Rating = *rating
	}
	if notes != nil {
		book.Notes = strings.TrimSpace(*notes)
	}
	if mood != nil {
		book.Mood = *mood
	}
	if err := book.Validate(); err != nil {
		return domain.Book{}, err
	}
	if err := s.store.Update(ctx, book); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

func (s *BookService) Remove(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// SetReadingTime overwrites the accumulator. The caller owns the read-modify-write.
func (s *BookService) SetReadingTime(ctx context.Context, id string, hours float64) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: book id is required", apperrors.ErrInvalidInput)
	}
	if err := domain.ValidateReadingTime(hours); err != nil {
		return err
	}
	return s.store.SetReadingTime(ctx, id, hours)
}

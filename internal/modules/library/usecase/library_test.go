package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libraryadapter "chapterly/internal/modules/library/adapter/out"
	"chapterly/internal/modules/library/domain"
	"chapterly/internal/modules/library/dto"
	libraryin "chapterly/internal/modules/library/port/in"
	"chapterly/internal/modules/library/service"
	"chapterly/internal/modules/library/usecase"
	"chapterly/internal/platform/clock"
	apperrors "chapterly/internal/platform/errors"
	"chapterly/internal/platform/sqlitedb"
)

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("book-%d", s.n)
}

type fakeCatalog struct {
	entries  []domain.CatalogEntry
	cover    []byte
	coverErr error
	lastQ    domain.CatalogQuery
	browsed  []string
}

func (f *fakeCatalog) Search(_ context.Context, q domain.CatalogQuery) ([]domain.CatalogEntry, error) {
	f.lastQ = q
	return f.entries, nil
}

func (f *fakeCatalog) Browse(_ context.Context, terms []string) ([]domain.CatalogEntry, error) {
	f.browsed = terms
	return f.entries, nil
}

func (f *fakeCatalog) FetchCover(context.Context, string) ([]byte, error) {
	return f.cover, f.coverErr
}

type fakeInspector struct{ info domain.DocumentInfo }

func (f fakeInspector) Inspect(context.Context, string) (domain.DocumentInfo, error) {
	return f.info, nil
}

type countingNotifier struct{ calls int }

func (n *countingNotifier) BooksChanged(context.Context) error {
	n.calls++
	return nil
}

func newInteractor(t *testing.T, catalog *fakeCatalog, inspector fakeInspector, notifier *countingNotifier) libraryin.Usecase {
	t.Helper()
	db, err := sqlitedb.Open(filepath.Join(t.TempDir(), "chapterly.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store, err := libraryadapter.NewSQLiteBookStore(context.Background(), db)
	require.NoError(t, err)
	clk := clock.Fixed{At: time.Date(2024, 5, 4, 10, 0, 0, 0, time.UTC)}
	return usecase.NewInteractor(service.NewBookService(clk, &seqID{}, store), catalog, inspector, notifier, nil)
}

func TestAddListShowAndStatus(t *testing.T) {
	ctx := context.Background()
	notifier := &countingNotifier{}
	uc := newInteractor(t, &fakeCatalog{}, fakeInspector{}, notifier)

	out, err := uc.AddBook(ctx, dto.AddBookInput{Title: " Dune ", Author: "Frank Herbert", Status: "to be read", Categories: "Science Fiction"})
	require.NoError(t, err)
	assert.Equal(t, "book-1", out.ID)
	assert.Equal(t, "Dune", out.Title)
	assert.Equal(t, "to_be_read", out.Status)
	assert.Zero(t, out.TotalReadingTime)
	assert.Equal(t, 1, notifier.calls)

	detail, err := uc.GetBook(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, "science_fiction", detail.Genre)
	assert.Equal(t, "To Be Read", detail.StatusLabel)

	_, err = uc.UpdateStatus(ctx, dto.UpdateStatusInput{BookID: out.ID, Status: "completed"})
	require.NoError(t, err)
	completed, err := uc.ListBooks(ctx, dto.ListBooksInput{Status: "completed"})
	require.NoError(t, err)
	require.Len(t, completed, 1)

	rating, notes := 4, "loved the worldbuilding"
	detail, err = uc.UpdateDetails(ctx, dto.UpdateDetailsInput{BookID: out.ID, Rating: &rating, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, 4, detail.Rating)
	assert.Equal(t, notes, detail.Notes)

	_, err = uc.AddBook(ctx, dto.AddBookInput{Title: ""})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = uc.ListBooks(ctx, dto.ListBooksInput{Status: "borrowed"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestReadingTimeWriteAndReset(t *testing.T) {
	ctx := context.Background()
	notifier := &countingNotifier{}
	uc := newInteractor(t, &fakeCatalog{}, fakeInspector{}, notifier)
	out, err := uc.AddBook(ctx, dto.AddBookInput{Title: "Piranesi"})
	require.NoError(t, err)

	require.NoError(t, uc.SetReadingTime(ctx, dto.SetReadingTimeInput{BookID: out.ID, TotalHours: 2.5}))
	assert.Equal(t, 1, notifier.calls, "accumulator writes leave the refresh to the timer")
	detail, err := uc.GetBook(ctx, out.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, detail.TotalReadingTime, 1e-9)

	assert.ErrorIs(t, uc.SetReadingTime(ctx, dto.SetReadingTimeInput{BookID: out.ID, TotalHours: -1}), apperrors.ErrInvalidInput)
	assert.ErrorIs(t, uc.SetReadingTime(ctx, dto.SetReadingTimeInput{BookID: "nope", TotalHours: 1}), apperrors.ErrNotFound)

	require.NoError(t, uc.ResetReadingTime(ctx, out.ID))
	detail, err = uc.GetBook(ctx, out.ID)
	require.NoError(t, err)
	assert.Zero(t, detail.TotalReadingTime)
	assert.Equal(t, 2, notifier.calls)
}

func TestRemoveBookNotifies(t *testing.T) {
	ctx := context.Background()
	notifier := &countingNotifier{}
	uc := newInteractor(t, &fakeCatalog{}, fakeInspector{}, notifier)
	out, err := uc.AddBook(ctx, dto.AddBookInput{Title: "Circe"})
	require.NoError(t, err)

	require.NoError(t, uc.RemoveBook(ctx, out.ID))
	assert.Equal(t, 2, notifier.calls)
	_, err = uc.GetBook(ctx, out.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, uc.RemoveBook(ctx, out.ID), apperrors.ErrNotFound)
}

func TestLookupAndAddFromCatalog(t *testing.T) {
	ctx := context.Background()
	catalog := &fakeCatalog{
		entries: []domain.CatalogEntry{{ID: "v1", Title: "Educated", Authors: []string{"Tara Westover"}, PageCount: 352, ThumbnailURL: "http://img"}},
		cover:   []byte("cover"),
	}
	uc := newInteractor(t, catalog, fakeInspector{}, &countingNotifier{})

	results, err := uc.Lookup(ctx, dto.LookupInput{ISBN: "9780399590504", Limit: 5})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "9780399590504", catalog.lastQ.ISBN)

	out, err := uc.AddFromCatalog(ctx, dto.AddFromCatalogInput{Result: results[0], Status: "wishlist"})
	require.NoError(t, err)
	assert.True(t, out.HasCover)
	assert.Equal(t, "Tara Westover", out.Author)

	catalog.coverErr = errors.New("offline")
	out, err = uc.AddFromCatalog(ctx, dto.AddFromCatalogInput{Result: results[0]})
	require.NoError(t, err)
	assert.False(t, out.HasCover)
}

func TestImportPDFUsesDocumentMetadata(t *testing.T) {
	ctx := context.Background()
	uc := newInteractor(t, &fakeCatalog{}, fakeInspector{info: domain.DocumentInfo{Title: "Thinking in Systems", Author: "Donella Meadows", PageCount: 218}}, &countingNotifier{})

	out, err := uc.ImportPDF(ctx, dto.ImportPDFInput{Path: "/tmp/systems.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "Thinking in Systems", out.Title)

	detail, err := uc.GetBook(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, 218, detail.PageCount)

	_, err = uc.ImportPDF(ctx, dto.ImportPDFInput{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestRecommendRanksCatalogVolumes(t *testing.T) {
	ctx := context.Background()
	catalog := &fakeCatalog{entries: []domain.CatalogEntry{
		{ID: "v1", Title: "Thin", Authors: []string{"A"}, PageCount: 40, AverageRating: 5},
		{ID: "v2", Title: "Plain", Authors: []string{"B"}, PageCount: 300, AverageRating: 4.5},
		{ID: "v3", Title: "Quest", Authors: []string{"C"}, PageCount: 420, AverageRating: 3.5, Categories: []string{"Fiction / Fantasy"}, Description: "An adventurous journey"},
	}}
	uc := newInteractor(t, catalog, fakeInspector{}, &countingNotifier{})

	recs, err := uc.Recommend(ctx, dto.RecommendInput{Genres: []string{"Fantasy"}, Moods: []string{"adventurous"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"fantasy", "adventurous"}, catalog.browsed)
	require.Len(t, recs, 2)
	assert.Equal(t, "v3", recs[0].Result.ID)
	assert.Equal(t, 5, recs[0].Score)
	assert.Equal(t, "v2", recs[1].Result.ID)
	assert.InDelta(t, 4.5, recs[1].Result.AverageRating, 1e-9)

	_, err = uc.Recommend(ctx, dto.RecommendInput{Genres: []string{" "}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

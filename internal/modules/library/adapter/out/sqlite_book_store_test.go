package out_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libraryadapter "chapterly/internal/modules/library/adapter/out"
	"chapterly/internal/modules/library/domain"
	libraryout "chapterly/internal/modules/library/port/out"
	apperrors "chapterly/internal/platform/errors"
	"chapterly/internal/platform/sqlitedb"
)

func newStore(t *testing.T) libraryout.BookStore {
	t.Helper()
	db, err := sqlitedb.Open(filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store, err := libraryadapter.NewSQLiteBookStore(context.Background(), db)
	require.NoError(t, err)
	return store
}

func TestSQLiteBookStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	added := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	book := domain.Book{
		ID:                "b1",
		Title:             "Project Hail Mary",
		Author:            "Andy Weir",
		Status:            domain.StatusAudiobook,
		DateAdded:         added,
		Genre:             domain.GenreScienceFiction,
		PageCount:         476,
		CoverImage:        []byte{0x89, 0x50, 0x4e, 0x47},
		Narrator:          "Ray Porter",
		AudiobookDuration: 16*time.Hour + 10*time.Minute,
		TotalReadingTime:  1.5,
	}
	require.NoError(t, store.Insert(ctx, book))

	got, err := store.FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, book, got)

	require.NoError(t, store.SetReadingTime(ctx, "b1", 2.25))
	got, err = store.FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.InDelta(t, 2.25, got.TotalReadingTime, 1e-9)

	got.Status = domain.StatusCompleted
	got.Rating = 5
	require.NoError(t, store.Update(ctx, got))
	got, err = store.FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Equal(t, 5, got.Rating)
}

func TestSQLiteBookStoreListFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Insert(ctx, domain.Book{ID: "a", Title: "A", Status: domain.StatusLibrary, DateAdded: base}))
	require.NoError(t, store.Insert(ctx, domain.Book{ID: "b", Title: "B", Status: domain.StatusWishlist, DateAdded: base.Add(time.Hour)}))
	require.NoError(t, store.Insert(ctx, domain.Book{ID: "c", Title: "C", Status: domain.StatusLibrary, DateAdded: base.Add(2 * time.Hour)}))

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{all[0].ID, all[1].ID, all[2].ID})

	library, err := store.List(ctx, domain.StatusLibrary)
	require.NoError(t, err)
	require.Len(t, library, 2)
	assert.Equal(t, "c", library[0].ID)
}

func TestSQLiteBookStoreMissingBook(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	_, err := store.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, store.SetReadingTime(ctx, "missing", 1), apperrors.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "missing"), apperrors.ErrNotFound)

	require.NoError(t, store.Insert(ctx, domain.Book{ID: "x", Title: "X", Status: domain.StatusLibrary, DateAdded: time.Now()}))
	require.NoError(t, store.Delete(ctx, "x"))
	_, err = store.FindByID(ctx, "x")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

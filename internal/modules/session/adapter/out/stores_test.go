package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessionadapter "chapterly/internal/modules/session/adapter/out"
	"chapterly/internal/modules/session/domain"
	sessionout "chapterly/internal/modules/session/port/out"
	apperrors "chapterly/internal/platform/errors"
	"chapterly/internal/platform/sqlitedb"
)

func newSessionStore(t *testing.T) sessionout.SessionStore {
	t.Helper()
	db, err := sqlitedb.Open(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store, err := sessionadapter.NewSQLiteSessionStore(context.Background(), db)
	require.NoError(t, err)
	return store
}

func TestSQLiteSessionStoreQueries(t *testing.T) {
	ctx := context.Background()
	store := newSessionStore(t)
	monday := time.Date(2024, 3, 18, 8, 0, 0, 0, time.UTC)
	sessions := []domain.Session{
		{ID: "s1", BookID: "b1", Date: monday, Duration: 0.5},
		{ID: "s2", BookID: "b2", Date: monday.Add(26 * time.Hour), Duration: 1},
		{ID: "s3", BookID: "b1", Date: monday.AddDate(0, 0, 7), Duration: 0.25},
	}
	for _, s := range sessions {
		require.NoError(t, store.Append(ctx, s))
	}

	byBook, err := store.ListByBook(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, byBook, 2)
	assert.Equal(t, "s3", byBook[0].ID, "newest first")
	assert.Equal(t, sessions[0], byBook[1])

	week, err := store.ListBetween(ctx, monday.Add(-8*time.Hour), monday.AddDate(0, 0, 7).Add(-8*time.Hour))
	require.NoError(t, err)
	require.Len(t, week, 2)
	assert.Equal(t, []string{"s1", "s2"}, []string{week[0].ID, week[1].ID})

	// the upper bound is exclusive
	edge, err := store.ListBetween(ctx, monday.Add(time.Hour), monday.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, edge, 1)
	assert.Equal(t, "s2", edge[0].ID)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	got, err := store.Get(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, sessions[1], got)
	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSQLiteSessionStoreRejectsInvalidSessions(t *testing.T) {
	ctx := context.Background()
	store := newSessionStore(t)
	now := time.Now()

	err := store.Append(ctx, domain.Session{ID: "s1", BookID: "b1", Date: now, Duration: -1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	err = store.Append(ctx, domain.Session{ID: "s2", Date: now, Duration: 1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	require.NoError(t, store.Append(ctx, domain.Session{ID: "s3", BookID: "b1", Date: now, Duration: 0}))
	err = store.Append(ctx, domain.Session{ID: "s3", BookID: "b1", Date: now, Duration: 0})
	assert.ErrorIs(t, err, apperrors.ErrPersistence)
}

func TestFileTimerStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "timer.json")
	store := sessionadapter.NewFileTimerStore(path)

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNoActiveTimer)

	paused := domain.Stopwatch{Status: domain.StatusPaused, ActiveBookID: "b1", AccumulatedBeforePause: 12 * time.Minute}
	require.NoError(t, store.Save(ctx, paused))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, paused, got)

	running := domain.Stopwatch{Status: domain.StatusRunning, ActiveBookID: "b1", StartTime: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), AccumulatedBeforePause: 12 * time.Minute}
	require.NoError(t, store.Save(ctx, running))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, running, got)

	committing := running.Committing("sess-9")
	require.NoError(t, store.Save(ctx, committing))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sess-9", got.CommittingSessionID)

	require.NoError(t, store.Save(ctx, domain.Idle()))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, store.Clear(ctx))
}

func TestFileTimerStoreRejectsCorruptState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timer.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"stopwatch":{"status":"running"}}`), 0o644))

	_, err := sessionadapter.NewFileTimerStore(path).Load(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestMarkdownLogExporterKeepsHandWrittenNotes(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	exporter := sessionadapter.NewMarkdownLogExporter()
	log := domain.BookLog{
		Book: domain.BookRef{ID: "0f8fad5b-d9cb-469f-a165-70867728950e", Title: "The Name of the Wind", Author: "Patrick Rothfuss"},
		Sessions: []domain.Session{
			{ID: "s1", BookID: "0f8fad5b-d9cb-469f-a165-70867728950e", Date: time.Date(2024, 3, 18, 21, 0, 0, 0, time.UTC), Duration: 0.5},
		},
	}

	paths, err := exporter.Export(ctx, dir, []domain.BookLog{log})
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, "the-name-of-the-wind-0f8fad5b.md", filepath.Base(paths[0]))

	raw, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	edited := strings.Replace(string(raw), "# The Name of the Wind\n", "# The Name of the Wind\n\nKvothe is unreliable.\n", 1)
	require.NoError(t, os.WriteFile(paths[0], []byte(edited), 0o644))

	log.Sessions = append(log.Sessions, domain.Session{ID: "s2", BookID: log.Book.ID, Date: time.Date(2024, 3, 19, 21, 0, 0, 0, time.UTC), Duration: 1})
	_, err = exporter.Export(ctx, dir, []domain.BookLog{log})
	require.NoError(t, err)

	raw, err = os.ReadFile(paths[0])
	require.NoError(t, err)
	text := string(raw)
	assert.Contains(t, text, "Kvothe is unreliable.")
	assert.Contains(t, text, "| 2024-03-19 21:00 |      60 |")
	assert.Contains(t, text, "total_hours: 1.5")
	assert.Contains(t, text, "Total: 1.50 h")
	assert.Equal(t, 1, strings.Count(text, "<!-- chapterly:sessions:start -->"))
}

func TestMarkdownLogExporterNamesNotesByISBNAndKeepsTags(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	exporter := sessionadapter.NewMarkdownLogExporter()
	log := domain.BookLog{
		Book:     domain.BookRef{ID: "b1", Title: "Kindred", ISBN: "978-0-8070-8305-1"},
		Sessions: []domain.Session{{ID: "s1", BookID: "b1", Date: time.Date(2024, 3, 18, 21, 0, 0, 0, time.UTC), Duration: 0.25}},
	}

	paths, err := exporter.Export(ctx, dir, []domain.BookLog{log})
	require.NoError(t, err)
	assert.Equal(t, "kindred-9780807083051.md", filepath.Base(paths[0]))

	raw, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	tagged := strings.Replace(string(raw), "total_hours: 0.25\n", "total_hours: 0.25\ntags:\n  - book-club\n", 1)
	require.NoError(t, os.WriteFile(paths[0], []byte(tagged), 0o644))

	log.Missing = true
	_, err = exporter.Export(ctx, dir, []domain.BookLog{log})
	require.NoError(t, err)

	raw, err = os.ReadFile(paths[0])
	require.NoError(t, err)
	text := string(raw)
	assert.Contains(t, text, "isbn: \"9780807083051\"")
	assert.Contains(t, text, "removed: true")
	assert.Contains(t, text, "  - book-club")
}

package tx_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chapterly/internal/platform/sqlitedb"
	"chapterly/internal/platform/tx"
)

func TestSQLManagerCommitsAndRollsBack(t *testing.T) {
	ctx := context.Background()
	db, err := sqlitedb.Open(filepath.Join(t.TempDir(), "tx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlitedb.Migrate(ctx, db, []string{`CREATE TABLE IF NOT EXISTS items (name TEXT NOT NULL)`}))

	manager := tx.NewSQLManager(db)
	insert := func(ctx context.Context, name string) error {
		_, err := tx.From(ctx, db).ExecContext(ctx, `INSERT INTO items (name) VALUES (?)`, name)
		return err
	}

	require.NoError(t, manager.Within(ctx, func(ctx context.Context) error {
		if err := insert(ctx, "kept"); err != nil {
			return err
		}
		// nested calls join the outer transaction
		return manager.Within(ctx, func(ctx context.Context) error { return insert(ctx, "nested") })
	}))

	boom := errors.New("boom")
	err = manager.Within(ctx, func(ctx context.Context) error {
		if err := insert(ctx, "dropped"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var names []string
	require.NoError(t, tx.From(ctx, db).SelectContext(ctx, &names, `SELECT name FROM items ORDER BY name`))
	assert.Equal(t, []string{"kept", "nested"}, names)
}

func TestNoopManagerRunsFn(t *testing.T) {
	called := false
	err := tx.NoopManager{}.Within(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

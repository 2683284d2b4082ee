package out

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/jmoiron/sqlx"

	"chapterly/internal/modules/session/domain"
	sessionout "chapterly/internal/modules/session/port/out"
	apperrors "chapterly/internal/platform/errors"
	"chapterly/internal/platform/sqlitedb"
	"chapterly/internal/platform/tx"
)

const (
	tableSessions = "reading_sessions"
	colID         = "id"
	colBookID     = "book_id"
	colDate       = "date"
)

var sessionsSchema = []string{`
CREATE TABLE IF NOT EXISTS reading_sessions (
  id TEXT PRIMARY KEY,
  book_id TEXT NOT NULL,
  date INTEGER NOT NULL,
  duration REAL NOT NULL CHECK (duration >= 0)
)`,
	`CREATE INDEX IF NOT EXISTS idx_reading_sessions_book ON reading_sessions(book_id, date)`,
	`CREATE INDEX IF NOT EXISTS idx_reading_sessions_date ON reading_sessions(date)`,
}

type sessionRow struct {
	ID       string  `db:"id"`
	BookID   string  `db:"book_id"`
	Date     int64   `db:"date"`
	Duration float64 `db:"duration"`
}

// SQLiteSessionStore keeps dates as UTC unix nanoseconds so range queries compare integers.
type SQLiteSessionStore struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
}

func NewSQLiteSessionStore(ctx context.Context, db *sqlx.DB) (sessionout.SessionStore, error) {
	if err := sqlitedb.Migrate(ctx, db, sessionsSchema); err != nil {
		return nil, fmt.Errorf("create sessions table: %w", err)
	}
	return &SQLiteSessionStore{db: db, dialect: goqu.Dialect("sqlite3")}, nil
}

func (s *SQLiteSessionStore) Append(ctx context.Context, session domain.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}
	row := sessionRow{ID: session.ID, BookID: session.BookID, Date: session.Date.UTC().UnixNano(), Duration: session.Duration}
	query, args, err := s.dialect.Insert(tableSessions).Rows(row).Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build insert session: %w", err)
	}
	if _, err := tx.From(ctx, s.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: append session: %v", apperrors.ErrPersistence, err)
	}
	return nil
}

func (s *SQLiteSessionStore) Get(ctx context.Context, id string) (domain.Session, error) {
	sessions, err := s.list(ctx, s.dialect.From(tableSessions).Where(goqu.C(colID).Eq(id)).Limit(1))
	if err != nil {
		return domain.Session{}, err
	}
	if len(sessions) == 0 {
		return domain.Session{}, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, id)
	}
	return sessions[0], nil
}

// ListByBook is newest first.
func (s *SQLiteSessionStore) ListByBook(ctx context.Context, bookID string) ([]domain.Session, error) {
	return s.list(ctx, s.dialect.From(tableSessions).
		Where(goqu.C(colBookID).Eq(bookID)).
		Order(goqu.C(colDate).Desc(), goqu.C(colID).Desc()))
}

// ListBetween returns sessions dated in [from, to), oldest first.
func (s *SQLiteSessionStore) ListBetween(ctx context.Context, from, to time.Time) ([]domain.Session, error) {
	return s.list(ctx, s.dialect.From(tableSessions).
		Where(
			goqu.C(colDate).Gte(from.UTC().UnixNano()),
			goqu.C(colDate).Lt(to.UTC().UnixNano()),
		).
		Order(goqu.C(colDate).Asc(), goqu.C(colID).Asc()))
}

func (s *SQLiteSessionStore) ListAll(ctx context.Context) ([]domain.Session, error) {
	return s.list(ctx, s.dialect.From(tableSessions).Order(goqu.C(colDate).Asc(), goqu.C(colID).Asc()))
}

func (s *SQLiteSessionStore) list(ctx context.Context, ds *goqu.SelectDataset) ([]domain.Session, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list sessions: %w", err)
	}
	rows := []sessionRow{}
	if err := tx.From(ctx, s.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%w: list sessions: %v", apperrors.ErrPersistence, err)
	}
	out := make([]domain.Session, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Session{
			ID:       row.ID,
			BookID:   row.BookID,
			Date:     time.Unix(0, row.Date).UTC(),
			Duration: row.Duration,
		})
	}
	return out, nil
}

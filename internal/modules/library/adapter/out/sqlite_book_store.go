package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/jmoiron/sqlx"

	"chapterly/internal/modules/library/domain"
	libraryout "chapterly/internal/modules/library/port/out"
	apperrors "chapterly/internal/platform/errors"
	"chapterly/internal/platform/sqlitedb"
	"chapterly/internal/platform/tx"
)

const (
	tableBooks          = "books"
	colID               = "id"
	colStatus           = "status"
	colDateAdded        = "date_added"
	colTotalReadingTime = "total_reading_time"
)

var booksSchema = []string{`
CREATE TABLE IF NOT EXISTS books (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  author TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  cover_image BLOB,
  status TEXT NOT NULL,
  date_added INTEGER NOT NULL,
  rating INTEGER NOT NULL DEFAULT 0,
  notes TEXT NOT NULL DEFAULT '',
  price REAL NOT NULL DEFAULT 0,
  genre TEXT NOT NULL DEFAULT '',
  mood TEXT NOT NULL DEFAULT '',
  page_count INTEGER NOT NULL DEFAULT 0,
  publish_date TEXT NOT NULL DEFAULT '',
  categories TEXT NOT NULL DEFAULT '',
  isbn TEXT NOT NULL DEFAULT '',
  narrator TEXT NOT NULL DEFAULT '',
  audiobook_seconds INTEGER NOT NULL DEFAULT 0,
  total_reading_time REAL NOT NULL DEFAULT 0
)`,
	`CREATE INDEX IF NOT EXISTS idx_books_status ON books(status)`,
}

type bookRow struct {
	ID               string  `db:"id"`
	Title            string  `db:"title"`
	Author           string  `db:"author"`
	Description      string  `db:"description"`
	CoverImage       []byte  `db:"cover_image"`
	Status           string  `db:"status"`
	DateAdded        int64   `db:"date_added"`
	Rating           int     `db:"rating"`
	Notes            string  `db:"notes"`
	Price            float64 `db:"price"`
	Genre            string  `db:"genre"`
	Mood             string  `db:"mood"`
	PageCount        int     `db:"page_count"`
	PublishDate      string  `db:"publish_date"`
	Categories       string  `db:"categories"`
	ISBN             string  `db:"isbn"`
	Narrator         string  `db:"narrator"`
	AudiobookSeconds int64   `db:"audiobook_seconds"`
	TotalReadingTime float64 `db:"total_reading_time"`
}

type SQLiteBookStore struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
}

func NewSQLiteBookStore(ctx context.Context, db *sqlx.DB) (libraryout.BookStore, error) {
	if err := sqlitedb.Migrate(ctx, db, booksSchema); err != nil {
		return nil, fmt.Errorf("create books table: %w", err)
	}
	return &SQLiteBookStore{db: db, dialect: goqu.Dialect("sqlite3")}, nil
}

func (s *SQLiteBookStore) Insert(ctx context.Context, book domain.Book) error {
	query, args, err := s.dialect.Insert(tableBooks).Rows(toRow(book)).Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build insert book: %w", err)
	}
	if _, err := tx.From(ctx, s.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insert book: %v", apperrors.ErrPersistence, err)
	}
	return nil
}

func (s *SQLiteBookStore) Update(ctx context.Context, book domain.Book) error {
	query, args, err := s.dialect.Update(tableBooks).
		Set(toRow(book)).
		Where(goqu.C(colID).Eq(book.ID)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update book: %w", err)
	}
	return s.execOne(ctx, "update book", book.ID, query, args)
}

func (s *SQLiteBookStore) FindByID(ctx context.Context, id string) (domain.Book, error) {
	query, args, err := s.dialect.From(tableBooks).Where(goqu.C(colID).Eq(id)).Prepared(true).ToSQL()
	if err != nil {
		return domain.Book{}, fmt.Errorf("build find book: %w", err)
	}
	row := bookRow{}
	if err := tx.From(ctx, s.db).GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Book{}, fmt.Errorf("%w: book %s", apperrors.ErrNotFound, id)
		}
		return domain.Book{}, fmt.Errorf("%w: find book: %v", apperrors.ErrPersistence, err)
	}
	return row.toDomain(), nil
}

// List returns books newest first. An empty status returns every bucket.
func (s *SQLiteBookStore) List(ctx context.Context, status domain.Status) ([]domain.Book, error) {
	ds := s.dialect.From(tableBooks).Order(goqu.C(colDateAdded).Desc(), goqu.C(colID).Desc())
	if status != "" {
		ds = ds.Where(goqu.C(colStatus).Eq(string(status)))
	}
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list books: %w", err)
	}
	rows := []bookRow{}
	if err := tx.From(ctx, s.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%w: list books: %v", apperrors.ErrPersistence, err)
	}
	out := make([]domain.Book, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *SQLiteBookStore) Delete(ctx context.Context, id string) error {
	query, args, err := s.dialect.Delete(tableBooks).Where(goqu.C(colID).Eq(id)).Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete book: %w", err)
	}
	return s.execOne(ctx, "delete book", id, query, args)
}

func (s *SQLiteBookStore) SetReadingTime(ctx context.Context, id string, hours float64) error {
	query, args, err := s.dialect.Update(tableBooks).
		Set(goqu.Record{colTotalReadingTime: hours}).
		Where(goqu.C(colID).Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set reading time: %w", err)
	}
	return s.execOne(ctx, "set reading time", id, query, args)
}

func (s *SQLiteBookStore) execOne(ctx context.Context, op, id, query string, args []any) error {
	res, err := tx.From(ctx, s.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrPersistence, op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrPersistence, op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: book %s", apperrors.ErrNotFound, id)
	}
	return nil
}

func toRow(book domain.Book) bookRow {
	return bookRow{
		ID:               book.ID,
		Title:            book.Title,
		Author:           book.Author,
		Description:      book.Description,
		CoverImage:       book.CoverImage,
		Status:           string(book.Status),
		DateAdded:        book.DateAdded.UTC().UnixNano(),
		Rating:           book.Rating,
		Notes:            book.Notes,
		Price:            book.Price,
		Genre:            string(book.Genre),
		Mood:             string(book.Mood),
		PageCount:        book.PageCount,
		PublishDate:      book.PublishDate,
		Categories:       book.Categories,
		ISBN:             book.ISBN,
		Narrator:         book.Narrator,
		AudiobookSeconds: int64(book.AudiobookDuration / time.Second),
		TotalReadingTime: book.TotalReadingTime,
	}
}

func (r bookRow) toDomain() domain.Book {
	return domain.Book{
		ID:                r.ID,
		Title:             r.Title,
		Author:            r.Author,
		Description:       r.Description,
		CoverImage:        r.CoverImage,
		Status:            domain.Status(r.Status),
		DateAdded:         time.Unix(0, r.DateAdded).UTC(),
		Rating:            r.Rating,
		Notes:             r.Notes,
		Price:             r.Price,
		Genre:             domain.Genre(r.Genre),
		Mood:              domain.Mood(r.Mood),
		PageCount:         r.PageCount,
		PublishDate:       r.PublishDate,
		Categories:        r.Categories,
		ISBN:              r.ISBN,
		Narrator:          r.Narrator,
		AudiobookDuration: time.Duration(r.AudiobookSeconds) * time.Second,
		TotalReadingTime:  r.TotalReadingTime,
	}
}

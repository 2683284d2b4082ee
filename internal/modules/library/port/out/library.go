package out

import (
	"context"

	"chapterly/internal/modules/library/domain"
)

type BookStore interface {
	Insert(ctx context.Context, book domain.Book) error
	Update(ctx context.Context, book domain.Book) error
	FindByID(ctx context.Context, id string) (domain.Book, error)
	List(ctx context.Context, status domain.Status) ([]domain.Book, error)
	Delete(ctx context.Context, id string) error
	SetReadingTime(ctx context.Context, id string, hours float64) error
}

type Catalog interface {
	Search(ctx context.Context, query domain.CatalogQuery) ([]domain.CatalogEntry, error)
	Browse(ctx context.Context, terms []string) ([]domain.CatalogEntry, error)
	FetchCover(ctx context.Context, url string) ([]byte, error)
}

type DocumentInspector interface {
	Inspect(ctx context.Context, path string) (domain.DocumentInfo, error)
}

// ChangeNotifier is told when the set of books or their projected fields changed.
type ChangeNotifier interface {
	BooksChanged(ctx context.Context) error
}

package out

import (
	"context"
	"sync"

	libraryout "chapterly/internal/modules/library/port/out"
)

// Refresher recomputes whatever is derived from the library.
type Refresher interface {
	RefreshProjection(ctx context.Context) error
}

// ProjectionNotifier is bound after construction because the timer that owns the
// projection is itself built on top of the library.
type ProjectionNotifier struct {
	mu     sync.RWMutex
	target Refresher
}

var _ libraryout.ChangeNotifier = (*ProjectionNotifier)(nil)

func NewProjectionNotifier() *ProjectionNotifier {
	return &ProjectionNotifier{}
}

func (n *ProjectionNotifier) Bind(target Refresher) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.target = target
}

func (n *ProjectionNotifier) BooksChanged(ctx context.Context) error {
	n.mu.RLock()
	target := n.target
	n.mu.RUnlock()
	if target == nil {
		return nil
	}
	return target.RefreshProjection(ctx)
}

package out

import (
	"context"
	"errors"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"

	"chapterly/internal/modules/widget/domain"
	widgetout "chapterly/internal/modules/widget/port/out"
	"chapterly/internal/platform/atomicfile"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FileSurface is the shared-state file out-of-process widgets poll.
type FileSurface struct {
	path string
}

func NewFileSurface(path string) *FileSurface {
	return &FileSurface{path: path}
}

var (
	_ widgetout.Surface       = (*FileSurface)(nil)
	_ widgetout.SurfaceReader = (*FileSurface)(nil)
)

func (s *FileSurface) Name() string {
	return "file"
}

func (s *FileSurface) Replace(_ context.Context, snapshot domain.Snapshot) error {
	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return atomicfile.Write(s.path, payload, 0o644)
}

// Read returns a cleared snapshot when nothing was published yet.
func (s *FileSurface) Read(_ context.Context) (domain.Snapshot, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Snapshot{}, nil
		}
		return domain.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	snapshot := domain.Snapshot{}
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snapshot, nil
}

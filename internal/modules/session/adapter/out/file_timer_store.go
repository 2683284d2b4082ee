package out

import (
	"context"
	"errors"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"

	"chapterly/internal/modules/session/domain"
	sessionout "chapterly/internal/modules/session/port/out"
	"chapterly/internal/platform/atomicfile"
	apperrors "chapterly/internal/platform/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type timerFile struct {
	SchemaVersion int              `json:"schema_version"`
	Stopwatch     domain.Stopwatch `json:"stopwatch"`
}

// FileTimerStore keeps the stopwatch in a JSON file so a timer survives process restarts.
type FileTimerStore struct {
	path string
}

func NewFileTimerStore(path string) sessionout.TimerStateStore {
	return &FileTimerStore{path: path}
}

func (s *FileTimerStore) Save(_ context.Context, state domain.Stopwatch) error {
	if state.IsIdle() {
		return s.remove()
	}
	payload, err := json.MarshalIndent(timerFile{SchemaVersion: domain.SchemaVersion, Stopwatch: state}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal timer state: %w", err)
	}
	if err := atomicfile.Write(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("%w: write timer state: %v", apperrors.ErrPersistence, err)
	}
	return nil
}

// Load returns ErrNoActiveTimer when nothing is being timed.
func (s *FileTimerStore) Load(_ context.Context) (domain.Stopwatch, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Idle(), apperrors.ErrNoActiveTimer
		}
		return domain.Idle(), fmt.Errorf("%w: read timer state: %v", apperrors.ErrPersistence, err)
	}
	decoded := timerFile{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return domain.Idle(), fmt.Errorf("decode timer state: %w", err)
	}
	if err := decoded.Stopwatch.Validate(); err != nil {
		return domain.Idle(), fmt.Errorf("decode timer state: %w", err)
	}
	if decoded.Stopwatch.IsIdle() {
		return domain.Idle(), apperrors.ErrNoActiveTimer
	}
	return decoded.Stopwatch, nil
}

func (s *FileTimerStore) Clear(_ context.Context) error {
	return s.remove()
}

func (s *FileTimerStore) remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: clear timer state: %v", apperrors.ErrPersistence, err)
	}
	return nil
}

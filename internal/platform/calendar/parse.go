package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	apperrors "chapterly/internal/platform/errors"
)

var layouts = []string{
	time.DateOnly,
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
}

// ParseReference turns user input such as "2024-03-18", "yesterday" or "last monday"
// into an instant in now's location. Empty input means now.
func ParseReference(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "today") || strings.EqualFold(raw, "now") {
		return now, nil
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, raw, now.Location()); err == nil {
			return t, nil
		}
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	result, err := w.Parse(raw, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: parse date %q: %v", apperrors.ErrInvalidInput, raw, err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("%w: unrecognised date %q", apperrors.ErrInvalidInput, raw)
	}
	return result.Time, nil
}

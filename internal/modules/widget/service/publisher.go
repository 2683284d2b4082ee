package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"chapterly/internal/modules/widget/domain"
	widgetout "chapterly/internal/modules/widget/port/out"
	apperrors "chapterly/internal/platform/errors"
	"chapterly/internal/platform/logging"
	"chapterly/internal/platform/retry"
)

type PublishOptions struct {
	Attempts  int
	BaseDelay time.Duration
}

// Publisher pushes snapshots to every surface, retrying each one on its own.
type Publisher struct {
	surfaces []widgetout.Surface
	options  PublishOptions
	logger   *slog.Logger
}

func NewPublisher(surfaces []widgetout.Surface, options PublishOptions, logger *slog.Logger) *Publisher {
	if options.Attempts <= 0 {
		options.Attempts = 3
	}
	if options.BaseDelay < 0 {
		options.BaseDelay = 0
	}
	return &Publisher{surfaces: surfaces, options: options, logger: logging.OrDiscard(logger)}
}

// Publish returns the failures joined under ErrPublication so callers can log them. A failing
// surface never stops the others from being updated.
func (p *Publisher) Publish(ctx context.Context, snapshot domain.Snapshot) error {
	var failed []error
	for _, surface := range p.surfaces {
		result, err := retry.Do(ctx, func(ctx context.Context) error {
			return surface.Replace(ctx, snapshot)
		}, retry.WithMaxAttempts(p.options.Attempts), retry.WithBaseDelay(p.options.BaseDelay))
		if err != nil {
			failed = append(failed, fmt.Errorf("%s after %d attempts: %w", surface.Name(), result.Attempts, err))
			continue
		}
		p.logger.Debug("snapshot published", "surface", surface.Name(), "book_id", snapshot.BookID, "attempts", result.Attempts)
	}
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %v", apperrors.ErrPublication, failed)
}

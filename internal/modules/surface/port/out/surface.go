package out

import (
	"context"

	"chapterly/internal/modules/surface/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	Publish(ctx context.Context, manifest domain.Manifest, snapshot domain.Snapshot) error
	Clear(ctx context.Context, manifest domain.Manifest) error
}

package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"chapterly/internal/modules/surface/domain"
	"chapterly/internal/modules/surface/dto"
	surfaceout "chapterly/internal/modules/surface/port/out"
	"chapterly/internal/platform/logging"
)

type SurfaceService struct {
	store  surfaceout.ManifestStore
	host   surfaceout.Host
	logger *slog.Logger
}

func NewSurfaceService(store surfaceout.ManifestStore, host surfaceout.Host, logger *slog.Logger) *SurfaceService {
	return &SurfaceService{store: store, host: host, logger: logging.OrDiscard(logger)}
}

func (s *SurfaceService) List(ctx context.Context) ([]dto.SurfaceInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SurfaceInfo, 0, len(manifests))
	for _, m := range manifests {
		caps := make([]string, 0, len(m.Capabilities))
		for _, c := range m.Capabilities {
			caps = append(caps, string(c))
		}
		out = append(out, dto.SurfaceInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary, Capabilities: caps})
	}
	return out, nil
}

func (s *SurfaceService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		result.BinaryReachable = fileExists(m.Binary)
		if !result.BinaryReachable {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
			results = append(results, result)
			continue
		}
		result.ChecksumValid = checksumMatches(m.Binary, m.SHA256) == nil
		if !result.ChecksumValid {
			result.Error = "checksum mismatch"
			results = append(results, result)
			continue
		}
		if m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		results = append(results, result)
	}
	return results, nil
}

// Broadcast skips disabled surfaces. Every enabled one is attempted even after a failure.
func (s *SurfaceService) Broadcast(ctx context.Context, snapshot domain.Snapshot) error {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return err
	}
	var failed []error
	for _, m := range manifests {
		if !m.Enabled {
			continue
		}
		if err := checksumMatches(m.Binary, m.SHA256); err != nil {
			failed = append(failed, err)
			continue
		}
		if snapshot.Cleared() {
			err = s.host.Clear(ctx, m)
		} else {
			err = s.host.Publish(ctx, m, snapshot.For(m))
		}
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				err = fmt.Errorf("%w: %s", domain.ErrSurfaceTimeout, m.Name)
			}
			failed = append(failed, fmt.Errorf("surface %s: %w", m.Name, err))
			continue
		}
		s.logger.Debug("surface updated", "surface", m.Name, "cleared", snapshot.Cleared())
	}
	return errors.Join(failed...)
}

func (s *SurfaceService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate surface name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read surface binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	if hex.EncodeToString(hash[:]) != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

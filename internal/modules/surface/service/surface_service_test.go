package service_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chapterly/internal/modules/surface/domain"
	"chapterly/internal/modules/surface/service"
)

type staticStore struct {
	manifests []domain.Manifest
}

func (s staticStore) Load(context.Context) ([]domain.Manifest, error) {
	return s.manifests, nil
}

type recordingHost struct {
	published map[string]domain.Snapshot
	cleared   []string
	failFor   string
}

func newRecordingHost() *recordingHost {
	return &recordingHost{published: map[string]domain.Snapshot{}}
}

func (h *recordingHost) CheckLifecycle(context.Context, domain.Manifest) error { return nil }

func (h *recordingHost) GetMetadata(_ context.Context, m domain.Manifest) (domain.Metadata, error) {
	return domain.Metadata{Name: m.Name}, nil
}

func (h *recordingHost) Publish(_ context.Context, m domain.Manifest, s domain.Snapshot) error {
	if m.Name == h.failFor {
		return errors.New("plugin crashed")
	}
	h.published[m.Name] = s
	return nil
}

func (h *recordingHost) Clear(_ context.Context, m domain.Manifest) error {
	h.cleared = append(h.cleared, m.Name)
	return nil
}

func writeBinary(t *testing.T, name string) (string, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	payload := []byte("binary-" + name)
	require.NoError(t, os.WriteFile(path, payload, 0o755))
	sum := sha256.Sum256(payload)
	return path, hex.EncodeToString(sum[:])
}

func manifest(t *testing.T, name string, enabled bool, caps ...domain.Capability) domain.Manifest {
	t.Helper()
	path, sum := writeBinary(t, name)
	return domain.Manifest{Name: name, Version: "1.0.0", Binary: path, SHA256: sum, Enabled: enabled, Capabilities: append([]domain.Capability{domain.CapabilityDisplay}, caps...)}
}

func TestBroadcastPublishesToEnabledSurfaces(t *testing.T) {
	t.Parallel()
	host := newRecordingHost()
	store := staticStore{manifests: []domain.Manifest{
		manifest(t, "plain", true),
		manifest(t, "covers", true, domain.CapabilityCover),
		manifest(t, "off", false),
	}}
	svc := service.NewSurfaceService(store, host, nil)

	err := svc.Broadcast(context.Background(), domain.Snapshot{BookID: "a", BookTitle: "Dune", CoverImage: []byte("img")})
	require.NoError(t, err)

	assert.Len(t, host.published, 2)
	assert.Nil(t, host.published["plain"].CoverImage)
	assert.Equal(t, []byte("img"), host.published["covers"].CoverImage)
	assert.NotContains(t, host.published, "off")
}

func TestBroadcastClearsWhenSnapshotIsEmpty(t *testing.T) {
	t.Parallel()
	host := newRecordingHost()
	svc := service.NewSurfaceService(staticStore{manifests: []domain.Manifest{manifest(t, "plain", true)}}, host, nil)

	require.NoError(t, svc.Broadcast(context.Background(), domain.Snapshot{}))
	assert.Equal(t, []string{"plain"}, host.cleared)
	assert.Empty(t, host.published)
}

func TestBroadcastContinuesPastFailures(t *testing.T) {
	t.Parallel()
	host := newRecordingHost()
	host.failFor = "flaky"
	tampered := manifest(t, "tampered", true)
	tampered.SHA256 = strings.Repeat("0", 64)
	store := staticStore{manifests: []domain.Manifest{manifest(t, "flaky", true), tampered, manifest(t, "good", true)}}
	svc := service.NewSurfaceService(store, host, nil)

	err := svc.Broadcast(context.Background(), domain.Snapshot{BookID: "a"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrChecksumMismatch)
	assert.Contains(t, err.Error(), "surface flaky")
	assert.Contains(t, host.published, "good")
}

func TestDoctorDetectsChecksumMismatch(t *testing.T) {
	t.Parallel()
	m := manifest(t, "demo", true)
	m.SHA256 = strings.Repeat("0", 64)
	svc := service.NewSurfaceService(staticStore{manifests: []domain.Manifest{m}}, newRecordingHost(), nil)

	results, err := svc.Doctor(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].BinaryReachable)
	assert.False(t, results[0].ChecksumValid)
	assert.False(t, results[0].LifecycleOK)
}

func TestDoctorReportsMissingBinaryAndHealthySurface(t *testing.T) {
	t.Parallel()
	missing := manifest(t, "missing", true)
	missing.Binary = filepath.Join(t.TempDir(), "nope")
	svc := service.NewSurfaceService(staticStore{manifests: []domain.Manifest{missing, manifest(t, "ok", true)}}, newRecordingHost(), nil)

	results, err := svc.Doctor(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.False(t, results[0].BinaryReachable)
	assert.Contains(t, results[0].Error, "binary does not exist")
	assert.True(t, results[1].LifecycleOK)
	assert.Empty(t, results[1].Error)
}

func TestListRejectsDuplicateNames(t *testing.T) {
	t.Parallel()
	svc := service.NewSurfaceService(staticStore{manifests: []domain.Manifest{manifest(t, "dup", true), manifest(t, "dup", true)}}, newRecordingHost(), nil)

	_, err := svc.List(context.Background())
	assert.ErrorContains(t, err, "duplicate surface name")
}

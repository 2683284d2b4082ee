package out

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	surfacerpc "chapterly/internal/modules/surface/adapter/out/rpc"
	"chapterly/internal/modules/surface/domain"
	surfaceout "chapterly/internal/modules/surface/port/out"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

// GRPCHost launches a surface process per call and kills it afterwards.
type GRPCHost struct {
	logger hclog.Logger
}

// NewGRPCHost routes plugin process output to logger at debug level, or drops it when logger is nil.
func NewGRPCHost(logger *slog.Logger) surfaceout.Host {
	out := io.Discard
	level := hclog.NoLevel
	if logger != nil && logger.Enabled(context.Background(), slog.LevelDebug) {
		out = slogWriter{logger: logger}
		level = hclog.Debug
	}
	return &GRPCHost{logger: hclog.New(&hclog.LoggerOptions{Name: "surface", Output: out, Level: level})}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	_, err := h.GetMetadata(ctx, manifest)
	return err
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	var meta *surfacerpc.Metadata
	err := h.call(ctx, manifest, func(ctx context.Context, client surfacerpc.DisplaySurfaceClient) (err error) {
		meta, err = client.GetMetadata(ctx)
		return err
	})
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	capabilities := make([]domain.Capability, 0, len(meta.Capabilities))
	for _, c := range meta.Capabilities {
		capabilities = append(capabilities, domain.Capability(c))
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Capabilities: capabilities}, nil
}

func (h *GRPCHost) Publish(ctx context.Context, manifest domain.Manifest, snapshot domain.Snapshot) error {
	return h.call(ctx, manifest, func(ctx context.Context, client surfacerpc.DisplaySurfaceClient) error {
		ack, err := client.Publish(ctx, &surfacerpc.Snapshot{
			BookID:           snapshot.BookID,
			BookTitle:        snapshot.BookTitle,
			BookAuthor:       snapshot.BookAuthor,
			TotalReadingTime: snapshot.TotalReadingTime,
			CoverImage:       snapshot.CoverImage,
			IsTimerRunning:   snapshot.IsTimerRunning,
			TimerStartTime:   snapshot.TimerStartTime,
			StreakDays:       snapshot.StreakDays,
			PublishedAt:      snapshot.PublishedAt,
		})
		if err != nil {
			return fmt.Errorf("publish: %w", err)
		}
		return rejected(ack)
	})
}

func (h *GRPCHost) Clear(ctx context.Context, manifest domain.Manifest) error {
	return h.call(ctx, manifest, func(ctx context.Context, client surfacerpc.DisplaySurfaceClient) error {
		ack, err := client.Clear(ctx)
		if err != nil {
			return fmt.Errorf("clear: %w", err)
		}
		return rejected(ack)
	})
}

func rejected(ack *surfacerpc.Ack) error {
	if ack == nil || ack.Accepted {
		return nil
	}
	return fmt.Errorf("surface rejected snapshot: %s", ack.Message)
}

func (h *GRPCHost) call(ctx context.Context, manifest domain.Manifest, fn func(context.Context, surfacerpc.DisplaySurfaceClient) error) error {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	if err := fn(callCtx, client); err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%w: %s", domain.ErrSurfaceTimeout, manifest.Name)
		}
		return err
	}
	return nil
}

func (h *GRPCHost) connect(manifest domain.Manifest) (surfacerpc.DisplaySurfaceClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  surfacerpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          surfacerpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           h.logger,
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start surface %s: %w", manifest.Name, err)
	}
	raw, err := rpcClient.Dispense(surfacerpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense surface %s: %w", manifest.Name, err)
	}
	typed, ok := raw.(surfacerpc.DisplaySurfaceClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("surface rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Write(p []byte) (int, error) {
	w.logger.Debug("surface plugin", "output", string(p))
	return len(p), nil
}

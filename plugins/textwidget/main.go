// Command textwidget is a display surface that renders the most-read snapshot into a text file.
// The file defaults to textwidget.txt next to the binary; CHAPTERLY_TEXTWIDGET_PATH overrides it.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-plugin"

	surfacerpc "chapterly/internal/modules/surface/adapter/out/rpc"
	"chapterly/internal/platform/atomicfile"
)

type server struct {
	path string
	now  func() time.Time
}

func (s *server) GetMetadata(_ context.Context, _ *surfacerpc.Empty) (*surfacerpc.Metadata, error) {
	return &surfacerpc.Metadata{
		Name:         "textwidget",
		Version:      "1.0.0",
		Capabilities: []string{"display", "clock"},
	}, nil
}

func (s *server) Publish(_ context.Context, in *surfacerpc.Snapshot) (*surfacerpc.Ack, error) {
	if err := atomicfile.Write(s.path, []byte(render(in, s.now())), 0o644); err != nil {
		return nil, err
	}
	return &surfacerpc.Ack{Accepted: true}, nil
}

func (s *server) Clear(_ context.Context, _ *surfacerpc.Empty) (*surfacerpc.Ack, error) {
	if err := atomicfile.Write(s.path, []byte("Nothing read yet\n"), 0o644); err != nil {
		return nil, err
	}
	return &surfacerpc.Ack{Accepted: true}, nil
}

func render(in *surfacerpc.Snapshot, now time.Time) string {
	var b strings.Builder
	b.WriteString(in.BookTitle)
	if in.BookAuthor != "" {
		fmt.Fprintf(&b, " by %s", in.BookAuthor)
	}
	b.WriteString("\n")
	minutes := int(in.TotalReadingTime*60 + 0.5)
	fmt.Fprintf(&b, "%dh %02dm read\n", minutes/60, minutes%60)
	if in.IsTimerRunning {
		fmt.Fprintf(&b, "Reading since %s\n", humanize.RelTime(in.TimerStartTime, now, "ago", "from now"))
	}
	if in.StreakDays > 1 {
		fmt.Fprintf(&b, "%d days in a row\n", in.StreakDays)
	}
	return b.String()
}

func outputPath() string {
	if path := os.Getenv("CHAPTERLY_TEXTWIDGET_PATH"); path != "" {
		return path
	}
	exe, err := os.Executable()
	if err != nil {
		return "textwidget.txt"
	}
	return filepath.Join(filepath.Dir(exe), "textwidget.txt")
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: surfacerpc.HandshakeConfig,
		Plugins:         surfacerpc.PluginMap(&server{path: outputPath(), now: time.Now}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}

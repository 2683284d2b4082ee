package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	surfacerpc "chapterly/internal/modules/surface/adapter/out/rpc"
)

func TestRender(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

	out := render(&surfacerpc.Snapshot{
		BookTitle: "Dune", BookAuthor: "Frank Herbert", TotalReadingTime: 2.5,
		IsTimerRunning: true, TimerStartTime: now.Add(-10 * time.Minute),
	}, now)

	assert.Equal(t, "Dune by Frank Herbert\n2h 30m read\nReading since 10 minutes ago\n", out)
}

func TestRenderStreak(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

	one := render(&surfacerpc.Snapshot{BookTitle: "Emma", TotalReadingTime: 1, StreakDays: 1}, now)
	assert.Equal(t, "Emma\n1h 00m read\n", one)

	week := render(&surfacerpc.Snapshot{BookTitle: "Emma", TotalReadingTime: 1, StreakDays: 7}, now)
	assert.Equal(t, "Emma\n1h 00m read\n7 days in a row\n", week)
}

func TestPublishAndClearReplaceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widget.txt")
	s := &server{path: path, now: time.Now}

	ack, err := s.Publish(context.Background(), &surfacerpc.Snapshot{BookTitle: "Emma", TotalReadingTime: 0.25})
	require.NoError(t, err)
	assert.True(t, ack.Accepted)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Emma\n0h 15m read\n", string(got))

	_, err = s.Clear(context.Background(), &surfacerpc.Empty{})
	require.NoError(t, err)
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Nothing read yet\n", string(got))
}

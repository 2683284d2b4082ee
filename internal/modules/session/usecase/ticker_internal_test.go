package usecase

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickerStopsExactlyOnce(t *testing.T) {
	var emitted atomic.Int64
	tk := startTicker(time.Millisecond, func() time.Duration { return time.Second }, func(time.Duration) { emitted.Add(1) })

	require.Eventually(t, func() bool { return emitted.Load() > 0 }, time.Second, time.Millisecond)
	tk.stop()
	tk.stop()
	after := emitted.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, after, emitted.Load())

	var nilTicker *ticker
	nilTicker.stop()
}

func TestHubKeepsLatestValueForSlowSubscriber(t *testing.T) {
	h := newHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := h.subscribe(ctx)

	h.broadcast(time.Second)
	h.broadcast(2 * time.Second)
	h.broadcast(3 * time.Second)

	assert.Equal(t, 3*time.Second, <-ch)

	h.closeAll()
	_, ok := <-ch
	assert.False(t, ok)
}

func TestHubCloseReleasesBackgroundSubscribers(t *testing.T) {
	h := newHub()
	first := h.subscribe(context.Background())
	second := h.subscribe(context.Background())

	closed := make(chan struct{})
	go func() {
		h.closeAll()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("closeAll waited on subscribers that were never cancelled")
	}

	for _, ch := range []<-chan time.Duration{first, second} {
		_, ok := <-ch
		assert.False(t, ok)
	}

	late := h.subscribe(context.Background())
	_, ok := <-late
	assert.False(t, ok)
	h.closeAll()
}

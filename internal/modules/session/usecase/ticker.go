package usecase

import (
	"context"
	"sync"
	"time"
)

// ticker pushes the elapsed time on every interval until stopped.
type ticker struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func startTicker(interval time.Duration, elapsed func() time.Duration, emit func(time.Duration)) *ticker {
	ctx, cancel := context.WithCancel(context.Background())
	t := &ticker{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		tk := time.NewTicker(interval)
		defer tk.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
				emit(elapsed())
			}
		}
	}()
	return t
}

// stop cancels the loop and waits for it to exit. Safe to call more than once.
func (t *ticker) stop() {
	if t == nil {
		return
	}
	t.once.Do(func() {
		t.cancel()
		<-t.done
	})
}

type hub struct {
	mu       sync.Mutex
	nextID   int
	subs     map[int]chan time.Duration
	done     chan struct{}
	closed   bool
	watchers sync.WaitGroup
}

func newHub() *hub {
	return &hub{subs: map[int]chan time.Duration{}, done: make(chan struct{})}
}

// subscribe returns a channel closed when ctx ends or the hub shuts down, whichever
// comes first. A closed hub hands out closed channels.
func (h *hub) subscribe(ctx context.Context) <-chan time.Duration {
	h.mu.Lock()
	ch := make(chan time.Duration, 1)
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.watchers.Add(1)
	h.mu.Unlock()

	go func() {
		defer h.watchers.Done()
		select {
		case <-ctx.Done():
			h.unsubscribe(id)
		case <-h.done:
		}
	}()
	return ch
}

func (h *hub) unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// broadcast never blocks; a slow subscriber only ever holds the latest value.
func (h *hub) broadcast(v time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	if !h.closed {
		h.closed = true
		close(h.done)
	}
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
	h.mu.Unlock()
	h.watchers.Wait()
}

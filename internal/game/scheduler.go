package game

import (
	"context"
	"sync"
	"time"
)

// FrameTicker paces requested frames with a time.Ticker. Frames run one at a
// time on the ticker goroutine. Once a frame has been requested, a refresh
// with nothing pending ends the loop.
type FrameTicker struct {
	interval time.Duration

	mu        sync.Mutex
	pending   func()
	requested bool

	done chan struct{}
	once sync.Once
}

func NewFrameTicker(hz float64) *FrameTicker {
	if hz <= 0 {
		hz = 60
	}
	return &FrameTicker{
		interval: time.Duration(float64(time.Second) / hz),
		done:     make(chan struct{}),
	}
}

func (t *FrameTicker) RequestFrame(fn func()) {
	if fn == nil {
		return
	}
	t.mu.Lock()
	t.pending = fn
	t.requested = true
	t.mu.Unlock()
}

// Start runs the refresh loop until ctx ends or no frame is pending.
func (t *FrameTicker) Start(ctx context.Context) {
	go func() {
		defer t.once.Do(func() { close(t.done) })
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			t.mu.Lock()
			fn := t.pending
			t.pending = nil
			idle := fn == nil && t.requested
			t.mu.Unlock()
			if idle {
				return
			}
			if fn != nil {
				fn()
			}
		}
	}()
}

// Done is closed when the refresh loop has stopped.
func (t *FrameTicker) Done() <-chan struct{} { return t.done }

// ManualScheduler holds the requested frame until Step is called.
type ManualScheduler struct {
	mu       sync.Mutex
	pending  func()
	Requests int
}

func NewManualScheduler() *ManualScheduler { return &ManualScheduler{} }

func (m *ManualScheduler) RequestFrame(fn func()) {
	m.mu.Lock()
	m.pending = fn
	m.Requests++
	m.mu.Unlock()
}

func (m *ManualScheduler) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

// Step runs the pending frame, if any, and reports whether one ran.
func (m *ManualScheduler) Step() bool {
	m.mu.Lock()
	fn := m.pending
	m.pending = nil
	m.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

package game

import (
	"fmt"
	"sync"
)

// Behavior is one entry of the per-frame behavior queue. Run is called once
// per pass on the loop goroutine; returning true retires the entry.
type Behavior interface {
	Run(g *Game) bool
}

// BehaviorFunc adapts a plain function to Behavior.
type BehaviorFunc func(g *Game) bool

func (f BehaviorFunc) Run(g *Game) bool { return f(g) }

// BehaviorFault is a recovered panic from a single behavior entry.
type BehaviorFault struct {
	Entry string
	Value any
}

func (f *BehaviorFault) Error() string {
	return fmt.Sprintf("behavior %s panicked: %v", f.Entry, f.Value)
}

// BehaviorQueue runs behaviors in FIFO order. Entries added while a pass is
// running are held back until the next pass.
type BehaviorQueue struct {
	mu      sync.Mutex
	entries []Behavior
	pending []Behavior
	running bool
}

func NewBehaviorQueue() *BehaviorQueue { return &BehaviorQueue{} }

// Add appends b. Safe to call from any goroutine and from inside a running behavior.
func (q *BehaviorQueue) Add(b Behavior) {
	if b == nil {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		q.pending = append(q.pending, b)
		return
	}
	q.entries = append(q.entries, b)
}

// Len counts live entries, including ones waiting for the next pass.
func (q *BehaviorQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries) + len(q.pending)
}

// Run executes every entry queued before the pass exactly once. Survivors
// keep their relative order and are followed by entries added mid-pass.
// A panicking entry is dropped and reported; the rest of the pass continues.
func (q *BehaviorQueue) Run(g *Game) []*BehaviorFault {
	q.mu.Lock()
	snapshot := q.entries
	q.entries = nil
	q.running = true
	q.mu.Unlock()

	var faults []*BehaviorFault
	kept := snapshot[:0]
	for _, b := range snapshot {
		done, fault := runBehavior(g, b)
		if fault != nil {
			faults = append(faults, fault)
			continue
		}
		if !done {
			kept = append(kept, b)
		}
	}
	clear(snapshot[len(kept):])

	q.mu.Lock()
	q.entries = append(kept, q.pending...)
	q.pending = nil
	q.running = false
	q.mu.Unlock()
	return faults
}

func runBehavior(g *Game, b Behavior) (done bool, fault *BehaviorFault) {
	defer func() {
		if r := recover(); r != nil {
			fault = &BehaviorFault{Entry: fmt.Sprintf("%T", b), Value: r}
		}
	}()
	return b.Run(g), nil
}

func (g *Game) runCustomFunctions() {
	for _, fault := range g.queue.Run(g) {
		g.metrics.behaviorFault(fault.Entry)
		g.log.Error().Err(fault).Uint64("frame", g.clock.Frame).Msg("behavior dropped")
	}
}

// AddFunction queues b to run from the next behavior pass on.
func (g *Game) AddFunction(b Behavior) { g.queue.Add(b) }

// Post runs fn once on the loop goroutine during the next behavior pass.
// Use it to touch game state from other goroutines.
func (g *Game) Post(fn func(g *Game)) {
	if fn == nil {
		return
	}
	g.queue.Add(BehaviorFunc(func(g *Game) bool {
		fn(g)
		return true
	}))
}

package biz

import (
	"sync"
	"time"
)

// DedupGate remembers recently seen file ids and admits each id at most
// once per window. The window is measured from the first admission and
// is not extended by later duplicate attempts. State is process-local;
// a restart forgets everything, which only risks re-upload, never loss.
type DedupGate struct {
	mu     sync.Mutex
	window time.Duration
	seen   map[string]time.Time

	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

// NewDedupGate creates a gate with the given window and starts a
// background janitor that clears expired entries.
func NewDedupGate(window time.Duration) *DedupGate {
	g := &DedupGate{
		window: window,
		seen:   make(map[string]time.Time),
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	go g.janitor()
	return g
}

// Admit atomically checks and records an id. It returns true when the
// id was not seen within the window, false for a duplicate. Expired
// entries are treated as unseen and re-admitted with a fresh window.
func (g *DedupGate) Admit(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if at, ok := g.seen[id]; ok && now.Sub(at) < g.window {
		return false
	}
	g.seen[id] = now
	return true
}

// Len returns the number of tracked ids, including not yet collected
// expired ones.
func (g *DedupGate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}

// Close stops the janitor goroutine.
func (g *DedupGate) Close() {
	g.once.Do(func() { close(g.stop) })
}

func (g *DedupGate) janitor() {
	ticker := time.NewTicker(g.window)
	defer ticker.Stop()

	for {
		select {
		case <-g.stop:
			return
		case <-ticker.C:
			g.sweep()
		}
	}
}

func (g *DedupGate) sweep() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for id, at := range g.seen {
		if now.Sub(at) >= g.window {
			delete(g.seen, id)
		}
	}
}

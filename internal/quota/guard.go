// Package quota limits calls to the external generation API.
//
// A Guard enforces two rules before a call is allowed:
//   - a session budget: at most Budget calls until Reset is invoked;
//   - a per-key cooldown: a (brand, platform) pair may not be called again
//     until Cooldown has elapsed since its last call.
//
// It also remembers the last batch produced for each key so callers can
// serve something when a call is not allowed. That cache is bounded by an
// LRU so it does not grow with every brand ever tracked.
//
// All state is in memory and lost on restart. Guard is safe for concurrent use.
package quota

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Key identifies a (brand, platform) pair.
type Key struct {
	Brand    string
	Platform string
}

// Options configures a Guard.
type Options struct {
	// Budget is the maximum number of calls per session (>= 0).
	Budget int
	// Cooldown is the minimum gap between two calls for the same key.
	Cooldown time.Duration
	// CacheSize bounds the number of cached batches (default 256).
	CacheSize int
	// Now overrides the clock (tests).
	Now func() time.Time
}

// Guard tracks the call budget, per-key cooldowns and the cached batches.
type Guard[T any] struct {
	mu       sync.Mutex
	budget   int
	cooldown time.Duration
	now      func() time.Time

	calls int
	last  map[Key]time.Time
	cache *lru.Cache[Key, []T]

	onChange func(remaining int)
}

// New returns a Guard with the given options.
func New[T any](opts Options) *Guard[T] {
	if opts.Budget < 0 {
		opts.Budget = 0
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	// lru.New only fails for a non-positive size.
	c, _ := lru.New[Key, []T](opts.CacheSize)
	return &Guard[T]{
		budget:   opts.Budget,
		cooldown: opts.Cooldown,
		now:      opts.Now,
		last:     make(map[Key]time.Time),
		cache:    c,
	}
}

// OnChange registers fn to be called with the remaining budget after every
// RecordCall and Reset. fn runs with the guard's lock held and must not call
// back into the guard.
func (g *Guard[T]) OnChange(fn func(remaining int)) {
	g.mu.Lock()
	g.onChange = fn
	g.mu.Unlock()
	if fn != nil {
		fn(g.Remaining())
	}
}

// MayCall reports whether a call for key is allowed right now: the budget is
// not exhausted and key is not inside its cooldown window.
func (g *Guard[T]) MayCall(key Key) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.calls >= g.budget {
		return false
	}
	last, ok := g.last[key]
	if !ok {
		return true
	}
	return g.now().Sub(last) >= g.cooldown
}

// Acquire is MayCall followed by RecordCall under one lock. Concurrent
// callers racing for the last unit of budget see exactly one true.
func (g *Guard[T]) Acquire(key Key) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.calls >= g.budget {
		return false
	}
	now := g.now()
	if last, ok := g.last[key]; ok && now.Sub(last) < g.cooldown {
		return false
	}
	g.calls++
	g.last[key] = now
	g.notifyLocked()
	return true
}

// RecordCall counts one call against the budget and starts key's cooldown.
func (g *Guard[T]) RecordCall(key Key) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls++
	g.last[key] = g.now()
	g.notifyLocked()
}

// Store caches batch as the latest result for key.
func (g *Guard[T]) Store(key Key, batch []T) {
	cp := append([]T(nil), batch...)
	g.cache.Add(key, cp)
}

// Cached returns a copy of the batch cached for key, or nil.
func (g *Guard[T]) Cached(key Key) []T {
	b, ok := g.cache.Get(key)
	if !ok {
		return nil
	}
	return append([]T(nil), b...)
}

// Reset zeroes the call counter. Cooldowns and cached batches are kept.
func (g *Guard[T]) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = 0
	g.notifyLocked()
}

// Calls returns the number of calls recorded since the last reset.
func (g *Guard[T]) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// Remaining returns how many calls are left in the budget.
func (g *Guard[T]) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remainingLocked()
}

// Budget returns the configured session budget.
func (g *Guard[T]) Budget() int { return g.budget }

// CacheLen returns the number of cached batches.
func (g *Guard[T]) CacheLen() int { return g.cache.Len() }

func (g *Guard[T]) remainingLocked() int {
	if r := g.budget - g.calls; r > 0 {
		return r
	}
	return 0
}

func (g *Guard[T]) notifyLocked() {
	if g.onChange != nil {
		g.onChange(g.remainingLocked())
	}
}

// Package hub fans events out to connected websocket clients.
//
// The Hub keeps a bounded set of Listeners. Broadcast marshals an event once
// and sends it to every listener concurrently; a listener whose send fails is
// closed and removed without affecting the others.
package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/brand-mentions/internal/metrics"
)

// DefaultMaxConnections bounds the listener set when New gets n <= 0.
const DefaultMaxConnections = 100

// Listener receives serialized events.
type Listener interface {
	Send(ctx context.Context, msg []byte) error
	Close() error
}

// Hub is a bounded set of listeners. Safe for concurrent use.
type Hub struct {
	mu        sync.RWMutex
	listeners map[Listener]struct{}
	max       int
}

// New returns a Hub accepting at most max listeners.
func New(max int) *Hub {
	if max <= 0 {
		max = DefaultMaxConnections
	}
	return &Hub{listeners: make(map[Listener]struct{}), max: max}
}

// Connect registers l. It returns false when the hub is full.
func (h *Hub) Connect(l Listener) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.listeners[l]; ok {
		return true
	}
	if len(h.listeners) >= h.max {
		return false
	}
	h.listeners[l] = struct{}{}
	metrics.HubConnections.Set(float64(len(h.listeners)))
	log.Info().Int("connections", len(h.listeners)).Msg("websocket connected")
	return true
}

// Disconnect removes l. Unknown listeners are ignored.
func (h *Hub) Disconnect(l Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.listeners[l]; !ok {
		return
	}
	delete(h.listeners, l)
	metrics.HubConnections.Set(float64(len(h.listeners)))
	log.Info().Int("connections", len(h.listeners)).Msg("websocket disconnected")
}

// Count returns the number of connected listeners.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

// Max returns the connection limit.
func (h *Hub) Max() int { return h.max }

// Send delivers ev to a single listener, dropping it on failure.
func (h *Hub) Send(ctx context.Context, l Listener, ev Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := l.Send(ctx, b); err != nil {
		h.drop(l, err)
		return err
	}
	return nil
}

// Broadcast delivers ev to every listener and returns how many received it.
// With no listeners it does nothing.
func (h *Hub) Broadcast(ctx context.Context, ev Event) (int, error) {
	h.mu.RLock()
	if len(h.listeners) == 0 {
		h.mu.RUnlock()
		return 0, nil
	}
	targets := make([]Listener, 0, len(h.listeners))
	for l := range h.listeners {
		targets = append(targets, l)
	}
	h.mu.RUnlock()

	b, err := json.Marshal(ev)
	if err != nil {
		return 0, err
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for _, l := range targets {
		wg.Add(1)
		go func(l Listener) {
			defer wg.Done()
			if err := l.Send(ctx, b); err != nil {
				h.drop(l, err)
				return
			}
			mu.Lock()
			ok++
			mu.Unlock()
		}(l)
	}
	wg.Wait()
	return ok, nil
}

// RunHeartbeat broadcasts a ping every interval until ctx is done.
func (h *Hub) RunHeartbeat(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := h.Broadcast(ctx, PingEvent()); err != nil {
				log.Warn().Err(err).Msg("heartbeat broadcast failed")
			}
		}
	}
}

// CloseAll closes and removes every listener (shutdown).
func (h *Hub) CloseAll() {
	h.mu.Lock()
	ls := h.listeners
	h.listeners = make(map[Listener]struct{})
	metrics.HubConnections.Set(0)
	h.mu.Unlock()

	for l := range ls {
		_ = l.Close()
	}
}

func (h *Hub) drop(l Listener, cause error) {
	h.mu.Lock()
	_, present := h.listeners[l]
	delete(h.listeners, l)
	n := len(h.listeners)
	metrics.HubConnections.Set(float64(n))
	h.mu.Unlock()

	if !present {
		return
	}
	metrics.HubDropped.Inc()
	log.Warn().Err(cause).Int("connections", n).Msg("dropping websocket listener after failed send")
	_ = l.Close()
}

// Package monitor runs the periodic brand monitoring session.
//
// A Loop moves through idle → running → stopping → idle. While running it
// ticks immediately, then once per interval measured from the end of the
// previous tick, so ticks never overlap. Each tick fans out one goroutine per
// platform, each bounded by its own timeout; a platform that panics or times
// out is logged and left out of that tick. The flattened batch is handed to
// a Sink. A failed tick waits Backoff instead of the interval.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/brand-mentions/internal/generation"
	"github.com/tbourn/brand-mentions/internal/metrics"
)

// State is the lifecycle state of a Loop.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateStopping State = "stopping"
)

// ErrEmptyBrand is returned by Start for a blank brand.
var ErrEmptyBrand = errors.New("monitor: brand is required")

// Generator produces mentions for one platform. It must not block past ctx.
type Generator interface {
	Generate(ctx context.Context, brand, platform string) []generation.Mention
}

// Sink persists and publishes one tick's batch.
type Sink interface {
	Persist(ctx context.Context, brand string, batch []generation.Mention) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, brand string, batch []generation.Mention) error

// Persist implements Sink.
func (f SinkFunc) Persist(ctx context.Context, brand string, batch []generation.Mention) error {
	return f(ctx, brand, batch)
}

// Options configures a Loop.
type Options struct {
	Platforms       []string
	Interval        time.Duration // default 60s
	PlatformTimeout time.Duration // default 30s
	Backoff         time.Duration // default 5s
	// After and Now override timers and the clock (tests).
	After func(time.Duration) <-chan time.Time
	Now   func() time.Time
}

// Status is a snapshot of the loop.
type Status struct {
	State      State      `json:"state"`
	Active     bool       `json:"is_active"`
	Brand      string     `json:"brand,omitempty"`
	Interval   string     `json:"interval,omitempty"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	LastTickAt *time.Time `json:"last_tick_at,omitempty"`
	Ticks      uint64     `json:"ticks"`
	Platforms  []string   `json:"platforms"`
}

// Loop owns the single monitoring session.
type Loop struct {
	gen  Generator
	sink Sink
	opts Options

	// ctl serializes Start and Stop.
	ctl sync.Mutex

	mu         sync.Mutex
	state      State
	brand      string
	interval   time.Duration
	platforms  []string
	startedAt  time.Time
	lastTickAt time.Time
	ticks      uint64
	cancel     context.CancelFunc
	done       chan struct{}
}

// New returns an idle Loop.
func New(gen Generator, sink Sink, opts Options) *Loop {
	if opts.Interval <= 0 {
		opts.Interval = 60 * time.Second
	}
	if opts.PlatformTimeout <= 0 {
		opts.PlatformTimeout = 30 * time.Second
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 5 * time.Second
	}
	if opts.After == nil {
		opts.After = time.After
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Platforms = generation.Platforms(opts.Platforms)
	return &Loop{gen: gen, sink: sink, opts: opts, state: StateIdle}
}

// Platforms returns the configured platform list.
func (l *Loop) Platforms() []string {
	return append([]string(nil), l.opts.Platforms...)
}

// Session describes what a started loop monitors. Empty Platforms and a
// non-positive Interval fall back to the loop's defaults.
type Session struct {
	Brand     string
	Platforms []string
	Interval  time.Duration
}

// Start begins monitoring s.Brand, stopping any running session first.
// The session outlives ctx; only its values (e.g. the logger) are inherited.
func (l *Loop) Start(ctx context.Context, s Session) error {
	brand := strings.TrimSpace(s.Brand)
	if brand == "" {
		return ErrEmptyBrand
	}
	interval := s.Interval
	if interval <= 0 {
		interval = l.opts.Interval
	}
	platforms := l.opts.Platforms
	if len(s.Platforms) > 0 {
		platforms = generation.Platforms(s.Platforms)
	}

	l.ctl.Lock()
	defer l.ctl.Unlock()

	l.stopLocked()

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})

	l.mu.Lock()
	l.state = StateRunning
	l.brand = brand
	l.interval = interval
	l.platforms = platforms
	l.startedAt = l.opts.Now().UTC()
	l.lastTickAt = time.Time{}
	l.ticks = 0
	l.cancel = cancel
	l.done = done
	l.mu.Unlock()

	log.Info().Str("brand", brand).Dur("interval", interval).Strs("platforms", platforms).Msg("monitoring started")
	go l.run(runCtx, brand, platforms, interval, done)
	return nil
}

// Stop ends the running session and waits for its goroutine to exit.
// Calling Stop while idle is a no-op.
func (l *Loop) Stop() {
	l.ctl.Lock()
	defer l.ctl.Unlock()
	l.stopLocked()
}

func (l *Loop) stopLocked() {
	l.mu.Lock()
	if l.state != StateRunning {
		l.mu.Unlock()
		return
	}
	l.state = StateStopping
	cancel, done, brand := l.cancel, l.done, l.brand
	l.mu.Unlock()

	cancel()
	<-done

	l.mu.Lock()
	l.state = StateIdle
	l.cancel = nil
	l.done = nil
	l.mu.Unlock()
	log.Info().Str("brand", brand).Msg("monitoring stopped")
}

// Status returns a snapshot of the loop.
func (l *Loop) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := Status{
		State:     l.state,
		Active:    l.state == StateRunning,
		Ticks:     l.ticks,
		Platforms: append([]string(nil), l.opts.Platforms...),
	}
	if l.state != StateIdle {
		s.Platforms = append([]string(nil), l.platforms...)
		s.Brand = l.brand
		s.Interval = l.interval.String()
		started := l.startedAt
		s.StartedAt = &started
	}
	if !l.lastTickAt.IsZero() && l.state != StateIdle {
		last := l.lastTickAt
		s.LastTickAt = &last
	}
	return s
}

func (l *Loop) run(ctx context.Context, brand string, platforms []string, interval time.Duration, done chan struct{}) {
	defer close(done)
	for {
		wait := interval
		if err := l.tick(ctx, brand, platforms); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Str("brand", brand).Dur("backoff", l.opts.Backoff).Msg("monitoring tick failed")
			wait = l.opts.Backoff
		}
		select {
		case <-ctx.Done():
			return
		case <-l.opts.After(wait):
		}
	}
}

func (l *Loop) tick(ctx context.Context, brand string, platforms []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tick panic: %v", r)
		}
		if err != nil {
			metrics.MonitorTicks.WithLabelValues("error").Inc()
		} else {
			metrics.MonitorTicks.WithLabelValues("ok").Inc()
		}
	}()

	batch := l.checkPlatforms(ctx, brand, platforms)

	l.mu.Lock()
	l.ticks++
	l.lastTickAt = l.opts.Now().UTC()
	l.mu.Unlock()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if len(batch) == 0 {
		log.Debug().Str("brand", brand).Msg("no mentions this tick")
		return nil
	}
	if err := l.sink.Persist(ctx, brand, batch); err != nil {
		return fmt.Errorf("persist %d mentions: %w", len(batch), err)
	}
	log.Info().Str("brand", brand).Int("mentions", len(batch)).Msg("tick complete")
	return nil
}

// CheckAllPlatforms generates mentions for every configured platform
// concurrently and returns them flattened in platform order. Platforms that
// panic or exceed the per-platform timeout contribute nothing.
func (l *Loop) CheckAllPlatforms(ctx context.Context, brand string) []generation.Mention {
	return l.checkPlatforms(ctx, brand, l.opts.Platforms)
}

func (l *Loop) checkPlatforms(ctx context.Context, brand string, platforms []string) []generation.Mention {
	results := make([][]generation.Mention, len(platforms))

	var wg sync.WaitGroup
	for i, p := range platforms {
		wg.Add(1)
		go func(i int, p string) {
			defer wg.Done()
			results[i] = l.checkPlatform(ctx, brand, p)
		}(i, p)
	}
	wg.Wait()

	var out []generation.Mention
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}

func (l *Loop) checkPlatform(ctx context.Context, brand, platform string) []generation.Mention {
	pctx, cancel := context.WithTimeout(ctx, l.opts.PlatformTimeout)
	defer cancel()

	ch := make(chan []generation.Mention, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Str("platform", platform).Interface("panic", r).Msg("platform check panicked")
				metrics.PlatformFailures.WithLabelValues(platform).Inc()
				ch <- nil
			}
		}()
		ch <- l.gen.Generate(pctx, brand, platform)
	}()

	select {
	case m := <-ch:
		return m
	case <-pctx.Done():
		if ctx.Err() == nil {
			log.Warn().Str("platform", platform).Dur("timeout", l.opts.PlatformTimeout).Msg("platform check timed out")
			metrics.PlatformFailures.WithLabelValues(platform).Inc()
		}
		return nil
	}
}

package quota

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Resetter is anything whose budget can be reset.
type Resetter interface {
	Reset()
}

// Scheduler resets a budget on a cron schedule.
type Scheduler struct {
	cron *cron.Cron
	spec string
}

// NewScheduler parses spec (standard 5-field cron or a descriptor such as
// "@daily") and registers r.Reset on it, evaluated in loc (UTC when nil).
// An empty spec returns a nil Scheduler: the budget then only resets on
// explicit request.
func NewScheduler(spec string, r Resetter, loc *time.Location) (*Scheduler, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(spec, func() {
		r.Reset()
		log.Info().Str("schedule", spec).Msg("generation quota reset")
	}); err != nil {
		return nil, fmt.Errorf("quota reset schedule %q: %w", spec, err)
	}
	return &Scheduler{cron: c, spec: spec}, nil
}

// Start runs the scheduler in its own goroutine. Safe on a nil receiver.
func (s *Scheduler) Start() {
	if s == nil {
		return
	}
	s.cron.Start()
	log.Info().Str("schedule", s.spec).Msg("quota reset scheduler started")
}

// Stop halts the scheduler and waits for a running reset to finish.
// Safe on a nil receiver.
func (s *Scheduler) Stop() {
	if s == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// Next returns the next scheduled reset, or the zero time.
func (s *Scheduler) Next() time.Time {
	if s == nil {
		return time.Time{}
	}
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	if n := entries[0].Next; !n.IsZero() {
		return n
	}
	return entries[0].Schedule.Next(time.Now().In(s.cron.Location()))
}

// Package services – MonitoringService
//
// MonitoringService drives the single monitoring session: it validates
// start requests, records them in monitoring_config, starts and stops the
// monitor.Loop and announces state changes on the broadcast hub. It is also
// the loop's Sink, persisting each tick's batch in one transaction and
// publishing one event per stored row.
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/brand-mentions/internal/alerts"
	"github.com/tbourn/brand-mentions/internal/domain"
	"github.com/tbourn/brand-mentions/internal/generation"
	"github.com/tbourn/brand-mentions/internal/hub"
	"github.com/tbourn/brand-mentions/internal/metrics"
	"github.com/tbourn/brand-mentions/internal/monitor"
	"github.com/tbourn/brand-mentions/internal/repo"
)

// ConfigRepo defines the repository contract for monitoring configs.
type ConfigRepo interface {
	// Activate supersedes every active config with a new one for brand.
	Activate(ctx context.Context, db *gorm.DB, brand string, platforms []string) (*domain.MonitoringConfig, error)
	// DeactivateAll marks every active config inactive.
	DeactivateAll(ctx context.Context, db *gorm.DB) (int64, error)
	// Deactivate marks one config inactive or returns gorm.ErrRecordNotFound.
	Deactivate(ctx context.Context, db *gorm.DB, id uint) error
	// ListActive returns active configs, newest first.
	ListActive(ctx context.Context, db *gorm.DB) ([]domain.MonitoringConfig, error)
}

// Monitor is the session state machine (monitor.Loop).
type Monitor interface {
	Start(ctx context.Context, s monitor.Session) error
	Stop()
	Status() monitor.Status
	Platforms() []string
}

// Broadcaster publishes events to connected clients (hub.Hub).
type Broadcaster interface {
	Broadcast(ctx context.Context, ev hub.Event) (int, error)
}

// Quota exposes the generation call budget.
type Quota interface {
	Calls() int
	Remaining() int
	Budget() int
	Reset()
}

// MonitoringService coordinates the monitoring session.
type MonitoringService struct {
	DB      *gorm.DB
	Configs ConfigRepo
	Loop    Monitor
	Hub     Broadcaster
	Quota   Quota
	// Alerts, when set, is notified for every stored negative mention.
	Alerts alerts.Notifier
	// AlertTimeout bounds one notification (default 10s).
	AlertTimeout time.Duration

	// ctl keeps the active config and the running loop on the same brand.
	ctl     sync.Mutex
	closed  bool
	alertWG sync.WaitGroup
}

// MonitoringStatus is the status endpoint payload.
type MonitoringStatus struct {
	IsActive          bool       `json:"is_active"`
	CurrentBrand      *string    `json:"current_brand"`
	PlatformsCount    int        `json:"platforms_count"`
	Platforms         []string   `json:"platforms"`
	StartTime         *time.Time `json:"start_time"`
	LastTickAt        *time.Time `json:"last_tick_at,omitempty"`
	Ticks             uint64     `json:"ticks"`
	APICallsUsed      int        `json:"api_calls_used"`
	APICallsRemaining int        `json:"api_calls_remaining"`
}

// QuotaStatus reports the generation budget.
type QuotaStatus struct {
	Used      int `json:"api_calls_used"`
	Remaining int `json:"api_calls_remaining"`
	Budget    int `json:"budget"`
}

// Start validates brand and platforms, supersedes the active config, starts
// (or restarts) the loop and broadcasts the new status. It returns the
// cleaned brand name.
func (s *MonitoringService) Start(ctx context.Context, brand string, platforms []string) (string, error) {
	tr := otel.Tracer("services/MonitoringService")
	ctx, span := tr.Start(ctx, "Start", trace.WithAttributes(attribute.String("brand", brand)))
	defer span.End()

	brand, err := ValidateBrand(brand)
	if err != nil {
		return "", err
	}
	platforms, err = ValidatePlatforms(platforms, s.Loop.Platforms())
	if err != nil {
		return "", err
	}
	span.SetAttributes(attribute.StringSlice("platforms", platforms))

	s.ctl.Lock()
	defer s.ctl.Unlock()
	if s.closed {
		return "", ErrMonitoringClosed
	}
	if _, err := s.Configs.Activate(ctx, s.DB, brand, platforms); err != nil {
		return "", err
	}
	if err := s.Loop.Start(ctx, monitor.Session{Brand: brand, Platforms: platforms}); err != nil {
		return "", err
	}
	s.broadcast(ctx, hub.StatusEvent(true, brand))
	return brand, nil
}

// Stop ends the session (a no-op when idle), deactivates stored configs and
// broadcasts the idle status.
func (s *MonitoringService) Stop(ctx context.Context) error {
	tr := otel.Tracer("services/MonitoringService")
	ctx, span := tr.Start(ctx, "Stop")
	defer span.End()

	s.ctl.Lock()
	defer s.ctl.Unlock()
	s.Loop.Stop()
	if _, err := s.Configs.DeactivateAll(ctx, s.DB); err != nil {
		return err
	}
	s.broadcast(ctx, hub.StatusEvent(false, ""))
	return nil
}

// Status reports the live session and quota usage.
func (s *MonitoringService) Status(ctx context.Context) MonitoringStatus {
	st := s.Loop.Status()
	out := MonitoringStatus{
		IsActive:       st.Active,
		PlatformsCount: len(st.Platforms),
		Platforms:      st.Platforms,
		StartTime:      st.StartedAt,
		LastTickAt:     st.LastTickAt,
		Ticks:          st.Ticks,
	}
	if st.Brand != "" {
		b := st.Brand
		out.CurrentBrand = &b
	}
	if s.Quota != nil {
		out.APICallsUsed = s.Quota.Calls()
		out.APICallsRemaining = s.Quota.Remaining()
	}
	return out
}

// ResetQuota zeroes the call counter and returns the new quota state.
func (s *MonitoringService) ResetQuota(ctx context.Context) QuotaStatus {
	if s.Quota == nil {
		return QuotaStatus{}
	}
	s.Quota.Reset()
	log.Ctx(ctx).Info().Int("budget", s.Quota.Budget()).Msg("generation quota reset")
	return QuotaStatus{Used: s.Quota.Calls(), Remaining: s.Quota.Remaining(), Budget: s.Quota.Budget()}
}

// ActiveConfigs lists active monitoring configs.
func (s *MonitoringService) ActiveConfigs(ctx context.Context) ([]domain.MonitoringConfig, error) {
	tr := otel.Tracer("services/MonitoringService")
	ctx, span := tr.Start(ctx, "ActiveConfigs")
	defer span.End()

	out, err := s.Configs.ListActive(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.MonitoringConfig{}
	}
	return out, nil
}

// DeactivateConfig marks one config inactive. It does not stop the loop.
func (s *MonitoringService) DeactivateConfig(ctx context.Context, id uint) error {
	tr := otel.Tracer("services/MonitoringService")
	ctx, span := tr.Start(ctx, "DeactivateConfig", trace.WithAttributes(attribute.Int64("config_id", int64(id))))
	defer span.End()

	if err := s.Configs.Deactivate(ctx, s.DB, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrConfigNotFound
		}
		return err
	}
	return nil
}

// Persist implements monitor.Sink. The batch is stored in one transaction;
// on failure an error event is broadcast and nothing is published.
func (s *MonitoringService) Persist(ctx context.Context, brand string, batch []generation.Mention) error {
	tr := otel.Tracer("services/MonitoringService")
	ctx, span := tr.Start(ctx, "Persist",
		trace.WithAttributes(attribute.String("brand", brand), attribute.Int("count", len(batch))))
	defer span.End()

	rows := make([]domain.BrandMention, len(batch))
	for i, m := range batch {
		rows[i] = m.Record()
	}
	stored, err := repo.CreateMentions(ctx, s.DB, rows)
	if err != nil {
		span.RecordError(err)
		s.broadcast(ctx, hub.ErrorEvent("Failed to store mentions for "+brand))
		return err
	}
	metrics.MentionsPersisted.Add(float64(len(stored)))

	for i, row := range stored {
		s.broadcast(ctx, hub.MentionEvent(row, batch[i].Author, batch[i].EngagementScore))
		if sent, ok := row.Sentiment(); ok && sent == domain.SentimentNegative {
			s.alert(ctx, row)
		}
	}
	return nil
}

// WaitAlerts blocks until in-flight alert notifications finish.
func (s *MonitoringService) WaitAlerts() { s.alertWG.Wait() }

// Close stops the loop for good and waits for pending alerts. Stored configs
// stay active; later Starts fail with ErrMonitoringClosed.
func (s *MonitoringService) Close() {
	s.ctl.Lock()
	s.closed = true
	s.Loop.Stop()
	s.ctl.Unlock()
	s.WaitAlerts()
}

func (s *MonitoringService) alert(ctx context.Context, row domain.BrandMention) {
	if s.Alerts == nil {
		return
	}
	timeout := s.AlertTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	s.alertWG.Add(1)
	go func() {
		defer s.alertWG.Done()
		defer cancel()
		if err := s.Alerts.Notify(actx, row); err != nil {
			log.Warn().Err(err).Uint("mention_id", row.ID).Msg("negative mention alert failed")
		}
	}()
}

func (s *MonitoringService) broadcast(ctx context.Context, ev hub.Event) {
	if s.Hub == nil {
		return
	}
	if _, err := s.Hub.Broadcast(ctx, ev); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("type", ev.Type).Msg("broadcast failed")
	}
}

// Package handlers exposes the REST and WebSocket endpoints of the brand
// mention tracker.
//
// Handlers are transport-thin: they parse and validate input, call the
// application services and translate results into HTTP responses
// (including conditional responses).
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tbourn/brand-mentions/internal/domain"
	"github.com/tbourn/brand-mentions/internal/hub"
	"github.com/tbourn/brand-mentions/internal/search"
	"github.com/tbourn/brand-mentions/internal/services"
)

//
// Service contracts (context-aware)
//

// MentionService defines mention queries consumed by HTTP handlers.
type MentionService interface {
	// List returns up to limit mentions newest-first, optionally by brand.
	List(ctx context.Context, brand string, limit int) ([]domain.BrandMention, error)
	// ListByPlatform returns up to limit mentions for one platform.
	ListByPlatform(ctx context.Context, platform string, limit int) ([]domain.BrandMention, error)
	// Search returns mentions whose text contains q.
	Search(ctx context.Context, q, brand string, limit int) ([]domain.BrandMention, error)
	// Delete removes one mention or returns services.ErrMentionNotFound.
	Delete(ctx context.Context, id uint) error
	// Clear removes every mention.
	Clear(ctx context.Context) (services.ClearResult, error)
	// Fingerprint returns the list version behind the ETag.
	Fingerprint(ctx context.Context, brand string) (services.ListVersion, error)
}

// StatsService defines aggregate queries.
type StatsService interface {
	Overview(ctx context.Context, brand string) (services.Overview, error)
	PlatformList() []string
	PlatformBreakdown(ctx context.Context, brand string) (services.PlatformBreakdown, error)
	SentimentBreakdown(ctx context.Context, brand string) (services.SentimentBreakdown, error)
	Timeframe(ctx context.Context, hours int, brand string) (services.Timeframe, error)
	Keywords(ctx context.Context, brand string, n int) ([]search.Keyword, error)
}

// MonitoringService defines session control.
type MonitoringService interface {
	Start(ctx context.Context, brand string, platforms []string) (string, error)
	Stop(ctx context.Context) error
	Status(ctx context.Context) services.MonitoringStatus
	ResetQuota(ctx context.Context) services.QuotaStatus
	ActiveConfigs(ctx context.Context) ([]domain.MonitoringConfig, error)
	DeactivateConfig(ctx context.Context, id uint) error
}

// DemoService seeds sample data.
type DemoService interface {
	Seed(ctx context.Context, brand string, count int) ([]domain.BrandMention, error)
}

//
// Handler wiring
//

// Deps carries everything New needs.
type Deps struct {
	Mentions   MentionService
	Stats      StatsService
	Monitoring MonitoringService
	Demo       DemoService
	Hub        *hub.Hub
	Version    string
	// AllowedOrigins restricts WebSocket upgrades; empty allows any origin.
	AllowedOrigins []string
	// WSWriteTimeout bounds each socket write.
	WSWriteTimeout time.Duration
}

// Handlers groups the HTTP endpoints.
type Handlers struct {
	mentions   MentionService
	stats      StatsService
	monitoring MonitoringService
	demo       DemoService
	hub        *hub.Hub
	version    string

	upgrader       websocket.Upgrader
	wsWriteTimeout time.Duration
}

// New constructs a Handlers instance bound to the given services.
func New(d Deps) *Handlers {
	h := &Handlers{
		mentions:       d.Mentions,
		stats:          d.Stats,
		monitoring:     d.Monitoring,
		demo:           d.Demo,
		hub:            d.Hub,
		version:        d.Version,
		wsWriteTimeout: d.WSWriteTimeout,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(d.AllowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[strings.TrimSpace(o)] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

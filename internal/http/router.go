// Package httpapi assembles the Gin engine for the mention tracker: the
// middleware chain, the REST API under the configured base path, the
// /ws live feed, /health, /metrics and the Swagger UI.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/tbourn/brand-mentions/docs" // swagger spec registration
	"github.com/tbourn/brand-mentions/internal/alerts"
	"github.com/tbourn/brand-mentions/internal/archive"
	"github.com/tbourn/brand-mentions/internal/config"
	"github.com/tbourn/brand-mentions/internal/domain"
	"github.com/tbourn/brand-mentions/internal/http/handlers"
	"github.com/tbourn/brand-mentions/internal/http/middleware"
	"github.com/tbourn/brand-mentions/internal/hub"
	"github.com/tbourn/brand-mentions/internal/repo"
	"github.com/tbourn/brand-mentions/internal/services"
)

// configRepoShim adapts the repository free functions to the
// services.ConfigRepo interface expected by the MonitoringService. This keeps
// services decoupled from the concrete repo package while reusing existing
// functions.
type configRepoShim struct{}

// Activate proxies repo.ActivateMonitoringConfig.
func (configRepoShim) Activate(ctx context.Context, db *gorm.DB, brand string, platforms []string) (*domain.MonitoringConfig, error) {
	return repo.ActivateMonitoringConfig(ctx, db, brand, platforms)
}

// DeactivateAll proxies repo.DeactivateMonitoringConfigs.
func (configRepoShim) DeactivateAll(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.DeactivateMonitoringConfigs(ctx, db)
}

// Deactivate proxies repo.DeactivateMonitoringConfig.
func (configRepoShim) Deactivate(ctx context.Context, db *gorm.DB, id uint) error {
	return repo.DeactivateMonitoringConfig(ctx, db, id)
}

// ListActive proxies repo.ListActiveMonitoringConfigs.
func (configRepoShim) ListActive(ctx context.Context, db *gorm.DB) ([]domain.MonitoringConfig, error) {
	return repo.ListActiveMonitoringConfigs(ctx, db)
}

// NewMonitoringService builds the session controller over db. The returned
// service is also the monitoring loop's sink, so callers construct the loop
// with it and then assign Loop before serving requests.
func NewMonitoringService(db *gorm.DB, h *hub.Hub, q services.Quota, n alerts.Notifier, alertTimeout time.Duration) *services.MonitoringService {
	return &services.MonitoringService{
		DB:           db,
		Configs:      configRepoShim{},
		Hub:          h,
		Quota:        q,
		Alerts:       n,
		AlertTimeout: alertTimeout,
	}
}

// Runtime carries the long-lived components shared between the router and
// the process: the monitoring controller (with its loop assigned), the
// broadcast hub and the optional clear-time archiver.
type Runtime struct {
	Monitoring *services.MonitoringService
	Hub        *hub.Hub
	Archiver   archive.Archiver
}

// RegisterRoutes installs the middleware chain and every endpoint on r.
//
// Chain order: tracing, request ID, redacting logger, recovery, body cap,
// metrics, rate limit, gzip, CORS, security headers. Recovery sits after the
// logger so panics are logged with the request's fields. /ws is exempt from
// the limiter and from gzip because it hijacks the connection.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, rt Runtime, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		QuietPaths: []string{"/health", "/metrics"},
	}))

	r.Use(middleware.Recovery())
	r.Use(limitBody(1 << 20))

	r.Use(middleware.Metrics("/metrics"))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// commands that start OpenAI work cost more than reads
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByAPIKeyOrIP()).
		Exempt("/health", "/metrics", "/ws").
		Cost(apiPath(cfg.APIBasePath, "/monitoring/start"), 3).
		Cost(apiPath(cfg.APIBasePath, "/demo/seed"), 3)
	r.Use(rl.Handler())

	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/ws", "/metrics"})))

	r.Use(corsPolicy(cfg.CORS.AllowedOrigins)...)

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:      cfg.Security.EnableHSTS,
		HSTSMaxAge:      cfg.Security.HSTSMaxAge,
		NoStorePrefixes: []string{"/health", apiPath(cfg.APIBasePath, "/monitoring")},
		DocsPrefix:      "/swagger",
		EnablePolicy:    true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Dependency injection: services ← repo/db/runtime
	mon := rt.Monitoring
	h := handlers.New(handlers.Deps{
		Mentions: &services.MentionService{DB: db, Archiver: rt.Archiver},
		Stats: &services.StatsService{
			DB:        db,
			Monitor:   mon.Loop,
			Platforms: mon.Loop.Platforms(),
		},
		Monitoring:     mon,
		Demo:           &services.DemoService{DB: db},
		Hub:            rt.Hub,
		Version:        cfg.Version,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		WSWriteTimeout: cfg.WS.WriteTimeout,
	})

	// Liveness/health and live updates
	r.GET("/health", h.Health)
	r.GET("/ws", h.WebSocket)

	// API docs
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath) // e.g. "/api"
	{
		// Monitoring
		api.POST("/monitoring/start", h.StartMonitoring)
		api.POST("/monitoring/stop", h.StopMonitoring)
		api.GET("/monitoring/status", h.MonitoringStatus)
		api.POST("/monitoring/quota/reset", h.ResetQuota)
		api.GET("/monitoring/configs", h.ListConfigs)
		api.DELETE("/monitoring/configs/:id", h.DeactivateConfig)

		// Mentions
		api.GET("/mentions", h.ListMentions)
		api.GET("/mentions/search", h.SearchMentions)
		api.GET("/mentions/platform/:platform", h.ListPlatformMentions)
		api.GET("/mentions/:brand_name", h.ListBrandMentions)
		api.DELETE("/mentions/:id", h.DeleteMention)
		api.DELETE("/mentions", h.ClearMentions)

		// Stats
		api.GET("/stats", h.GetStats)
		api.GET("/stats/platforms", h.GetPlatforms)
		api.GET("/stats/platforms/breakdown", h.GetPlatformBreakdown)
		api.GET("/stats/sentiment", h.GetSentiment)
		api.GET("/stats/timeframe", h.GetTimeframe)
		api.GET("/stats/keywords", h.GetKeywords)

		// Demo data
		api.POST("/demo/seed", h.SeedDemo)
	}
}

// corsPolicy never allows credentials. With no origins configured every
// response carries a wildcard, including those without an Origin header, so
// ad-hoc dashboards and health checks behave the same.
func corsPolicy(origins []string) []gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "If-None-Match", middleware.HeaderAPIKey},
		ExposeHeaders: []string{"X-Request-ID", "Content-Length", "ETag", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) > 0 {
		cc.AllowOrigins = origins
		return []gin.HandlerFunc{cors.New(cc)}
	}
	cc.AllowAllOrigins = true
	wildcard := func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Next()
	}
	return []gin.HandlerFunc{wildcard, cors.New(cc)}
}

// limitBody caps request bodies; reads past maxBytes fail.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// apiPath joins the API base path and p, treating "/" (or empty) as root.
func apiPath(base, p string) string {
	if base == "" || base == "/" {
		return p
	}
	return base + p
}

func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	return r.Group(apiPath(prefix, ""))
}

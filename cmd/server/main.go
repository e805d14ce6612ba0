// Command server runs the brand mention tracker: the HTTP API, the live
// update WebSocket and the background monitoring loop.
//
//	@title			Brand Mentions API
//	@version		1.0
//	@description	Tracks AI-generated brand mentions across social platforms.
//	@BasePath		/api
//	@schemes		http https
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/brand-mentions/internal/alerts"
	"github.com/tbourn/brand-mentions/internal/archive"
	"github.com/tbourn/brand-mentions/internal/config"
	"github.com/tbourn/brand-mentions/internal/generation"
	httpapi "github.com/tbourn/brand-mentions/internal/http"
	"github.com/tbourn/brand-mentions/internal/hub"
	"github.com/tbourn/brand-mentions/internal/metrics"
	"github.com/tbourn/brand-mentions/internal/monitor"
	"github.com/tbourn/brand-mentions/internal/observability"
	"github.com/tbourn/brand-mentions/internal/quota"
	"github.com/tbourn/brand-mentions/internal/repo"
	"github.com/tbourn/brand-mentions/internal/sentiment"
	"github.com/tbourn/brand-mentions/internal/sysutil"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment")
	}

	cfg := config.MustLoad()
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func setupLogging(cfg config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	level := sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	log.Debug().Str("level", level.String()).Msg("logging configured")
}

func run(ctx context.Context, cfg config.Config) error {
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, cfg.Version)
	if err != nil {
		return err
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	if err := repo.Migrate(db); err != nil {
		return err
	}
	if cfg.OTEL.Enabled {
		if err := repo.EnableTracing(db); err != nil {
			log.Warn().Err(err).Msg("gorm tracing disabled")
		}
	}

	// Generation: a missing API key keeps the client in fallback mode.
	var api generation.Completer
	if cfg.OpenAI.APIKey != "" {
		api = generation.NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Timeout)
		log.Info().Str("key", sysutil.MaskSecret(cfg.OpenAI.APIKey)).Str("model", cfg.OpenAI.Model).Msg("openai client ready")
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set, serving fallback mentions")
	}
	log.Info().
		Bool("reddit_credentials", cfg.Sources.RedditClientID != "" && cfg.Sources.RedditClientSecret != "").
		Bool("twitter_credentials", cfg.Sources.TwitterBearerToken != "").
		Msg("platform credentials")

	guard := quota.New[generation.Mention](quota.Options{
		Budget:    cfg.Quota.SessionLimit,
		Cooldown:  cfg.Quota.Cooldown,
		CacheSize: cfg.Quota.CacheSize,
	})
	guard.OnChange(func(remaining int) { metrics.QuotaRemaining.Set(float64(remaining)) })
	metrics.QuotaRemaining.Set(float64(guard.Remaining()))

	tagger, err := sentiment.New(cfg.Monitoring.SentimentStrategy, api, cfg.OpenAI.Model)
	if err != nil {
		return err
	}
	gen := generation.New(api, guard, tagger, generation.Options{
		Model:      cfg.OpenAI.Model,
		MaxPerCall: cfg.Monitoring.MaxMentionsPerCheck,
	})

	h := hub.New(cfg.WS.MaxConnections)
	go h.RunHeartbeat(ctx, cfg.WS.HeartbeatInterval)

	var notifier alerts.Notifier
	if wh := alerts.NewWebhook(cfg.Alerts.WebhookURL, cfg.Alerts.Timeout); wh != nil {
		notifier = wh
	}

	var archiver archive.Archiver
	if cfg.Archive.Account != "" {
		blob, err := archive.NewAzureBlob(ctx, cfg.Archive.Account, cfg.Archive.Container)
		if err != nil {
			log.Warn().Err(err).Str("account", cfg.Archive.Account).Msg("mention archive disabled")
		} else {
			archiver = blob
		}
	}

	svc := httpapi.NewMonitoringService(db, h, guard, notifier, cfg.Alerts.Timeout)
	loop := monitor.New(gen, svc, monitor.Options{
		Platforms:       cfg.Monitoring.Platforms,
		Interval:        cfg.Monitoring.Interval,
		PlatformTimeout: cfg.Monitoring.PlatformTimeout,
	})
	svc.Loop = loop

	sched, err := quota.NewScheduler(cfg.Quota.ResetSchedule, guard, time.UTC)
	if err != nil {
		return err
	}
	sched.Start()

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, httpapi.Runtime{Monitoring: svc, Hub: h, Archiver: archiver}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", cfg.Version).Strs("platforms", loop.Platforms()).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// HTTP first so no request can restart the loop after it stops.
	if err := srv.Shutdown(shCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	svc.Close()
	sched.Stop()
	h.CloseAll()
	if err := shutdownOTel(shCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}

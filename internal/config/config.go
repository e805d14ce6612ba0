// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, database paths, rate limiting and
// observability, plus the mention generation and monitoring knobs.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tbourn/brand-mentions/internal/sysutil"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "brand-mentions")
	Environment string  // OTEL_DEPLOYMENT_ENVIRONMENT (e.g. "production")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// OpenAIConfig configures the generation API. An empty APIKey selects the
// offline fallback mentions.
type OpenAIConfig struct {
	APIKey  string        // OPENAI_API_KEY
	BaseURL string        // OPENAI_BASE_URL (optional, OpenAI-compatible endpoint)
	Model   string        // OPENAI_MODEL
	Timeout time.Duration // OPENAI_TIMEOUT per HTTP request
}

// SourceConfig carries third-party platform credentials. Generation does not
// read them; they are reported at startup only.
type SourceConfig struct {
	RedditClientID     string // REDDIT_CLIENT_ID
	RedditClientSecret string // REDDIT_CLIENT_SECRET
	TwitterBearerToken string // TWITTER_BEARER_TOKEN
}

// MaxMentionsPerCheckCeiling bounds MAX_MENTIONS_PER_CHECK; one completion
// never yields more paragraphs than this.
const MaxMentionsPerCheckCeiling = 3

// MonitoringConfig tunes the monitoring loop and generation batches.
type MonitoringConfig struct {
	Interval            time.Duration // MONITORING_INTERVAL
	MaxMentionsPerCheck int           // MAX_MENTIONS_PER_CHECK
	PlatformTimeout     time.Duration // PLATFORM_TIMEOUT
	Platforms           []string      // MONITORED_PLATFORMS (CSV, empty = built-in list)
	SentimentStrategy   string        // SENTIMENT_STRATEGY: keyword|llm
}

// QuotaConfig bounds generation API usage.
type QuotaConfig struct {
	SessionLimit  int           // OPENAI_SESSION_LIMIT
	Cooldown      time.Duration // GENERATION_COOLDOWN per (brand, platform)
	CacheSize     int           // GENERATION_CACHE_SIZE
	ResetSchedule string        // QUOTA_RESET_SCHEDULE (cron; empty disables)
}

// WSConfig tunes the live update hub.
type WSConfig struct {
	MaxConnections    int           // WS_MAX_CONNECTIONS
	HeartbeatInterval time.Duration // WS_HEARTBEAT_INTERVAL
	WriteTimeout      time.Duration // WS_WRITE_TIMEOUT
}

// AlertConfig configures negative mention notifications.
type AlertConfig struct {
	WebhookURL string        // ALERT_WEBHOOK_URL (empty disables)
	Timeout    time.Duration // ALERT_TIMEOUT
}

// ArchiveConfig configures the blob snapshot taken before a clear.
type ArchiveConfig struct {
	Account   string // AZURE_STORAGE_ACCOUNT (empty disables)
	Container string // AZURE_STORAGE_CONTAINER
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	DBPath  string // SQLite path
	Version string // APP_VERSION reported by /health

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig

	// Domain
	OpenAI     OpenAIConfig
	Sources    SourceConfig
	Monitoring MonitoringConfig
	Quota      QuotaConfig
	WS         WSConfig
	Alerts     AlertConfig
	Archive    ArchiveConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8000"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api")),

		// App
		DBPath:  getenv("DB_PATH", "./brand_tracker.db"),
		Version: getenv("APP_VERSION", "1.0.0"),

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: sysutil.SplitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "brand-mentions"),
			Environment: getenv("OTEL_DEPLOYMENT_ENVIRONMENT", "development"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},

		OpenAI: OpenAIConfig{
			APIKey:  strings.TrimSpace(getenv("OPENAI_API_KEY", "")),
			BaseURL: getenv("OPENAI_BASE_URL", ""),
			Model:   getenv("OPENAI_MODEL", "gpt-3.5-turbo"),
			Timeout: getdur("OPENAI_TIMEOUT", 30*time.Second),
		},
		Sources: SourceConfig{
			RedditClientID:     getenv("REDDIT_CLIENT_ID", ""),
			RedditClientSecret: getenv("REDDIT_CLIENT_SECRET", ""),
			TwitterBearerToken: getenv("TWITTER_BEARER_TOKEN", ""),
		},
		Monitoring: MonitoringConfig{
			Interval:            getdur("MONITORING_INTERVAL", 60*time.Second),
			MaxMentionsPerCheck: getint("MAX_MENTIONS_PER_CHECK", 3),
			PlatformTimeout:     getdur("PLATFORM_TIMEOUT", 30*time.Second),
			Platforms:           sysutil.SplitCSV(getenv("MONITORED_PLATFORMS", "")),
			SentimentStrategy:   strings.ToLower(strings.TrimSpace(getenv("SENTIMENT_STRATEGY", "keyword"))),
		},
		Quota: QuotaConfig{
			SessionLimit:  getint("OPENAI_SESSION_LIMIT", 15),
			Cooldown:      getdur("GENERATION_COOLDOWN", 300*time.Second),
			CacheSize:     getint("GENERATION_CACHE_SIZE", 256),
			ResetSchedule: strings.TrimSpace(getenv("QUOTA_RESET_SCHEDULE", "@daily")),
		},
		WS: WSConfig{
			MaxConnections:    getint("WS_MAX_CONNECTIONS", 100),
			HeartbeatInterval: getdur("WS_HEARTBEAT_INTERVAL", 30*time.Second),
			WriteTimeout:      getdur("WS_WRITE_TIMEOUT", 10*time.Second),
		},
		Alerts: AlertConfig{
			WebhookURL: strings.TrimSpace(getenv("ALERT_WEBHOOK_URL", "")),
			Timeout:    getdur("ALERT_TIMEOUT", 10*time.Second),
		},
		Archive: ArchiveConfig{
			Account:   strings.TrimSpace(getenv("AZURE_STORAGE_ACCOUNT", "")),
			Container: getenv("AZURE_STORAGE_CONTAINER", "mention-archive"),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: trace, debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}
	if cfg.Monitoring.Interval <= 0 || cfg.Monitoring.PlatformTimeout <= 0 {
		return cfg, errors.New("MONITORING_INTERVAL and PLATFORM_TIMEOUT must be positive durations")
	}
	if cfg.Monitoring.MaxMentionsPerCheck < 1 {
		return cfg, errors.New("MAX_MENTIONS_PER_CHECK must be >= 1")
	}
	cfg.Monitoring.MaxMentionsPerCheck = min(cfg.Monitoring.MaxMentionsPerCheck, MaxMentionsPerCheckCeiling)
	switch cfg.Monitoring.SentimentStrategy {
	case "keyword", "llm":
	default:
		return cfg, errors.New("SENTIMENT_STRATEGY must be one of: keyword, llm")
	}
	if cfg.Quota.SessionLimit < 0 {
		return cfg, errors.New("OPENAI_SESSION_LIMIT must be >= 0")
	}
	if cfg.Quota.Cooldown < 0 {
		return cfg, errors.New("GENERATION_COOLDOWN must be >= 0")
	}
	if cfg.Quota.CacheSize < 1 {
		return cfg, errors.New("GENERATION_CACHE_SIZE must be >= 1")
	}
	if cfg.WS.MaxConnections < 1 {
		return cfg, errors.New("WS_MAX_CONNECTIONS must be >= 1")
	}
	if cfg.WS.HeartbeatInterval <= 0 || cfg.WS.WriteTimeout <= 0 {
		return cfg, errors.New("WS_HEARTBEAT_INTERVAL and WS_WRITE_TIMEOUT must be positive durations")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if sysutil.IsTruthy(v) {
			return true
		}
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}

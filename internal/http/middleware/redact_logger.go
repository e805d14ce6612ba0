package middleware

import (
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RedactOptions tunes RedactingLogger.
type RedactOptions struct {
	// MaskHeaders are replaced with "[REDACTED]" in addition to
	// Authorization, Cookie, Set-Cookie and X-API-Key. Case-insensitive.
	MaskHeaders []string
	// QuietPaths are logged at debug level (health checks, scrapes).
	QuietPaths []string
}

// Patterns scrubbed from queries, paths and header values. IDs go first so
// the looser patterns never see their fragments.
var (
	uuidRE   = regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\b`)
	secretRE = regexp.MustCompile(`\b(?:sk|pk|rk)-[A-Za-z0-9_\-]{16,}\b`)
	bearerRE = regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._\-~+/]+=*`)
	emailRE  = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
)

// Redact replaces API keys, bearer tokens, e-mail addresses and UUIDs in s.
func Redact(s string) string {
	if s == "" {
		return s
	}
	s = uuidRE.ReplaceAllString(s, "[REDACTED:id]")
	s = secretRE.ReplaceAllString(s, "[REDACTED:key]")
	s = bearerRE.ReplaceAllString(s, "[REDACTED:token]")
	return emailRE.ReplaceAllString(s, "[REDACTED:email]")
}

// RedactingLogger attaches a request-scoped logger (request_id, route, brand)
// for LoggerFrom and writes one access log line per request. Request and
// response bodies are never logged. The line is emitted at error level for
// 5xx or gin errors, warn for 4xx, and info otherwise; WebSocket sessions are
// logged when they end, with their duration.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	mask := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
		strings.ToLower(HeaderAPIKey): {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			mask[h] = struct{}{}
		}
	}
	quiet := make(map[string]struct{}, len(opts.QuietPaths))
	for _, p := range opts.QuietPaths {
		quiet[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()

		ctxLog := log.With().
			Str("request_id", RequestIDFrom(c)).
			Str("method", c.Request.Method).
			Str("route", routeOf(c))
		if b := brandOf(c); b != "" {
			ctxLog = ctxLog.Str("brand", b)
		}
		lg := ctxLog.Logger()
		c.Set(loggerKey, &lg)

		headers := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, ok := mask[strings.ToLower(k)]; ok {
				headers[k] = "[REDACTED]"
				continue
			}
			headers[k] = Redact(strings.Join(vv, ", "))
		}
		ws := c.IsWebsocket()

		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case len(c.Errors) > 0 || status >= 500:
			ev = lg.Error()
			if len(c.Errors) > 0 {
				ev = ev.Str("errors", c.Errors.String())
			}
		case status >= 400:
			ev = lg.Warn()
		default:
			if _, ok := quiet[c.Request.URL.Path]; ok {
				ev = lg.Debug()
			} else {
				ev = lg.Info()
			}
		}

		msg := "http_request"
		if ws {
			msg = "websocket_session"
		}
		ev.
			Str("path", Redact(c.Request.URL.Path)).
			Str("query", truncate(Redact(c.Request.URL.RawQuery), maxQueryLogLength)).
			Str("client_ip", c.ClientIP()).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", headers).
			Msg(msg)
	}
}

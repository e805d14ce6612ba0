package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/brand-mentions/internal/config"
	"github.com/tbourn/brand-mentions/internal/domain"
	"github.com/tbourn/brand-mentions/internal/generation"
	"github.com/tbourn/brand-mentions/internal/hub"
	"github.com/tbourn/brand-mentions/internal/monitor"
	"github.com/tbourn/brand-mentions/internal/quota"
	"github.com/tbourn/brand-mentions/internal/repo"
)

// --- test DB helper (pure-Go sqlite, no CGO) ---
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newRuntime wires the real monitoring stack in offline mode: no API client,
// so every tick yields one fallback mention per platform.
func newRuntime(t *testing.T, db *gorm.DB) Runtime {
	t.Helper()
	h := hub.New(10)
	guard := quota.New[generation.Mention](quota.Options{Budget: 15, Cooldown: 300 * time.Second})
	gen := generation.New(nil, guard, nil, generation.Options{})

	svc := NewMonitoringService(db, h, guard, nil, time.Second)
	loop := monitor.New(gen, svc, monitor.Options{
		Platforms: []string{"Reddit", "Twitter"},
		Interval:  time.Hour,
	})
	svc.Loop = loop
	t.Cleanup(loop.Stop)
	return Runtime{Monitoring: svc, Hub: h}
}

func testConfig() config.Config {
	return config.Config{
		APIBasePath: "/api",
		RateRPS:     100,
		RateBurst:   50,
		CORS:        config.CORSConfig{AllowedOrigins: nil}, // triggers AllowAllOrigins branch
		Security:    config.SecurityConfig{EnableHSTS: false, HSTSMaxAge: 0},
		OTEL:        config.OTELConfig{ServiceName: "test-svc"},
		Version:     "9.9.9",
	}
}

func newRouter(t *testing.T, cfg config.Config) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	db := newTestDB(t)
	RegisterRoutes(r, db, newRuntime(t, db), cfg)
	return r, db
}

func do(r http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v (body=%s)", v, err, w.Body.String())
	}
	return v
}

func TestRegisterRoutes_CORSAllowAll_Health_Metrics_Fallbacks(t *testing.T) {
	r, _ := newRouter(t, testConfig())

	// /health works and reports the build version
	w := do(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	health := decode[map[string]any](t, w)
	if health["status"] != "healthy" || health["version"] != "9.9.9" || health["monitoring_active"] != false {
		t.Fatalf("unexpected health payload: %v", health)
	}
	// CORS (AllowAllOrigins) → header "*"
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}

	// /metrics is wired
	w = do(r, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK || len(w.Body.Bytes()) == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}

	// NoRoute → 404
	if w = do(r, http.MethodGet, "/nope", ""); w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope expected 404, got %d", w.Code)
	}

	// NoMethod → 405 (POST /health)
	if w = do(r, http.MethodPost, "/health", ""); w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health expected 405, got %d", w.Code)
	}

	// Swagger stays off unless enabled
	if w = do(r, http.MethodGet, "/swagger/index.html", ""); w.Code != http.StatusNotFound {
		t.Fatalf("swagger should be disabled by default, got %d", w.Code)
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	cfg := testConfig()
	cfg.APIBasePath = "/api/v2"
	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{"http://dashboard.test"}}
	r, _ := newRouter(t, cfg)

	// httptest requests target example.com, so the dashboard origin is cross-origin.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://dashboard.test")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://dashboard.test" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.test")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unlisted origin must not be echoed, got %q", got)
	}

	// API mounted under the configured prefix
	if w := do(r, http.MethodGet, "/api/v2/stats/platforms", ""); w.Code != http.StatusOK {
		t.Fatalf("GET /api/v2/stats/platforms = %d", w.Code)
	}
}

func TestRegisterRoutes_SwaggerEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.SwaggerEnabled = true
	r, _ := newRouter(t, cfg)

	w := do(r, http.MethodGet, "/swagger/doc.json", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/monitoring/start") {
		t.Fatalf("swagger doc not served: code=%d body=%.200s", w.Code, w.Body.String())
	}
}

func TestRegisterRoutes_RateLimitExemptsHealth(t *testing.T) {
	cfg := testConfig()
	cfg.RateRPS = 0.001
	cfg.RateBurst = 1
	r, _ := newRouter(t, cfg)

	if w := do(r, http.MethodGet, "/api/stats/platforms", ""); w.Code != http.StatusOK {
		t.Fatalf("first API call should pass, got %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/api/stats/platforms", ""); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second API call should be limited, got %d", w.Code)
	}
	for i := 0; i < 3; i++ {
		if w := do(r, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
			t.Fatalf("/health must never be limited, got %d", w.Code)
		}
	}
}

func TestRegisterRoutes_Gzip(t *testing.T) {
	r, _ := newRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/stats/platforms", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Content-Encoding") != "gzip" || !bytes.HasPrefix(w.Body.Bytes(), []byte{0x1f, 0x8b}) {
		t.Fatalf("API responses should be gzip encoded, headers=%v", w.Header())
	}
}

// End to end: seed ten Tesla mentions, read them back, delete one.
func TestAPI_SeedListDelete_EndToEnd(t *testing.T) {
	r, _ := newRouter(t, testConfig())

	w := do(r, http.MethodPost, "/api/demo/seed", `{"brand_name":"Tesla","count":10}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("seed = %d body=%s", w.Code, w.Body.String())
	}
	if got := decode[map[string]any](t, w); got["inserted"] != float64(10) {
		t.Fatalf("seed payload: %v", got)
	}

	w = do(r, http.MethodGet, "/api/stats?brand_name=Tesla", "")
	if w.Code != http.StatusOK {
		t.Fatalf("stats = %d", w.Code)
	}
	if got := decode[map[string]any](t, w); got["total_mentions"] != float64(10) {
		t.Fatalf("total_mentions = %v, want 10", got["total_mentions"])
	}

	w = do(r, http.MethodGet, "/api/mentions/Tesla?limit=5", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	rows := decode[[]domain.BrandMention](t, w)
	if len(rows) != 5 {
		t.Fatalf("len(rows) = %d, want 5", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Timestamp.After(rows[i-1].Timestamp) {
			t.Fatalf("rows not newest-first at %d: %v > %v", i, rows[i].Timestamp, rows[i-1].Timestamp)
		}
	}

	w = do(r, http.MethodDelete, fmt.Sprintf("/api/mentions/%d", rows[0].ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete = %d body=%s", w.Code, w.Body.String())
	}
	if w = do(r, http.MethodDelete, fmt.Sprintf("/api/mentions/%d", rows[0].ID), ""); w.Code != http.StatusNotFound {
		t.Fatalf("second delete = %d, want 404", w.Code)
	}

	w = do(r, http.MethodGet, "/api/stats?brand_name=Tesla", "")
	if got := decode[map[string]any](t, w); got["total_mentions"] != float64(9) {
		t.Fatalf("total_mentions after delete = %v, want 9", got["total_mentions"])
	}
}

func TestAPI_MonitoringStartStatusStop(t *testing.T) {
	r, _ := newRouter(t, testConfig())

	if w := do(r, http.MethodPost, "/api/monitoring/start", `{"brand_name":"!"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid brand should be 400, got %d", w.Code)
	}

	w := do(r, http.MethodPost, "/api/monitoring/start", `{"brand_name":"  Tesla "}`)
	if w.Code != http.StatusOK {
		t.Fatalf("start = %d body=%s", w.Code, w.Body.String())
	}
	if got := decode[map[string]any](t, w); got["message"] != "Started monitoring for Tesla" {
		t.Fatalf("start payload: %v", got)
	}

	w = do(r, http.MethodGet, "/api/monitoring/status", "")
	if cc := w.Header().Get("Cache-Control"); cc != "no-store" {
		t.Fatalf("monitoring status must not be cached, Cache-Control=%q", cc)
	}
	st := decode[map[string]any](t, w)
	if st["is_active"] != true || st["current_brand"] != "Tesla" || st["platforms_count"] != float64(2) {
		t.Fatalf("status while running: %v", st)
	}

	w = do(r, http.MethodGet, "/api/monitoring/configs", "")
	if cfgs := decode[[]domain.MonitoringConfig](t, w); len(cfgs) != 1 || cfgs[0].BrandName != "Tesla" {
		t.Fatalf("active configs: %+v", cfgs)
	}

	if w = do(r, http.MethodPost, "/api/monitoring/stop", ""); w.Code != http.StatusOK {
		t.Fatalf("stop = %d", w.Code)
	}
	st = decode[map[string]any](t, do(r, http.MethodGet, "/api/monitoring/status", ""))
	if st["is_active"] != false || st["current_brand"] != nil {
		t.Fatalf("status after stop: %v", st)
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// tiny cap to trigger MaxBytesReader
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("0123456789AB")) // 12 bytes
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 from limitBody, got %d", w.Code)
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// "/" and "" should mount at root
	root1 := groupWithPrefix(r, "/")
	root1.GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	root2 := groupWithPrefix(r, "")
	root2.GET("/two", func(c *gin.Context) { c.String(http.StatusOK, "two") })

	// non-root prefix
	api := groupWithPrefix(r, "/api")
	api.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for path, want := range map[string]string{"/one": "one", "/two": "two", "/api/ping": "pong"} {
		rec := do(r, http.MethodGet, path, "")
		if rec.Code != http.StatusOK || rec.Body.String() != want {
			t.Fatalf("GET %s got %d %q", path, rec.Code, rec.Body.String())
		}
	}
}

func Test_apiPath(t *testing.T) {
	for _, tc := range []struct{ base, want string }{
		{"", "/monitoring"},
		{"/", "/monitoring"},
		{"/api/v2", "/api/v2/monitoring"},
	} {
		if got := apiPath(tc.base, "/monitoring"); got != tc.want {
			t.Fatalf("apiPath(%q) = %q; want %q", tc.base, got, tc.want)
		}
	}
}

// Smoke test that a request traverses ratelimit + otel + gzip + security headers pipeline.
func TestPipeline_Smoke(t *testing.T) {
	cfg := testConfig()
	cfg.Security = config.SecurityConfig{EnableHSTS: true, HSTSMaxAge: time.Hour} // enabled (but only set on https)
	r, _ := newRouter(t, cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	// simulate https so HSTS could be eligible if middleware checks scheme
	req.URL.Scheme = "https"
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("pipeline GET /health = %d", w.Code)
	}
	// RequestID header should be present (from RequestID middleware)
	if rid := w.Header().Get("X-Request-ID"); rid == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
}

func Test_configRepoShim_Proxies(t *testing.T) {
	db := newTestDB(t)
	shim := configRepoShim{}
	ctx := context.Background()

	first, err := shim.Activate(ctx, db, "Tesla", []string{"Reddit"})
	if err != nil || first == nil || !first.IsActive {
		t.Fatalf("Activate: %+v %v", first, err)
	}
	second, err := shim.Activate(ctx, db, "Apple", []string{"Twitter", "LinkedIn"})
	if err != nil {
		t.Fatalf("Activate (second): %v", err)
	}

	active, err := shim.ListActive(ctx, db)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 1 || active[0].ID != second.ID {
		t.Fatalf("only the newest config should stay active: %+v", active)
	}

	if err := shim.Deactivate(ctx, db, second.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if err := shim.Deactivate(ctx, db, 9999); err == nil {
		t.Fatalf("Deactivate unknown id should fail")
	}

	if _, err := shim.Activate(ctx, db, "Tesla", nil); err != nil {
		t.Fatalf("Activate (third): %v", err)
	}
	n, err := shim.DeactivateAll(ctx, db)
	if err != nil || n != 1 {
		t.Fatalf("DeactivateAll = %d, %v; want 1", n, err)
	}
}

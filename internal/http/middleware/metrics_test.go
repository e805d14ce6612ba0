package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountersByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics("/metrics"))
	r.GET("/mentions/:brand_name", func(c *gin.Context) { c.String(http.StatusOK, "[]") })
	r.DELETE("/mentions/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", func(c *gin.Context) { c.String(http.StatusOK, "# metrics") })

	baseBrand := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/mentions/:brand_name", "200"))
	baseMiss := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "unmatched", "404"))
	baseDel := testutil.ToFloat64(httpReqs.WithLabelValues("DELETE", "/mentions/:id", "204"))
	baseScrape := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/metrics", "200"))

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/mentions/Tesla", nil),
		httptest.NewRequest(http.MethodGet, "/mentions/Apple", nil),
		httptest.NewRequest(http.MethodGet, "/does-not-exist/42", nil),
		httptest.NewRequest(http.MethodDelete, "/mentions/7", nil),
		httptest.NewRequest(http.MethodGet, "/metrics", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/mentions/:brand_name", "200")); got != baseBrand+2 {
		t.Fatalf("brand route counter = %v; want %v", got, baseBrand+2)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "unmatched", "404")); got != baseMiss+1 {
		t.Fatalf("unmatched counter = %v; want %v", got, baseMiss+1)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("DELETE", "/mentions/:id", "204")); got != baseDel+1 {
		t.Fatalf("delete counter = %v; want %v", got, baseDel+1)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/metrics", "200")); got != baseScrape {
		t.Fatalf("scrapes must not be counted, got %v", got)
	}
	if inFlight := testutil.ToFloat64(httpInflight); inFlight != 0 {
		t.Fatalf("httpInflight = %v; want 0", inFlight)
	}
}

func TestMetrics_WebSocketSkipsHistograms(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())
	r.GET("/ws-metrics-upgrade", func(c *gin.Context) { c.Status(http.StatusSwitchingProtocols) })

	before := testutil.CollectAndCount(httpLat, "http_request_duration_seconds")
	base := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/ws-metrics-upgrade", "101"))

	req := httptest.NewRequest(http.MethodGet, "/ws-metrics-upgrade", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/ws-metrics-upgrade", "101")); got != base+1 {
		t.Fatalf("upgrade should be counted, got %v", got)
	}
	if after := testutil.CollectAndCount(httpLat, "http_request_duration_seconds"); after != before {
		t.Fatalf("websocket session must not add a latency series: %d -> %d", before, after)
	}
}

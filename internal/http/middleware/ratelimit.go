package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// HeaderAPIKey identifies a dashboard or script client. It is masked in logs.
const HeaderAPIKey = "X-API-Key"

const (
	defaultMaxBuckets = 10_000
	defaultBucketTTL  = 10 * time.Minute
)

type keyFunc func(*gin.Context) string

// KeyByAPIKeyOrIP buckets callers by X-API-Key when present and by client IP
// otherwise. The "key:" and "ip:" prefixes keep the namespaces apart.
func KeyByAPIKeyOrIP() keyFunc {
	return func(c *gin.Context) string {
		if k := strings.TrimSpace(c.GetHeader(HeaderAPIKey)); k != "" {
			return "key:" + k
		}
		return "ip:" + c.ClientIP()
	}
}

// RateLimiter is a per-caller token bucket. Buckets live in an expiring LRU,
// so idle callers are forgotten after ttl and the table never exceeds
// maxBuckets entries. Commands that trigger OpenAI work can be weighted with
// Cost so one start request drains more of the bucket than a read.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	keyFn keyFunc

	mu      sync.Mutex
	buckets *expirable.LRU[string, *rate.Limiter]

	exempt map[string]struct{}
	costs  map[string]int
}

// NewRateLimiter builds a limiter refilling rps tokens per second up to
// burst (coerced to at least 1).
func NewRateLimiter(rps float64, burst int, keyFn keyFunc) *RateLimiter {
	return newRateLimiter(rps, burst, keyFn, defaultMaxBuckets, defaultBucketTTL)
}

func newRateLimiter(rps float64, burst int, keyFn keyFunc, maxBuckets int, ttl time.Duration) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		keyFn:   keyFn,
		buckets: expirable.NewLRU[string, *rate.Limiter](maxBuckets, nil, ttl),
		exempt:  map[string]struct{}{},
		costs:   map[string]int{},
	}
}

// Exempt skips limiting for the exact request paths given.
func (rl *RateLimiter) Exempt(paths ...string) *RateLimiter {
	for _, p := range paths {
		rl.exempt[p] = struct{}{}
	}
	return rl
}

// Cost charges n tokens for requests to path. n is capped at burst so a
// weighted route stays reachable with a full bucket.
func (rl *RateLimiter) Cost(path string, n int) *RateLimiter {
	if n < 1 {
		n = 1
	}
	if n > rl.burst {
		n = rl.burst
	}
	rl.costs[path] = n
	return rl
}

// bucket returns the caller's limiter. Re-adding a hit entry pushes its
// expiry forward, so only idle callers age out.
func (rl *RateLimiter) bucket(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	lim, ok := rl.buckets.Get(key)
	if !ok {
		lim = rate.NewLimiter(rl.rps, rl.burst)
	}
	rl.buckets.Add(key, lim)
	return lim
}

// Len reports the number of tracked callers.
func (rl *RateLimiter) Len() int { return rl.buckets.Len() }

// retryAfter is the whole number of seconds until n tokens are available,
// never less than one.
func retryAfter(lim *rate.Limiter, n int, now time.Time) int {
	r := lim.ReserveN(now, n)
	if !r.OK() {
		return 1
	}
	d := r.DelayFrom(now)
	r.CancelAt(now)
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Handler enforces the limits. Rejected requests get 429 with Retry-After
// and the standard error envelope.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := rl.exempt[path]; ok {
			c.Next()
			return
		}

		n := 1
		if cost, ok := rl.costs[path]; ok {
			n = cost
		}
		key := rl.keyFn(c)
		lim := rl.bucket(key)
		now := time.Now()
		if lim.AllowN(now, n) {
			c.Next()
			return
		}

		wait := retryAfter(lim, n, now)
		kind, _, _ := strings.Cut(key, ":")
		LoggerFrom(c).Warn().
			Str("bucket", kind).
			Int("cost", n).
			Int("retry_after_s", wait).
			Msg("rate limited")

		c.Header("Retry-After", strconv.Itoa(wait))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": RequestIDFrom(c),
			"code":       "rate_limited",
			"message":    "rate limit exceeded",
		})
	}
}

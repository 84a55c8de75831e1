package http

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apperrors "github.com/spec-kit/library-service/pkg/util/errorutil"
)

// RateLimitConfig defines the rate limiting parameters.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

// PerMinute allows n requests per minute with a burst of n.
func PerMinute(n int) RateLimitConfig {
	return RateLimitConfig{RequestsPerWindow: n, Window: time.Minute, Burst: n}
}

// rateLimiter keeps one token bucket per client key.
type rateLimiter struct {
	limiters    sync.Map // map[string]*rate.Limiter
	rate        rate.Limit
	burst       int
	mu          sync.Mutex
	lastCleanup time.Time
}

func (rl *rateLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := rl.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(rl.rate, rl.burst)
	actual, _ := rl.limiters.LoadOrStore(key, limiter)
	rl.maybeCleanup()
	return actual.(*rate.Limiter)
}

// maybeCleanup drops buckets that have refilled completely, at most every five minutes.
func (rl *rateLimiter) maybeCleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if time.Since(rl.lastCleanup) < 5*time.Minute {
		return
	}
	rl.lastCleanup = time.Now()
	rl.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(rl.burst) {
			rl.limiters.Delete(key)
		}
		return true
	})
}

// RateLimitByIP limits requests per client IP. A non-positive request
// count disables limiting.
func RateLimitByIP(cfg RateLimitConfig, logger *zap.Logger) fiber.Handler {
	if cfg.RequestsPerWindow <= 0 || cfg.Window <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RequestsPerWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	rl := &rateLimiter{
		rate:        rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
		burst:       cfg.Burst,
		lastCleanup: time.Now(),
	}

	return func(c *fiber.Ctx) error {
		key := c.IP()
		limiter := rl.getLimiter(key)
		if limiter.Allow() {
			return c.Next()
		}

		reservation := limiter.Reserve()
		delay := reservation.Delay()
		reservation.Cancel()
		retryAfter := max(int(delay.Seconds()), 1)

		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		c.Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerWindow))
		logger.Warn("rate limit exceeded",
			zap.String("key", key),
			zap.String("path", c.Path()),
			zap.Int("retry_after", retryAfter))
		return apperrors.NewTooManyRequests()
	}
}

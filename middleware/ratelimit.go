package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ariebrainware/docflow-schedule/config"
	"github.com/ariebrainware/docflow-schedule/util"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	defaultRateLimit  = 5
	defaultRateWindow = 15 * time.Minute
)

// RateLimitConfig holds configuration for rate limiting. Logger receives
// Redis failures and defaults to a no-op logger.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	Logger *zerolog.Logger
}

func rateLimitKey(endpoint, clientIP string) string {
	return fmt.Sprintf("ratelimit:%s:%s", endpoint, clientIP)
}

// localLimiter is used when Redis is not configured. Each key gets a token
// bucket holding Limit tokens that refills over Window.
type localLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	idle    time.Duration
	clients map[string]*localClient
}

type localClient struct {
	lim  *rate.Limiter
	seen time.Time
}

func newLocalLimiter(cfg RateLimitConfig) *localLimiter {
	return &localLimiter{
		limit:   rate.Every(cfg.Window / time.Duration(cfg.Limit)),
		burst:   cfg.Limit,
		idle:    cfg.Window,
		clients: make(map[string]*localClient),
	}
}

func (l *localLimiter) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, c := range l.clients {
		if now.Sub(c.seen) > l.idle {
			delete(l.clients, k)
		}
	}
	c, ok := l.clients[key]
	if !ok {
		c = &localClient{lim: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.seen = now
	return c.lim.AllowN(now, 1)
}

// RateLimiter limits requests per client IP and path. Counters live in
// Redis when it is configured and in process memory otherwise. A Redis
// failure lets the request through.
func RateLimiter(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limit <= 0 {
		cfg.Limit = defaultRateLimit
	}
	if cfg.Window <= 0 {
		cfg.Window = defaultRateWindow
	}
	if cfg.Logger == nil {
		nop := zerolog.Nop()
		cfg.Logger = &nop
	}
	local := newLocalLimiter(cfg)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		endpoint := c.Request.URL.Path
		key := rateLimitKey(endpoint, clientIP)

		var allowed bool
		if config.GetRedisClient() != nil {
			var err error
			allowed, err = checkRateLimit(c.Request.Context(), key, cfg.Limit, cfg.Window)
			if err != nil {
				cfg.Logger.Warn().Err(err).Str("key", key).Msg("rate limit check failed")
				c.Next()
				return
			}
		} else {
			allowed = local.allow(key, time.Now())
		}

		if !allowed {
			util.LogRateLimitExceeded(clientIP, endpoint)
			util.CallTooManyRequests(c, util.APIErrorParams{
				Msg: "Too many requests. Please try again later.",
				Err: fmt.Errorf("rate limit exceeded"),
			})
			return
		}
		c.Next()
	}
}

// checkRateLimit increments the counter for key and reports whether it is
// still within limit. The window starts at the first request.
func checkRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return true, nil
	}
	pipe := rdb.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}
	return incr.Val() <= int64(limit), nil
}

// ResetRateLimit clears the counter for one client and path.
func ResetRateLimit(ctx context.Context, clientIP, endpoint string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return fmt.Errorf("redis not available")
	}
	return rdb.Del(ctx, rateLimitKey(endpoint, clientIP)).Err()
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/ariebrainware/docflow-schedule/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func rateLimitedRouter(cfg RateLimitConfig) *gin.Engine {
	setGinTestMode()
	r := gin.New()
	r.Use(RateLimiter(cfg))
	r.POST("/auth/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})
	return r
}

func TestRateLimiter_InMemoryFallback(t *testing.T) {
	config.ResetRedisClientForTest()
	r := rateLimitedRouter(RateLimitConfig{Limit: 3, Window: time.Hour})

	for i := 0; i < 3; i++ {
		w := serve(r, http.MethodPost, "/auth/login", nil)
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}
	w := serve(r, http.MethodPost, "/auth/login", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests")
}

func TestLocalLimiter_PerKeyAndRefill(t *testing.T) {
	l := newLocalLimiter(RateLimitConfig{Limit: 2, Window: time.Minute})
	now := time.Now()

	assert.True(t, l.allow("a", now))
	assert.True(t, l.allow("a", now))
	assert.False(t, l.allow("a", now))
	assert.True(t, l.allow("b", now))

	// One token comes back every Window/Limit.
	assert.True(t, l.allow("a", now.Add(31*time.Second)))
}

func TestRateLimiter_DefaultConfig(t *testing.T) {
	config.ResetRedisClientForTest()
	r := rateLimitedRouter(RateLimitConfig{})

	for i := 0; i < defaultRateLimit; i++ {
		w := serve(r, http.MethodPost, "/auth/login", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w := serve(r, http.MethodPost, "/auth/login", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimiter_Redis(t *testing.T) {
	mock := setupRedisMock(t)
	key := rateLimitKey("/auth/login", "192.168.1.1")
	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpireNX(key, time.Minute).SetVal(true)
	mock.ExpectIncr(key).SetVal(2)
	mock.ExpectExpireNX(key, time.Minute).SetVal(false)

	r := rateLimitedRouter(RateLimitConfig{Limit: 1, Window: time.Minute})

	w := serve(r, http.MethodPost, "/auth/login", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = serve(r, http.MethodPost, "/auth/login", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_RedisFailureAllows(t *testing.T) {
	mock := setupRedisMock(t)
	key := rateLimitKey("/auth/login", "192.168.1.1")
	mock.ExpectIncr(key).SetErr(errors.New("connection refused"))

	r := rateLimitedRouter(RateLimitConfig{Limit: 1, Window: time.Minute})
	w := serve(r, http.MethodPost, "/auth/login", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResetRateLimit(t *testing.T) {
	config.ResetRedisClientForTest()
	assert.Error(t, ResetRateLimit(context.Background(), "192.168.1.1", "/auth/login"))

	mock := setupRedisMock(t)
	mock.ExpectDel(rateLimitKey("/auth/login", "192.168.1.1")).SetVal(1)
	assert.NoError(t, ResetRateLimit(context.Background(), "192.168.1.1", "/auth/login"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

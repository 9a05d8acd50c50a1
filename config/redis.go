package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 2 * time.Second

var (
	redisMu     sync.RWMutex
	redisClient *redis.Client
	redisOnce   sync.Once
)

// ConnectRedis dials Redis once per process when REDIS_ENABLED is set.
// A nil client with a nil error means Redis is off; sessions, rate limits
// and the user email cache then use the database and process memory.
func ConnectRedis() (*redis.Client, error) {
	var err error
	redisOnce.Do(func() {
		cfg := LoadConfig()
		if cfg.IsTest() || !cfg.RedisEnabled {
			return
		}

		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if err = rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			err = fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
			return
		}
		setRedisClient(rdb)
	})
	return GetRedisClient(), err
}

// GetRedisClient returns nil unless ConnectRedis succeeded.
func GetRedisClient() *redis.Client {
	redisMu.RLock()
	defer redisMu.RUnlock()
	return redisClient
}

// CloseRedis closes the shared client on shutdown.
func CloseRedis() error {
	redisMu.Lock()
	defer redisMu.Unlock()
	if redisClient == nil {
		return nil
	}
	err := redisClient.Close()
	redisClient = nil
	return err
}

func setRedisClient(rdb *redis.Client) {
	redisMu.Lock()
	redisClient = rdb
	redisMu.Unlock()
}

// SetRedisClientForTest installs client (usually a redismock client) and
// marks the connection as done so ConnectRedis leaves it in place.
func SetRedisClientForTest(client *redis.Client) {
	redisOnce.Do(func() {})
	setRedisClient(client)
}

// ResetRedisClientForTest drops the client without closing it and lets the
// next ConnectRedis dial again.
func ResetRedisClientForTest() {
	setRedisClient(nil)
	redisOnce = sync.Once{}
}

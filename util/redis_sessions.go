package util

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariebrainware/docflow-schedule/config"
	"github.com/redis/go-redis/v9"
)

func sessionKey(tokenID string) string {
	return fmt.Sprintf("session:%s", tokenID)
}

func userSessionsKey(userID string) string {
	return fmt.Sprintf("user_sessions:%s", userID)
}

// CacheSession stores session:<tokenID> -> userID with the token's remaining
// lifetime and records the token in the user's session set. It is a no-op
// when Redis is not configured.
func CacheSession(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	if err := rdb.Set(ctx, sessionKey(tokenID), userID, ttl).Err(); err != nil {
		return err
	}
	return AddSessionToUserSet(ctx, userID, tokenID)
}

// CachedSessionUser returns the user ID cached for tokenID. ok is false on a
// miss or when Redis is unavailable, in which case the caller consults the
// database.
func CachedSessionUser(ctx context.Context, tokenID string) (userID string, ok bool) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return "", false
	}
	v, err := rdb.Get(ctx, sessionKey(tokenID)).Result()
	if err != nil {
		return "", false
	}
	return v, true
}

// AddSessionToUserSet adds the token ID to the per-user Redis set.
// The set has no TTL and persists until explicitly cleaned up via
// RemoveSessionFromUserSet or InvalidateUserSessions.
func AddSessionToUserSet(ctx context.Context, userID, tokenID string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	key := userSessionsKey(userID)
	if err := rdb.SAdd(ctx, key, tokenID).Err(); err != nil {
		return err
	}
	return rdb.Persist(ctx, key).Err()
}

var removeFromSetScript = redis.NewScript(`
	local removed = redis.call('SREM', KEYS[1], ARGV[1])
	if removed > 0 then
		if redis.call('SCARD', KEYS[1]) == 0 then
			redis.call('DEL', KEYS[1])
		end
	end
	return removed
`)

// RevokeSession drops one cached session and removes it from the user's set,
// deleting the set once it is empty.
func RevokeSession(ctx context.Context, userID, tokenID string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	if err := rdb.Del(ctx, sessionKey(tokenID)).Err(); err != nil {
		return err
	}
	return RemoveSessionFromUserSet(ctx, userID, tokenID)
}

// RemoveSessionFromUserSet removes a single token ID from the per-user set.
func RemoveSessionFromUserSet(ctx context.Context, userID, tokenID string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	return removeFromSetScript.Run(ctx, rdb, []string{userSessionsKey(userID)}, tokenID).Err()
}

// InvalidateUserSessions deletes every cached session of the user and the
// per-user set itself.
func InvalidateUserSessions(ctx context.Context, userID string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	key := userSessionsKey(userID)
	members, err := rdb.SMembers(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if len(members) > 0 {
		keys := make([]string, len(members))
		for i, tok := range members {
			keys[i] = sessionKey(tok)
		}
		if err := rdb.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	return rdb.Del(ctx, key).Err()
}

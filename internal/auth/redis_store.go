package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	pkgredis "github.com/u1krsh/EduPay/pkg/redis"
)

// RedisWindowStore backs the rate limiter with Redis so the window counters
// are shared across processes. The counter update runs as a Lua script to
// keep the read-modify-write atomic per key.
type RedisWindowStore struct {
	client *pkgredis.Client
	prefix string
}

// NewRedisWindowStore creates a Redis-backed WindowStore. The prefix keeps
// independent limiter policies from sharing counters.
func NewRedisWindowStore(client *pkgredis.Client, prefix string) *RedisWindowStore {
	return &RedisWindowStore{client: client, prefix: prefix}
}

// takeScript consumes one slot from a fixed window. Returns
// {allowed, count, pttl_ms}. A missing key starts a fresh window.
const takeScript = `
local key = KEYS[1]
local max = tonumber(ARGV[1])
local window_ms = tonumber(ARGV[2])

local count = tonumber(redis.call("GET", key))
if count == nil then
    redis.call("SET", key, 1, "PX", window_ms)
    return {1, 1, window_ms}
end

local ttl = redis.call("PTTL", key)
if ttl < 0 then
    redis.call("SET", key, 1, "PX", window_ms)
    return {1, 1, window_ms}
end

if count >= max then
    return {0, count, ttl}
end

count = redis.call("INCR", key)
return {1, count, ttl}
`

func (s *RedisWindowStore) Take(ctx context.Context, key string, max int, window time.Duration) (int, time.Time, bool, error) {
	result := s.client.Eval(ctx, takeScript,
		[]string{s.prefix + key},
		max,
		window.Milliseconds(),
	)
	if result.Err() != nil {
		return 0, time.Time{}, false, fmt.Errorf("redis window take: %w", result.Err())
	}

	values, err := result.Slice()
	if err != nil {
		return 0, time.Time{}, false, fmt.Errorf("redis window take: %w", err)
	}
	if len(values) != 3 {
		return 0, time.Time{}, false, fmt.Errorf("redis window take: unexpected result length %d", len(values))
	}

	allowed := toInt64(values[0]) == 1
	count := int(toInt64(values[1]))
	resetTime := time.Now().Add(time.Duration(toInt64(values[2])) * time.Millisecond)

	return count, resetTime, allowed, nil
}

// toInt64 normalizes the types go-redis may hand back for Lua numbers
func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case string:
		parsed, _ := strconv.ParseInt(n, 10, 64)
		return parsed
	default:
		return 0
	}
}

// RedisAttemptStore backs the login guard with Redis. Records live in a
// hash with a TTL, so reclamation needs no janitor.
type RedisAttemptStore struct {
	client *pkgredis.Client
	prefix string
}

// NewRedisAttemptStore creates a Redis-backed AttemptStore
func NewRedisAttemptStore(client *pkgredis.Client, prefix string) *RedisAttemptStore {
	return &RedisAttemptStore{client: client, prefix: prefix}
}

func (s *RedisAttemptStore) Get(ctx context.Context, identity string) (*AttemptRecord, error) {
	fields, err := s.client.HGetAll(ctx, s.prefix+identity).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis attempt get: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	rec := &AttemptRecord{}
	if v, ok := fields["attempts"]; ok {
		rec.Attempts, _ = strconv.Atoi(v)
	}
	if v, ok := fields["lock_until"]; ok && v != "0" {
		unixMs, _ := strconv.ParseInt(v, 10, 64)
		rec.LockUntil = time.UnixMilli(unixMs)
	}
	return rec, nil
}

func (s *RedisAttemptStore) Put(ctx context.Context, identity string, rec *AttemptRecord, ttl time.Duration) error {
	key := s.prefix + identity

	var lockUntil int64
	if !rec.LockUntil.IsZero() {
		lockUntil = rec.LockUntil.UnixMilli()
	}

	if err := s.client.HSet(ctx, key,
		"attempts", rec.Attempts,
		"lock_until", lockUntil,
	).Err(); err != nil {
		return fmt.Errorf("redis attempt put: %w", err)
	}
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("redis attempt expire: %w", err)
	}
	return nil
}

func (s *RedisAttemptStore) Delete(ctx context.Context, identity string) error {
	if err := s.client.Del(ctx, s.prefix+identity).Err(); err != nil {
		return fmt.Errorf("redis attempt delete: %w", err)
	}
	return nil
}

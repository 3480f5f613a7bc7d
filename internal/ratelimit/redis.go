package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrWindowScript performs the window-aware increment atomically on the
// Redis side: reset the hash when a new window has started, increment
// otherwise. Running it as one script closes the read-modify-write race that
// separate get/put calls would have under concurrent bursts.
const incrWindowScript = `
local key = KEYS[1]
local window_start = ARGV[1]
local ttl = tonumber(ARGV[2])
local max_requests = ARGV[3]
local window_seconds = ARGV[4]

local current = redis.call('HGET', key, 'window_start')
if current ~= window_start then
	redis.call('DEL', key)
	redis.call('HSET', key, 'window_start', window_start)
	redis.call('HSET', key, 'requests', 1)
	redis.call('HSET', key, 'max_requests', max_requests)
	redis.call('HSET', key, 'window_seconds', window_seconds)
	redis.call('EXPIRE', key, ttl)
	return 1
end

return redis.call('HINCRBY', key, 'requests', 1)
`

// RedisStore keeps rate-limit records in Redis hashes with a TTL equal to
// the window length.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client. Used by tests backed by
// miniredis.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) IncrWindow(ctx context.Context, key string, windowStart int64, maxRequests int, window time.Duration) (int64, error) {
	ttl := int64(window.Seconds())
	if ttl < 1 {
		ttl = 1
	}

	count, err := s.client.Eval(ctx, incrWindowScript, []string{key},
		strconv.FormatInt(windowStart, 10),
		ttl,
		maxRequests,
		int(window.Seconds()),
	).Int64()
	if err != nil {
		return 0, fmt.Errorf("rate limit increment failed: %w", err)
	}

	return count, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (*Record, error) {
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit fetch failed: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	rec := &Record{}
	rec.RequestsInWindow, _ = strconv.ParseInt(fields["requests"], 10, 64)
	rec.WindowStart, _ = strconv.ParseInt(fields["window_start"], 10, 64)
	rec.MaxRequests, _ = strconv.Atoi(fields["max_requests"])
	rec.WindowSeconds, _ = strconv.Atoi(fields["window_seconds"])
	return rec, nil
}

func (s *RedisStore) PutWithTTL(ctx context.Context, key string, rec *Record, ttl time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key,
		"requests", rec.RequestsInWindow,
		"window_start", rec.WindowStart,
		"max_requests", rec.MaxRequests,
		"window_seconds", rec.WindowSeconds,
	)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("rate limit store failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

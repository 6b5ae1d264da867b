package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "crm:ratelimit:"

// slidingWindowScript trims hits outside the window, then adds one if there
// is room. Scores are unix milliseconds; numbers travel as strings so no
// float formatting happens inside Lua.
//
// KEYS[1] set, ARGV[1] now, ARGV[2] cutoff, ARGV[3] limit, ARGV[4] window ms, ARGV[5] member
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]

redis.call('ZREMRANGEBYSCORE', key, '-inf', ARGV[2])
local count = redis.call('ZCARD', key)
if count >= tonumber(ARGV[3]) then
	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	return {0, oldest[2]}
end

redis.call('ZADD', key, ARGV[1], ARGV[5])
redis.call('PEXPIRE', key, ARGV[4])
return {1, ''}
`)

// RedisStore keeps hits in one sorted set per (operation, key).
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Take(ctx context.Context, rule Rule, key string, now time.Time) (bool, time.Time, error) {
	nowMs := now.UnixMilli()
	windowMs := rule.Window.Milliseconds()

	res, err := slidingWindowScript.Run(ctx, s.client,
		[]string{redisKeyPrefix + rule.Operation + ":" + key},
		strconv.FormatInt(nowMs, 10),
		strconv.FormatInt(nowMs-windowMs, 10),
		strconv.Itoa(rule.Limit),
		strconv.FormatInt(windowMs, 10),
		uuid.NewString(),
	).Slice()
	if err != nil {
		return false, time.Time{}, fmt.Errorf("failed to run sliding window script: %w", err)
	}
	if len(res) != 2 {
		return false, time.Time{}, fmt.Errorf("unexpected sliding window reply: %v", res)
	}
	if allowed, _ := res[0].(int64); allowed == 1 {
		return true, time.Time{}, nil
	}

	score, _ := res[1].(string)
	oldestMs, err := strconv.ParseFloat(score, 64)
	if err != nil {
		return false, time.Time{}, fmt.Errorf("invalid oldest score %q: %w", score, err)
	}
	return false, time.UnixMilli(int64(oldestMs)).UTC(), nil
}

// Cleanup is a no-op; every key carries its own expiry.
func (s *RedisStore) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const stateKeyPrefix = "sf:state"

// RedisState stores session state as plain redis strings with an optional TTL.
type RedisState struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisState(rdb *redis.Client, ttl time.Duration) *RedisState {
	return &RedisState{rdb: rdb, ttl: ttl}
}

// DialRedis connects and pings before handing the client out.
func DialRedis(ctx context.Context, addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func stateKey(sessionID, key string) string {
	return fmt.Sprintf("%s:%s:%s", stateKeyPrefix, sessionID, key)
}

func (r *RedisState) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	v, err := r.rdb.Get(ctx, stateKey(sessionID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *RedisState) Set(ctx context.Context, sessionID, key string, value []byte) error {
	return r.rdb.Set(ctx, stateKey(sessionID, key), value, r.ttl).Err()
}

func (r *RedisState) Delete(ctx context.Context, sessionID, key string) error {
	return r.rdb.Del(ctx, stateKey(sessionID, key)).Err()
}

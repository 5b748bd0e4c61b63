package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

// IdempotencyTTL is how long a checkout Idempotency-Key stays reserved.
const IdempotencyTTL = 10 * time.Minute

// RedisIdempotency reserves request keys with SETNX.
type RedisIdempotency struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewRedisIdempotency(rdb redis.Cmdable, prefix string) *RedisIdempotency {
	return &RedisIdempotency{rdb: rdb, prefix: prefix, ttl: IdempotencyTTL}
}

// Reservar reports false when the key is already held.
func (r *RedisIdempotency) Reservar(ctx context.Context, clave string) (bool, error) {
	return r.rdb.SetNX(ctx, r.prefix+clave, "1", r.ttl).Result()
}

// Liberar drops the key so the request can be retried.
func (r *RedisIdempotency) Liberar(ctx context.Context, clave string) error {
	return r.rdb.Del(ctx, r.prefix+clave).Err()
}

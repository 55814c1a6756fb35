package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"PropertyAssessor/internal/model"
)

// RedisCache stores each analysis as a hash with one field per metric and projection year.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr, password string, db int, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{client: rdb, ttl: ttl}
}

// Ping checks connectivity.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Get(ctx context.Context, key string) (*model.Analysis, bool) {
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil || len(fields) == 0 {
		return nil, false
	}
	a, err := decode(fields)
	if err != nil {
		log.Printf("[WARN] corrupt cache entry %s: %v", key, err)
		return nil, false
	}
	return a, true
}

func (r *RedisCache) Set(ctx context.Context, key string, a *model.Analysis) error {
	fields := encode(a)
	values := make(map[string]any, len(fields))
	for k, v := range fields {
		values[k] = v
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, values)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

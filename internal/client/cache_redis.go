package client

import (
	"context"
	"encoding/json"
	"fmt"

	"jokebox/internal/model"

	"github.com/redis/go-redis/v9"
)

// RedisCache keeps the collection under CacheKey in redis.
type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(addr string) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisCache{rdb: rdb}, nil
}

func (c *RedisCache) Load(ctx context.Context) ([]model.Joke, bool, error) {
	val, err := c.rdb.Get(ctx, CacheKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}

	var jokes []model.Joke
	if err := json.Unmarshal(val, &jokes); err != nil {
		return nil, false, err
	}
	return jokes, len(jokes) > 0, nil
}

func (c *RedisCache) Save(ctx context.Context, jokes []model.Joke) error {
	data, err := json.Marshal(jokes)
	if err != nil {
		return err
	}
	// No expiry, the entry is only ever overwritten.
	return c.rdb.Set(ctx, CacheKey, data, 0).Err()
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

package client

import (
	"context"
	"fmt"
	"sync"

	"jokebox/internal/config"
	"jokebox/internal/model"
)

// CacheKey is the single entry holding the last good collection.
const CacheKey = "cachedJokes"

// Cache is the client's durable local storage. Save overwrites the whole
// collection; Load reports false when nothing has been stored yet.
type Cache interface {
	Load(ctx context.Context) ([]model.Joke, bool, error)
	Save(ctx context.Context, jokes []model.Joke) error
	Close() error
}

// OpenCache picks the backend named in cfg.
func OpenCache(cfg config.Client) (Cache, error) {
	switch cfg.Cache {
	case "badger":
		return OpenBadgerCache(cfg.BadgerPath)
	case "redis":
		return NewRedisCache(cfg.RedisAddr)
	case "memory":
		return &MemoryCache{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache)
	}
}

// MemoryCache keeps the collection in process. Nothing survives a restart.
type MemoryCache struct {
	mu    sync.Mutex
	jokes []model.Joke
}

func (m *MemoryCache) Load(ctx context.Context) ([]model.Joke, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.jokes) == 0 {
		return nil, false, nil
	}
	return append([]model.Joke(nil), m.jokes...), true, nil
}

func (m *MemoryCache) Save(ctx context.Context, jokes []model.Joke) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jokes = append([]model.Joke(nil), jokes...)
	return nil
}

func (m *MemoryCache) Close() error { return nil }

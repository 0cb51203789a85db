package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jokebox/internal/model"

	"github.com/dgraph-io/badger/v4"
)

const gcInterval = 5 * time.Minute

// BadgerCache stores the collection in an embedded badger directory.
type BadgerCache struct {
	db   *badger.DB
	stop chan struct{}
	done chan struct{}
}

// OpenBadgerCache opens (or creates) the cache at path.
// An empty path keeps everything in memory.
func OpenBadgerCache(path string) (*BadgerCache, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Silence default logger

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	c := &BadgerCache{
		db:   db,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	if path == "" {
		close(c.done)
	} else {
		go c.gcLoop()
	}
	return c, nil
}

func (c *BadgerCache) gcLoop() {
	defer close(c.done)

	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			for c.db.RunValueLogGC(0.7) == nil {
			}
		}
	}
}

func (c *BadgerCache) Load(ctx context.Context) ([]model.Joke, bool, error) {
	var jokes []model.Joke
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(CacheKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &jokes)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache: %w", err)
	}
	return jokes, len(jokes) > 0, nil
}

func (c *BadgerCache) Save(ctx context.Context, jokes []model.Joke) error {
	data, err := json.Marshal(jokes)
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(CacheKey), data)
	})
}

// Close stops the GC loop and closes the database.
func (c *BadgerCache) Close() error {
	close(c.stop)
	<-c.done
	return c.db.Close()
}

package store

import (
	"context"
	"errors"

	"jokebox/internal/model"
)

var (
	// ErrUnavailable means no pooled connection could be acquired.
	ErrUnavailable = errors.New("database connection failed")
	// ErrQuery means the connection was fine but the query was not.
	ErrQuery = errors.New("failed to fetch jokes")
)

type Store interface {
	ListJokes(ctx context.Context) ([]model.Joke, error)
	Probe(ctx context.Context) error
	Close() error
}

package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"jokebox/internal/model"
)

const (
	DefaultTimeout = 15 * time.Second
	// MaxResponseBytes caps how much of a response body is read.
	MaxResponseBytes = 8 << 20
)

var (
	// ErrNoJokes means the service answered but had nothing to show.
	ErrNoJokes = errors.New("no jokes received")
	// ErrUnexpectedStatus covers any other non-2xx answer.
	ErrUnexpectedStatus = errors.New("unexpected status code")
	// ErrResponseTooLarge means the body went past MaxResponseBytes.
	ErrResponseTooLarge = errors.New("response too large")
)

// Fetcher loads the joke collection from the content service.
type Fetcher interface {
	FetchJokes(ctx context.Context) ([]model.Joke, error)
}

// API talks to the content service over HTTP.
type API struct {
	baseURL  string
	client   *http.Client
	maxBytes int64
}

// NewAPI creates a client bound to baseURL. A zero timeout means DefaultTimeout.
func NewAPI(baseURL string, timeout time.Duration) *API {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		maxBytes: MaxResponseBytes,
	}
}

// FetchJokes performs a single GET /post. There is no retry.
func (a *API) FetchJokes(ctx context.Context) ([]model.Joke, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/post", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, a.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > a.maxBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrResponseTooLarge, a.maxBytes)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoJokes
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var envelope model.Response
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(envelope.Data) == 0 {
		return nil, ErrNoJokes
	}

	return envelope.Data, nil
}

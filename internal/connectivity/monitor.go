package connectivity

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Checker decides whether the network is reachable right now.
// This allows us to fake the network in tests.
type Checker interface {
	Check(ctx context.Context) error
}

// DialChecker is the real implementation: a TCP dial of the service host.
type DialChecker struct {
	Addr    string
	Timeout time.Duration
}

// NewDialChecker derives host:port from the service base URL.
func NewDialChecker(rawURL string, timeout time.Duration) (*DialChecker, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("invalid server url %q: missing host", rawURL)
	}

	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	return &DialChecker{Addr: net.JoinHostPort(u.Hostname(), port), Timeout: timeout}, nil
}

func (d *DialChecker) Check(ctx context.Context) error {
	dialer := net.Dialer{Timeout: d.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", d.Addr)
	if err != nil {
		return err
	}
	return conn.Close()
}

type listener struct {
	online  func()
	offline func()
}

// Monitor tracks the online flag and tells subscribers about transitions.
// It starts out online.
type Monitor struct {
	checker  Checker
	interval time.Duration
	logger   *zap.Logger

	mu        sync.Mutex
	online    bool
	nextID    int
	listeners map[int]listener
}

func NewMonitor(checker Checker, interval time.Duration, logger *zap.Logger) *Monitor {
	return &Monitor{
		checker:   checker,
		interval:  interval,
		logger:    logger,
		online:    true,
		listeners: make(map[int]listener),
	}
}

func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Subscribe registers the pair of callbacks and returns a func removing them.
func (m *Monitor) Subscribe(onOnline, onOffline func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.listeners[id] = listener{online: onOnline, offline: onOffline}

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// Set records the new state. Subscribers hear about it only on a change,
// synchronously, in subscription order.
func (m *Monitor) Set(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online

	ids := make([]int, 0, len(m.listeners))
	for id := range m.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	calls := make([]func(), 0, len(ids))
	for _, id := range ids {
		l := m.listeners[id]
		if online {
			calls = append(calls, l.online)
		} else {
			calls = append(calls, l.offline)
		}
	}
	m.mu.Unlock()

	if online {
		m.logger.Info("Connectivity regained")
	} else {
		m.logger.Warn("Connectivity lost")
	}
	for _, fn := range calls {
		if fn != nil {
			fn()
		}
	}
}

// CheckNow runs one check and feeds the result to Set.
func (m *Monitor) CheckNow(ctx context.Context) {
	if m.checker == nil {
		return
	}
	err := m.checker.Check(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		m.logger.Debug("Connectivity check failed", zap.Error(err))
	}
	m.Set(err == nil)
}

// Run polls the checker until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	if m.checker == nil || m.interval <= 0 {
		return
	}
	m.logger.Info("Connectivity monitor started", zap.Duration("interval", m.interval))

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Connectivity monitor shutting down")
			return
		case <-ticker.C:
			m.CheckNow(ctx)
		}
	}
}

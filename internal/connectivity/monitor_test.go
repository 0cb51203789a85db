package connectivity

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockChecker struct {
	mu   sync.Mutex
	down bool
}

func (m *MockChecker) SetDown(down bool) {
	m.mu.Lock()
	m.down = down
	m.mu.Unlock()
}

// Check simulates a reachability probe
func (m *MockChecker) Check(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return errors.New("simulated network down")
	}
	return nil
}

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) func() {
	return func() {
		r.mu.Lock()
		r.events = append(r.events, e)
		r.mu.Unlock()
	}
}

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func TestMonitor_SetEmitsOncePerTransition(t *testing.T) {
	m := NewMonitor(nil, 0, zap.NewNop())
	rec := &recorder{}
	m.Subscribe(rec.add("online"), rec.add("offline"))

	assert.True(t, m.Online())

	m.Set(true)
	m.Set(false)
	m.Set(false)
	m.Set(true)

	assert.Equal(t, []string{"offline", "online"}, rec.Events())
	assert.True(t, m.Online())
}

func TestMonitor_Unsubscribe(t *testing.T) {
	m := NewMonitor(nil, 0, zap.NewNop())
	a, b := &recorder{}, &recorder{}

	unsubA := m.Subscribe(a.add("on"), a.add("off"))
	m.Subscribe(b.add("on"), b.add("off"))

	m.Set(false)
	unsubA()
	m.Set(true)

	assert.Equal(t, []string{"off"}, a.Events())
	assert.Equal(t, []string{"off", "on"}, b.Events())
}

// TestMonitor_Run tests that the polling loop turns checker results
// into transitions and stops with the context
func TestMonitor_Run(t *testing.T) {
	checker := &MockChecker{}
	m := NewMonitor(checker, 10*time.Millisecond, zap.NewNop())
	rec := &recorder{}
	m.Subscribe(rec.add("online"), rec.add("offline"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	checker.SetDown(true)
	require.Eventually(t, func() bool { return !m.Online() }, time.Second, 5*time.Millisecond)

	checker.SetDown(false)
	require.Eventually(t, func() bool { return m.Online() }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}

	assert.Equal(t, []string{"offline", "online"}, rec.Events())
}

func TestMonitor_CheckNow(t *testing.T) {
	checker := &MockChecker{down: true}
	m := NewMonitor(checker, 0, zap.NewNop())

	m.CheckNow(context.Background())
	assert.False(t, m.Online())

	checker.SetDown(false)
	m.CheckNow(context.Background())
	assert.True(t, m.Online())
}

func TestDialChecker(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()

	c, err := NewDialChecker("http://"+addr, time.Second)
	require.NoError(t, err)
	assert.NoError(t, c.Check(context.Background()))

	ln.Close()
	assert.Error(t, c.Check(context.Background()))
}

func TestNewDialChecker_DefaultPorts(t *testing.T) {
	c, err := NewDialChecker("https://jokes.example", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "jokes.example:443", c.Addr)

	c, err = NewDialChecker("http://jokes.example", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "jokes.example:80", c.Addr)

	_, err = NewDialChecker("not a url", time.Second)
	assert.Error(t, err)
}

package client

import (
	"context"
	"errors"
	"sync"

	"jokebox/internal/model"

	"go.uber.org/zap"
)

const (
	MsgCached      = "Unable to fetch new data. Showing cached data."
	MsgUnreachable = "Unable to connect to server. Please try again later."
	MsgNoJokes     = "The server has no jokes yet."
	MsgOffline     = "You are currently offline. Showing cached data."
)

// MessageKind tells a hard error apart from an advisory notice.
type MessageKind int

const (
	MessageNone MessageKind = iota
	MessageAdvisory
	MessageError
)

// State is a snapshot of everything the view needs.
type State struct {
	Jokes   []model.Joke
	Cursor  int
	Message string
	Kind    MessageKind
	Loading bool
	Online  bool
}

// Current returns the joke under the cursor.
func (s State) Current() (model.Joke, bool) {
	if len(s.Jokes) == 0 || s.Cursor < 0 || s.Cursor >= len(s.Jokes) {
		return model.Joke{}, false
	}
	return s.Jokes[s.Cursor], true
}

// Connectivity reports the network state and announces transitions.
type Connectivity interface {
	Online() bool
	Subscribe(onOnline, onOffline func()) (unsubscribe func())
}

// App is the joke viewer's state holder. It fetches on mount, keeps the last
// good collection in the cache and reacts to connectivity changes.
//
// Every mutation happens under mu and only while the mount context is alive,
// and a fetch result is applied only if no newer fetch has started since.
type App struct {
	api    Fetcher
	cache  Cache
	net    Connectivity
	logger *zap.Logger

	mu          sync.Mutex
	state       State
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	gen         uint64
	onChange    func(State)

	// notifyMu serializes listener calls so Unmount can wait them out.
	notifyMu sync.Mutex
	inflight sync.WaitGroup
}

func NewApp(api Fetcher, cache Cache, net Connectivity, logger *zap.Logger) *App {
	return &App{
		api:    api,
		cache:  cache,
		net:    net,
		logger: logger,
		state: State{
			Loading: true,
			Online:  net.Online(),
		},
	}
}

// OnChange registers fn to receive a snapshot after every state change.
// fn must not call Next, Refresh or Unmount.
func (a *App) OnChange(fn func(State)) {
	a.mu.Lock()
	a.onChange = fn
	a.mu.Unlock()
}

// State returns a copy of the current state.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot()
}

// Mount subscribes to connectivity events and loads the collection.
// An App mounts once; later calls are no-ops.
func (a *App) Mount(parent context.Context) {
	a.mu.Lock()
	if a.cancel != nil {
		a.mu.Unlock()
		return
	}
	a.ctx, a.cancel = context.WithCancel(parent)
	a.mu.Unlock()

	unsubscribe := a.net.Subscribe(a.handleOnline, a.handleOffline)
	a.mu.Lock()
	a.unsubscribe = unsubscribe
	a.mu.Unlock()

	if a.net.Online() {
		a.mountOnline()
		return
	}
	a.mountOffline()
}

// Unmount cancels any in-flight fetch and drops the listeners.
// No state changes happen afterwards.
func (a *App) Unmount() {
	a.mu.Lock()
	if a.cancel == nil {
		a.mu.Unlock()
		return
	}
	a.cancel()
	unsubscribe := a.unsubscribe
	a.unsubscribe = nil
	a.mu.Unlock()

	// Let a delivery that is already running finish; later ones see the
	// cancelled context and are dropped.
	a.notifyMu.Lock()
	a.notifyMu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Wait blocks until every started fetch has returned.
func (a *App) Wait() {
	a.inflight.Wait()
}

// Refresh is the retry action: show the loading state and fetch again.
func (a *App) Refresh() {
	a.startFetch(true)
}

// Next moves the cursor forward, wrapping after the last joke.
func (a *App) Next() {
	a.mu.Lock()
	if !a.activeLocked() || len(a.state.Jokes) == 0 {
		a.mu.Unlock()
		return
	}
	a.state.Cursor = (a.state.Cursor + 1) % len(a.state.Jokes)
	a.commitLocked()
}

func (a *App) handleOnline() {
	a.mu.Lock()
	if !a.activeLocked() {
		a.mu.Unlock()
		return
	}
	a.state.Online = true
	a.clearMessageLocked()
	a.commitLocked()

	a.startFetch(false)
}

func (a *App) handleOffline() {
	a.mu.Lock()
	if !a.activeLocked() {
		a.mu.Unlock()
		return
	}
	a.state.Online = false
	a.setMessageLocked(MsgOffline, MessageAdvisory)
	a.commitLocked()
}

// mountOnline corrects a stale flag from construction time, then fetches.
func (a *App) mountOnline() {
	a.mu.Lock()
	if !a.activeLocked() {
		a.mu.Unlock()
		return
	}
	if a.state.Online {
		a.mu.Unlock()
	} else {
		a.state.Online = true
		a.commitLocked()
	}

	a.startFetch(false)
}

func (a *App) mountOffline() {
	a.mu.Lock()
	if !a.activeLocked() {
		a.mu.Unlock()
		return
	}
	a.state.Online = false
	a.state.Loading = false
	if cached, ok := a.loadCacheLocked(); ok {
		a.setJokesLocked(cached)
	}
	a.setMessageLocked(MsgOffline, MessageAdvisory)
	a.commitLocked()
}

func (a *App) startFetch(showLoading bool) {
	a.mu.Lock()
	if !a.activeLocked() {
		a.mu.Unlock()
		return
	}
	a.gen++
	gen, ctx := a.gen, a.ctx
	a.inflight.Add(1)

	if showLoading {
		a.state.Loading = true
		a.commitLocked()
	} else {
		a.mu.Unlock()
	}

	go a.fetch(ctx, gen)
}

func (a *App) fetch(ctx context.Context, gen uint64) {
	defer a.inflight.Done()

	jokes, err := a.api.FetchJokes(ctx)
	if err == nil && len(jokes) == 0 {
		err = ErrNoJokes
	}

	a.mu.Lock()
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		a.mu.Unlock()
		a.logger.Debug("Request aborted")
		return
	}
	if gen != a.gen {
		a.mu.Unlock()
		a.logger.Debug("Discarding superseded response", zap.Uint64("generation", gen))
		return
	}

	if err == nil {
		a.setJokesLocked(jokes)
		if serr := a.cache.Save(ctx, jokes); serr != nil {
			a.logger.Warn("Failed to persist jokes", zap.Error(serr))
		}
		a.clearMessageLocked()
	} else {
		a.logger.Warn("Error fetching data", zap.Error(err))
		if cached, ok := a.loadCacheLocked(); ok {
			a.setJokesLocked(cached)
			a.setMessageLocked(MsgCached, MessageAdvisory)
		} else if errors.Is(err, ErrNoJokes) {
			a.setMessageLocked(MsgNoJokes, MessageError)
		} else {
			a.setMessageLocked(MsgUnreachable, MessageError)
		}
	}
	a.state.Loading = false
	a.commitLocked()
}

func (a *App) activeLocked() bool {
	return a.ctx != nil && a.ctx.Err() == nil
}

func (a *App) loadCacheLocked() ([]model.Joke, bool) {
	cached, ok, err := a.cache.Load(a.ctx)
	if err != nil {
		a.logger.Warn("Failed to read cached jokes", zap.Error(err))
		return nil, false
	}
	return cached, ok
}

// setJokesLocked replaces the sequence, keeping the cursor in range.
func (a *App) setJokesLocked(jokes []model.Joke) {
	a.state.Jokes = append([]model.Joke(nil), jokes...)
	if a.state.Cursor >= len(a.state.Jokes) {
		a.state.Cursor = 0
	}
}

func (a *App) setMessageLocked(msg string, kind MessageKind) {
	a.state.Message = msg
	a.state.Kind = kind
}

func (a *App) clearMessageLocked() {
	a.setMessageLocked("", MessageNone)
}

func (a *App) snapshot() State {
	s := a.state
	s.Jokes = append([]model.Joke(nil), a.state.Jokes...)
	return s
}

// commitLocked releases mu and hands the new state to the listener,
// unless the app was unmounted in between.
func (a *App) commitLocked() {
	s := a.snapshot()
	fn, ctx := a.onChange, a.ctx
	a.mu.Unlock()

	if fn == nil {
		return
	}
	a.notifyMu.Lock()
	defer a.notifyMu.Unlock()
	if ctx.Err() != nil {
		return
	}
	fn(s)
}

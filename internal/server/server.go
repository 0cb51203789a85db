package server

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"jokebox/internal/store"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Options tunes the content service.
type Options struct {
	// Production hides error details from response bodies.
	Production bool
	// Assets is the client build; it must contain index.html.
	Assets fs.FS
}

type Server struct {
	store      store.Store
	logger     *zap.Logger
	router     *mux.Router
	server     *http.Server
	assets     fs.FS
	index      []byte
	production bool
}

func NewServer(st store.Store, logger *zap.Logger, opts Options) (*Server, error) {
	index, err := fs.ReadFile(opts.Assets, "index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}

	s := &Server{
		store:      st,
		logger:     logger,
		router:     mux.NewRouter(),
		assets:     opts.Assets,
		index:      index,
		production: opts.Production,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	// API
	s.router.HandleFunc("/post", s.handleListJokes).Methods(http.MethodGet)

	// Everything else belongs to the client-side router
	s.router.PathPrefix("/").HandlerFunc(s.handleSPA).Methods(http.MethodGet, http.MethodHead)
}

// Handler returns the router wrapped in the middleware stack.
func (s *Server) Handler() http.Handler {
	return chain(s.router,
		s.requestLogger,
		s.recoverer,
		cors,
	)
}

// Start launches the HTTP server
func (s *Server) Start(port string) error {
	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	s.logger.Info("Web server listening", zap.String("addr", "http://localhost:"+port))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// ProbeStore checks store reachability once and logs the outcome.
// A failure is reported but never stops the service.
func (s *Server) ProbeStore(ctx context.Context) bool {
	if err := s.store.Probe(ctx); err != nil {
		s.logger.Error("Error connecting to the database", zap.Error(err))
		for i, hint := range store.ConnectionHints(err) {
			s.logger.Warn("Database connection refused, check:", zap.Int("step", i+1), zap.String("hint", hint))
		}
		return false
	}
	s.logger.Info("Successfully connected to database")
	return true
}

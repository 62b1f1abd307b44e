package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"astrogen/internal/logging"
	"astrogen/internal/progress"
	"astrogen/internal/sector"
)

const (
	defaultKeepalive = 15 * time.Second
	shutdownTimeout  = 5 * time.Second
)

// Runner executes one build and finishes sink with a terminal token.
type Runner interface {
	Run(ctx context.Context, req sector.Request, sink progress.Sink) (sector.Result, error)
}

// Server serves build streams and sector lookups.
type Server struct {
	runner    Runner
	lister    sector.SectorLister
	keepalive time.Duration
	logger    *slog.Logger
	router    *chi.Mux

	listener net.Listener
	server   *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithKeepalive sets the interval between SSE comment frames.
func WithKeepalive(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.keepalive = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logging.NewComponentLogger(logger, "api")
	}
}

// NewServer wires the routes. lister may be nil, in which case
// /api/sectorlist reports an upstream failure.
func NewServer(runner Runner, lister sector.SectorLister, opts ...Option) *Server {
	s := &Server{
		runner:    runner,
		lister:    lister,
		keepalive: defaultKeepalive,
		logger:    logging.NewComponentLogger(nil, "api"),
		router:    chi.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/generate-stream", s.handleGenerateStream)
		r.Post("/generate", s.handleGenerate)
		r.Get("/sectorlist", s.handleSectorList)
	})
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on bind and serves until ctx is cancelled or Stop is called.
func (s *Server) Start(ctx context.Context, bind string) error {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return errors.New("api bind address is empty")
	}
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the bound address once Start succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting briefly for open streams.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
}

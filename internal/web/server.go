package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"
)

const (
	drainTimeout      = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// ServerConfig holds the listener settings.
type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server serves the site on a single TCP listener.
type Server struct {
	srv      *http.Server
	listener atomic.Pointer[net.Listener]
	ready    chan struct{}
	started  atomic.Bool
	logger   *slog.Logger
}

// NewServer prepares a server for cfg.Port. Port 0 picks a free port.
// A nil handler answers every request with 404.
func NewServer(cfg ServerConfig, handler http.Handler, logger *slog.Logger) *Server {
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
		ready:  make(chan struct{}),
		logger: logger,
	}
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr is the bound address, or "" before Start.
func (s *Server) Addr() string {
	if ln := s.listener.Load(); ln != nil {
		return (*ln).Addr().String()
	}
	return ""
}

// Start binds the listener and serves until ctx is canceled. In-flight
// requests get drainTimeout to finish; Start returns once they have.
func (s *Server) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return errors.New("web: server already started")
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.srv.Addr)
	if err != nil {
		s.started.Store(false)
		return fmt.Errorf("listen on %s: %w", s.srv.Addr, err)
	}
	s.listener.Store(&ln)
	close(s.ready)
	s.logger.Info("serving site", slog.String("addr", ln.Addr().String()))

	drained := make(chan error, 1)
	stop := context.AfterFunc(ctx, func() { drained <- s.drain() })

	serveErr := s.srv.Serve(ln)
	if stop() {
		// ctx is still live, so Serve failed by itself.
		return fmt.Errorf("serve: %w", serveErr)
	}
	if err := <-drained; err != nil {
		s.logger.Warn("connections not drained", slog.String("error", err.Error()))
	}
	s.logger.Info("site stopped")
	return nil
}

func (s *Server) drain() error {
	s.logger.Info("draining connections", slog.Duration("timeout", drainTimeout))
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

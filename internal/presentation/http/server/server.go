// Package server runs the editor API on net/http and reports render activity on shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/AtRiskMedia/opc-go/internal/application/container"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/opc-go/internal/presentation/http/routes"
	"github.com/AtRiskMedia/opc-go/pkg/config"
)

const maxHeaderBytes = 1 << 20

// Server owns the listener and the http.Server serving the OPC routes
type Server struct {
	httpServer *http.Server
	logger     *logging.ChanneledLogger
	tracker    *performance.Tracker

	mu       sync.Mutex
	listener net.Listener
}

// New builds the server for c. Port "0" picks a free port once Listen runs.
func New(port string, c *container.Container) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              net.JoinHostPort("", port),
			Handler:           routes.SetupRoutes(c),
			ReadTimeout:       config.ServerReadTimeout,
			ReadHeaderTimeout: config.ServerReadTimeout,
			WriteTimeout:      config.ServerWriteTimeout,
			IdleTimeout:       config.ServerIdleTimeout,
			MaxHeaderBytes:    maxHeaderBytes,
			ErrorLog:          slog.NewLogLogger(c.Logger.HTTP().Handler(), slog.LevelWarn),
		},
		logger:  c.Logger,
		tracker: c.PerfTracker,
	}
}

// Listen binds the address without serving yet
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = ln
	return nil
}

// Addr reports the bound address, or the configured one before Listen
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Start serves requests until Stop is called
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()

	s.logger.System().Info("Starting HTTP server", "address", ln.Addr().String())
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests, then logs what was rendered while the server ran
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Shutdown().Info("Shutting down HTTP server...")
	err := s.httpServer.Shutdown(ctx)

	if s.tracker != nil {
		for _, st := range s.tracker.Snapshot() {
			s.logger.Shutdown().Info("Operation summary",
				"operation", st.Operation,
				"count", st.Count,
				"failures", st.Failures,
				"slow", st.Slow,
				"average", st.Average())
		}
	}
	return err
}

package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/turtacn/SeaGuard-Intelligence/internal/config"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/logging"
)

// Server wraps http.Server with the configured timeouts and a graceful
// shutdown.
type Server struct {
	httpServer      *http.Server
	logger          logging.Logger
	shutdownTimeout time.Duration
}

func NewServer(cfg config.ServerConfig, handler http.Handler, logger logging.Logger) *Server {
	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 15 * time.Second
	}
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
	}
}

// Start serves until Shutdown is called. It returns nil on a clean
// shutdown.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", logging.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, waiting up to the configured
// shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()
	s.logger.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}

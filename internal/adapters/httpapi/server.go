package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type Server struct {
	httpServer *http.Server
	addr       string
	logger     zerolog.Logger
}

type ServerParams struct {
	Host    string
	Port    string
	Handler http.Handler
	Logger  zerolog.Logger
}

func NewServer(params ServerParams) *Server {
	addr := net.JoinHostPort(params.Host, params.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           params.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		addr:       addr,
		logger:     params.Logger.With().Str("component", "http_server").Logger(),
	}
}

// Start serves until Stop is called
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.addr).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info().Msg("Stopping HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

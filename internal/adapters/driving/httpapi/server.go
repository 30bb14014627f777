package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/logger"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP API server.
type Server struct {
	ports  *Ports
	engine *gin.Engine
}

// NewServer builds the router for the given ports.
func NewServer(ports *Ports, settings domain.ServerSettings) (*Server, error) {
	if ports == nil {
		return nil, ErrMissingTaggingService
	}
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(corsMiddleware(settings.AllowedOrigins), accessLogger(), recovery())

	s := &Server{ports: ports, engine: engine}
	s.registerRoutes()
	return s, nil
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logger.Info("http api listening on %s", ln.Addr())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

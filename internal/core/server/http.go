package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/solatis/chancekeeper/internal/core/config"
)

// readHeaderTimeout bounds slow clients sending headers.
const readHeaderTimeout = 5 * time.Second

// HTTPServer manages the control API listener lifecycle.
type HTTPServer struct {
	server *http.Server
}

// NewHTTPServer wraps handler in an http.Server bound to the configured
// control API address.
func NewHTTPServer(cfg *config.Config, handler http.Handler) (*HTTPServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if handler == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}

	return &HTTPServer{
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.HTTPHost, cfg.Server.HTTPPort),
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}, nil
}

// Start serves until Shutdown is called and returns nil after a clean
// shutdown. Context is provided for API consistency with GRPCServer.
func (s *HTTPServer) Start(ctx context.Context) error {
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve %s: %w", s.server.Addr, err)
	}
	return nil
}

// Addr returns the configured address.
func (s *HTTPServer) Addr() string {
	return s.server.Addr
}

// Shutdown stops accepting connections and waits for active requests until
// ctx ends.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

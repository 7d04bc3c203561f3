// Package server provides a graceful HTTP server around a gin engine.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	httpopts "github.com/kart-io/docvault/pkg/options/http"
)

// HTTPServer wraps http.Server with graceful shutdown.
type HTTPServer struct {
	server *http.Server
}

// NewHTTPServer creates an HTTP server serving the given gin engine.
func NewHTTPServer(opts *httpopts.Options, engine *gin.Engine) *HTTPServer {
	return &HTTPServer{
		server: &http.Server{
			Addr:         opts.Addr,
			Handler:      engine,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
			IdleTimeout:  opts.IdleTimeout,
		},
	}
}

// Start runs the server in a goroutine and reports listen failures on
// the returned channel.
func (s *HTTPServer) Start() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		logger.Infow("HTTP server listening", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

// Stop shuts the server down gracefully, waiting for in-flight requests
// until ctx expires.
func (s *HTTPServer) Stop(ctx context.Context) error {
	logger.Info("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Package httpapi is the HTTP transport of linkshare: a chi router with
// bearer authentication, JSON error envelopes, request logging and
// Prometheus metrics.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/linkshare/internal/logging"
)

type Server struct {
	address         string
	handler         http.Handler
	shutdownTimeout time.Duration
	logger          logging.Logger
}

func NewServer(address string, handler http.Handler, shutdownTimeout time.Duration, l logging.Logger) *Server {
	return &Server{
		address:         address,
		handler:         handler,
		shutdownTimeout: shutdownTimeout,
		logger:          l.With("module", "http_server"),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully within
// the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(sctx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownErr; err != nil {
		return err
	}
	s.logger.Info(ctx, "HTTP server stopped")
	return nil
}

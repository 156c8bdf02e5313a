package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 10 * time.Second
	idleTimeout     = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	logger *slog.Logger
	server *http.Server
}

func NewServer(logger *slog.Logger, port string, handler http.Handler) *Server {
	return &Server{
		logger: logger.With("component", "http_server"),
		server: &http.Server{
			Addr:         ":" + port,
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
	}
}

// Start - blocks until the server stops. A graceful Shutdown is not an error.
func (that *Server) Start() error {
	listener, err := net.Listen("tcp", that.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", that.server.Addr, err)
	}

	return that.Serve(listener)
}

func (that *Server) Serve(listener net.Listener) error {
	that.logger.Info("starting HTTP server", "addr", listener.Addr().String())

	if err := that.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := that.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	that.logger.Info("HTTP server stopped")

	return nil
}

package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"nhooyr.io/websocket"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

const (
	readLimit       = 4 << 10
	writeTimeout    = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

type gameManager interface {
	GetOrCreateGame(ctx context.Context, sessionID string) (*entity.Game, error)
	GetGame(ctx context.Context, sessionID string) (*entity.Game, error)
	MakeMove(ctx context.Context, sessionID string, cell int) (*entity.Game, bool, error)
	ResetRound(ctx context.Context, sessionID string) (*entity.Game, error)
	Subscribe(sessionID string) (<-chan entity.Snapshot, func())
}

type handlerFunc func(ctx context.Context, conn *connection, message *Message) error

type Server struct {
	logger         *slog.Logger
	games          gameManager
	originPatterns []string

	handlers map[string]handlerFunc

	ctx    context.Context
	cancel context.CancelFunc
	server *http.Server

	mu      sync.Mutex
	closing bool
	wg      sync.WaitGroup
}

func New(logger *slog.Logger, games gameManager, originPatterns []string) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	server := &Server{
		logger:         logger.With("component", "websocket_server"),
		games:          games,
		originPatterns: originPatterns,

		handlers: make(map[string]handlerFunc),

		ctx:    ctx,
		cancel: cancel,
	}

	server.server = &http.Server{
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionState] = server.handleState
	server.handlers[actionMove] = server.handleMove
	server.handlers[actionReset] = server.handleReset

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.upgradeToWebSocket)

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(port string) error {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", port, err)
	}

	return that.Serve(listener)
}

func (that *Server) Serve(listener net.Listener) error {
	that.logger.Info("starting WebSocket server", "addr", listener.Addr().String())

	if err := that.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown - stops accepting connections and closes the open ones.
func (that *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	err := that.server.Shutdown(ctx)

	that.mu.Lock()
	that.closing = true
	that.mu.Unlock()

	that.cancel()

	done := make(chan struct{})
	go func() {
		that.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("failed to close websocket connections: %w", ctx.Err())
	}

	if err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	that.logger.Info("WebSocket server stopped")

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	if !that.track() {
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}
	defer that.wg.Done()

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: that.originPatterns,
	})
	if err != nil {
		log.Warn("failed to accept websocket", "error", err)
		return
	}

	ws.SetReadLimit(readLimit)

	conn := newConnection(that.logger, ws)
	defer conn.close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		select {
		case <-that.ctx.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	log.Info("WebSocket connection established")

	if err = that.handleMessages(ctx, conn); err != nil {
		log.Info("WebSocket connection closed", "reason", err)
	}
}

// track - registers a connection with the shutdown wait group, false once Shutdown has begun.
func (that *Server) track() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closing {
		return false
	}

	that.wg.Add(1)

	return true
}

// handleMessages - processes messages from the client until the connection goes away.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := that.logger.With("method", "handleMessages")

	for {
		message, err := conn.read(ctx)
		if err != nil {
			if errors.Is(err, errMalformedMessage) {
				log.Warn("malformed message", "error", err)

				if err = conn.sendError(ctx, actionError, err.Error()); err != nil {
					return err
				}

				continue
			}

			return err
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			if err = conn.sendError(ctx, message.Action, apperror.ErrUnknownAction.Error()); err != nil {
				return err
			}

			continue
		}

		if err = handler(ctx, conn, message); err != nil {
			return fmt.Errorf("failed to handle %s: %w", message.Action, err)
		}
	}
}

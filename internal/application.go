package application

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/config"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/repository"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/telemetry"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-hotseat/transport/rest"
	"github.com/rocketscienceinc/tictactoe-hotseat/transport/websocket"
)

// App - the wired server side: storage, game manager and both transports.
type App struct {
	logger *slog.Logger

	storage  *storage.RedisStorage
	shutdown telemetry.Shutdown

	httpServer *rest.Server
	wsServer   *websocket.Server
}

// RunApp - runs the application until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	app, err := New(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer app.Close()

	httpListener, err := net.Listen("tcp", ":"+conf.HTTPPort)
	if err != nil {
		return fmt.Errorf("failed to listen on HTTP port: %w", err)
	}

	wsListener, err := net.Listen("tcp", ":"+conf.SocketPort)
	if err != nil {
		_ = httpListener.Close()
		return fmt.Errorf("failed to listen on WebSocket port: %w", err)
	}

	return app.Run(ctx, httpListener, wsListener)
}

func New(ctx context.Context, logger *slog.Logger, conf *config.Config) (*App, error) {
	log := logger.With("component", "app")

	shutdown, err := telemetry.Setup(ctx, conf.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("could not set up telemetry: %w", err)
	}

	redisStorage, err := storage.New(ctx, conf.Redis)
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	if redisStorage.IsEmbedded() {
		log.Info("using embedded redis, games do not survive a restart")
	}

	gameRepo := repository.NewGameRepository(redisStorage.Connection, conf.Session.TTL)
	gameManager := usecase.NewGameManager(logger, gameRepo, usecase.NewHub(), telemetry.Tracer("usecase"))

	router := rest.NewRouter(rest.RouterConfig{
		Logger:     logger,
		Games:      gameManager,
		Session:    conf.Session,
		SocketPort: conf.SocketPort,
	})

	return &App{
		logger: log,

		storage:  redisStorage,
		shutdown: shutdown,

		httpServer: rest.NewServer(logger, conf.HTTPPort, router),
		wsServer:   websocket.New(logger, gameManager, conf.WebSocket.OriginPatterns),
	}, nil
}

// Run - serves both transports until ctx is done or one of them fails.
func (that *App) Run(ctx context.Context, httpListener, wsListener net.Listener) error {
	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		httpErrCh <- that.httpServer.Serve(httpListener)
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		wsErrCh <- that.wsServer.Serve(wsListener)
	}()

	var runErr error

	select {
	case err := <-httpErrCh:
		if err != nil {
			runErr = fmt.Errorf("HTTP server error: %w", err)
		}
	case err := <-wsErrCh:
		if err != nil {
			runErr = fmt.Errorf("WebSocket server error: %w", err)
		}
	case <-ctx.Done():
		that.logger.Info("Application context canceled, shutting down")
	}

	shutdownCtx := context.WithoutCancel(ctx)

	if err := that.httpServer.Shutdown(shutdownCtx); err != nil {
		that.logger.Error("could not stop HTTP server", "error", err)
	}

	if err := that.wsServer.Shutdown(shutdownCtx); err != nil {
		that.logger.Error("could not stop WebSocket server", "error", err)
	}

	return runErr
}

func (that *App) Close() {
	if err := that.shutdown(context.Background()); err != nil {
		that.logger.Error("could not shut down telemetry", "error", err)
	}

	if err := that.storage.Close(); err != nil {
		that.logger.Error("could not close redis storage", "error", err)
	}
}

package rest

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/config"
)

type RouterConfig struct {
	Logger     *slog.Logger
	Games      gameManager
	Session    config.Session
	SocketPort string
}

func NewRouter(conf RouterConfig) http.Handler {
	router := mux.NewRouter()
	useMiddleware(router, conf.Logger)

	games := newGameHandler(conf.Logger, conf.Games, conf.Session)
	page := newPageHandler(games, conf.SocketPort)

	router.HandleFunc("/", page.Index).Methods(http.MethodGet)
	router.HandleFunc("/ping", pingHandler).Methods(http.MethodGet)
	router.PathPrefix("/static/").Handler(staticHandler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/game", games.Get).Methods(http.MethodGet)
	api.HandleFunc("/game", games.End).Methods(http.MethodDelete)
	api.HandleFunc("/game/moves", games.Move).Methods(http.MethodPost)
	api.HandleFunc("/game/reset", games.Reset).Methods(http.MethodPost)

	return router
}

// useMiddleware - Logging wraps Recovery, so a recovered request is logged with its 500.
func useMiddleware(router *mux.Router, logger *slog.Logger) {
	router.Use(Logging(logger))
	router.Use(Recovery(logger))
}

func pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/config"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

const maxBodyBytes = 1 << 10

type gameManager interface {
	GetOrCreateGame(ctx context.Context, sessionID string) (*entity.Game, error)
	MakeMove(ctx context.Context, sessionID string, cell int) (*entity.Game, bool, error)
	ResetRound(ctx context.Context, sessionID string) (*entity.Game, error)
	EndSession(ctx context.Context, sessionID string) error
}

type moveRequest struct {
	Cell *int `json:"cell"`
}

type gameHandler struct {
	logger  *slog.Logger
	games   gameManager
	session config.Session
}

func newGameHandler(logger *slog.Logger, games gameManager, session config.Session) *gameHandler {
	return &gameHandler{
		logger:  logger.With("component", "game_handler"),
		games:   games,
		session: session,
	}
}

func (that *gameHandler) Get(w http.ResponseWriter, r *http.Request) {
	game, err := that.loadGame(w, r)
	if err != nil {
		that.writeFailure(w, "Get", err)
		return
	}

	writeJSON(w, http.StatusOK, newGameResponse(game))
}

func (that *gameHandler) Move(w http.ResponseWriter, r *http.Request) {
	var request moveRequest

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&request); err != nil || request.Cell == nil {
		writeError(w, http.StatusBadRequest, errBadRequest)
		return
	}

	game, accepted, err := that.games.MakeMove(r.Context(), that.sessionID(r), *request.Cell)
	if err != nil {
		that.writeFailure(w, "Move", err)
		return
	}

	response := newGameResponse(game)
	response.Accepted = &accepted

	writeJSON(w, http.StatusOK, response)
}

func (that *gameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.ResetRound(r.Context(), that.sessionID(r))
	if err != nil {
		that.writeFailure(w, "Reset", err)
		return
	}

	writeJSON(w, http.StatusOK, newGameResponse(game))
}

// End - ending a session that is already gone still succeeds.
func (that *gameHandler) End(w http.ResponseWriter, r *http.Request) {
	if id := that.sessionID(r); id != "" {
		err := that.games.EndSession(r.Context(), id)
		if err != nil && !errors.Is(err, apperror.ErrSessionNotFound) {
			that.writeFailure(w, "End", err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     that.session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	w.WriteHeader(http.StatusNoContent)
}

// loadGame - resolves the session cookie, starting a new session when needed, and refreshes the cookie.
func (that *gameHandler) loadGame(w http.ResponseWriter, r *http.Request) (*entity.Game, error) {
	game, err := that.games.GetOrCreateGame(r.Context(), that.sessionID(r))
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     that.session.CookieName,
		Value:    game.ID,
		Path:     "/",
		Expires:  time.Now().Add(that.session.TTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return game, nil
}

func (that *gameHandler) sessionID(r *http.Request) string {
	cookie, err := r.Cookie(that.session.CookieName)
	if err != nil {
		return ""
	}

	return cookie.Value
}

func (that *gameHandler) writeFailure(w http.ResponseWriter, method string, err error) {
	switch {
	case errors.Is(err, apperror.ErrInvalidCell):
		writeError(w, http.StatusBadRequest, apperror.ErrInvalidCell)
	case errors.Is(err, apperror.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, apperror.ErrSessionNotFound)
	default:
		that.logger.With("method", method).Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, errInternal)
	}
}

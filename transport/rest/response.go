package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

var (
	errInternal   = errors.New("internal server error")
	errBadRequest = errors.New("request body must be {\"cell\": 0..8}")
)

type sessionResponse struct {
	ID string `json:"id"`
}

type gameResponse struct {
	Session  sessionResponse `json:"session"`
	Game     entity.Snapshot `json:"game"`
	Accepted *bool           `json:"accepted,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newGameResponse(game *entity.Game) gameResponse {
	return gameResponse{
		Session: sessionResponse{ID: game.ID},
		Game:    game.Evaluate(),
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

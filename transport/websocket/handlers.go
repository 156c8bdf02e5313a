package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
)

var (
	errNotConnected = errors.New("send connect first")
	errBadPayload   = errors.New("invalid payload")
	errInternal     = errors.New("internal error")
)

// handleConnect - binds the connection to a session, creating one when the ID is empty or unknown.
func (that *Server) handleConnect(ctx context.Context, conn *connection, message *Message) error {
	log := that.logger.With("method", "handleConnect")

	var request Payload
	if !decodePayload(message, &request) {
		return conn.sendError(ctx, message.Action, errBadPayload.Error())
	}

	sessionID := ""
	if request.Session != nil {
		sessionID = request.Session.ID
	}

	game, err := that.games.GetOrCreateGame(ctx, sessionID)
	if err != nil {
		return that.sendFailure(ctx, conn, message.Action, err)
	}

	updates, unsubscribe := that.games.Subscribe(game.ID)
	conn.follow(ctx, game.ID, updates, unsubscribe)

	log.Info("connection bound to session", "session", game.ID)

	return conn.send(ctx, message.Action, gamePayload(game))
}

func (that *Server) handleState(ctx context.Context, conn *connection, message *Message) error {
	if conn.sessionID == "" {
		return conn.sendError(ctx, message.Action, errNotConnected.Error())
	}

	game, err := that.games.GetGame(ctx, conn.sessionID)
	if err != nil {
		return that.sendFailure(ctx, conn, message.Action, err)
	}

	return conn.send(ctx, message.Action, gamePayload(game))
}

func (that *Server) handleMove(ctx context.Context, conn *connection, message *Message) error {
	if conn.sessionID == "" {
		return conn.sendError(ctx, message.Action, errNotConnected.Error())
	}

	var request Payload
	if !decodePayload(message, &request) || request.Cell == nil {
		return conn.sendError(ctx, message.Action, errBadPayload.Error())
	}

	game, accepted, err := that.games.MakeMove(ctx, conn.sessionID, *request.Cell)
	if err != nil {
		return that.sendFailure(ctx, conn, message.Action, err)
	}

	response := gamePayload(game)
	response.Accepted = &accepted

	return conn.send(ctx, message.Action, response)
}

func (that *Server) handleReset(ctx context.Context, conn *connection, message *Message) error {
	if conn.sessionID == "" {
		return conn.sendError(ctx, message.Action, errNotConnected.Error())
	}

	game, err := that.games.ResetRound(ctx, conn.sessionID)
	if err != nil {
		return that.sendFailure(ctx, conn, message.Action, err)
	}

	return conn.send(ctx, message.Action, gamePayload(game))
}

// sendFailure - known errors are reported to the client as is, anything else is logged and hidden.
func (that *Server) sendFailure(ctx context.Context, conn *connection, action string, err error) error {
	switch {
	case errors.Is(err, apperror.ErrInvalidCell):
		return conn.sendError(ctx, action, apperror.ErrInvalidCell.Error())
	case errors.Is(err, apperror.ErrSessionNotFound):
		return conn.sendError(ctx, action, apperror.ErrSessionNotFound.Error())
	default:
		that.logger.With("method", "sendFailure").Error("failed to process message", "action", action, "error", err)
		return conn.sendError(ctx, action, errInternal.Error())
	}
}

// decodePayload - a missing payload decodes to the zero value.
func decodePayload(message *Message, payload *Payload) bool {
	if len(message.Payload) == 0 || string(message.Payload) == "null" {
		return true
	}

	return json.Unmarshal(message.Payload, payload) == nil
}

package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

var errMalformedMessage = errors.New("malformed message")

// connection - one client. Only the read loop changes the subscription.
type connection struct {
	logger *slog.Logger
	ws     *websocket.Conn

	sessionID   string
	unsubscribe func()
	forwarders  sync.WaitGroup
}

func newConnection(logger *slog.Logger, ws *websocket.Conn) *connection {
	return &connection{
		logger: logger.With("component", "websocket_connection"),
		ws:     ws,
	}
}

func (that *connection) read(ctx context.Context) (*Message, error) {
	_, data, err := that.ws.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}

	var message Message
	if err = json.Unmarshal(data, &message); err != nil {
		return nil, fmt.Errorf("%w: %w", errMalformedMessage, err)
	}

	return &message, nil
}

func (that *connection) send(ctx context.Context, action string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err = wsjson.Write(ctx, that.ws, Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// sendError - the error goes back under the action that caused it.
func (that *connection) sendError(ctx context.Context, action, message string) error {
	return that.send(ctx, action, Payload{Error: message})
}

// follow - switches the connection to the session's updates, dropping the previous subscription.
func (that *connection) follow(ctx context.Context, sessionID string, updates <-chan entity.Snapshot, unsubscribe func()) {
	that.stopFollowing()

	that.sessionID = sessionID
	that.unsubscribe = unsubscribe

	that.forwarders.Add(1)
	go func() {
		defer that.forwarders.Done()

		for snapshot := range updates {
			payload := Payload{Session: &Session{ID: sessionID}, Game: &snapshot}

			if err := that.send(ctx, actionUpdate, payload); err != nil {
				that.logger.Debug("failed to push update", "session", sessionID, "error", err)
			}
		}
	}()
}

func (that *connection) stopFollowing() {
	if that.unsubscribe != nil {
		that.unsubscribe()
		that.unsubscribe = nil
	}

	that.forwarders.Wait()
}

func (that *connection) close() {
	that.stopFollowing()
	_ = that.ws.Close(websocket.StatusNormalClosure, "")
}

package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

const (
	actionConnect = "connect"
	actionState   = "game:state"
	actionMove    = "game:move"
	actionReset   = "game:reset"
	actionUpdate  = "game:update"
	actionError   = "error"
)

type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Session struct {
	ID string `json:"id"`
}

type Payload struct {
	Session  *Session         `json:"session,omitempty"`
	Game     *entity.Snapshot `json:"game,omitempty"`
	Cell     *int             `json:"cell,omitempty"`
	Accepted *bool            `json:"accepted,omitempty"`
	Error    string           `json:"error,omitempty"`
}

func gamePayload(game *entity.Game) Payload {
	snapshot := game.Evaluate()

	return Payload{
		Session: &Session{ID: game.ID},
		Game:    &snapshot,
	}
}

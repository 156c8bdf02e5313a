package rest

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

//go:embed templates/index.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type cellView struct {
	Index    int
	Mark     entity.Mark
	Winning  bool
	Disabled bool
}

type pageView struct {
	SessionID  string
	SocketPort string
	Game       entity.Snapshot
	Cells      []cellView
	TurnColor  string
}

type pageHandler struct {
	games      *gameHandler
	socketPort string
}

func newPageHandler(games *gameHandler, socketPort string) *pageHandler {
	return &pageHandler{
		games:      games,
		socketPort: socketPort,
	}
}

func (that *pageHandler) Index(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.loadGame(w, r)
	if err != nil {
		that.games.writeFailure(w, "Index", err)
		return
	}

	var page bytes.Buffer
	if err = pageTemplate.Execute(&page, newPageView(game, that.socketPort)); err != nil {
		that.games.writeFailure(w, "Index", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = page.WriteTo(w)
}

func newPageView(game *entity.Game, socketPort string) pageView {
	cells := make([]cellView, entity.BoardSize)
	for i := range cells {
		cells[i] = cellView{
			Index:    i,
			Mark:     game.Board[i],
			Winning:  game.IsWinningCell(i),
			Disabled: !game.IsCellAvailable(i),
		}
	}

	return pageView{
		SessionID:  game.ID,
		SocketPort: socketPort,
		Game:       game.Evaluate(),
		Cells:      cells,
		TurnColor:  turnColor(game.Turn),
	}
}

func turnColor(mark entity.Mark) string {
	if mark == entity.PlayerO {
		return "Orange"
	}

	return "Blue"
}

func staticHandler() http.Handler {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}

	return http.StripPrefix("/static/", http.FileServer(http.FS(static)))
}

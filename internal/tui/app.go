package tui

import (
	"context"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/pkg"
)

type commandKind int

const (
	commandNone commandKind = iota
	commandQuit
	commandPlay
	commandPlayCursor
	commandCursor
	commandReset
)

type command struct {
	kind   commandKind
	cell   int
	dx, dy int
}

// commandFor - key bindings. Digits 1-9 address the cells row by row.
func commandFor(key tcell.Key, r rune) command {
	if key == tcell.KeyRune {
		return runeCommand(r)
	}

	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return command{kind: commandQuit}
	case tcell.KeyEnter:
		return command{kind: commandPlayCursor}
	case tcell.KeyUp:
		return command{kind: commandCursor, dy: -1}
	case tcell.KeyDown:
		return command{kind: commandCursor, dy: 1}
	case tcell.KeyLeft:
		return command{kind: commandCursor, dx: -1}
	case tcell.KeyRight:
		return command{kind: commandCursor, dx: 1}
	default:
		return command{kind: commandNone}
	}
}

func runeCommand(r rune) command {
	switch {
	case r >= '1' && r <= '9':
		return command{kind: commandPlay, cell: int(r - '1')}
	case r == ' ':
		return command{kind: commandPlayCursor}
	case r == 'r', r == 'R', r == 'n', r == 'N':
		return command{kind: commandReset}
	case r == 'q', r == 'Q':
		return command{kind: commandQuit}
	default:
		return command{kind: commandNone}
	}
}

// App - runs one engine in the terminal until a player quits.
type App struct {
	logger   *slog.Logger
	tracer   trace.Tracer
	screen   *Screen
	renderer *Renderer

	game    *entity.Game
	cursor  int
	running bool
}

func New(logger *slog.Logger, tracer trace.Tracer, screen *Screen) *App {
	return &App{
		logger:   logger.With("component", "tui"),
		tracer:   tracer,
		screen:   screen,
		renderer: NewRenderer(screen),

		game:    entity.NewGame(pkg.GenerateNewSessionID()),
		cursor:  4,
		running: true,
	}
}

// Run - the main loop; returns when a player quits or ctx is done. The screen is closed on return.
func (that *App) Run(ctx context.Context) error {
	defer that.screen.Close()

	stop := context.AfterFunc(ctx, that.screen.Interrupt)
	defer stop()

	that.logger.Info("terminal game started", "session", that.game.ID)

	for that.running {
		that.renderer.Render(that.game, that.cursor)

		if ctx.Err() != nil {
			break
		}

		switch ev := that.screen.PollEvent().(type) {
		case nil:
			that.running = false
		case *tcell.EventKey:
			that.execute(ctx, commandFor(ev.Key(), ev.Rune()))
		case *tcell.EventResize:
			that.screen.Sync()
		}
	}

	that.logger.Info("terminal game stopped", "scores", that.game.Scores)

	return nil
}

func (that *App) execute(ctx context.Context, cmd command) {
	switch cmd.kind {
	case commandQuit:
		that.running = false
	case commandPlay:
		that.cursor = cmd.cell
		that.play(ctx, cmd.cell)
	case commandPlayCursor:
		that.play(ctx, that.cursor)
	case commandCursor:
		that.moveCursor(cmd.dx, cmd.dy)
	case commandReset:
		that.game.ResetRound()
	case commandNone:
	}
}

func (that *App) play(ctx context.Context, cell int) {
	_, span := that.tracer.Start(ctx, "tui.play", trace.WithAttributes(attribute.Int("game.cell", cell)))
	defer span.End()

	accepted := that.game.ApplyMove(cell)
	span.SetAttributes(attribute.Bool("game.accepted", accepted))

	if accepted && that.game.IsFinished() {
		that.logger.Debug("round finished", "status", that.game.Status, "winner", that.game.Winner())
	}
}

// moveCursor - the cursor stops at the edges of the board.
func (that *App) moveCursor(dx, dy int) {
	col := min(max(that.cursor%3+dx, 0), 2)
	row := min(max(that.cursor/3+dy, 0), 2)

	that.cursor = row*3 + col
}

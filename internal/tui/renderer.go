package tui

import "github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"

const (
	marginLeft = 2
	marginTop  = 1
)

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
}

func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws the board, the scores and the status line. Rows that do not fit are cut off.
func (that *Renderer) Render(game *entity.Game, cursor int) {
	that.screen.Clear()

	width, height := that.screen.Size()

	for y, line := range layout(game, cursor) {
		if marginTop+y >= height {
			break
		}

		x := marginLeft
		for _, s := range line {
			for _, ch := range s.text {
				if x < width {
					that.screen.SetContent(x, marginTop+y, ch, s.style)
				}
				x++
			}
		}
	}

	that.screen.Show()
}

package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

const helpLine = "1-9 play   arrows + enter move   r new round   q quit"

var (
	styleText    = tcell.StyleDefault
	styleMuted   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTitle   = tcell.StyleDefault.Bold(true)
	stylePlayerX = tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true)
	stylePlayerO = tcell.StyleDefault.Foreground(tcell.ColorOrange).Bold(true)
	styleWinning = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

type span struct {
	text  string
	style tcell.Style
}

type row []span

func (that row) String() string {
	var b strings.Builder
	for _, s := range that {
		b.WriteString(s.text)
	}

	return b.String()
}

// layout - the whole screen as styled rows, top to bottom.
func layout(game *entity.Game, cursor int) []row {
	rows := []row{
		{{text: "Tic Tac Toe", style: styleTitle}},
		{},
		{
			{text: fmt.Sprintf("Player X: %d", game.Scores.X), style: stylePlayerX},
			{text: "   ", style: styleText},
			{text: fmt.Sprintf("Draws: %d", game.Scores.Draws), style: styleMuted},
			{text: "   ", style: styleText},
			{text: fmt.Sprintf("Player O: %d", game.Scores.O), style: stylePlayerO},
		},
		{},
	}

	for r := range 3 {
		if r > 0 {
			rows = append(rows, row{{text: "---+---+---", style: styleMuted}})
		}

		line := row{}
		for c := range 3 {
			if c > 0 {
				line = append(line, span{text: "|", style: styleMuted})
			}

			line = append(line, cellSpan(game, r*3+c, cursor))
		}

		rows = append(rows, line)
	}

	rows = append(rows,
		row{},
		row{{text: game.StatusMessage(), style: statusStyle(game)}},
	)

	if game.IsFinished() {
		rows = append(rows, row{{text: "press r to play again", style: styleMuted}})
	} else {
		rows = append(rows, row{})
	}

	rows = append(rows, row{}, row{{text: helpLine, style: styleMuted}})

	return rows
}

func cellSpan(game *entity.Game, cell, cursor int) span {
	mark := game.Board[cell]

	text := fmt.Sprintf(" %d ", cell+1)
	style := styleMuted

	switch {
	case game.IsWinningCell(cell):
		text, style = " "+string(mark)+" ", styleWinning
	case mark == entity.PlayerX:
		text, style = " X ", stylePlayerX
	case mark == entity.PlayerO:
		text, style = " O ", stylePlayerO
	}

	if cell == cursor && game.IsPlaying() {
		style = style.Reverse(true)
	}

	return span{text: text, style: style}
}

func statusStyle(game *entity.Game) tcell.Style {
	switch game.Winner() {
	case entity.PlayerX:
		return stylePlayerX
	case entity.PlayerO:
		return stylePlayerO
	}

	if game.IsPlaying() && game.Turn == entity.PlayerO {
		return stylePlayerO
	}

	if game.IsPlaying() {
		return stylePlayerX
	}

	return styleText
}

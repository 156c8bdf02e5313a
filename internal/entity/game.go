package entity

import "fmt"

type Mark string

type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusDraw    Status = "draw"

	PlayerX Mark = "X"
	PlayerO Mark = "O"

	EmptyCell Mark = ""
)

const BoardSize = 9

// WinCombos - rows, columns, diagonals. The order is the order of the win check.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

type Board [BoardSize]Mark

type WinningLine struct {
	Cells  [3]int `json:"cells"`
	Player Mark   `json:"player"`
}

type ScoreBoard struct {
	X     int `json:"x"`
	O     int `json:"o"`
	Draws int `json:"draws"`
}

// Game - the engine of one session: the current round plus the scores of all rounds played so far.
type Game struct {
	ID          string       `json:"id"`
	Board       Board        `json:"board"`
	Turn        Mark         `json:"turn"`
	Status      Status       `json:"status"`
	WinningLine *WinningLine `json:"winning_line,omitempty"`
	Scores      ScoreBoard   `json:"scores"`
}

// Snapshot - read-only view of a game for the presentation layer.
type Snapshot struct {
	Board       Board        `json:"board"`
	Status      Status       `json:"status"`
	Winner      Mark         `json:"winner"`
	WinningLine *WinningLine `json:"winning_line,omitempty"`
	Turn        Mark         `json:"turn"`
	Scores      ScoreBoard   `json:"scores"`
	Message     string       `json:"message"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:     id,
		Turn:   PlayerX,
		Status: StatusPlaying,
	}
}

// ApplyMove - places the current player's mark on the cell.
// Returns false and leaves the game untouched when the round is over or the cell is not available.
func (that *Game) ApplyMove(cell int) bool {
	if !that.IsCellAvailable(cell) {
		return false
	}

	mover := that.Turn
	that.Board[cell] = mover

	if line, ok := that.Board.WinningLine(); ok {
		that.Status = StatusWon
		that.WinningLine = &line
		that.Scores.add(line.Player)

		return true
	}

	if that.Board.IsFull() {
		that.Status = StatusDraw
		that.Scores.Draws++

		return true
	}

	that.Turn = Opponent(mover)

	return true
}

// ResetRound - starts a new round, scores are kept.
func (that *Game) ResetRound() {
	that.Board = Board{}
	that.Turn = PlayerX
	that.Status = StatusPlaying
	that.WinningLine = nil
}

func (that *Game) Evaluate() Snapshot {
	snapshot := Snapshot{
		Board:   that.Board,
		Status:  that.Status,
		Winner:  that.Winner(),
		Turn:    that.Turn,
		Scores:  that.Scores,
		Message: that.StatusMessage(),
	}

	if that.WinningLine != nil {
		line := *that.WinningLine
		snapshot.WinningLine = &line
	}

	return snapshot
}

func (that *Game) Winner() Mark {
	if that.Status != StatusWon || that.WinningLine == nil {
		return EmptyCell
	}

	return that.WinningLine.Player
}

func (that *Game) StatusMessage() string {
	switch that.Status {
	case StatusWon:
		return fmt.Sprintf("Player %s Wins!", that.Winner())
	case StatusDraw:
		return "It's a Draw!"
	default:
		return fmt.Sprintf("Player %s's Turn", that.Turn)
	}
}

func (that *Game) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusDraw
}

// IsCellAvailable - reports whether a move on the cell would be accepted.
func (that *Game) IsCellAvailable(cell int) bool {
	if !ValidCell(cell) {
		return false
	}

	return that.IsPlaying() && that.Board[cell] == EmptyCell
}

func (that *Game) IsWinningCell(cell int) bool {
	if that.WinningLine == nil {
		return false
	}

	for _, c := range that.WinningLine.Cells {
		if c == cell {
			return true
		}
	}

	return false
}

// WinningLine - the first completed triple in WinCombos order.
func (that Board) WinningLine() (WinningLine, bool) {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return WinningLine{Cells: combo, Player: a}, true
		}
	}

	return WinningLine{}, false
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that Board) Count(mark Mark) int {
	count := 0
	for _, cell := range that {
		if cell == mark {
			count++
		}
	}

	return count
}

func (that *ScoreBoard) add(winner Mark) {
	switch winner {
	case PlayerX:
		that.X++
	case PlayerO:
		that.O++
	}
}

func ValidCell(cell int) bool {
	return cell >= 0 && cell < BoardSize
}

func Opponent(mark Mark) Mark {
	if mark == PlayerX {
		return PlayerO
	}

	return PlayerX
}

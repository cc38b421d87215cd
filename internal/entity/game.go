package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
)

const (
	NumRows = 3
	NumCols = 3
)

type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

// Opponent - returns the mark playing against the given one.
func Opponent(mark Mark) Mark {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// IsPlayer reports whether mark is X or O.
func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// ValidateCell - checks that the coordinates are inside the board.
func ValidateCell(row, col int) error {
	if row < 0 || row >= NumRows || col < 0 || col >= NumCols {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrOutOfRange, row, col)
	}

	return nil
}

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusDraw       Status = "draw"
	StatusWon        Status = "won"
)

type Outcome struct {
	Status Status `json:"status"`
	Winner Mark   `json:"winner,omitempty"`
	Line   []Cell `json:"line,omitempty"`
}

// IsTerminal reports whether the game has ended.
func (that Outcome) IsTerminal() bool {
	return that.Status == StatusDraw || that.Status == StatusWon
}

// WinLines - every row, column and diagonal in scan order:
// rows top to bottom, columns left to right, main then anti diagonal.
// The first completed line found in this order is reported as the winning one.
var WinLines = [8][3]Cell{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

type GameState struct {
	Board   [NumRows][NumCols]Mark `json:"board"`
	Turn    Mark                   `json:"turn"`
	Outcome Outcome                `json:"outcome"`
}

// NewGameState - creates an empty board with X to move.
func NewGameState() *GameState {
	return NewGameStateWithOpening(PlayerX)
}

// NewGameStateWithOpening - creates an empty board where the given player opens.
func NewGameStateWithOpening(opening Mark) *GameState {
	if !opening.IsPlayer() {
		panic(fmt.Errorf("%w: %q", apperror.ErrInvalidMark, opening))
	}

	return &GameState{
		Turn:    opening,
		Outcome: Outcome{Status: StatusInProgress},
	}
}

// ApplyMove - places the current player's mark on (row, col), passes the turn and
// re-evaluates the outcome. Out-of-range coordinates are a caller bug and panic.
func (that *GameState) ApplyMove(row, col int) (MoveRecord, error) {
	if err := ValidateCell(row, col); err != nil {
		panic(err)
	}

	if that.Outcome.IsTerminal() {
		return MoveRecord{}, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, apperror.ErrGameFinished)
	}

	if that.Board[row][col] != EmptyCell {
		return MoveRecord{}, fmt.Errorf("%w: %w: (%d, %d)", apperror.ErrInvalidMove, apperror.ErrCellOccupied, row, col)
	}

	player := that.Turn
	that.Board[row][col] = player
	that.Turn = Opponent(player)
	that.EvaluateOutcome()

	return MoveRecord{
		Player:  player,
		Row:     row,
		Col:     col,
		Outcome: that.Outcome.clone(),
	}, nil
}

// UndoMove - reverts the last successful ApplyMove on (row, col).
func (that *GameState) UndoMove(row, col int) {
	if err := ValidateCell(row, col); err != nil {
		panic(err)
	}

	mover := Opponent(that.Turn)
	if that.Board[row][col] != mover {
		panic(fmt.Sprintf("undo of (%d, %d): cell holds %q, last mover was %q", row, col, that.Board[row][col], mover))
	}

	that.Board[row][col] = EmptyCell
	that.Turn = mover
	that.EvaluateOutcome()
}

// EvaluateOutcome - recomputes the outcome from the board.
func (that *GameState) EvaluateOutcome() {
	for _, line := range WinLines {
		a := that.Board[line[0].Row][line[0].Col]
		b := that.Board[line[1].Row][line[1].Col]
		c := that.Board[line[2].Row][line[2].Col]

		if a != EmptyCell && a == b && b == c {
			that.Outcome = Outcome{
				Status: StatusWon,
				Winner: a,
				Line:   []Cell{line[0], line[1], line[2]},
			}
			return
		}
	}

	// the game continues while any cell is free
	if that.Occupied() < NumRows*NumCols {
		that.Outcome = Outcome{Status: StatusInProgress}
		return
	}

	that.Outcome = Outcome{Status: StatusDraw}
}

// IsTerminal reports whether no further move can be applied.
func (that *GameState) IsTerminal() bool {
	return that.Outcome.IsTerminal()
}

// Occupied - returns how many cells hold a mark.
func (that *GameState) Occupied() int {
	count := 0
	for row := range NumRows {
		for col := range NumCols {
			if that.Board[row][col] != EmptyCell {
				count++
			}
		}
	}

	return count
}

// LegalMoves - returns the empty cells in row-major order, or nothing once the game is over.
func (that *GameState) LegalMoves() []Cell {
	if that.IsTerminal() {
		return nil
	}

	moves := make([]Cell, 0, NumRows*NumCols)
	for row := range NumRows {
		for col := range NumCols {
			if that.Board[row][col] == EmptyCell {
				moves = append(moves, Cell{Row: row, Col: col})
			}
		}
	}

	return moves
}

// Clone - returns a deep copy sharing no mutable data with the receiver.
func (that *GameState) Clone() *GameState {
	return &GameState{
		Board:   that.Board,
		Turn:    that.Turn,
		Outcome: that.Outcome.clone(),
	}
}

func (that Outcome) clone() Outcome {
	if that.Line != nil {
		that.Line = append([]Cell(nil), that.Line...)
	}
	return that
}

package entity

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedBoard = errors.New("malformed board")

// ParseBoard - builds a state from three rows such as "XO.", where '.' marks an
// empty cell, with turn to move. The outcome is evaluated from the board.
func ParseBoard(turn Mark, rows ...string) (*GameState, error) {
	if !turn.IsPlayer() {
		return nil, fmt.Errorf("%w: turn %q", ErrMalformedBoard, turn)
	}

	if len(rows) != NumRows {
		return nil, fmt.Errorf("%w: want %d rows, got %d", ErrMalformedBoard, NumRows, len(rows))
	}

	state := NewGameStateWithOpening(turn)
	for row, line := range rows {
		if len(line) != NumCols {
			return nil, fmt.Errorf("%w: row %d has %d cells", ErrMalformedBoard, row, len(line))
		}

		for col, ch := range line {
			switch ch {
			case 'X', 'x':
				state.Board[row][col] = PlayerX
			case 'O', 'o':
				state.Board[row][col] = PlayerO
			case '.', '_', ' ':
				state.Board[row][col] = EmptyCell
			default:
				return nil, fmt.Errorf("%w: unexpected %q at (%d, %d)", ErrMalformedBoard, ch, row, col)
			}
		}
	}

	state.EvaluateOutcome()

	return state, nil
}

// MustParseBoard - like ParseBoard but panics on malformed input.
func MustParseBoard(turn Mark, rows ...string) *GameState {
	state, err := ParseBoard(turn, rows...)
	if err != nil {
		panic(err)
	}

	return state
}

// String renders the board in the ParseBoard format, one row per line.
func (that *GameState) String() string {
	var sb strings.Builder
	for row := range NumRows {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := range NumCols {
			switch that.Board[row][col] {
			case PlayerX:
				sb.WriteByte('X')
			case PlayerO:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
	}

	return sb.String()
}

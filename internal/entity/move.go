package entity

import "fmt"

// Score is the game-theoretic value of a position for one player under optimal play.
type Score int

const (
	ScoreLoss Score = -1
	ScoreDraw Score = 0
	ScoreWin  Score = 1
)

func (that Score) String() string {
	switch that {
	case ScoreWin:
		return "win"
	case ScoreDraw:
		return "draw"
	case ScoreLoss:
		return "loss"
	default:
		return fmt.Sprintf("score(%d)", int(that))
	}
}

func (that Score) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Score) UnmarshalText(text []byte) error {
	switch string(text) {
	case "win":
		*that = ScoreWin
	case "draw":
		*that = ScoreDraw
	case "loss":
		*that = ScoreLoss
	default:
		return fmt.Errorf("unknown score %q", text)
	}

	return nil
}

// Move is a target cell, optionally with the score the search attached to it.
type Move struct {
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Score *Score `json:"score,omitempty"`
}

// MoveRecord describes an applied or recommended move and the outcome after it.
type MoveRecord struct {
	Player  Mark    `json:"player"`
	Row     int     `json:"row"`
	Col     int     `json:"col"`
	Outcome Outcome `json:"outcome"`
	Score   *Score  `json:"score,omitempty"`
}

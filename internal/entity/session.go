package entity

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
)

type Mode string

const (
	ModeTwoPlayers Mode = "pvp"
	ModeBot        Mode = "bot"
)

// ParseMode - converts a raw mode string; an empty string means two players.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeTwoPlayers, "":
		return ModeTwoPlayers, nil
	case ModeBot:
		return ModeBot, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrUnknownGameMode, raw)
	}
}

// Session is one game owned by its callers, replacing a process-wide game instance.
type Session struct {
	ID        string       `json:"id"`
	Mode      Mode         `json:"mode"`
	State     *GameState   `json:"state"`
	BotMark   Mark         `json:"bot_mark,omitempty"`
	Moves     []MoveRecord `json:"moves,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

func NewSession(id string, mode Mode, opening Mark) *Session {
	return &Session{
		ID:        id,
		Mode:      mode,
		State:     NewGameStateWithOpening(opening),
		CreatedAt: time.Now().UTC(),
	}
}

func (that *Session) IsWithBot() bool {
	return that.Mode == ModeBot
}

// IsBotTurn reports whether the bot should move next.
func (that *Session) IsBotTurn() bool {
	return that.IsWithBot() && !that.State.IsTerminal() && that.State.Turn == that.BotMark
}

// Record - appends an applied move to the session history.
func (that *Session) Record(record MoveRecord) {
	that.Moves = append(that.Moves, record)
}

package service

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

var ErrNotBotTurn = errors.New("it's not the bot's turn")

type searcher interface {
	FindBestMove(state *entity.GameState, player entity.Mark) (entity.MoveRecord, error)
}

type BotService interface {
	MakeTurn(session *entity.Session) (entity.MoveRecord, error)
}

type botService struct {
	searcher searcher
}

func NewBotService(searcher searcher) BotService {
	return &botService{
		searcher: searcher,
	}
}

// MakeTurn - plays the optimal move for the bot and records it in the session.
func (that *botService) MakeTurn(session *entity.Session) (entity.MoveRecord, error) {
	if !session.IsBotTurn() {
		return entity.MoveRecord{}, ErrNotBotTurn
	}

	best, err := that.searcher.FindBestMove(session.State, session.BotMark)
	if err != nil {
		return entity.MoveRecord{}, fmt.Errorf("failed to find bot move: %w", err)
	}

	record, err := session.State.ApplyMove(best.Row, best.Col)
	if err != nil {
		return entity.MoveRecord{}, fmt.Errorf("bot failed to make turn: %w", err)
	}

	record.Score = best.Score
	session.Record(record)

	return record, nil
}

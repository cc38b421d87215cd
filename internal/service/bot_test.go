package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/minimax"
)

func TestBotService_MakeTurn(t *testing.T) {
	bot := NewBotService(minimax.New())

	t.Run("Bot opens the game", func(t *testing.T) {
		// Given: a bot game where the bot has the first move
		session := entity.NewSession("1", entity.ModeBot, entity.PlayerX)
		session.BotMark = entity.PlayerX

		// When: the bot plays
		record, err := bot.MakeTurn(session)
		require.NoError(t, err)

		// Then: it takes the first cell that keeps the draw and records it
		assert.Equal(t, entity.PlayerX, record.Player)
		assert.Equal(t, entity.Cell{Row: 0, Col: 0}, entity.Cell{Row: record.Row, Col: record.Col})
		assert.Equal(t, entity.ScoreDraw, *record.Score)
		assert.Equal(t, []entity.MoveRecord{record}, session.Moves)
		assert.Equal(t, entity.PlayerO, session.State.Turn)
	})

	t.Run("Bot answers a corner with the center", func(t *testing.T) {
		session := entity.NewSession("1", entity.ModeBot, entity.PlayerX)
		session.BotMark = entity.PlayerO
		_, err := session.State.ApplyMove(0, 0)
		require.NoError(t, err)

		record, err := bot.MakeTurn(session)
		require.NoError(t, err)

		assert.Equal(t, 1, record.Row)
		assert.Equal(t, 1, record.Col)
		assert.Equal(t, entity.ScoreDraw, *record.Score)
	})

	t.Run("Bot takes a winning move", func(t *testing.T) {
		session := entity.NewSession("1", entity.ModeBot, entity.PlayerX)
		session.BotMark = entity.PlayerX
		session.State = entity.MustParseBoard(entity.PlayerX, "XX.", "OO.", "...")

		record, err := bot.MakeTurn(session)
		require.NoError(t, err)

		assert.Equal(t, entity.StatusWon, record.Outcome.Status)
		assert.Equal(t, entity.PlayerX, session.State.Outcome.Winner)
		assert.Equal(t, entity.ScoreWin, *record.Score)
	})

	t.Run("Error when it is not the bot's turn", func(t *testing.T) {
		session := entity.NewSession("1", entity.ModeBot, entity.PlayerX)
		session.BotMark = entity.PlayerO

		_, err := bot.MakeTurn(session)

		require.ErrorIs(t, err, ErrNotBotTurn)
		assert.Empty(t, session.Moves)
	})

	t.Run("Error in a two players game", func(t *testing.T) {
		session := entity.NewSession("1", entity.ModeTwoPlayers, entity.PlayerX)

		_, err := bot.MakeTurn(session)

		require.ErrorIs(t, err, ErrNotBotTurn)
	})
}

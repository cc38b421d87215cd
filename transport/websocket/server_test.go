package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/service"
)

func newTestServer(t *testing.T) string {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	searcher := minimax.New(minimax.WithLogger(logger))
	gamePlay := service.NewGamePlayService(
		logger,
		service.NewGameService(repository.NewMemorySessionRepository()),
		service.NewBotService(searcher),
		searcher,
	)

	srv := httptest.NewServer(New(logger, gamePlay, entity.PlayerX).Router())
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = resp.Body.Close()
		_ = conn.Close()
	})

	return conn
}

func send(t *testing.T, conn *websocket.Conn, action string, payload Payload) {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Message{Action: action, Payload: raw}))
}

func receive(t *testing.T, conn *websocket.Conn) (string, Payload) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))

	var payload Payload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))

	return msg.Action, payload
}

func newGame(t *testing.T, conn *websocket.Conn, req Payload) *entity.Session {
	t.Helper()

	send(t, conn, actionGameNew, req)

	action, resp := receive(t, conn)
	require.Equal(t, actionGameNew, action)
	require.Empty(t, resp.Error)
	require.NotNil(t, resp.Game)

	return resp.Game
}

func TestNewGame(t *testing.T) {
	t.Run("Two players game", func(t *testing.T) {
		conn := dial(t, newTestServer(t))

		game := newGame(t, conn, Payload{})

		assert.Equal(t, entity.ModeTwoPlayers, game.Mode)
		assert.Equal(t, entity.PlayerX, game.State.Turn)
	})

	t.Run("Bot opens for a human playing O", func(t *testing.T) {
		conn := dial(t, newTestServer(t))

		game := newGame(t, conn, Payload{Mode: entity.ModeBot, Mark: entity.PlayerO})

		require.Len(t, game.Moves, 1)
		assert.Equal(t, entity.PlayerX, game.State.Board[0][0])
	})

	t.Run("Unknown mode", func(t *testing.T) {
		conn := dial(t, newTestServer(t))

		send(t, conn, actionGameNew, Payload{Mode: "arcade"})
		_, resp := receive(t, conn)

		assert.Contains(t, resp.Error, "unknown game mode")
	})
}

func TestGameTurn_BroadcastsToSubscribers(t *testing.T) {
	// Given: one client creates a game and another one follows it
	url := newTestServer(t)
	first := dial(t, url)
	second := dial(t, url)

	game := newGame(t, first, Payload{})

	send(t, second, actionGameGet, Payload{GameID: game.ID})
	action, resp := receive(t, second)
	require.Equal(t, actionGameGet, action)
	require.Empty(t, resp.Error)

	// When: the first client plays
	send(t, first, actionGameTurn, Payload{GameID: game.ID, Cell: &entity.Cell{Row: 1, Col: 1}})

	// Then: both clients receive the same update
	for _, conn := range []*websocket.Conn{first, second} {
		action, resp = receive(t, conn)
		require.Equal(t, actionGameTurn, action)
		require.Empty(t, resp.Error)
		require.Len(t, resp.Moves, 1)
		assert.Equal(t, entity.PlayerX, resp.Game.State.Board[1][1])
		assert.Equal(t, entity.PlayerO, resp.Game.State.Turn)
	}

	// And: the second client plays the next move
	send(t, second, actionGameTurn, Payload{GameID: game.ID, Cell: &entity.Cell{Row: 0, Col: 0}})

	_, resp = receive(t, first)
	require.Len(t, resp.Moves, 1)
	assert.Equal(t, entity.PlayerO, resp.Moves[0].Player)
}

func TestGameTurn_BotReplies(t *testing.T) {
	conn := dial(t, newTestServer(t))
	game := newGame(t, conn, Payload{Mode: entity.ModeBot})

	send(t, conn, actionGameTurn, Payload{GameID: game.ID, Cell: &entity.Cell{Row: 0, Col: 0}})
	_, resp := receive(t, conn)

	require.Empty(t, resp.Error)
	require.Len(t, resp.Moves, 2)
	assert.Equal(t, entity.Cell{Row: 1, Col: 1}, entity.Cell{Row: resp.Moves[1].Row, Col: resp.Moves[1].Col})
}

func TestGameTurn_Errors(t *testing.T) {
	url := newTestServer(t)
	conn := dial(t, url)
	game := newGame(t, conn, Payload{})

	tests := []struct {
		name    string
		payload Payload
		want    string
	}{
		{"missing game", Payload{Cell: &entity.Cell{}}, errGameIDRequired.Error()},
		{"missing cell", Payload{GameID: game.ID}, errCellRequired.Error()},
		{"unknown game", Payload{GameID: "missing", Cell: &entity.Cell{}}, repository.ErrSessionNotFound.Error()},
		{"out of range", Payload{GameID: game.ID, Cell: &entity.Cell{Row: 0, Col: 5}}, "out of range"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			send(t, conn, actionGameTurn, tc.payload)

			action, resp := receive(t, conn)

			assert.Equal(t, actionGameTurn, action)
			assert.Contains(t, resp.Error, tc.want)
		})
	}
}

func TestGameHint(t *testing.T) {
	// Given: X can complete the top row
	conn := dial(t, newTestServer(t))
	game := newGame(t, conn, Payload{})

	for _, cell := range []entity.Cell{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 1}} {
		send(t, conn, actionGameTurn, Payload{GameID: game.ID, Cell: &cell})
		_, resp := receive(t, conn)
		require.Empty(t, resp.Error)
	}

	// When: asking for a hint
	send(t, conn, actionGameHint, Payload{GameID: game.ID})
	action, resp := receive(t, conn)

	// Then: the winning cell is suggested
	require.Equal(t, actionGameHint, action)
	require.NotNil(t, resp.Hint)
	assert.Equal(t, 0, resp.Hint.Row)
	assert.Equal(t, 2, resp.Hint.Col)
	assert.Equal(t, entity.ScoreWin, *resp.Hint.Score)
}

func TestGameLeave(t *testing.T) {
	// Given: two clients follow the same game
	url := newTestServer(t)
	first := dial(t, url)
	second := dial(t, url)

	game := newGame(t, first, Payload{})
	send(t, second, actionGameGet, Payload{GameID: game.ID})
	_, _ = receive(t, second)

	// When: the first client leaves
	send(t, first, actionGameLeave, Payload{GameID: game.ID})

	// Then: both are told and the game is gone
	for _, conn := range []*websocket.Conn{first, second} {
		action, resp := receive(t, conn)
		assert.Equal(t, actionGameLeave, action)
		assert.Equal(t, game.ID, resp.GameID)
	}

	send(t, second, actionGameGet, Payload{GameID: game.ID})
	_, resp := receive(t, second)
	assert.Contains(t, resp.Error, repository.ErrSessionNotFound.Error())
}

func TestUnexpectedMessages(t *testing.T) {
	conn := dial(t, newTestServer(t))

	t.Run("Unknown action", func(t *testing.T) {
		send(t, conn, "game:join", Payload{})

		action, resp := receive(t, conn)

		assert.Equal(t, "game:join", action)
		assert.Contains(t, resp.Error, errUnknownAction.Error())
	})

	t.Run("Malformed message", func(t *testing.T) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

		_, resp := receive(t, conn)

		assert.Equal(t, errMalformedMessage.Error(), resp.Error)
	})

	t.Run("Connection keeps working afterwards", func(t *testing.T) {
		game := newGame(t, conn, Payload{})

		assert.NotEmpty(t, game.ID)
	})
}

func TestOversizedMessageClosesConnection(t *testing.T) {
	// Given: a connected client
	conn := dial(t, newTestServer(t))

	// When: it sends a message above the read limit
	payload := `{"action":"game:new","payload":{"padding":"` + strings.Repeat("x", 2*maxMessageBytes) + `"}}`
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))

	// Then: the server closes the connection as too big
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()

	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseMessageTooBig), "got %v", err)
}

package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository"
)

const (
	actionGameNew   = "game:new"
	actionGameGet   = "game:get"
	actionGameTurn  = "game:turn"
	actionGameHint  = "game:hint"
	actionGameLeave = "game:leave"
)

var (
	errMalformedMessage = errors.New("malformed message")
	errUnknownAction    = errors.New("unknown action")
	errGameIDRequired   = errors.New("game_id is required")
	errCellRequired     = errors.New("cell is required")
	errInternal         = errors.New("internal error")
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is shared by requests and responses; each action reads the fields it needs.
type Payload struct {
	GameID  string       `json:"game_id,omitempty"`
	Mode    entity.Mode  `json:"mode,omitempty"`
	Opening entity.Mark  `json:"opening,omitempty"`
	Mark    entity.Mark  `json:"mark,omitempty"`
	Cell    *entity.Cell `json:"cell,omitempty"`

	Game  *entity.Session     `json:"game,omitempty"`
	Moves []entity.MoveRecord `json:"moves,omitempty"`
	Hint  *entity.MoveRecord  `json:"hint,omitempty"`
	Error string              `json:"error,omitempty"`
}

// client serializes writes, since a gorilla connection allows one writer at a time.
type client struct {
	conn       *websocket.Conn
	writeMutex sync.Mutex
}

func (that *client) writeJSON(v any) error {
	that.writeMutex.Lock()
	defer that.writeMutex.Unlock()

	if err := that.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.conn.WriteJSON(v); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendMessage(c *client, action string, payload Payload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	return c.writeJSON(Message{Action: action, Payload: raw})
}

func (that *Server) sendError(c *client, action string, err error) error {
	if sendErr := that.sendMessage(c, action, Payload{Error: publicError(err).Error()}); sendErr != nil {
		return fmt.Errorf("failed to send error response: %w", sendErr)
	}

	return nil
}

// publicError - hides errors that are not caused by the request itself.
func publicError(err error) error {
	known := []error{
		errMalformedMessage,
		errUnknownAction,
		errGameIDRequired,
		errCellRequired,
		repository.ErrSessionNotFound,
		apperror.ErrInvalidMove,
		apperror.ErrGameFinished,
		apperror.ErrNotYourTurn,
		apperror.ErrOutOfRange,
		apperror.ErrUnknownGameMode,
		apperror.ErrInvalidMark,
	}

	for _, target := range known {
		if errors.Is(err, target) {
			return err
		}
	}

	return errInternal
}

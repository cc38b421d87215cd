package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/service"
)

func decodePayload(msg *Message) (Payload, error) {
	var payload Payload
	if len(msg.Payload) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("%w: %w", errMalformedMessage, err)
	}

	return payload, nil
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleNewGame")

	req, err := decodePayload(msg)
	if err != nil {
		return that.sendError(c, msg.Action, err)
	}

	if req.Opening == "" {
		req.Opening = that.opening
	}

	session, err := that.gamePlay.NewGame(ctx, service.NewGameOptions{
		Mode:      req.Mode,
		Opening:   req.Opening,
		HumanMark: req.Mark,
	})
	if err != nil {
		log.Warn("failed to create game", "error", err)
		return that.sendError(c, msg.Action, err)
	}

	that.subscribe(session.ID, c)

	log.Info("game created", "gameID", session.ID, "mode", session.Mode)

	return that.sendMessage(c, msg.Action, Payload{GameID: session.ID, Game: session, Moves: session.Moves})
}

// handleGetGame - returns the game and subscribes the client to its updates.
func (that *Server) handleGetGame(ctx context.Context, msg *Message, c *client) error {
	req, err := decodePayload(msg)
	if err != nil {
		return that.sendError(c, msg.Action, err)
	}

	if req.GameID == "" {
		return that.sendError(c, msg.Action, errGameIDRequired)
	}

	session, err := that.gamePlay.GetGame(ctx, req.GameID)
	if err != nil {
		return that.sendError(c, msg.Action, err)
	}

	that.subscribe(session.ID, c)

	return that.sendMessage(c, msg.Action, Payload{GameID: session.ID, Game: session})
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleGameTurn")

	req, err := decodePayload(msg)
	if err != nil {
		return that.sendError(c, msg.Action, err)
	}

	if req.GameID == "" {
		return that.sendError(c, msg.Action, errGameIDRequired)
	}

	if req.Cell == nil {
		return that.sendError(c, msg.Action, errCellRequired)
	}

	session, records, err := that.gamePlay.MakeTurn(ctx, req.GameID, req.Cell.Row, req.Cell.Col)
	if err != nil {
		log.Warn("failed to make turn", "gameID", req.GameID, "error", err)
		return that.sendError(c, msg.Action, err)
	}

	// the mover follows the game from now on even if it never asked for it
	that.subscribe(session.ID, c)

	that.broadcast(that.subscribersOf(session.ID), msg.Action, Payload{
		GameID: session.ID,
		Game:   session,
		Moves:  records,
	})

	return nil
}

func (that *Server) handleGameHint(ctx context.Context, msg *Message, c *client) error {
	req, err := decodePayload(msg)
	if err != nil {
		return that.sendError(c, msg.Action, err)
	}

	if req.GameID == "" {
		return that.sendError(c, msg.Action, errGameIDRequired)
	}

	record, err := that.gamePlay.Hint(ctx, req.GameID)
	if err != nil {
		return that.sendError(c, msg.Action, err)
	}

	return that.sendMessage(c, msg.Action, Payload{GameID: req.GameID, Hint: &record})
}

// handleGameLeave - deletes the game and tells everyone who followed it.
func (that *Server) handleGameLeave(ctx context.Context, msg *Message, c *client) error {
	req, err := decodePayload(msg)
	if err != nil {
		return that.sendError(c, msg.Action, err)
	}

	if req.GameID == "" {
		return that.sendError(c, msg.Action, errGameIDRequired)
	}

	if err = that.gamePlay.LeaveGame(ctx, req.GameID); err != nil {
		return that.sendError(c, msg.Action, err)
	}

	clients := that.popSubscribers(req.GameID)

	if !slices.Contains(clients, c) {
		clients = append(clients, c)
	}

	that.broadcast(clients, msg.Action, Payload{GameID: req.GameID})

	that.logger.Info("game left", "gameID", req.GameID)

	return nil
}

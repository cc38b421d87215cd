package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

type NewGameOptions struct {
	Mode entity.Mode
	// Opening is the mark that moves first.
	Opening entity.Mark
	// HumanMark is the side the caller plays in bot mode.
	HumanMark entity.Mark
}

type GamePlayService interface {
	NewGame(ctx context.Context, opts NewGameOptions) (*entity.Session, error)
	GetGame(ctx context.Context, id string) (*entity.Session, error)
	LeaveGame(ctx context.Context, id string) error

	MakeTurn(ctx context.Context, id string, row, col int) (*entity.Session, []entity.MoveRecord, error)
	Hint(ctx context.Context, id string) (entity.MoveRecord, error)
}

type gamePlayService struct {
	logger *slog.Logger

	gameService GameService
	botService  BotService
	searcher    searcher

	locks *gameLocks
}

func NewGamePlayService(logger *slog.Logger, gameService GameService, botService BotService, searcher searcher) GamePlayService {
	return &gamePlayService{
		logger:      logger.With("component", "gameplay"),
		gameService: gameService,
		botService:  botService,
		searcher:    searcher,
		locks:       newGameLocks(),
	}
}

func (that *gamePlayService) NewGame(ctx context.Context, opts NewGameOptions) (*entity.Session, error) {
	mode, err := entity.ParseMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}

	if opts.Opening == entity.EmptyCell {
		opts.Opening = entity.PlayerX
	}

	if opts.HumanMark == entity.EmptyCell {
		opts.HumanMark = entity.PlayerX
	}

	if !opts.Opening.IsPlayer() || !opts.HumanMark.IsPlayer() {
		return nil, apperror.ErrInvalidMark
	}

	var botMark entity.Mark
	if mode == entity.ModeBot {
		botMark = entity.Opponent(opts.HumanMark)
	}

	session, err := that.gameService.CreateGame(ctx, mode, opts.Opening, botMark)
	if err != nil {
		return nil, fmt.Errorf("failed to create new game: %w", err)
	}

	if !session.IsBotTurn() {
		return session, nil
	}

	if _, err = that.botService.MakeTurn(session); err != nil {
		if deleteErr := that.gameService.DeleteGame(ctx, session.ID); deleteErr != nil {
			that.logger.Error("failed to drop game after bot error", "gameID", session.ID, "error", deleteErr)
		}

		return nil, fmt.Errorf("bot failed to make first turn: %w", err)
	}

	if err = that.gameService.UpdateGame(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update game with bot: %w", err)
	}

	return session, nil
}

func (that *gamePlayService) GetGame(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.gameService.GetGameByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return session, nil
}

// MakeTurn - applies the move of the player to move and, against the bot, the
// bot's reply. Returns the records applied by this call.
func (that *gamePlayService) MakeTurn(ctx context.Context, id string, row, col int) (*entity.Session, []entity.MoveRecord, error) {
	log := that.logger.With("method", "MakeTurn", "gameID", id)

	if err := entity.ValidateCell(row, col); err != nil {
		return nil, nil, err
	}

	unlock := that.locks.lock(id)
	defer unlock()

	session, err := that.gameService.GetGameByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if session.IsBotTurn() {
		return session, nil, apperror.ErrNotYourTurn
	}

	record, err := session.State.ApplyMove(row, col)
	if err != nil {
		return session, nil, fmt.Errorf("failed to make turn: %w", err)
	}
	session.Record(record)

	records := []entity.MoveRecord{record}

	if session.IsBotTurn() {
		botRecord, botErr := that.botService.MakeTurn(session)
		if botErr != nil {
			return nil, nil, fmt.Errorf("bot failed to make turn: %w", botErr)
		}

		records = append(records, botRecord)
	}

	if err = that.gameService.UpdateGame(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("failed to update game: %w", err)
	}

	if session.State.IsTerminal() {
		log.Info("game finished", "status", session.State.Outcome.Status, "winner", session.State.Outcome.Winner)
	}

	return session, records, nil
}

// Hint - recommends a move for the side to move without changing the game.
func (that *gamePlayService) Hint(ctx context.Context, id string) (entity.MoveRecord, error) {
	unlock := that.locks.lock(id)
	defer unlock()

	session, err := that.gameService.GetGameByID(ctx, id)
	if err != nil {
		return entity.MoveRecord{}, fmt.Errorf("failed to get game by id: %w", err)
	}

	record, err := that.searcher.FindBestMove(session.State, session.State.Turn)
	if err != nil {
		return entity.MoveRecord{}, fmt.Errorf("failed to find best move: %w", err)
	}

	return record, nil
}

func (that *gamePlayService) LeaveGame(ctx context.Context, id string) error {
	unlock := that.locks.lock(id)
	defer unlock()

	if err := that.gameService.DeleteGame(ctx, id); err != nil {
		return fmt.Errorf("failed to leave game: %w", err)
	}

	that.logger.Info("game deleted", "gameID", id)

	return nil
}

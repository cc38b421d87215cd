package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

type GameService interface {
	CreateGame(ctx context.Context, mode entity.Mode, opening, botMark entity.Mark) (*entity.Session, error)
	UpdateGame(ctx context.Context, session *entity.Session) error
	DeleteGame(ctx context.Context, id string) error

	GetGameByID(ctx context.Context, id string) (*entity.Session, error)
}

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type gameService struct {
	sessionRepo sessionRepo
}

func NewGameService(sessionRepo sessionRepo) GameService {
	return &gameService{
		sessionRepo: sessionRepo,
	}
}

// CreateGame - stores a new session; botMark is empty unless the game is against the bot.
func (that *gameService) CreateGame(ctx context.Context, mode entity.Mode, opening, botMark entity.Mark) (*entity.Session, error) {
	session := entity.NewSession(uuid.NewString(), mode, opening)
	session.BotMark = botMark

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	return session, nil
}

func (that *gameService) UpdateGame(ctx context.Context, session *entity.Session) error {
	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

func (that *gameService) DeleteGame(ctx context.Context, id string) error {
	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}

func (that *gameService) GetGameByID(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return session, nil
}

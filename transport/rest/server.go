package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/service"
)

const shutdownTimeout = 5 * time.Second

type gamePlay interface {
	NewGame(ctx context.Context, opts service.NewGameOptions) (*entity.Session, error)
	GetGame(ctx context.Context, id string) (*entity.Session, error)
	LeaveGame(ctx context.Context, id string) error

	MakeTurn(ctx context.Context, id string, row, col int) (*entity.Session, []entity.MoveRecord, error)
	Hint(ctx context.Context, id string) (entity.MoveRecord, error)
}

type Server struct {
	logger   *slog.Logger
	gamePlay gamePlay
	opening  entity.Mark
}

// New - creates the REST API; opening is the mark that moves first when a client does not choose.
func New(logger *slog.Logger, gamePlay gamePlay, opening entity.Mark) *Server {
	return &Server{
		logger:   logger.With("component", "rest"),
		gamePlay: gamePlay,
		opening:  opening,
	}
}

// Router - wires routes and returns an http.Handler.
func (that *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/ping", pingHandler)

	r.Route("/games", func(r chi.Router) {
		r.Post("/", that.createGame)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", that.getGame)
			r.Delete("/", that.deleteGame)
			r.Post("/moves", that.makeTurn)
			r.Get("/hint", that.hint)
		})
	})

	return r
}

// Start - serves the API until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

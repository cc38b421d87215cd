package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/service"
)

const (
	shutdownTimeout = 5 * time.Second
	writeTimeout    = 10 * time.Second

	// maxMessageBytes caps incoming messages; larger ones close the connection.
	maxMessageBytes = 4 << 10
)

type gamePlay interface {
	NewGame(ctx context.Context, opts service.NewGameOptions) (*entity.Session, error)
	GetGame(ctx context.Context, id string) (*entity.Session, error)
	LeaveGame(ctx context.Context, id string) error

	MakeTurn(ctx context.Context, id string, row, col int) (*entity.Session, []entity.MoveRecord, error)
	Hint(ctx context.Context, id string) (entity.MoveRecord, error)
}

type handlerFunc func(ctx context.Context, msg *Message, c *client) error

type Server struct {
	logger   *slog.Logger
	gamePlay gamePlay
	opening  entity.Mark

	upgrader websocket.Upgrader
	handlers map[string]handlerFunc

	// connections holds every open client, subscribers those following each game.
	connections      map[*client]struct{}
	subscribers      map[string]map[*client]struct{}
	subscribersMutex sync.RWMutex
}

func New(logger *slog.Logger, gamePlay gamePlay, opening entity.Mark) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		gamePlay: gamePlay,
		opening:  opening,

		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		handlers:    make(map[string]handlerFunc),
		connections: make(map[*client]struct{}),
		subscribers: make(map[string]map[*client]struct{}),
	}

	server.handlers[actionGameNew] = server.handleNewGame
	server.handlers[actionGameGet] = server.handleGetGame
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameHint] = server.handleGameHint
	server.handlers[actionGameLeave] = server.handleGameLeave

	return server
}

// Router - exposes the upgrade endpoint on /ws.
func (that *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/ws", that.serveWS)

	return r
}

// Start - starts WebSocket server and stops it when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Router(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	// hijacked connections are not tracked by the http server
	srv.RegisterOnShutdown(that.closeAll)

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

func (that *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn.SetReadLimit(maxMessageBytes)

	c := &client{conn: conn}
	that.register(c)

	defer func() {
		that.unregister(c)
		_ = conn.Close()
	}()

	log.Info("WebSocket connection established", "remote", r.RemoteAddr)

	if err = that.handleMessages(r.Context(), c); err != nil {
		log.Debug("connection closed", "error", err)
	}
}

// handleMessages - processes messages from the client until the connection drops.
func (that *Server) handleMessages(ctx context.Context, c *client) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			if err = that.sendError(c, "", errMalformedMessage); err != nil {
				return err
			}
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			if err = that.sendError(c, message.Action, fmt.Errorf("%w: %q", errUnknownAction, message.Action)); err != nil {
				return err
			}
			continue
		}

		if err = handler(ctx, &message, c); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

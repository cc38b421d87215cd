package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/service"
)

// maxBodyBytes caps request bodies; every request here fits in a few dozen bytes.
const maxBodyBytes = 4 << 10

var errBadRequest = errors.New("bad request")

type newGameRequest struct {
	Mode    entity.Mode `json:"mode"`
	Opening entity.Mark `json:"opening"`
	Mark    entity.Mark `json:"mark"`
}

type turnRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type response struct {
	Game  *entity.Session     `json:"game,omitempty"`
	Moves []entity.MoveRecord `json:"moves,omitempty"`
	Hint  *entity.MoveRecord  `json:"hint,omitempty"`
	Error string              `json:"error,omitempty"`
}

func (that *Server) createGame(w http.ResponseWriter, r *http.Request) {
	var req newGameRequest
	if err := decodeBody(w, r, &req); err != nil {
		that.writeError(w, r, err)
		return
	}

	if req.Opening == entity.EmptyCell {
		req.Opening = that.opening
	}

	session, err := that.gamePlay.NewGame(r.Context(), service.NewGameOptions{
		Mode:      req.Mode,
		Opening:   req.Opening,
		HumanMark: req.Mark,
	})
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Game: session, Moves: session.Moves})
}

func (that *Server) getGame(w http.ResponseWriter, r *http.Request) {
	session, err := that.gamePlay.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Game: session})
}

func (that *Server) deleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.gamePlay.LeaveGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) makeTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := decodeBody(w, r, &req); err != nil {
		that.writeError(w, r, err)
		return
	}

	if req.Row == nil || req.Col == nil {
		that.writeError(w, r, fmt.Errorf("%w: row and col are required", errBadRequest))
		return
	}

	session, records, err := that.gamePlay.MakeTurn(r.Context(), chi.URLParam(r, "id"), *req.Row, *req.Col)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Game: session, Moves: records})
}

func (that *Server) hint(w http.ResponseWriter, r *http.Request) {
	record, err := that.gamePlay.Hint(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Hint: &record})
}

// decodeBody - reads a JSON body of at most maxBodyBytes; an empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}

	return fmt.Errorf("%w: %w", errBadRequest, err)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

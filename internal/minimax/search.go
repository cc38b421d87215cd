package minimax

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

// Result is the value of a position for the target player and, unless the
// position is a leaf, the move that achieves it.
type Result struct {
	Move  *entity.Move
	Value entity.Score
	Nodes int64
}

type Option func(*Searcher)

// WithParallel - evaluates the top-level children on separate goroutines.
func WithParallel(parallel bool) Option {
	return func(that *Searcher) {
		that.parallel = parallel
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(that *Searcher) {
		that.logger = logger
	}
}

// Searcher runs an exhaustive minimax search over the full game tree.
// It holds no per-search state and is safe for concurrent use.
type Searcher struct {
	logger   *slog.Logger
	parallel bool
}

func New(opts ...Option) *Searcher {
	searcher := &Searcher{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(searcher)
	}

	return searcher
}

var defaultSearcher = New()

// Search - evaluates state with the default sequential searcher.
func Search(state *entity.GameState, maximizing bool) Result {
	return defaultSearcher.Search(state, maximizing)
}

// FindBestMove - recommends a move for player with the default searcher.
func FindBestMove(state *entity.GameState, player entity.Mark) (entity.MoveRecord, error) {
	return defaultSearcher.FindBestMove(state, player)
}

// Search - returns the minimax value of state and the move reaching it.
// When maximizing, the value is scored for the player to move, otherwise for
// its opponent. Ties keep the first child in row-major order. The given state
// is never modified.
func (that *Searcher) Search(state *entity.GameState, maximizing bool) Result {
	target := state.Turn
	if !maximizing {
		target = entity.Opponent(state.Turn)
	}

	var nodes atomic.Int64

	var result Result
	if that.parallel && !state.IsTerminal() {
		result = that.searchParallel(state, target, maximizing, &nodes)
	} else {
		result = search(state.Clone(), target, maximizing, &nodes)
	}

	result.Nodes = nodes.Load()

	return result
}

// FindBestMove - returns the optimal move for player, who must be the one to move.
// The record's score is the game-theoretic result for player and its outcome is
// the one the move would produce.
func (that *Searcher) FindBestMove(state *entity.GameState, player entity.Mark) (entity.MoveRecord, error) {
	log := that.logger.With("method", "FindBestMove", "player", player)

	if state.IsTerminal() {
		return entity.MoveRecord{}, apperror.ErrGameFinished
	}

	if state.Turn != player {
		return entity.MoveRecord{}, fmt.Errorf("%w: %s to move", apperror.ErrNotYourTurn, state.Turn)
	}

	start := time.Now()
	result := that.Search(state, true)

	next := state.Clone()
	record, err := next.ApplyMove(result.Move.Row, result.Move.Col)
	if err != nil {
		return entity.MoveRecord{}, fmt.Errorf("failed to apply searched move: %w", err)
	}

	record.Score = result.Move.Score

	log.Debug("search finished",
		"row", record.Row,
		"col", record.Col,
		"score", result.Value.String(),
		"nodes", result.Nodes,
		"parallel", that.parallel,
		"elapsed", time.Since(start),
	)

	return record, nil
}

// search explores every reachable state from state by applying and undoing
// moves on it in place.
func search(state *entity.GameState, target entity.Mark, maximizing bool, nodes *atomic.Int64) Result {
	nodes.Add(1)

	if state.IsTerminal() {
		return Result{Value: leafValue(state.Outcome, target)}
	}

	moves := state.LegalMoves()
	if len(moves) == 0 {
		panic(fmt.Errorf("%w:\n%s", apperror.ErrSearchInvariant, state))
	}

	var (
		bestCell  entity.Cell
		bestValue entity.Score
	)

	for i, cell := range moves {
		mustApply(state, cell)
		child := search(state, target, !maximizing, nodes)
		state.UndoMove(cell.Row, cell.Col)

		if i == 0 || improves(child.Value, bestValue, maximizing) {
			bestCell, bestValue = cell, child.Value
		}
	}

	return Result{
		Move:  newMove(bestCell, bestValue, maximizing),
		Value: bestValue,
	}
}

// searchParallel evaluates each top-level child on its own clone and then
// picks among them in scan order, so the choice matches the sequential one.
func (that *Searcher) searchParallel(state *entity.GameState, target entity.Mark, maximizing bool, nodes *atomic.Int64) Result {
	nodes.Add(1)

	moves := state.LegalMoves()
	if len(moves) == 0 {
		panic(fmt.Errorf("%w:\n%s", apperror.ErrSearchInvariant, state))
	}

	values := make([]entity.Score, len(moves))

	var wg sync.WaitGroup
	for i, cell := range moves {
		wg.Add(1)
		go func() {
			defer wg.Done()

			child := state.Clone()
			mustApply(child, cell)
			values[i] = search(child, target, !maximizing, nodes).Value
		}()
	}
	wg.Wait()

	bestIdx := 0
	for i := 1; i < len(values); i++ {
		if improves(values[i], values[bestIdx], maximizing) {
			bestIdx = i
		}
	}

	return Result{
		Move:  newMove(moves[bestIdx], values[bestIdx], maximizing),
		Value: values[bestIdx],
	}
}

func mustApply(state *entity.GameState, cell entity.Cell) {
	if _, err := state.ApplyMove(cell.Row, cell.Col); err != nil {
		panic(fmt.Errorf("legal move (%d, %d) rejected: %w", cell.Row, cell.Col, err))
	}
}

// improves reports whether value strictly beats best; equal values keep the earlier move.
func improves(value, best entity.Score, maximizing bool) bool {
	if maximizing {
		return value > best
	}
	return value < best
}

// newMove attaches the score for the player making the move, which is the
// target when maximizing and its opponent otherwise.
func newMove(cell entity.Cell, value entity.Score, maximizing bool) *entity.Move {
	score := value
	if !maximizing {
		score = -value
	}

	return &entity.Move{Row: cell.Row, Col: cell.Col, Score: &score}
}

func leafValue(outcome entity.Outcome, target entity.Mark) entity.Score {
	switch {
	case outcome.Status != entity.StatusWon:
		return entity.ScoreDraw
	case outcome.Winner == target:
		return entity.ScoreWin
	default:
		return entity.ScoreLoss
	}
}

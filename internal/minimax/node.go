package minimax

import (
	"math"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

// Node is a position in an arbitrary game tree.
type Node interface {
	IsLeaf() bool
	// Score is only meaningful on leaves.
	Score() int
	Children() []Node
}

// MinMax - returns the best score the side at node can force, maximizing or
// minimizing by turns.
func MinMax(node Node, maximizing bool) int {
	if node.IsLeaf() {
		return node.Score()
	}

	if maximizing {
		best := math.MinInt
		for _, child := range node.Children() {
			best = max(best, MinMax(child, false))
		}
		return best
	}

	best := math.MaxInt
	for _, child := range node.Children() {
		best = min(best, MinMax(child, true))
	}
	return best
}

// StateNode adapts a game state to Node, scoring leaves for Target.
type StateNode struct {
	State  *entity.GameState
	Target entity.Mark
}

func (that StateNode) IsLeaf() bool {
	return that.State.IsTerminal()
}

func (that StateNode) Score() int {
	return int(leafValue(that.State.Outcome, that.Target))
}

func (that StateNode) Children() []Node {
	moves := that.State.LegalMoves()

	children := make([]Node, 0, len(moves))
	for _, cell := range moves {
		child := that.State.Clone()
		mustApply(child, cell)
		children = append(children, StateNode{State: child, Target: that.Target})
	}

	return children
}

package minimax

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

type treeNode struct {
	children []Node
	score    int
}

func (that *treeNode) IsLeaf() bool     { return len(that.children) == 0 }
func (that *treeNode) Score() int       { return that.score }
func (that *treeNode) Children() []Node { return that.children }

func branch(children ...Node) *treeNode {
	return &treeNode{children: children}
}

func TestMinMax_Tree(t *testing.T) {
	// Given: a four-level tree where the root maximizes and levels alternate
	win := &treeNode{score: 1}
	loss := &treeNode{score: -1}
	draw := &treeNode{score: 0}

	nodeA := branch(win, draw)
	nodeB := branch(loss, draw)
	nodeC := branch(loss, win)
	nodeD := branch(loss, draw)
	nodeE := branch(win, draw)
	nodeF := branch(loss, draw)
	nodeG := branch(win, win)
	nodeH := branch(win, win)

	nodeI := branch(nodeA, nodeB)
	nodeJ := branch(nodeC, nodeD)
	nodeK := branch(nodeE, nodeF)
	nodeL := branch(nodeG, nodeH)

	nodeM := branch(nodeI, nodeJ)
	nodeN := branch(nodeK, nodeL)

	root := branch(nodeM, nodeN)

	tests := []struct {
		name       string
		node       Node
		maximizing bool
		want       int
	}{
		{"win leaf", win, true, 1},
		{"loss leaf", loss, true, -1},
		{"draw leaf", draw, true, 0},
		{"A", nodeA, false, 0},
		{"B", nodeB, false, -1},
		{"C", nodeC, false, -1},
		{"D", nodeD, false, -1},
		{"E", nodeE, false, 0},
		{"F", nodeF, false, -1},
		{"G", nodeG, false, 1},
		{"H", nodeH, false, 1},
		{"I", nodeI, true, 0},
		{"J", nodeJ, true, -1},
		{"K", nodeK, true, 0},
		{"L", nodeL, true, 1},
		{"M", nodeM, false, -1},
		{"N", nodeN, false, 0},
		{"root", root, true, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MinMax(tc.node, tc.maximizing))
		})
	}
}

func TestMinMax_StateNodeMatchesSearch(t *testing.T) {
	for name, state := range positions {
		t.Run(name, func(t *testing.T) {
			// Given: a game state seen as a generic tree, scored for the player to move
			node := StateNode{State: state, Target: state.Turn}

			// Then: the textbook minimax agrees with the searcher
			assert.Equal(t, int(Search(state, true).Value), MinMax(node, true))
		})
	}
}

func TestStateNode_Children(t *testing.T) {
	// Given: a state with three empty cells
	state := entity.MustParseBoard(entity.PlayerX, "XOX", "OXO", "...")
	node := StateNode{State: state, Target: entity.PlayerX}

	// When: expanding it
	children := node.Children()

	// Then: one independent child per empty cell in row-major order
	assert.Len(t, children, 3)
	first := children[0].(StateNode).State
	assert.Equal(t, entity.PlayerX, first.Board[2][0])
	assert.Equal(t, entity.EmptyCell, state.Board[2][0])
	assert.False(t, node.IsLeaf())
}

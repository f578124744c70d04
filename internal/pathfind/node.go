package pathfind

import (
	"github.com/samdwyer/gridpath/internal/grid"
)

// NoParent marks a node with no predecessor (the start node).
var NoParent = grid.Index{X: -1, Y: -1}

// Node is the per-search record for one discovered cell. Nodes only live for
// the duration of a single search.
type Node struct {
	Index  grid.Index
	Parent grid.Index
	G      int // cost from start
	H      int // estimate to destination
	F      int // G + H
}

// HasParent reports whether the node was reached from another node.
func (n Node) HasParent() bool {
	return n.Parent != NoParent
}

// ParentDirection returns the direction pointing from this node to its parent.
func (n Node) ParentDirection() (grid.Direction, bool) {
	if !n.HasParent() {
		return 0, false
	}
	return grid.DirectionBetween(n.Index, n.Parent)
}

// VisualState classifies a cell for the visualization sink.
type VisualState int

const (
	// StateReset returns the cell to its idle display.
	StateReset VisualState = iota
	// StateInspected marks a cell that was discovered but never finalized.
	StateInspected
	// StateExplored marks a finalized cell that is not on the path.
	StateExplored
	// StateInPath marks a cell on the returned path.
	StateInPath
)

// String returns a human-readable state name.
func (s VisualState) String() string {
	switch s {
	case StateReset:
		return "reset"
	case StateInspected:
		return "inspected"
	case StateExplored:
		return "explored"
	case StateInPath:
		return "in_path"
	default:
		return "unknown"
	}
}

// Sink receives search state per cell. Implementations render it; the
// search never reads anything back.
type Sink interface {
	UpdateVisual(node Node, state VisualState)
	ClearVisual(idx grid.Index)
}

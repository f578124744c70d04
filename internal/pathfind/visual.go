package pathfind

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/samdwyer/gridpath/internal/grid"
)

// Publish sweeps a snapshot into sink: open nodes are inspected, closed
// nodes explored, and closed nodes on the path in-path. It returns every
// index it touched so the caller can clear them later.
func Publish(sink Sink, snap Snapshot) []grid.Index {
	if sink == nil {
		return nil
	}

	inPath := mapset.New[grid.Index]()
	for _, idx := range snap.Path {
		inPath.Put(idx)
	}

	touched := make([]grid.Index, 0, len(snap.Open)+len(snap.Closed))
	for _, n := range snap.Open {
		sink.UpdateVisual(n, StateInspected)
		touched = append(touched, n.Index)
	}
	for _, n := range snap.Closed {
		state := StateExplored
		if inPath.Has(n.Index) {
			state = StateInPath
		}
		sink.UpdateVisual(n, state)
		touched = append(touched, n.Index)
	}
	return touched
}

// Clear resets every listed index on sink.
func Clear(sink Sink, indices []grid.Index) {
	if sink == nil {
		return
	}
	for _, idx := range indices {
		sink.ClearVisual(idx)
	}
}

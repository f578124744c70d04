package pathfind

import (
	"container/heap"
	"slices"

	"github.com/samdwyer/gridpath/internal/cost"
	"github.com/samdwyer/gridpath/internal/grid"
)

// search holds the open/closed state of one A* run. An index is in at most
// one of open and closed, and a closed node is never revised.
type search struct {
	grid  *grid.Grid
	model cost.Model
	dest  grid.Index

	open        openQueue
	openByIndex map[grid.Index]*queueItem
	closed      map[grid.Index]Node
	closedOrder []grid.Index
	seq         uint64

	current Node
	steps   int
	done    bool
	found   bool
	path    []grid.Index
}

func newSearch(g *grid.Grid, model cost.Model, start, dest grid.Index) *search {
	s := &search{
		grid:        g,
		model:       model,
		dest:        dest,
		openByIndex: make(map[grid.Index]*queueItem),
		closed:      make(map[grid.Index]Node),
	}
	heap.Init(&s.open)

	s.current = Node{
		Index:  start,
		Parent: NoParent,
		G:      0,
		H:      model.Distance(start, dest),
	}
	s.current.F = s.current.H
	s.close(s.current)
	return s
}

func (s *search) close(n Node) {
	s.closed[n.Index] = n
	s.closedOrder = append(s.closedOrder, n.Index)
}

// walkable reports whether idx is on the grid and enterable.
func (s *search) walkable(idx grid.Index) bool {
	if !s.grid.IsIndexValid(idx.X, idx.Y) {
		return false
	}
	cell, err := s.grid.GetCell(idx.X, idx.Y)
	return err == nil && cell.Walkable
}

// step runs one iteration: goal check, neighbour expansion, then selection
// of the next current node. It returns true once the search has finished.
func (s *search) step() bool {
	if s.done {
		return true
	}

	if s.current.Index == s.dest {
		s.path = s.reconstruct(s.current)
		s.found = true
		s.done = true
		return true
	}

	s.expand(s.current)

	if s.open.Len() == 0 {
		s.done = true
		return true
	}

	item := heap.Pop(&s.open).(*queueItem)
	delete(s.openByIndex, item.node.Index)
	s.close(item.node)
	s.current = item.node
	s.steps++
	return false
}

func (s *search) expand(current Node) {
	for _, d := range grid.Directions {
		idx := current.Index.Add(d.Offset())
		if !s.walkable(idx) {
			continue
		}
		if _, done := s.closed[idx]; done {
			continue
		}

		g := current.G + s.model.Distance(current.Index, idx)

		if item, ok := s.openByIndex[idx]; ok {
			if g < item.node.G {
				item.node.Parent = current.Index
				item.node.G = g
				item.node.F = g + item.node.H
				heap.Fix(&s.open, item.indexInQueue)
			}
			continue
		}

		h := s.model.Distance(idx, s.dest)
		item := &queueItem{
			node: Node{Index: idx, Parent: current.Index, G: g, H: h, F: g + h},
			seq:  s.seq,
		}
		s.seq++
		heap.Push(&s.open, item)
		s.openByIndex[idx] = item
	}
}

// reconstruct follows parent links through closed back to the start.
func (s *search) reconstruct(end Node) []grid.Index {
	path := []grid.Index{end.Index}
	n := end
	for n.HasParent() {
		parent, ok := s.closed[n.Parent]
		if !ok {
			break
		}
		path = append(path, parent.Index)
		n = parent
	}
	slices.Reverse(path)
	return path
}

// openNodes returns the open set in insertion order.
func (s *search) openNodes() []Node {
	items := slices.Clone([]*queueItem(s.open))
	slices.SortFunc(items, func(a, b *queueItem) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	nodes := make([]Node, len(items))
	for i, it := range items {
		nodes[i] = it.node
	}
	return nodes
}

// closedNodes returns the closed set in the order nodes were finalized.
func (s *search) closedNodes() []Node {
	nodes := make([]Node, len(s.closedOrder))
	for i, idx := range s.closedOrder {
		nodes[i] = s.closed[idx]
	}
	return nodes
}

func (s *search) snapshot() Snapshot {
	return Snapshot{
		Current: s.current,
		Open:    s.openNodes(),
		Closed:  s.closedNodes(),
		Done:    s.done,
		Found:   s.found,
		Path:    slices.Clone(s.path),
		Step:    s.steps,
	}
}

// Package walkability connects an external tile authority to the grid.
package walkability

import (
	"fmt"
	"maps"
	"slices"

	"github.com/samdwyer/gridpath/internal/grid"
)

// Source answers whether a cell may be entered.
type Source interface {
	Walkable(idx grid.Index) bool
}

// Func adapts a plain function to Source.
type Func func(idx grid.Index) bool

// Walkable calls f.
func (f Func) Walkable(idx grid.Index) bool { return f(idx) }

// Uniform returns a source that gives the same answer everywhere.
func Uniform(walkable bool) Source {
	return Func(func(grid.Index) bool { return walkable })
}

// Refresh asks src once per cell and writes the answer into g.
// It returns how many cells ended up walkable.
func Refresh(g *grid.Grid, src Source) (int, error) {
	walkable := 0
	for idx, cell := range g.All() {
		cell.Walkable = src.Walkable(idx)
		if err := g.UpdateCell(idx.X, idx.Y, cell); err != nil {
			return walkable, fmt.Errorf("refresh walkability at %s: %w", idx, err)
		}
		if cell.Walkable {
			walkable++
		}
	}
	return walkable, nil
}

// Overrides layers per-cell answers over a base source.
// It is not safe for concurrent use.
type Overrides struct {
	base      Source
	overrides map[grid.Index]bool
}

// NewOverrides wraps base. A nil base behaves like Uniform(false).
func NewOverrides(base Source) *Overrides {
	if base == nil {
		base = Uniform(false)
	}
	return &Overrides{base: base, overrides: make(map[grid.Index]bool)}
}

// Walkable returns the override for idx if one is set, otherwise the base answer.
func (o *Overrides) Walkable(idx grid.Index) bool {
	if v, ok := o.overrides[idx]; ok {
		return v
	}
	return o.base.Walkable(idx)
}

// Set forces the answer for idx.
func (o *Overrides) Set(idx grid.Index, walkable bool) {
	o.overrides[idx] = walkable
}

// Toggle flips the current answer for idx and returns the new value.
func (o *Overrides) Toggle(idx grid.Index) bool {
	v := !o.Walkable(idx)
	o.overrides[idx] = v
	return v
}

// Reset drops every override.
func (o *Overrides) Reset() {
	clear(o.overrides)
}

// Indices returns the overridden indices sorted by y then x.
func (o *Overrides) Indices() []grid.Index {
	return slices.SortedFunc(maps.Keys(o.overrides), func(a, b grid.Index) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})
}

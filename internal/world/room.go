package world

import "github.com/samdwyer/gridpath/internal/grid"

// Room is a rectangular carved area of a generated map.
type Room struct {
	Min  grid.Index // lowest x,y corner, inclusive
	Size grid.Offset
}

// Center returns the cell nearest the middle of the room.
func (r Room) Center() grid.Index {
	return grid.Index{X: r.Min.X + r.Size.DX/2, Y: r.Min.Y + r.Size.DY/2}
}

// Contains reports whether idx lies inside the room.
func (r Room) Contains(idx grid.Index) bool {
	return idx.X >= r.Min.X && idx.X < r.Min.X+r.Size.DX &&
		idx.Y >= r.Min.Y && idx.Y < r.Min.Y+r.Size.DY
}

// Intersects reports whether the two rooms overlap.
func (r Room) Intersects(o Room) bool {
	return r.Min.X < o.Min.X+o.Size.DX && o.Min.X < r.Min.X+r.Size.DX &&
		r.Min.Y < o.Min.Y+o.Size.DY && o.Min.Y < r.Min.Y+r.Size.DY
}

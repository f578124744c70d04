// Package grid provides the dense traversal grid used by the pathfinder.
package grid

import "fmt"

// Index addresses a single cell. X grows east, Y grows north.
type Index struct {
	X, Y int
}

// String returns the index as "(x,y)".
func (i Index) String() string {
	return fmt.Sprintf("(%d,%d)", i.X, i.Y)
}

// Add returns the index shifted by the given offset.
func (i Index) Add(o Offset) Index {
	return Index{X: i.X + o.DX, Y: i.Y + o.DY}
}

// Offset is a relative step between two indices.
type Offset struct {
	DX, DY int
}

// Direction is one of the eight neighbour directions around a cell.
type Direction int

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

// Directions lists the neighbour directions in generation order.
// The search relies on this order for tie stability.
var Directions = [8]Direction{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}

var directionOffsets = [8]Offset{
	North:     {0, 1},
	NorthEast: {1, 1},
	East:      {1, 0},
	SouthEast: {1, -1},
	South:     {0, -1},
	SouthWest: {-1, -1},
	West:      {-1, 0},
	NorthWest: {-1, 1},
}

// Offset returns the step for this direction.
func (d Direction) Offset() Offset {
	if d < North || d > NorthWest {
		return Offset{}
	}
	return directionOffsets[d]
}

// IsDiagonal reports whether the direction moves along both axes.
func (d Direction) IsDiagonal() bool {
	o := d.Offset()
	return o.DX != 0 && o.DY != 0
}

// String returns the compass abbreviation.
func (d Direction) String() string {
	switch d {
	case North:
		return "N"
	case NorthEast:
		return "NE"
	case East:
		return "E"
	case SouthEast:
		return "SE"
	case South:
		return "S"
	case SouthWest:
		return "SW"
	case West:
		return "W"
	case NorthWest:
		return "NW"
	default:
		return "?"
	}
}

// DirectionBetween returns the direction of the single step from one index to
// an adjacent one. ok is false when the indices are equal or not adjacent.
func DirectionBetween(from, to Index) (dir Direction, ok bool) {
	step := Offset{DX: to.X - from.X, DY: to.Y - from.Y}
	for _, d := range Directions {
		if directionOffsets[d] == step {
			return d, true
		}
	}
	return 0, false
}

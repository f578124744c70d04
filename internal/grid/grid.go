package grid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/cespare/xxhash/v2"
)

var (
	// ErrIndexOutOfRange is returned by accessors given an index outside the grid.
	ErrIndexOutOfRange = errors.New("grid index out of range")
	// ErrInvalidDimensions is returned by Build for non-positive sizes.
	ErrInvalidDimensions = errors.New("grid dimensions must be positive")
)

// IndexError reports which axis of an index fell outside the grid.
type IndexError struct {
	Index Index
	Axis  string // "x" or "y"
	Limit int    // exclusive upper bound of the failing axis
}

func (e *IndexError) Error() string {
	v := e.Index.X
	if e.Axis == "y" {
		v = e.Index.Y
	}
	return fmt.Sprintf("%s index %d outside [0,%d) at %s", e.Axis, v, e.Limit, e.Index)
}

// Unwrap lets errors.Is match ErrIndexOutOfRange.
func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// Vec3 is a local-space position. The search never reads it.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns the component-wise sum.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// PositionMapper converts a cell index into a local-space position.
type PositionMapper func(Index) Vec3

// RectLayout maps indices onto a rectangular layout with the given cell size.
func RectLayout(cellSize Vec3) PositionMapper {
	return func(i Index) Vec3 {
		return Vec3{X: float64(i.X) * cellSize.X, Y: float64(i.Y) * cellSize.Y}
	}
}

// Cell is one addressable unit of the grid.
type Cell struct {
	Index         Index
	LocalPosition Vec3
	TraversalCost int // reserved; the search does not read it yet
	Walkable      bool
}

// Grid is a fixed-size dense array of cells.
type Grid struct {
	width  int
	height int
	cells  []Cell // row-major: y*width + x
	mapper PositionMapper
	offset Vec3
}

// Build allocates a width x height grid. Every cell starts unwalkable;
// walkability has to be written by the caller before pathing.
func Build(width, height int, mapper PositionMapper, offset Vec3) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("build %dx%d grid: %w", width, height, ErrInvalidDimensions)
	}
	if mapper == nil {
		mapper = RectLayout(Vec3{X: 1, Y: 1})
	}

	g := &Grid{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
		mapper: mapper,
		offset: offset,
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := Index{X: x, Y: y}
			g.cells[y*width+x] = Cell{
				Index:         idx,
				LocalPosition: mapper(idx).Add(offset),
			}
		}
	}
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// Offset returns the offset added to every mapped position.
func (g *Grid) Offset() Vec3 { return g.offset }

// IsIndexValid reports whether (x,y) addresses a cell. It has no side effects.
func (g *Grid) IsIndexValid(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

func (g *Grid) check(x, y int) error {
	if x < 0 || x >= g.width {
		return &IndexError{Index: Index{X: x, Y: y}, Axis: "x", Limit: g.width}
	}
	if y < 0 || y >= g.height {
		return &IndexError{Index: Index{X: x, Y: y}, Axis: "y", Limit: g.height}
	}
	return nil
}

// GetCell returns the cell at (x,y).
func (g *Grid) GetCell(x, y int) (Cell, error) {
	if err := g.check(x, y); err != nil {
		return Cell{}, err
	}
	return g.cells[y*g.width+x], nil
}

// UpdateCell replaces the cell at (x,y). The stored cell always keeps the
// index of its slot.
func (g *Grid) UpdateCell(x, y int, c Cell) error {
	if err := g.check(x, y); err != nil {
		return err
	}
	c.Index = Index{X: x, Y: y}
	g.cells[y*g.width+x] = c
	return nil
}

// LocalPosition maps any index, on or off the grid, to local space.
func (g *Grid) LocalPosition(x, y int) Vec3 {
	return g.mapper(Index{X: x, Y: y}).Add(g.offset)
}

// All iterates the cells in row-major order.
func (g *Grid) All() iter.Seq2[Index, Cell] {
	return func(yield func(Index, Cell) bool) {
		for _, c := range g.cells {
			if !yield(c.Index, c) {
				return
			}
		}
	}
}

// Fingerprint hashes dimensions, positions, costs and walkability. Two grids
// built from the same parameters and walkability answers share a fingerprint.
func (g *Grid) Fingerprint() uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 64)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(g.width))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(g.height))
	d.Write(buf)

	for _, c := range g.cells {
		buf = buf[:0]
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(c.LocalPosition.X))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(c.LocalPosition.Y))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(c.LocalPosition.Z))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(c.TraversalCost))
		if c.Walkable {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		d.Write(buf)
	}
	return d.Sum64()
}

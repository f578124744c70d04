// Package debuggrid keeps the per-cell debug display state for a grid and
// acts as the pathfinder's visualization sink.
package debuggrid

import (
	"fmt"
	"slices"

	"github.com/samdwyer/gridpath/internal/grid"
	"github.com/samdwyer/gridpath/internal/pathfind"
)

// DisplayMode selects what the board shows.
type DisplayMode int

const (
	// ModeDefault shows each cell's index.
	ModeDefault DisplayMode = iota
	// ModeWalkability colours cells by walkability.
	ModeWalkability
	// ModePathing colours cells by search state and shows costs.
	ModePathing
)

// String returns a human-readable mode name.
func (m DisplayMode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModeWalkability:
		return "walkability"
	case ModePathing:
		return "pathing"
	default:
		return "unknown"
	}
}

// ParseDisplayMode is the inverse of DisplayMode.String.
func ParseDisplayMode(s string) (DisplayMode, error) {
	for _, m := range []DisplayMode{ModeDefault, ModeWalkability, ModePathing} {
		if m.String() == s {
			return m, nil
		}
	}
	return ModeDefault, fmt.Errorf("unknown display mode %q", s)
}

// Next cycles default -> walkability -> pathing -> default.
func (m DisplayMode) Next() DisplayMode {
	return (m + 1) % 3
}

// ColorKey names a palette entry.
type ColorKey int

const (
	ColorDefault ColorKey = iota
	ColorLabelX
	ColorLabelY
	ColorWalkable
	ColorUnwalkable
	ColorInspected
	ColorExplored
	ColorInPath
)

// Tile is the display record for one grid cell or axis label.
type Tile struct {
	Index    grid.Index
	Position grid.Vec3
	Walkable bool
	Label    bool
	Text     string
	State    pathfind.VisualState
	Node     pathfind.Node
	HasData  bool
}

// Board holds one tile per cell plus axis labels at (i,-1) and (-1,j).
// It is not safe for concurrent use.
type Board struct {
	width, height int
	tiles         map[grid.Index]*Tile
	mode          DisplayMode
}

// NewBoard builds a board mirroring g. Any previous board for an older grid
// should simply be dropped.
func NewBoard(g *grid.Grid) *Board {
	b := &Board{
		width:  g.Width(),
		height: g.Height(),
		tiles:  make(map[grid.Index]*Tile, g.Len()+g.Width()+g.Height()),
	}

	for idx, cell := range g.All() {
		b.tiles[idx] = &Tile{
			Index:    idx,
			Position: cell.LocalPosition,
			Walkable: cell.Walkable,
			Text:     fmt.Sprintf("%d,%d", idx.X, idx.Y),
		}
	}
	for i := 0; i < g.Width(); i++ {
		idx := grid.Index{X: i, Y: -1}
		b.tiles[idx] = &Tile{Index: idx, Position: g.LocalPosition(i, -1), Label: true, Text: fmt.Sprint(i)}
	}
	for j := 0; j < g.Height(); j++ {
		idx := grid.Index{X: -1, Y: j}
		b.tiles[idx] = &Tile{Index: idx, Position: g.LocalPosition(-1, j), Label: true, Text: fmt.Sprint(j)}
	}
	return b
}

// Width returns the grid width the board was built for.
func (b *Board) Width() int { return b.width }

// Height returns the grid height the board was built for.
func (b *Board) Height() int { return b.height }

// UpdateVisual records a search state for a cell. Reset clears the cost data.
func (b *Board) UpdateVisual(node pathfind.Node, state pathfind.VisualState) {
	t, ok := b.tiles[node.Index]
	if !ok || t.Label {
		return
	}
	t.State = state
	if state == pathfind.StateReset {
		t.Node = pathfind.Node{}
		t.HasData = false
		return
	}
	t.Node = node
	t.HasData = true
}

// ClearVisual returns a cell to its idle, walkability-only display.
func (b *Board) ClearVisual(idx grid.Index) {
	t, ok := b.tiles[idx]
	if !ok || t.Label {
		return
	}
	t.State = pathfind.StateReset
	t.Node = pathfind.Node{}
	t.HasData = false
}

// ClearAll resets the search state of every cell.
func (b *Board) ClearAll() {
	for idx := range b.tiles {
		b.ClearVisual(idx)
	}
}

// SetDisplayMode switches what the board shows.
func (b *Board) SetDisplayMode(m DisplayMode) { b.mode = m }

// Mode returns the current display mode.
func (b *Board) Mode() DisplayMode { return b.mode }

// Tile returns a copy of the tile at idx.
func (b *Board) Tile(idx grid.Index) (Tile, bool) {
	t, ok := b.tiles[idx]
	if !ok {
		return Tile{}, false
	}
	return *t, true
}

// Tiles returns copies of all tiles ordered by y then x, labels included.
func (b *Board) Tiles() []Tile {
	out := make([]Tile, 0, len(b.tiles))
	for _, t := range b.tiles {
		out = append(out, *t)
	}
	slices.SortFunc(out, func(a, c Tile) int {
		if a.Index.Y != c.Index.Y {
			return a.Index.Y - c.Index.Y
		}
		return a.Index.X - c.Index.X
	})
	return out
}

// ColorKey returns the palette entry for idx in the current mode.
func (b *Board) ColorKey(idx grid.Index) ColorKey {
	t, ok := b.tiles[idx]
	if !ok {
		return ColorDefault
	}
	if t.Label {
		if idx.X < 0 {
			return ColorLabelY
		}
		return ColorLabelX
	}

	switch b.mode {
	case ModeWalkability:
		return walkColor(t)
	case ModePathing:
		switch t.State {
		case pathfind.StateInspected:
			return ColorInspected
		case pathfind.StateExplored:
			return ColorExplored
		case pathfind.StateInPath:
			return ColorInPath
		default:
			return walkColor(t)
		}
	default:
		return ColorDefault
	}
}

func walkColor(t *Tile) ColorKey {
	if t.Walkable {
		return ColorWalkable
	}
	return ColorUnwalkable
}

// Caption returns the text shown on idx in the current mode.
func (b *Board) Caption(idx grid.Index) string {
	t, ok := b.tiles[idx]
	if !ok {
		return ""
	}
	if t.Label || b.mode != ModePathing {
		return t.Text
	}
	if !t.HasData {
		return ""
	}

	parent := "-"
	if d, ok := t.Node.ParentDirection(); ok {
		parent = d.String()
	}
	return fmt.Sprintf("g%d h%d f%d %s", t.Node.G, t.Node.H, t.Node.F, parent)
}

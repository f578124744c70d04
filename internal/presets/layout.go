package presets

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/samdwyer/gridpath/internal/grid"
	"github.com/samdwyer/gridpath/internal/world"
)

// ErrEmptyLayout is returned for a layout with neither rows nor generator
// settings.
var ErrEmptyLayout = errors.New("layout has no rows and no generator")

// Point is a cell coordinate as written in layout files.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Index converts the point to a grid index.
func (p Point) Index() grid.Index {
	return grid.Index{X: p.X, Y: p.Y}
}

// Generator holds the settings for a generated map.
type Generator struct {
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Seed   int64 `yaml:"seed"`
}

// Layout describes a named map. Either Rows or Generate is set.
type Layout struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Start       *Point     `yaml:"start,omitempty"`
	Dest        *Point     `yaml:"dest,omitempty"`
	Rows        []string   `yaml:"rows,omitempty"`
	Generate    *Generator `yaml:"generate,omitempty"`
}

// TileMap builds the layout's terrain. Generated layouts use their seed, so
// the result is the same every call.
func (l Layout) TileMap(ctx context.Context) (*world.TileMap, error) {
	switch {
	case len(l.Rows) > 0:
		m, err := world.ParseTileMap(l.Rows)
		if err != nil {
			return nil, fmt.Errorf("layout %s: %w", l.Name, err)
		}
		return m, nil
	case l.Generate != nil:
		if l.Generate.Width <= 0 || l.Generate.Height <= 0 {
			return nil, fmt.Errorf("layout %s: generator size %dx%d", l.Name, l.Generate.Width, l.Generate.Height)
		}
		m := world.NewTileMap(l.Generate.Width, l.Generate.Height)
		m.Generate(ctx, rand.New(rand.NewSource(l.Generate.Seed)))
		return m, nil
	default:
		return nil, fmt.Errorf("layout %s: %w", l.Name, ErrEmptyLayout)
	}
}

// Endpoints returns the suggested start and destination. Layouts without
// them fall back to the centres of the first and last rooms, or to opposite
// corners.
func (l Layout) Endpoints(m *world.TileMap) (grid.Index, grid.Index) {
	start := grid.Index{}
	dest := grid.Index{X: m.Width - 1, Y: m.Height - 1}
	if n := len(m.Rooms); n > 0 {
		start, dest = m.Rooms[0].Center(), m.Rooms[n-1].Center()
	}
	if l.Start != nil {
		start = l.Start.Index()
	}
	if l.Dest != nil {
		dest = l.Dest.Index()
	}
	return start, dest
}

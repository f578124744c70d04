package world

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samdwyer/gridpath/internal/grid"
)

// ErrBadLayout is returned when a text layout cannot be parsed.
var ErrBadLayout = errors.New("bad tile layout")

// TileMap is the authoritative terrain for a grid. Row index is y.
type TileMap struct {
	Width  int
	Height int
	Tiles  [][]Tile
	Rooms  []Room
}

// NewTileMap creates a map filled with walls.
func NewTileMap(width, height int) *TileMap {
	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
		for x := range tiles[y] {
			tiles[y][x] = TileWall
		}
	}
	return &TileMap{Width: width, Height: height, Tiles: tiles}
}

// ParseTileMap builds a map from text rows, row i becoming y=i. Every row
// must have the same length and only contain known tile runes.
func ParseTileMap(rows []string) (*TileMap, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrBadLayout)
	}
	width := len([]rune(rows[0]))
	if width == 0 {
		return nil, fmt.Errorf("%w: empty first row", ErrBadLayout)
	}

	m := NewTileMap(width, len(rows))
	for y, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("%w: row %d has %d tiles, want %d", ErrBadLayout, y, len(runes), width)
		}
		for x, r := range runes {
			if !IsKnown(r) {
				return nil, fmt.Errorf("%w: unknown tile %q at (%d,%d)", ErrBadLayout, r, x, y)
			}
			m.Tiles[y][x] = Tile(r)
		}
	}
	return m, nil
}

// InBounds reports whether (x,y) lies on the map.
func (m *TileMap) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// Tile returns the tile at (x,y). Off-map positions read as TileUndefined.
func (m *TileMap) Tile(x, y int) Tile {
	if !m.InBounds(x, y) {
		return TileUndefined
	}
	return m.Tiles[y][x]
}

// SetTile paints (x,y). Off-map positions are ignored.
func (m *TileMap) SetTile(x, y int, t Tile) {
	if m.InBounds(x, y) {
		m.Tiles[y][x] = t
	}
}

// Walkable implements walkability.Source.
func (m *TileMap) Walkable(idx grid.Index) bool {
	return m.Tile(idx.X, idx.Y).IsPassable()
}

// Rows renders the map back to text, row i being y=i.
func (m *TileMap) Rows() []string {
	rows := make([]string, m.Height)
	var sb strings.Builder
	for y := range m.Tiles {
		sb.Reset()
		for _, t := range m.Tiles[y] {
			sb.WriteRune(t.Rune())
		}
		rows[y] = sb.String()
	}
	return rows
}

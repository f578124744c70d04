// Package world provides tile maps that act as the walkability authority
// for the traversal grid.
package world

// Tile represents a single map tile.
type Tile rune

const (
	// TileWall is impassable rock.
	TileWall Tile = '#'
	// TileGrass is passable open ground.
	TileGrass Tile = '.'
	// TileDirt is passable bare ground.
	TileDirt Tile = ','
	// TileWater is impassable.
	TileWater Tile = '~'
	// TileUndefined marks a tile no one has painted yet. It is impassable.
	TileUndefined Tile = '?'
)

// TileType is the terrain category of a tile.
type TileType int

const (
	TypeUndefined TileType = iota
	TypeGrass
	TypeDirt
	TypeWater
	TypeWall
)

// String returns the terrain name.
func (t TileType) String() string {
	switch t {
	case TypeGrass:
		return "grass"
	case TypeDirt:
		return "dirt"
	case TypeWater:
		return "water"
	case TypeWall:
		return "wall"
	default:
		return "undefined"
	}
}

// Type returns the terrain category of the tile.
func (t Tile) Type() TileType {
	switch t {
	case TileGrass:
		return TypeGrass
	case TileDirt:
		return TypeDirt
	case TileWater:
		return TypeWater
	case TileWall:
		return TypeWall
	default:
		return TypeUndefined
	}
}

// IsPassable returns true if the tile can be walked on.
func (t Tile) IsPassable() bool {
	return t == TileGrass || t == TileDirt
}

// IsKnown reports whether r is one of the defined tile runes.
func IsKnown(r rune) bool {
	switch Tile(r) {
	case TileWall, TileGrass, TileDirt, TileWater, TileUndefined:
		return true
	}
	return false
}

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	return rune(t)
}

package world

import (
	"context"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/gridpath/internal/grid"
	"github.com/samdwyer/gridpath/internal/telemetry"
)

// BSP parameters
const (
	minRoomSize = 3
	maxRoomSize = 8
	minLeafSize = 6
)

// partition is a node of the BSP tree.
type partition struct {
	min         grid.Index
	size        grid.Offset
	left, right *partition
	room        *Room
}

func (p *partition) isLeaf() bool {
	return p.left == nil && p.right == nil
}

// Generate carves grass rooms joined by dirt corridors into the map using
// binary space partitioning. The outer border stays wall. All rooms end up
// connected. The same rng seed always yields the same map.
func (m *TileMap) Generate(ctx context.Context, rng *rand.Rand) {
	_, span := telemetry.Tracer("world").Start(ctx, "world.generate")
	defer span.End()

	startTime := time.Now()
	m.Rooms = m.Rooms[:0]

	root := &partition{
		min:  grid.Index{X: 1, Y: 1},
		size: grid.Offset{DX: m.Width - 2, DY: m.Height - 2},
	}
	if root.size.DX < minRoomSize || root.size.DY < minRoomSize {
		return
	}

	m.split(rng, root)
	m.placeRooms(rng, root)
	m.connect(rng, root)

	span.SetAttributes(
		attribute.Int("map.width", m.Width),
		attribute.Int("map.height", m.Height),
		attribute.Int("map.room_count", len(m.Rooms)),
		attribute.Int64("map.generation_ms", time.Since(startTime).Milliseconds()),
	)
}

func (m *TileMap) split(rng *rand.Rand, p *partition) {
	canSplitX := p.size.DX >= minLeafSize*2
	canSplitY := p.size.DY >= minLeafSize*2

	var alongX bool
	switch {
	case canSplitX && canSplitY:
		alongX = p.size.DX >= p.size.DY
	case canSplitX:
		alongX = true
	case canSplitY:
		alongX = false
	default:
		return
	}

	if alongX {
		cut := minLeafSize + rng.Intn(p.size.DX-2*minLeafSize+1)
		p.left = &partition{min: p.min, size: grid.Offset{DX: cut, DY: p.size.DY}}
		p.right = &partition{
			min:  grid.Index{X: p.min.X + cut, Y: p.min.Y},
			size: grid.Offset{DX: p.size.DX - cut, DY: p.size.DY},
		}
	} else {
		cut := minLeafSize + rng.Intn(p.size.DY-2*minLeafSize+1)
		p.left = &partition{min: p.min, size: grid.Offset{DX: p.size.DX, DY: cut}}
		p.right = &partition{
			min:  grid.Index{X: p.min.X, Y: p.min.Y + cut},
			size: grid.Offset{DX: p.size.DX, DY: p.size.DY - cut},
		}
	}

	m.split(rng, p.left)
	m.split(rng, p.right)
}

// roomSpan picks a room length and start inside a leaf of the given extent.
func roomSpan(rng *rand.Rand, start, extent int) (int, int) {
	hi := min(maxRoomSize, extent)
	length := minRoomSize
	if hi > minRoomSize {
		length += rng.Intn(hi - minRoomSize + 1)
	}
	slack := extent - length
	offset := 0
	if slack > 0 {
		offset = rng.Intn(slack + 1)
	}
	return start + offset, length
}

func (m *TileMap) placeRooms(rng *rand.Rand, p *partition) {
	if !p.isLeaf() {
		m.placeRooms(rng, p.left)
		m.placeRooms(rng, p.right)
		return
	}
	if p.size.DX < minRoomSize || p.size.DY < minRoomSize {
		return
	}

	x, w := roomSpan(rng, p.min.X, p.size.DX)
	y, h := roomSpan(rng, p.min.Y, p.size.DY)
	room := Room{Min: grid.Index{X: x, Y: y}, Size: grid.Offset{DX: w, DY: h}}
	p.room = &room
	m.Rooms = append(m.Rooms, room)

	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			m.carve(xx, yy, TileGrass)
		}
	}
}

// anyRoom returns the first room found in a subtree.
func anyRoom(p *partition) *Room {
	if p == nil {
		return nil
	}
	if p.room != nil {
		return p.room
	}
	if r := anyRoom(p.left); r != nil {
		return r
	}
	return anyRoom(p.right)
}

func (m *TileMap) connect(rng *rand.Rand, p *partition) {
	if p == nil || p.isLeaf() {
		return
	}
	m.connect(rng, p.left)
	m.connect(rng, p.right)

	a, b := anyRoom(p.left), anyRoom(p.right)
	if a == nil || b == nil {
		return
	}
	from, to := a.Center(), b.Center()
	if rng.Intn(2) == 0 {
		m.corridorX(from.X, to.X, from.Y)
		m.corridorY(from.Y, to.Y, to.X)
	} else {
		m.corridorY(from.Y, to.Y, from.X)
		m.corridorX(from.X, to.X, to.Y)
	}
}

func (m *TileMap) corridorX(x1, x2, y int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		if m.Tile(x, y) == TileWall {
			m.carve(x, y, TileDirt)
		}
	}
}

func (m *TileMap) corridorY(y1, y2, x int) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		if m.Tile(x, y) == TileWall {
			m.carve(x, y, TileDirt)
		}
	}
}

// carve paints inside the border only.
func (m *TileMap) carve(x, y int, t Tile) {
	if x > 0 && x < m.Width-1 && y > 0 && y < m.Height-1 {
		m.Tiles[y][x] = t
	}
}

package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/gridpath/internal/debuggrid"
	"github.com/samdwyer/gridpath/internal/grid"
	"github.com/samdwyer/gridpath/internal/pathfind"
)

// CellWidth is the number of terminal columns each board column takes.
const CellWidth = 3

// Renderer handles drawing the debug board to the screen. North is up, so
// board row y=0 is drawn just above the x labels.
type Renderer struct {
	screen  *Screen
	palette Palette
	marks   map[grid.Index]rune
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen, palette Palette) *Renderer {
	return &Renderer{screen: screen, palette: palette, marks: make(map[grid.Index]rune)}
}

// Mark draws r over the glyph of idx until ClearMarks.
func (r *Renderer) Mark(idx grid.Index, mark rune) {
	r.marks[idx] = mark
}

// ClearMarks removes every mark.
func (r *Renderer) ClearMarks() {
	clear(r.marks)
}

// ScreenPos returns the terminal column and row of the centre of idx.
func ScreenPos(b *debuggrid.Board, idx grid.Index) (int, int) {
	return (idx.X+1)*CellWidth + CellWidth/2, b.Height() - 1 - idx.Y
}

// Render draws the board, highlights the cursor and writes status plus the
// cursor caption below the board.
func (r *Renderer) Render(b *debuggrid.Board, cursor grid.Index, status string) {
	r.screen.Clear()

	for _, tile := range b.Tiles() {
		r.drawTile(b, tile, tile.Index == cursor)
	}

	r.RenderMessage(status, b.Height()+1)
	caption := fmt.Sprintf("%s [%s] %s", cursor, b.Mode(), b.Caption(cursor))
	r.RenderMessage(caption, b.Height()+2)

	r.screen.Show()
}

func (r *Renderer) drawTile(b *debuggrid.Board, tile debuggrid.Tile, highlighted bool) {
	key := b.ColorKey(tile.Index)
	cx, row := ScreenPos(b, tile.Index)
	left := cx - CellWidth/2

	if tile.Label {
		style := tcell.StyleDefault.Foreground(r.palette.Color(key))
		text := fmt.Sprintf("%*s", CellWidth, tile.Text)
		for i, ch := range text[len(text)-CellWidth:] {
			r.screen.SetContent(left+i, row, ch, style)
		}
		return
	}

	bg := r.palette.Color(key)
	if highlighted {
		bg = r.palette.Highlight(key)
	}
	style := tcell.StyleDefault.Background(bg).Foreground(tcell.ColorBlack)

	glyph := r.glyph(b.Mode(), tile)
	for i := range CellWidth {
		ch := ' '
		if left+i == cx {
			ch = glyph
		}
		r.screen.SetContent(left+i, row, ch, style)
	}
}

func (r *Renderer) glyph(mode debuggrid.DisplayMode, tile debuggrid.Tile) rune {
	if mark, ok := r.marks[tile.Index]; ok {
		return mark
	}
	if mode == debuggrid.ModePathing {
		switch tile.State {
		case pathfind.StateInspected:
			return 'o'
		case pathfind.StateExplored:
			return 'x'
		case pathfind.StateInPath:
			return '*'
		}
	}
	if tile.Walkable {
		return '.'
	}
	return '#'
}

// RenderMessage displays a message on the given row.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, ch := range []rune(msg) {
		r.screen.SetContent(i, y, ch, style)
	}
}

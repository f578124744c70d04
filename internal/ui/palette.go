package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/samdwyer/gridpath/internal/debuggrid"
)

// Palette maps board colour keys to terminal colours.
type Palette struct {
	colors map[debuggrid.ColorKey]colorful.Color
}

// defaultHex is the built-in scheme.
var defaultHex = map[debuggrid.ColorKey]string{
	debuggrid.ColorDefault:    "#3a3a3a",
	debuggrid.ColorLabelX:     "#d7af5f",
	debuggrid.ColorLabelY:     "#5fafd7",
	debuggrid.ColorWalkable:   "#5f875f",
	debuggrid.ColorUnwalkable: "#870000",
	debuggrid.ColorInspected:  "#d7d75f",
	debuggrid.ColorExplored:   "#af5f00",
	debuggrid.ColorInPath:     "#00d7ff",
}

// ParsePalette builds a palette from hex colour strings ("#rrggbb"). Keys
// missing from hex take the default colour.
func ParsePalette(hex map[debuggrid.ColorKey]string) (Palette, error) {
	p := Palette{colors: make(map[debuggrid.ColorKey]colorful.Color, len(defaultHex))}
	for key, h := range defaultHex {
		if override, ok := hex[key]; ok {
			h = override
		}
		c, err := colorful.Hex(h)
		if err != nil {
			return Palette{}, fmt.Errorf("invalid colour %q for key %d: %w", h, key, err)
		}
		p.colors[key] = c
	}
	return p, nil
}

// DefaultPalette returns the built-in scheme.
func DefaultPalette() Palette {
	p, err := ParsePalette(nil)
	if err != nil {
		panic(err)
	}
	return p
}

// Color returns the terminal colour for key.
func (p Palette) Color(key debuggrid.ColorKey) tcell.Color {
	return toTcell(p.colors[key])
}

// Highlight returns the colour for key blended halfway towards white.
func (p Palette) Highlight(key debuggrid.ColorKey) tcell.Color {
	return toTcell(p.colors[key].BlendLab(colorful.Color{R: 1, G: 1, B: 1}, 0.5).Clamped())
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

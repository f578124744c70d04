package walkability

import (
	"testing"

	"github.com/samdwyer/gridpath/internal/grid"
)

// countingSource records how often each index is asked about.
type countingSource struct {
	calls map[grid.Index]int
}

func (s *countingSource) Walkable(idx grid.Index) bool {
	s.calls[idx]++
	return (idx.X+idx.Y)%2 == 0
}

func TestRefreshAsksOncePerCell(t *testing.T) {
	g, _ := grid.Build(4, 3, nil, grid.Vec3{})
	src := &countingSource{calls: make(map[grid.Index]int)}

	n, err := Refresh(g, src)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if len(src.calls) != g.Len() {
		t.Errorf("Source asked about %d cells, want %d", len(src.calls), g.Len())
	}
	for idx, c := range src.calls {
		if c != 1 {
			t.Errorf("Index %v asked %d times", idx, c)
		}
	}

	if n != 6 {
		t.Errorf("Expected 6 walkable cells, got %d", n)
	}
	for idx, cell := range g.All() {
		want := (idx.X+idx.Y)%2 == 0
		if cell.Walkable != want {
			t.Errorf("Cell %v walkable = %v, want %v", idx, cell.Walkable, want)
		}
	}
}

func TestRefreshOverwritesPreviousFlags(t *testing.T) {
	g, _ := grid.Build(2, 2, nil, grid.Vec3{})

	if _, err := Refresh(g, Uniform(true)); err != nil {
		t.Fatal(err)
	}
	n, err := Refresh(g, Uniform(false))
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("Expected 0 walkable cells after second refresh, got %d", n)
	}
}

func TestOverrides(t *testing.T) {
	o := NewOverrides(Uniform(true))
	idx := grid.Index{X: 2, Y: 1}

	if !o.Walkable(idx) {
		t.Fatal("Base answer should pass through")
	}

	if got := o.Toggle(idx); got {
		t.Error("Toggle should flip to unwalkable")
	}
	if o.Walkable(idx) {
		t.Error("Override should win over base")
	}

	o.Set(grid.Index{X: 0, Y: 0}, false)
	got := o.Indices()
	if len(got) != 2 || got[0] != (grid.Index{X: 0, Y: 0}) || got[1] != idx {
		t.Errorf("Indices() = %v", got)
	}

	o.Reset()
	if !o.Walkable(idx) {
		t.Error("Reset should restore base answers")
	}
}

package viewer

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/gridpath/internal/debuggrid"
	"github.com/samdwyer/gridpath/internal/grid"
	"github.com/samdwyer/gridpath/internal/navigation"
	"github.com/samdwyer/gridpath/internal/pathfind"
	"github.com/samdwyer/gridpath/internal/ui"
	"github.com/samdwyer/gridpath/internal/world"
)

type fixture struct {
	sim    tcell.SimulationScreen
	nav    *navigation.Manager
	viewer *Viewer
}

func newFixture(t *testing.T, rows []string, opts ...Option) *fixture {
	t.Helper()
	terrain, err := world.ParseTileMap(rows)
	if err != nil {
		t.Fatalf("ParseTileMap failed: %v", err)
	}
	nav, err := navigation.New(navigation.DefaultConfig(terrain.Width, terrain.Height), terrain)
	if err != nil {
		t.Fatalf("navigation.New failed: %v", err)
	}
	sim := tcell.NewSimulationScreen("")
	screen, err := ui.NewScreenFrom(sim)
	if err != nil {
		t.Fatalf("NewScreenFrom failed: %v", err)
	}
	sim.SetSize(80, 24)

	v := New(screen, nav, terrain, opts...)
	if err := nav.BuildPathGrid(context.Background()); err != nil {
		t.Fatalf("BuildPathGrid failed: %v", err)
	}
	return &fixture{sim: sim, nav: nav, viewer: v}
}

var dividerRows = []string{
	"..#..",
	"..#..",
	"..#..",
	"..#..",
	".....",
}

func TestActionForKey(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		r    rune
		want Action
	}{
		{tcell.KeyEscape, 0, ActionQuit},
		{tcell.KeyUp, 0, ActionUp},
		{tcell.KeyEnter, 0, ActionFind},
		{tcell.KeyTab, 0, ActionCycleMode},
		{tcell.KeyRune, 'q', ActionQuit},
		{tcell.KeyRune, 's', ActionSetStart},
		{tcell.KeyRune, 'd', ActionSetDest},
		{tcell.KeyRune, ' ', ActionToggleWall},
		{tcell.KeyRune, 'n', ActionStep},
		{tcell.KeyRune, 'h', ActionLeft},
		{tcell.KeyRune, 'z', ActionNone},
	}
	for _, tt := range tests {
		if got := actionForKey(tt.key, tt.r); got != tt.want {
			t.Errorf("actionForKey(%v, %q) = %v, want %v", tt.key, tt.r, got, tt.want)
		}
	}
}

func TestCursorStaysOnGrid(t *testing.T) {
	f := newFixture(t, dividerRows)
	ctx := context.Background()

	f.viewer.handleAction(ctx, ActionDown)
	f.viewer.handleAction(ctx, ActionLeft)
	if f.viewer.Cursor() != (grid.Index{}) {
		t.Errorf("Cursor left the grid: %v", f.viewer.Cursor())
	}
	f.viewer.handleAction(ctx, ActionUp)
	f.viewer.handleAction(ctx, ActionRight)
	if f.viewer.Cursor() != (grid.Index{X: 1, Y: 1}) {
		t.Errorf("Cursor = %v, want (1,1)", f.viewer.Cursor())
	}
}

func TestFindUsesEndpoints(t *testing.T) {
	f := newFixture(t, dividerRows, WithEndpoints(grid.Index{}, grid.Index{X: 4, Y: 0}))
	ctx := context.Background()

	f.viewer.handleAction(ctx, ActionFind)
	if !strings.Contains(f.viewer.Status(), "cost 96") {
		t.Errorf("Status = %q", f.viewer.Status())
	}
	if tile, _ := f.nav.Board().Tile(grid.Index{X: 2, Y: 4}); tile.State != pathfind.StateInPath {
		t.Errorf("Gap cell state = %v", tile.State)
	}

	// Move the destination onto the wall.
	for range 2 {
		f.viewer.handleAction(ctx, ActionRight)
	}
	f.viewer.handleAction(ctx, ActionSetDest)
	f.viewer.handleAction(ctx, ActionFind)
	if !strings.Contains(f.viewer.Status(), "invalid_destination") {
		t.Errorf("Status = %q", f.viewer.Status())
	}
	if tile, _ := f.nav.Board().Tile(grid.Index{X: 2, Y: 4}); tile.HasData {
		t.Error("Failed search should clear the previous visuals")
	}
}

func TestToggleWallReplans(t *testing.T) {
	f := newFixture(t, dividerRows, WithEndpoints(grid.Index{}, grid.Index{X: 4, Y: 0}))
	ctx := context.Background()

	// Walk the cursor to the gap and close it.
	for range 2 {
		f.viewer.handleAction(ctx, ActionRight)
	}
	for range 4 {
		f.viewer.handleAction(ctx, ActionUp)
	}
	f.viewer.handleAction(ctx, ActionToggleWall)
	if !strings.Contains(f.viewer.Status(), "walkable=false") {
		t.Fatalf("Status = %q", f.viewer.Status())
	}

	f.viewer.handleAction(ctx, ActionFind)
	if !strings.Contains(f.viewer.Status(), "no_path") {
		t.Errorf("Status = %q", f.viewer.Status())
	}

	f.viewer.handleAction(ctx, ActionToggleWall)
	f.viewer.handleAction(ctx, ActionFind)
	if !strings.Contains(f.viewer.Status(), "cost 96") {
		t.Errorf("Status = %q", f.viewer.Status())
	}
}

func TestStepRunsToCompletion(t *testing.T) {
	f := newFixture(t, []string{"....", "....", "...."}, WithEndpoints(grid.Index{}, grid.Index{X: 3, Y: 2}))
	ctx := context.Background()

	for range 50 {
		f.viewer.handleAction(ctx, ActionStep)
		if f.viewer.State() == StateIdle {
			break
		}
		if f.viewer.State() != StateStepping {
			t.Fatalf("State = %v", f.viewer.State())
		}
	}
	if f.viewer.State() != StateIdle || !strings.Contains(f.viewer.Status(), "found") {
		t.Fatalf("State %v status %q", f.viewer.State(), f.viewer.Status())
	}
	for _, idx := range []grid.Index{{X: 0, Y: 0}, {X: 3, Y: 2}} {
		if tile, _ := f.nav.Board().Tile(idx); tile.State != pathfind.StateInPath {
			t.Errorf("%v state = %v", idx, tile.State)
		}
	}

	f.viewer.handleAction(ctx, ActionClear)
	for _, tile := range f.nav.Board().Tiles() {
		if tile.HasData {
			t.Errorf("Tile %v not cleared", tile.Index)
		}
	}
}

func TestFindClearsFinishedStepVisuals(t *testing.T) {
	rows := make([]string, 6)
	for i := range rows {
		rows[i] = "......"
	}
	f := newFixture(t, rows, WithEndpoints(grid.Index{}, grid.Index{X: 5, Y: 5}))
	ctx := context.Background()

	for range 50 {
		f.viewer.handleAction(ctx, ActionStep)
		if f.viewer.State() == StateIdle {
			break
		}
	}
	if tile, _ := f.nav.Board().Tile(grid.Index{X: 3, Y: 3}); tile.State != pathfind.StateInPath {
		t.Fatalf("Stepped path should cover (3,3), got %v", tile.State)
	}

	// New endpoints along the top row, far from (3,3).
	for range 5 {
		f.viewer.handleAction(ctx, ActionUp)
	}
	f.viewer.handleAction(ctx, ActionSetStart)
	f.viewer.handleAction(ctx, ActionRight)
	f.viewer.handleAction(ctx, ActionSetDest)
	f.viewer.handleAction(ctx, ActionFind)

	if !strings.Contains(f.viewer.Status(), "cost 10") {
		t.Fatalf("Status = %q", f.viewer.Status())
	}
	if tile, _ := f.nav.Board().Tile(grid.Index{X: 3, Y: 3}); tile.HasData || tile.State != pathfind.StateReset {
		t.Errorf("Stale stepped visual at (3,3): %v", tile.State)
	}
	if tile, _ := f.nav.Board().Tile(grid.Index{X: 1, Y: 5}); tile.State != pathfind.StateInPath {
		t.Errorf("New destination state = %v", tile.State)
	}
}

func TestStepRejectsBadEndpoints(t *testing.T) {
	f := newFixture(t, dividerRows, WithEndpoints(grid.Index{}, grid.Index{X: 2, Y: 0}))
	f.viewer.handleAction(context.Background(), ActionStep)
	if f.viewer.State() != StateIdle || !strings.Contains(f.viewer.Status(), "invalid_destination") {
		t.Errorf("State %v status %q", f.viewer.State(), f.viewer.Status())
	}
}

func TestCycleModeAndRegenerate(t *testing.T) {
	rows := make([]string, 20)
	for i := range rows {
		rows[i] = strings.Repeat("#", 30)
	}
	f := newFixture(t, rows, WithRand(rand.New(rand.NewSource(3))))
	ctx := context.Background()

	before := f.nav.Board().Mode()
	f.viewer.handleAction(ctx, ActionCycleMode)
	if f.nav.Board().Mode() != before.Next() {
		t.Errorf("Mode = %v, want %v", f.nav.Board().Mode(), before.Next())
	}

	f.viewer.handleAction(ctx, ActionRegenerate)
	if !strings.HasPrefix(f.viewer.Status(), "regenerated") {
		t.Fatalf("Status = %q", f.viewer.Status())
	}
	start, dest := f.viewer.Endpoints()
	if !f.nav.Grid().IsIndexValid(start.X, start.Y) || f.viewer.Cursor() != start {
		t.Errorf("Start %v cursor %v", start, f.viewer.Cursor())
	}
	if _, err := f.nav.CreatePath(ctx, start, dest); err != nil {
		t.Errorf("Generated rooms should connect: %v", err)
	}
	if f.nav.Board().Mode() != before.Next() {
		t.Error("Regenerate should keep the display mode")
	}
}

func TestRunProcessesKeys(t *testing.T) {
	f := newFixture(t, dividerRows, WithEndpoints(grid.Index{}, grid.Index{X: 4, Y: 0}))
	f.nav.Board().SetDisplayMode(debuggrid.ModePathing)

	f.sim.InjectKey(tcell.KeyRune, 'f', tcell.ModNone)
	f.sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	if err := f.viewer.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(f.viewer.Status(), "cost 96") {
		t.Errorf("Status = %q", f.viewer.Status())
	}
}

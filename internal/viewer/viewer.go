// Package viewer provides the interactive terminal front-end: a cursor over
// the debug board, path requests, wall editing and step-by-step searches.
package viewer

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/gdamore/tcell/v2"
	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/gridpath/internal/grid"
	"github.com/samdwyer/gridpath/internal/navigation"
	"github.com/samdwyer/gridpath/internal/pathfind"
	"github.com/samdwyer/gridpath/internal/telemetry"
	"github.com/samdwyer/gridpath/internal/ui"
	"github.com/samdwyer/gridpath/internal/walkability"
	"github.com/samdwyer/gridpath/internal/world"
)

// Option configures a Viewer.
type Option func(*Viewer)

// WithLogger sets the viewer logger.
func WithLogger(l logr.Logger) Option {
	return func(v *Viewer) { v.logger = l }
}

// WithEndpoints sets the initial start and destination.
func WithEndpoints(start, dest grid.Index) Option {
	return func(v *Viewer) { v.start, v.dest, v.cursor = start, dest, start }
}

// WithRand sets the generator used by regenerate.
func WithRand(rng *rand.Rand) Option {
	return func(v *Viewer) { v.rng = rng }
}

// Viewer holds the entire front-end state.
type Viewer struct {
	screen    *ui.Screen
	renderer  *ui.Renderer
	nav       *navigation.Manager
	terrain   *world.TileMap
	overrides *walkability.Overrides
	logger    logr.Logger
	rng       *rand.Rand

	cursor  grid.Index
	start   grid.Index
	dest    grid.Index
	state   State
	stepper *pathfind.Stepper
	stepped []grid.Index
	status  string
	running bool
}

// New creates a viewer over terrain. It takes over the manager's walkability
// source so wall edits layer over the terrain.
func New(screen *ui.Screen, nav *navigation.Manager, terrain *world.TileMap, opts ...Option) *Viewer {
	v := &Viewer{
		screen:    screen,
		renderer:  ui.NewRenderer(screen, ui.DefaultPalette()),
		nav:       nav,
		terrain:   terrain,
		overrides: walkability.NewOverrides(terrain),
		logger:    logr.Discard(),
		dest:      grid.Index{X: terrain.Width - 1, Y: terrain.Height - 1},
		status:    Help,
		running:   true,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.rng == nil {
		v.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	nav.SetSource(v.overrides)
	return v
}

// Run builds the grid and executes the main loop until quit.
func (v *Viewer) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("viewer")

	ctx, initSpan := tracer.Start(ctx, "viewer.init")
	err := v.nav.BuildPathGrid(ctx)
	initSpan.SetAttributes(
		attribute.Int("map.width", v.terrain.Width),
		attribute.Int("map.height", v.terrain.Height),
		attribute.Int("map.rooms", len(v.terrain.Rooms)),
	)
	initSpan.End()
	if err != nil {
		v.screen.Close()
		return err
	}

	for v.running {
		v.render()
		v.handleInput(ctx)
	}

	v.screen.Close()
	return nil
}

// Status returns the current status line.
func (v *Viewer) Status() string { return v.status }

// State returns what the viewer is doing.
func (v *Viewer) State() State { return v.state }

// Cursor returns the cursor cell.
func (v *Viewer) Cursor() grid.Index { return v.cursor }

// Endpoints returns the current start and destination.
func (v *Viewer) Endpoints() (grid.Index, grid.Index) { return v.start, v.dest }

func (v *Viewer) render() {
	board := v.nav.Board()
	if board == nil {
		return
	}
	v.renderer.ClearMarks()
	v.renderer.Mark(v.start, 'S')
	v.renderer.Mark(v.dest, 'D')
	v.renderer.Render(board, v.cursor, v.status)
}

// handleInput processes a single input event.
func (v *Viewer) handleInput(ctx context.Context) {
	ev := v.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		v.handleAction(ctx, actionForKey(ev.Key(), ev.Rune()))
	case *tcell.EventResize:
		v.screen.Sync()
	case nil:
		v.running = false
	}
}

func (v *Viewer) handleAction(ctx context.Context, a Action) {
	switch a {
	case ActionQuit:
		v.running = false
	case ActionUp:
		v.moveCursor(0, 1)
	case ActionDown:
		v.moveCursor(0, -1)
	case ActionLeft:
		v.moveCursor(-1, 0)
	case ActionRight:
		v.moveCursor(1, 0)
	case ActionSetStart:
		v.start = v.cursor
		v.status = "start " + v.start.String()
	case ActionSetDest:
		v.dest = v.cursor
		v.status = "destination " + v.dest.String()
	case ActionFind:
		v.find(ctx)
	case ActionStep:
		v.step()
	case ActionClear:
		v.stopStepping()
		v.nav.ClearDebugPathingGrid()
		v.status = "cleared"
	case ActionToggleWall:
		v.toggleWall(ctx)
	case ActionCycleMode:
		if board := v.nav.Board(); board != nil {
			board.SetDisplayMode(board.Mode().Next())
			v.status = "mode " + board.Mode().String()
		}
	case ActionRegenerate:
		v.regenerate(ctx)
	}
}

// moveCursor moves by (dx,dy) and stays inside the grid.
func (v *Viewer) moveCursor(dx, dy int) {
	next := v.cursor.Add(grid.Offset{DX: dx, DY: dy})
	if g := v.nav.Grid(); g != nil && g.IsIndexValid(next.X, next.Y) {
		v.cursor = next
	}
}

func (v *Viewer) find(ctx context.Context) {
	v.stopStepping()
	res, err := v.nav.CreatePath(ctx, v.start, v.dest)
	if err != nil {
		v.status = fmt.Sprintf("no path %s -> %s: %s", v.start, v.dest, pathfind.Reason(err))
		v.logger.V(1).Info("path failed", "start", v.start.String(), "destination", v.dest.String(), "error", err.Error())
		return
	}
	v.status = fmt.Sprintf("path %s -> %s: %d cells, cost %d, explored %d, inspected %d",
		v.start, v.dest, len(res.Path), res.Cost, res.Explored, res.Inspected)
}

// step advances an incremental search by one expansion, starting one if
// none is running.
func (v *Viewer) step() {
	board := v.nav.Board()
	if board == nil {
		return
	}
	if v.stepper == nil {
		st, err := v.nav.Stepper(v.start, v.dest)
		if err != nil {
			v.status = "cannot step: " + pathfind.Reason(err)
			return
		}
		v.nav.ClearDebugPathingGrid()
		v.stepper = st
		v.state = StateStepping
	}

	snap := v.stepper.Step()
	pathfind.Clear(board, v.stepped)
	v.stepped = pathfind.Publish(board, snap)

	switch {
	case snap.Found:
		v.status = fmt.Sprintf("step %d: found, %d cells", snap.Step, len(snap.Path))
	case snap.Done:
		v.status = fmt.Sprintf("step %d: %s", snap.Step, pathfind.Reason(v.stepper.Err()))
	default:
		v.status = fmt.Sprintf("step %d: current %s, open %d, closed %d",
			snap.Step, snap.Current.Index, len(snap.Open), len(snap.Closed))
	}
	if snap.Done {
		v.stepper = nil
		v.state = StateIdle
	}
}

// stopStepping drops any incremental search and its visuals, including
// those of a stepped search that already finished.
func (v *Viewer) stopStepping() {
	if board := v.nav.Board(); board != nil {
		pathfind.Clear(board, v.stepped)
	}
	v.stepper, v.stepped = nil, nil
	v.state = StateIdle
}

// toggleWall flips the cursor cell and rebuilds the grid from the edited
// source.
func (v *Viewer) toggleWall(ctx context.Context) {
	v.stopStepping()
	walkable := v.overrides.Toggle(v.cursor)
	if err := v.nav.BuildPathGrid(ctx); err != nil {
		v.status = "rebuild failed: " + err.Error()
		v.logger.Error(err, "rebuild failed")
		return
	}
	v.status = fmt.Sprintf("%s walkable=%t", v.cursor, walkable)
}

// regenerate carves a fresh map of the same size and drops every edit.
func (v *Viewer) regenerate(ctx context.Context) {
	v.stopStepping()
	terrain := world.NewTileMap(v.terrain.Width, v.terrain.Height)
	terrain.Generate(ctx, v.rng)
	overrides := walkability.NewOverrides(terrain)

	v.nav.SetSource(overrides)
	if err := v.nav.BuildPathGrid(ctx); err != nil {
		v.status = "rebuild failed: " + err.Error()
		v.logger.Error(err, "rebuild failed")
		return
	}
	v.terrain, v.overrides = terrain, overrides

	if n := len(terrain.Rooms); n > 0 {
		v.start, v.dest = terrain.Rooms[0].Center(), terrain.Rooms[n-1].Center()
		v.cursor = v.start
	}
	v.status = fmt.Sprintf("regenerated %d rooms", len(terrain.Rooms))
}

package navigation

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/samdwyer/gridpath/internal/cost"
	"github.com/samdwyer/gridpath/internal/debuggrid"
	"github.com/samdwyer/gridpath/internal/grid"
	"github.com/samdwyer/gridpath/internal/pathfind"
	"github.com/samdwyer/gridpath/internal/walkability"
	"github.com/samdwyer/gridpath/internal/world"
)

// countingSource counts walkability queries.
type countingSource struct {
	mu    sync.Mutex
	calls int
	src   walkability.Source
}

func (c *countingSource) Walkable(idx grid.Index) bool {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.src.Walkable(idx)
}

// recordingSink remembers the last state per index.
type recordingSink struct {
	states map[grid.Index]pathfind.VisualState
}

func newRecordingSink() *recordingSink {
	return &recordingSink{states: make(map[grid.Index]pathfind.VisualState)}
}

func (r *recordingSink) UpdateVisual(n pathfind.Node, s pathfind.VisualState) {
	r.states[n.Index] = s
}

func (r *recordingSink) ClearVisual(idx grid.Index) {
	delete(r.states, idx)
}

func newManager(t *testing.T, w, h int, src walkability.Source, opts ...Option) *Manager {
	t.Helper()
	m, err := New(DefaultConfig(w, h), src, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return m
}

func TestNewValidatesConfig(t *testing.T) {
	if _, err := New(DefaultConfig(0, 5), walkability.Uniform(true)); !errors.Is(err, grid.ErrInvalidDimensions) {
		t.Errorf("Expected ErrInvalidDimensions, got %v", err)
	}
	cfg := DefaultConfig(5, 5)
	cfg.Cost = cost.Model{Straight: 0, Diagonal: 0}
	if _, err := New(cfg, walkability.Uniform(true)); !errors.Is(err, cost.ErrInvalidModel) {
		t.Errorf("Expected ErrInvalidModel, got %v", err)
	}
	if _, err := New(DefaultConfig(5, 5), nil); err == nil {
		t.Error("Nil source should fail")
	}
}

func TestQueriesBeforeBuild(t *testing.T) {
	m := newManager(t, 3, 3, walkability.Uniform(true))

	if _, err := m.CreatePath(context.Background(), grid.Index{}, grid.Index{X: 2, Y: 2}); !errors.Is(err, ErrNotBuilt) {
		t.Errorf("CreatePath: expected ErrNotBuilt, got %v", err)
	}
	if _, err := m.Fingerprint(); !errors.Is(err, ErrNotBuilt) {
		t.Errorf("Fingerprint: expected ErrNotBuilt, got %v", err)
	}
	if _, err := m.LocalCellPosition(0, 0); !errors.Is(err, ErrNotBuilt) {
		t.Errorf("LocalCellPosition: expected ErrNotBuilt, got %v", err)
	}
	if _, err := m.Stepper(grid.Index{}, grid.Index{}); !errors.Is(err, ErrNotBuilt) {
		t.Errorf("Stepper: expected ErrNotBuilt, got %v", err)
	}
	if m.Grid() != nil || m.Board() != nil {
		t.Error("No grid or board should exist yet")
	}
	m.ClearDebugPathingGrid()
}

func TestBuildReadsEveryCellOnce(t *testing.T) {
	src := &countingSource{src: walkability.Uniform(true)}
	m := newManager(t, 6, 4, src)

	if err := m.BuildPathGrid(context.Background()); err != nil {
		t.Fatalf("BuildPathGrid failed: %v", err)
	}
	if src.calls != 24 {
		t.Errorf("Expected 24 walkability queries, got %d", src.calls)
	}
	if g := m.Grid(); g.Width() != 6 || g.Height() != 4 {
		t.Errorf("Grid is %dx%d", g.Width(), g.Height())
	}
}

func TestRebuildIsIdempotent(t *testing.T) {
	tm, err := world.ParseTileMap([]string{
		"..#..",
		"..#..",
		".....",
	})
	if err != nil {
		t.Fatalf("ParseTileMap failed: %v", err)
	}
	m := newManager(t, 5, 3, tm)
	ctx := context.Background()

	if err := m.BuildPathGrid(ctx); err != nil {
		t.Fatalf("BuildPathGrid failed: %v", err)
	}
	first, _ := m.Fingerprint()
	if err := m.BuildPathGrid(ctx); err != nil {
		t.Fatalf("BuildPathGrid failed: %v", err)
	}
	second, _ := m.Fingerprint()
	if first != second {
		t.Errorf("Fingerprints differ: %x vs %x", first, second)
	}

	tm.SetTile(0, 0, world.TileWall)
	if err := m.BuildPathGrid(ctx); err != nil {
		t.Fatalf("BuildPathGrid failed: %v", err)
	}
	if third, _ := m.Fingerprint(); third == first {
		t.Error("Changing the source should change the fingerprint")
	}
}

func TestMutateRereadReplan(t *testing.T) {
	ctx := context.Background()
	overrides := walkability.NewOverrides(walkability.Uniform(true))
	m := newManager(t, 5, 5, overrides)
	if err := m.BuildPathGrid(ctx); err != nil {
		t.Fatalf("BuildPathGrid failed: %v", err)
	}

	start, dest := grid.Index{X: 0, Y: 0}, grid.Index{X: 4, Y: 0}
	before, err := m.CreatePath(ctx, start, dest)
	if err != nil {
		t.Fatalf("CreatePath failed: %v", err)
	}
	if before.Cost != 40 {
		t.Errorf("Expected straight cost 40, got %d", before.Cost)
	}

	// Wall off column 2 except the top cell.
	for y := range 4 {
		overrides.Set(grid.Index{X: 2, Y: y}, false)
	}

	// Without a rebuild the grid still holds the old answers.
	stale, err := m.CreatePath(ctx, start, dest)
	if err != nil || stale.Cost != 40 {
		t.Errorf("Stale grid should give the old path: %v %v", stale.Cost, err)
	}

	if err := m.BuildPathGrid(ctx); err != nil {
		t.Fatalf("BuildPathGrid failed: %v", err)
	}
	after, err := m.CreatePath(ctx, start, dest)
	if err != nil {
		t.Fatalf("CreatePath failed: %v", err)
	}
	if !slices.Contains(after.Path, grid.Index{X: 2, Y: 4}) || after.Cost != 96 {
		t.Errorf("Replanned path = %v cost %d", after.Path, after.Cost)
	}

	overrides.Set(grid.Index{X: 2, Y: 4}, false)
	if err := m.BuildPathGrid(ctx); err != nil {
		t.Fatalf("BuildPathGrid failed: %v", err)
	}
	if _, err := m.CreatePath(ctx, start, dest); !errors.Is(err, pathfind.ErrNoPath) {
		t.Errorf("Expected ErrNoPath, got %v", err)
	}
}

func TestSetSourceTakesEffectOnRebuild(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, 3, 3, walkability.Uniform(true))
	if err := m.BuildPathGrid(ctx); err != nil {
		t.Fatalf("BuildPathGrid failed: %v", err)
	}

	m.SetSource(walkability.Uniform(false))
	if _, err := m.CreatePath(ctx, grid.Index{}, grid.Index{X: 2, Y: 2}); err != nil {
		t.Errorf("Old grid should still answer: %v", err)
	}
	if err := m.BuildPathGrid(ctx); err != nil {
		t.Fatalf("BuildPathGrid failed: %v", err)
	}
	if _, err := m.CreatePath(ctx, grid.Index{}, grid.Index{X: 2, Y: 2}); !errors.Is(err, pathfind.ErrInvalidStart) {
		t.Errorf("Expected ErrInvalidStart, got %v", err)
	}
}

func TestBoardAndSinkFollowSearches(t *testing.T) {
	ctx := context.Background()
	sink := newRecordingSink()
	m := newManager(t, 4, 4, walkability.Uniform(true), WithSink(sink))
	if err := m.BuildPathGrid(ctx); err != nil {
		t.Fatalf("BuildPathGrid failed: %v", err)
	}

	res, err := m.CreatePath(ctx, grid.Index{}, grid.Index{X: 3, Y: 3})
	if err != nil {
		t.Fatalf("CreatePath failed: %v", err)
	}
	for _, idx := range res.Path {
		if sink.states[idx] != pathfind.StateInPath {
			t.Errorf("Sink shows %v at %v", sink.states[idx], idx)
		}
		if tile, _ := m.Board().Tile(idx); tile.State != pathfind.StateInPath {
			t.Errorf("Board shows %v at %v", tile.State, idx)
		}
	}

	m.ClearDebugPathingGrid()
	if len(sink.states) != 0 {
		t.Errorf("Sink still holds %d visuals", len(sink.states))
	}
	err = m.VisitBoard(func(b *debuggrid.Board) {
		for _, tile := range b.Tiles() {
			if tile.HasData {
				t.Errorf("Board tile %v not cleared", tile.Index)
			}
		}
	})
	if err != nil {
		t.Fatalf("VisitBoard failed: %v", err)
	}
}

func TestRebuildClearsVisualsAndKeepsMode(t *testing.T) {
	ctx := context.Background()
	sink := newRecordingSink()
	m := newManager(t, 4, 4, walkability.Uniform(true), WithSink(sink))
	if err := m.BuildPathGrid(ctx); err != nil {
		t.Fatalf("BuildPathGrid failed: %v", err)
	}
	m.Board().SetDisplayMode(debuggrid.ModeWalkability)
	if _, err := m.CreatePath(ctx, grid.Index{}, grid.Index{X: 3, Y: 0}); err != nil {
		t.Fatalf("CreatePath failed: %v", err)
	}

	if err := m.BuildPathGrid(ctx); err != nil {
		t.Fatalf("BuildPathGrid failed: %v", err)
	}
	if len(sink.states) != 0 {
		t.Errorf("Rebuild should clear %d stale visuals", len(sink.states))
	}
	if m.Board().Mode() != debuggrid.ModeWalkability {
		t.Errorf("Display mode lost: %v", m.Board().Mode())
	}
}

func TestLocalCellPosition(t *testing.T) {
	cfg := DefaultConfig(3, 3)
	cfg.CellSize = grid.Vec3{X: 2, Y: 2}
	cfg.Offset = grid.Vec3{X: 1, Y: 0.5}
	m, err := New(cfg, walkability.Uniform(true))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := m.BuildPathGrid(context.Background()); err != nil {
		t.Fatalf("BuildPathGrid failed: %v", err)
	}

	got, err := m.LocalCellPosition(2, 1)
	if err != nil {
		t.Fatalf("LocalCellPosition failed: %v", err)
	}
	if got != (grid.Vec3{X: 5, Y: 2.5}) {
		t.Errorf("LocalCellPosition(2,1) = %+v", got)
	}
	// Off-grid indices still map.
	if got, _ := m.LocalCellPosition(-1, 0); got != (grid.Vec3{X: -1, Y: 0.5}) {
		t.Errorf("LocalCellPosition(-1,0) = %+v", got)
	}
}

func TestWorldCellPosition(t *testing.T) {
	cfg := DefaultConfig(3, 3)
	cfg.CellSize = grid.Vec3{X: 2, Y: 2}
	cfg.Offset = grid.Vec3{X: 1, Y: 0.5}
	cfg.Origin = grid.Vec3{X: 100, Y: -10, Z: 3}
	m, err := New(cfg, walkability.Uniform(true))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := m.WorldCellPosition(0, 0); !errors.Is(err, ErrNotBuilt) {
		t.Errorf("Expected ErrNotBuilt, got %v", err)
	}
	if err := m.BuildPathGrid(context.Background()); err != nil {
		t.Fatalf("BuildPathGrid failed: %v", err)
	}

	got, err := m.WorldCellPosition(2, 1)
	if err != nil {
		t.Fatalf("WorldCellPosition failed: %v", err)
	}
	if got != (grid.Vec3{X: 105, Y: -7.5, Z: 3}) {
		t.Errorf("WorldCellPosition(2,1) = %+v", got)
	}
	local, _ := m.LocalCellPosition(2, 1)
	if got != cfg.Origin.Add(local) {
		t.Errorf("World %+v should be origin plus local %+v", got, local)
	}
}

func TestStepperMatchesCreatePath(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, 6, 6, walkability.Func(func(idx grid.Index) bool { return idx.X != 3 || idx.Y == 5 }))
	if err := m.BuildPathGrid(ctx); err != nil {
		t.Fatalf("BuildPathGrid failed: %v", err)
	}

	start, dest := grid.Index{X: 0, Y: 0}, grid.Index{X: 5, Y: 0}
	res, err := m.CreatePath(ctx, start, dest)
	if err != nil {
		t.Fatalf("CreatePath failed: %v", err)
	}

	st, err := m.Stepper(start, dest)
	if err != nil {
		t.Fatalf("Stepper failed: %v", err)
	}
	var snap pathfind.Snapshot
	for !st.Done() {
		snap = st.Step()
	}
	if !snap.Found || !slices.Equal(snap.Path, res.Path) {
		t.Errorf("Stepper path %v, FindPath path %v", snap.Path, res.Path)
	}
}

func TestBuildSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	m := newManager(t, 3, 3, walkability.Uniform(true), WithTracer(tp.Tracer("test")))

	ctx := context.Background()
	if err := m.BuildPathGrid(ctx); err != nil {
		t.Fatalf("BuildPathGrid failed: %v", err)
	}
	if _, err := m.CreatePath(ctx, grid.Index{}, grid.Index{X: 2, Y: 2}); err != nil {
		t.Fatalf("CreatePath failed: %v", err)
	}

	var names []string
	for _, s := range sr.Ended() {
		names = append(names, s.Name())
	}
	for _, want := range []string{"grid.refresh", "grid.build", "path.find"} {
		if !slices.Contains(names, want) {
			t.Errorf("Missing span %q in %v", want, names)
		}
	}
}

func TestConcurrentQueries(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, 10, 10, walkability.Uniform(true))
	if err := m.BuildPathGrid(ctx); err != nil {
		t.Fatalf("BuildPathGrid failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := m.CreatePath(ctx, grid.Index{}, grid.Index{X: 9, Y: i})
			errs <- err
		}()
		go func() {
			defer wg.Done()
			errs <- m.BuildPathGrid(ctx)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("Concurrent call failed: %v", err)
		}
	}
}

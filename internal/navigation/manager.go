// Package navigation owns the traversal grid and answers path queries
// against it. A Manager rebuilds the grid from a walkability source on
// demand and keeps the debug board in step with every search.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/gridpath/internal/cost"
	"github.com/samdwyer/gridpath/internal/debuggrid"
	"github.com/samdwyer/gridpath/internal/grid"
	"github.com/samdwyer/gridpath/internal/pathfind"
	"github.com/samdwyer/gridpath/internal/telemetry"
	"github.com/samdwyer/gridpath/internal/walkability"
)

// ErrNotBuilt is returned by queries made before the first BuildPathGrid.
var ErrNotBuilt = errors.New("path grid not built")

// Config describes the grid a Manager builds.
type Config struct {
	Width          int
	Height         int
	CellSize       grid.Vec3
	Offset         grid.Vec3
	Origin         grid.Vec3 // world position of the grid's local origin
	Cost           cost.Model
	ClearOnFailure bool
}

// DefaultConfig returns a config for a width x height grid of unit cells.
func DefaultConfig(width, height int) Config {
	return Config{
		Width:          width,
		Height:         height,
		CellSize:       grid.Vec3{X: 1, Y: 1},
		Cost:           cost.DefaultModel(),
		ClearOnFailure: true,
	}
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger passed down to every search.
func WithLogger(l logr.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithTracer overrides the tracer for grid builds and searches.
func WithTracer(t trace.Tracer) Option {
	return func(m *Manager) { m.tracer = t }
}

// WithMeter overrides the meter used by searches.
func WithMeter(mt metric.Meter) Option {
	return func(m *Manager) { m.meter = mt }
}

// WithSink adds a sink that receives visual events next to the debug board.
func WithSink(s pathfind.Sink) Option {
	return func(m *Manager) { m.sink = s }
}

// Manager is safe for concurrent use. Searches and rebuilds are serialized;
// read-only accessors share the lock.
type Manager struct {
	cfg    Config
	logger logr.Logger
	tracer trace.Tracer
	meter  metric.Meter
	sink   pathfind.Sink

	searchOpts []pathfind.Option

	mu     sync.RWMutex
	src    walkability.Source
	grid   *grid.Grid
	board  *debuggrid.Board
	finder *pathfind.Pathfinder
}

// New validates cfg and returns a Manager reading walkability from src.
// No grid exists until BuildPathGrid is called.
func New(cfg Config, src walkability.Source, opts ...Option) (*Manager, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", grid.ErrInvalidDimensions, cfg.Width, cfg.Height)
	}
	if err := cfg.Cost.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, errors.New("nil walkability source")
	}

	m := &Manager{
		cfg:    cfg,
		src:    src,
		logger: logr.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.tracer == nil {
		m.tracer = telemetry.Tracer("navigation")
	} else {
		m.searchOpts = append(m.searchOpts, pathfind.WithTracer(m.tracer))
	}
	if m.meter == nil {
		m.meter = telemetry.Meter("pathfind")
	}
	return m, nil
}

// Config returns the build settings.
func (m *Manager) Config() Config { return m.cfg }

// SetSource replaces the walkability authority. It takes effect on the next
// BuildPathGrid.
func (m *Manager) SetSource(src walkability.Source) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.src = src
}

// BuildPathGrid builds a fresh grid, reads every cell's walkability from the
// source and swaps the grid, board and pathfinder in together. Readers never
// see a half-built grid. Rebuilding against an unchanged source yields an
// identical grid.
func (m *Manager) BuildPathGrid(ctx context.Context) error {
	ctx, span := m.tracer.Start(ctx, "grid.build")
	defer span.End()
	span.SetAttributes(
		attribute.Int("grid.width", m.cfg.Width),
		attribute.Int("grid.height", m.cfg.Height),
	)

	m.mu.RLock()
	src := m.src
	m.mu.RUnlock()

	g, err := grid.Build(m.cfg.Width, m.cfg.Height, grid.RectLayout(m.cfg.CellSize), m.cfg.Offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build failed")
		return fmt.Errorf("build path grid: %w", err)
	}

	walkable, err := m.refresh(ctx, g, src)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "refresh failed")
		return fmt.Errorf("build path grid: %w", err)
	}

	board := debuggrid.NewBoard(g)
	opts := append([]pathfind.Option{
		pathfind.WithCostModel(m.cfg.Cost),
		pathfind.WithSink(debuggrid.MultiSink(board, m.sink)),
		pathfind.WithLogger(m.logger),
		pathfind.WithMeter(m.meter),
		pathfind.WithClearOnFailure(m.cfg.ClearOnFailure),
	}, m.searchOpts...)
	finder := pathfind.New(g, opts...)

	m.mu.Lock()
	if m.board != nil {
		board.SetDisplayMode(m.board.Mode())
		// Old visuals belong to cells of the discarded grid.
		m.finder.ClearVisuals()
	}
	m.grid, m.board, m.finder = g, board, finder
	m.mu.Unlock()

	fp := g.Fingerprint()
	span.SetAttributes(
		attribute.Int("grid.walkable", walkable),
		attribute.String("grid.fingerprint", fmt.Sprintf("%016x", fp)),
	)
	m.logger.V(1).Info("path grid built", "width", m.cfg.Width, "height", m.cfg.Height,
		"walkable", walkable, "fingerprint", fmt.Sprintf("%016x", fp))
	return nil
}

func (m *Manager) refresh(ctx context.Context, g *grid.Grid, src walkability.Source) (int, error) {
	_, span := m.tracer.Start(ctx, "grid.refresh")
	defer span.End()

	walkable, err := walkability.Refresh(g, src)
	if err != nil {
		span.RecordError(err)
		return walkable, err
	}
	span.SetAttributes(attribute.Int("grid.walkable", walkable))
	return walkable, nil
}

// CreatePath finds a path between two cells of the current grid. It is the
// only path query entry point.
func (m *Manager) CreatePath(ctx context.Context, start, destination grid.Index) (pathfind.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finder == nil {
		return pathfind.Result{}, ErrNotBuilt
	}
	return m.finder.FindPath(ctx, start, destination)
}

// Stepper prepares an incremental search over the current grid. The grid
// must not be rebuilt while the stepper is in use.
func (m *Manager) Stepper(start, destination grid.Index) (*pathfind.Stepper, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.grid == nil {
		return nil, ErrNotBuilt
	}
	return pathfind.NewStepper(m.grid, m.cfg.Cost, start, destination)
}

// ClearDebugPathingGrid resets every search visual on the board and on the
// extra sink.
func (m *Manager) ClearDebugPathingGrid() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finder == nil {
		return
	}
	m.finder.ClearVisuals()
	m.board.ClearAll()
}

// LocalCellPosition maps a cell to local space. Indices outside the grid
// are mapped too.
func (m *Manager) LocalCellPosition(x, y int) (grid.Vec3, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.grid == nil {
		return grid.Vec3{}, ErrNotBuilt
	}
	return m.grid.LocalPosition(x, y), nil
}

// WorldCellPosition maps a cell to world space: the local position shifted
// by the configured origin.
func (m *Manager) WorldCellPosition(x, y int) (grid.Vec3, error) {
	local, err := m.LocalCellPosition(x, y)
	if err != nil {
		return grid.Vec3{}, err
	}
	return m.cfg.Origin.Add(local), nil
}

// Grid returns the current grid, or nil before the first build.
func (m *Manager) Grid() *grid.Grid {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.grid
}

// Board returns the current debug board, or nil before the first build.
// The board is not synchronized; concurrent callers use VisitBoard.
func (m *Manager) Board() *debuggrid.Board {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.board
}

// VisitBoard runs fn with the current board while holding the lock.
func (m *Manager) VisitBoard(fn func(*debuggrid.Board)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.board == nil {
		return ErrNotBuilt
	}
	fn(m.board)
	return nil
}

// Fingerprint hashes the current grid's walkability.
func (m *Manager) Fingerprint() (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.grid == nil {
		return 0, ErrNotBuilt
	}
	return m.grid.Fingerprint(), nil
}

// Package pathfind implements 8-directional A* search over a grid.Grid.
//
// A Pathfinder runs each search to completion on the calling goroutine and
// owns its grid and sink for the duration of the call; callers must
// serialize FindPath against grid rebuilds. A Stepper runs the same search
// one expansion at a time for debug displays.
package pathfind

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/gridpath/internal/cost"
	"github.com/samdwyer/gridpath/internal/grid"
	"github.com/samdwyer/gridpath/internal/telemetry"
)

// Result is the outcome of a successful search. On failure Path is empty.
type Result struct {
	Path      []grid.Index
	Cost      int // G of the destination node
	Inspected int // nodes left in open
	Explored  int // nodes in closed
	RunID     string
}

// Found reports whether the result carries a path.
func (r Result) Found() bool {
	return len(r.Path) > 0
}

// Option configures a Pathfinder.
type Option func(*Pathfinder)

// WithCostModel replaces the default 10/14 cost model.
func WithCostModel(m cost.Model) Option {
	return func(p *Pathfinder) { p.model = m }
}

// WithSink sets the visualization sink. Without one no visuals are emitted.
func WithSink(s Sink) Option {
	return func(p *Pathfinder) { p.sink = s }
}

// WithLogger sets the logger used for rejected and failed searches.
func WithLogger(l logr.Logger) Option {
	return func(p *Pathfinder) { p.logger = l }
}

// WithTracer overrides the component tracer.
func WithTracer(t trace.Tracer) Option {
	return func(p *Pathfinder) { p.tracer = t }
}

// WithMeter overrides the component meter.
func WithMeter(m metric.Meter) Option {
	return func(p *Pathfinder) { p.meter = m }
}

// WithClearOnFailure controls whether a failed search wipes the visuals of
// the previous successful one. Enabled by default.
func WithClearOnFailure(enabled bool) Option {
	return func(p *Pathfinder) { p.clearOnFailure = enabled }
}

// Pathfinder searches one grid. It is not safe for concurrent use.
type Pathfinder struct {
	grid           *grid.Grid
	model          cost.Model
	sink           Sink
	logger         logr.Logger
	tracer         trace.Tracer
	meter          metric.Meter
	metrics        *searchMetrics
	clearOnFailure bool

	published []grid.Index // cells touched by the last visual sweep
}

// New returns a Pathfinder over g.
func New(g *grid.Grid, opts ...Option) *Pathfinder {
	p := &Pathfinder{
		grid:           g,
		model:          cost.DefaultModel(),
		logger:         logr.Discard(),
		clearOnFailure: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.tracer == nil {
		p.tracer = telemetry.Tracer("pathfind")
	}
	if p.meter == nil {
		p.meter = telemetry.Meter("pathfind")
	}
	p.metrics = newSearchMetrics(p.meter)
	return p
}

// Grid returns the grid being searched.
func (p *Pathfinder) Grid() *grid.Grid { return p.grid }

// CostModel returns the active cost model.
func (p *Pathfinder) CostModel() cost.Model { return p.model }

// FindPath searches from start to destination. On success the path runs
// start..destination inclusive. On failure the returned error wraps one of
// ErrInvalidStart, ErrInvalidDestination or ErrNoPath and the path is empty.
//
// ctx only carries the trace; the search itself is not interruptible.
func (p *Pathfinder) FindPath(ctx context.Context, start, destination grid.Index) (Result, error) {
	runID := uuid.NewString()
	ctx, span := p.tracer.Start(ctx, "path.find", trace.WithAttributes(
		attribute.String("path.run_id", runID),
		attribute.String("path.start", start.String()),
		attribute.String("path.destination", destination.String()),
	))
	defer span.End()

	log := p.logger.WithValues("run", runID, "start", start.String(), "destination", destination.String())
	result := Result{RunID: runID}

	if err := checkEndpoints(p.grid, start, destination); err != nil {
		log.Info("path request rejected", "reason", Reason(err), "error", err.Error())
		p.fail(ctx, span, err, 0)
		return result, err
	}

	s := newSearch(p.grid, p.model, start, destination)
	for !s.step() {
	}

	if !s.found {
		err := ErrNoPath
		log.Info("no path found", "explored", len(s.closed))
		p.fail(ctx, span, err, len(s.closed))
		return result, err
	}

	result.Path = s.path
	result.Cost = s.current.G
	result.Inspected = s.open.Len()
	result.Explored = len(s.closed)

	p.ClearVisuals()
	p.published = Publish(p.sink, s.snapshot())

	span.SetAttributes(
		attribute.Int("path.length", len(result.Path)),
		attribute.Int("path.cost", result.Cost),
		attribute.Int("path.explored", result.Explored),
		attribute.Int("path.inspected", result.Inspected),
	)
	p.metrics.record(ctx, "found", result.Explored)
	log.V(1).Info("path found", "length", len(result.Path), "cost", result.Cost, "explored", result.Explored)
	return result, nil
}

// ClearVisuals resets every cell touched by the last published search.
func (p *Pathfinder) ClearVisuals() {
	Clear(p.sink, p.published)
	p.published = nil
}

func (p *Pathfinder) fail(ctx context.Context, span trace.Span, err error, explored int) {
	span.RecordError(err)
	span.SetStatus(codes.Error, Reason(err))
	p.metrics.record(ctx, Reason(err), explored)
	if p.clearOnFailure {
		p.ClearVisuals()
	}
}

package pathfind

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
)

type searchMetrics struct {
	searches metric.Int64Counter
	explored metric.Int64Histogram
}

func newSearchMetrics(meter metric.Meter) *searchMetrics {
	m := &searchMetrics{}
	fallback := metricnoop.NewMeterProvider().Meter("gridpath/noop")

	var err error
	m.searches, err = meter.Int64Counter("gridpath.searches",
		metric.WithDescription("Path searches by outcome"))
	if err != nil {
		otel.Handle(err)
		m.searches, _ = fallback.Int64Counter("gridpath.searches")
	}

	m.explored, err = meter.Int64Histogram("gridpath.search.expanded",
		metric.WithDescription("Closed nodes per search"),
		metric.WithUnit("{node}"))
	if err != nil {
		otel.Handle(err)
		m.explored, _ = fallback.Int64Histogram("gridpath.search.expanded")
	}
	return m
}

func (m *searchMetrics) record(ctx context.Context, outcome string, explored int) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.searches.Add(ctx, 1, attrs)
	if explored > 0 {
		m.explored.Record(ctx, int64(explored), attrs)
	}
}

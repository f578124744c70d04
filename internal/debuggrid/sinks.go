package debuggrid

import (
	"github.com/go-logr/logr"

	"github.com/samdwyer/gridpath/internal/grid"
	"github.com/samdwyer/gridpath/internal/pathfind"
)

// LogSink writes every visual event to a logger at V(1).
type LogSink struct {
	Logger logr.Logger
}

// UpdateVisual logs the node and its new state.
func (s LogSink) UpdateVisual(node pathfind.Node, state pathfind.VisualState) {
	s.Logger.V(1).Info("visual", "index", node.Index.String(), "state", state.String(),
		"g", node.G, "h", node.H, "f", node.F)
}

// ClearVisual logs the reset of idx.
func (s LogSink) ClearVisual(idx grid.Index) {
	s.Logger.V(1).Info("visual cleared", "index", idx.String())
}

// MultiSink fans events out to several sinks in order. Nil sinks are skipped.
func MultiSink(sinks ...pathfind.Sink) pathfind.Sink {
	var out multiSink
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

type multiSink []pathfind.Sink

func (m multiSink) UpdateVisual(node pathfind.Node, state pathfind.VisualState) {
	for _, s := range m {
		s.UpdateVisual(node, state)
	}
}

func (m multiSink) ClearVisual(idx grid.Index) {
	for _, s := range m {
		s.ClearVisual(idx)
	}
}

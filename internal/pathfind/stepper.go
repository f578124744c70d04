package pathfind

import (
	"github.com/samdwyer/gridpath/internal/cost"
	"github.com/samdwyer/gridpath/internal/grid"
)

// Snapshot exposes the search state after one iteration.
type Snapshot struct {
	Current Node
	Open    []Node // insertion order
	Closed  []Node // finalization order
	Done    bool
	Found   bool
	Path    []grid.Index
	Step    int
}

// Stepper advances a search one expansion per Step call. It shares the
// search rules of Pathfinder.FindPath and reads the grid on every step, so
// the grid must not be rebuilt while a Stepper is in use.
type Stepper struct {
	s *search
}

// NewStepper validates the endpoints and prepares a search. The returned
// error is the same one FindPath would report for these endpoints.
func NewStepper(g *grid.Grid, model cost.Model, start, destination grid.Index) (*Stepper, error) {
	if err := checkEndpoints(g, start, destination); err != nil {
		return nil, err
	}
	return &Stepper{s: newSearch(g, model, start, destination)}, nil
}

// Step runs one iteration and returns the resulting state. Once Done is
// set further calls return the final snapshot again.
func (st *Stepper) Step() Snapshot {
	st.s.step()
	return st.s.snapshot()
}

// Done reports whether the search has finished.
func (st *Stepper) Done() bool {
	return st.s.done
}

// Err returns ErrNoPath once the search finished without a path.
func (st *Stepper) Err() error {
	if st.s.done && !st.s.found {
		return ErrNoPath
	}
	return nil
}

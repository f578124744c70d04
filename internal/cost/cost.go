// Package cost implements the octile traversal cost model.
package cost

import (
	"errors"
	"fmt"

	"github.com/samdwyer/gridpath/internal/grid"
)

const (
	// DefaultStraight is the cost of an orthogonal step.
	DefaultStraight = 10
	// DefaultDiagonal approximates 10*sqrt(2).
	DefaultDiagonal = 14
)

// ErrInvalidModel is returned by Validate for unusable cost constants.
var ErrInvalidModel = errors.New("invalid cost model")

// Model holds the step costs used for both the heuristic and edge weights.
type Model struct {
	Straight int `yaml:"straight"`
	Diagonal int `yaml:"diagonal"`
}

// DefaultModel returns the 10/14 model.
func DefaultModel() Model {
	return Model{Straight: DefaultStraight, Diagonal: DefaultDiagonal}
}

// Validate checks Straight > 0 and Straight <= Diagonal <= 2*Straight.
// Outside that range octile distance stops being a consistent heuristic.
func (m Model) Validate() error {
	if m.Straight <= 0 {
		return fmt.Errorf("%w: straight cost %d must be positive", ErrInvalidModel, m.Straight)
	}
	if m.Diagonal < m.Straight || m.Diagonal > 2*m.Straight {
		return fmt.Errorf("%w: diagonal cost %d must lie in [%d,%d]",
			ErrInvalidModel, m.Diagonal, m.Straight, 2*m.Straight)
	}
	return nil
}

// Distance returns the octile distance between two indices.
func (m Model) Distance(a, b grid.Index) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	diagonal := min(dx, dy)
	straight := max(dx, dy) - diagonal
	return diagonal*m.Diagonal + straight*m.Straight
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

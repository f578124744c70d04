package pathfind

import (
	"errors"
	"fmt"

	"github.com/samdwyer/gridpath/internal/grid"
)

var (
	// ErrInvalidStart is returned when the start is off-grid or unwalkable.
	ErrInvalidStart = errors.New("invalid start")
	// ErrInvalidDestination is returned when the destination is off-grid or unwalkable.
	ErrInvalidDestination = errors.New("invalid destination")
	// ErrUnwalkable is wrapped by the endpoint errors when the cell exists but is blocked.
	ErrUnwalkable = errors.New("cell is not walkable")
	// ErrNoPath is returned when the open set runs dry before the destination.
	ErrNoPath = errors.New("no path found")
)

// Reason returns a stable label for err, suitable for logs, metrics and JSON.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidStart):
		return "invalid_start"
	case errors.Is(err, ErrInvalidDestination):
		return "invalid_destination"
	case errors.Is(err, ErrNoPath):
		return "no_path"
	default:
		return "error"
	}
}

// checkEndpoints applies the preconditions in order: start on grid,
// destination on grid, start walkable, destination walkable.
func checkEndpoints(g *grid.Grid, start, dest grid.Index) error {
	startCell, err := g.GetCell(start.X, start.Y)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidStart, err)
	}
	destCell, err := g.GetCell(dest.X, dest.Y)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDestination, err)
	}
	if !startCell.Walkable {
		return fmt.Errorf("%w: %s: %w", ErrInvalidStart, start, ErrUnwalkable)
	}
	if !destCell.Walkable {
		return fmt.Errorf("%w: %s: %w", ErrInvalidDestination, dest, ErrUnwalkable)
	}
	return nil
}

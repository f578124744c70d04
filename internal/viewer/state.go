package viewer

// State represents what the viewer is doing between key presses.
type State int

const (
	// StateIdle waits for commands.
	StateIdle State = iota
	// StateStepping has an incremental search in progress.
	StateStepping
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStepping:
		return "stepping"
	default:
		return "unknown"
	}
}

package viewer

import "github.com/gdamore/tcell/v2"

// Action is a viewer command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionSetStart
	ActionSetDest
	ActionFind
	ActionClear
	ActionToggleWall
	ActionCycleMode
	ActionRegenerate
	ActionStep
	ActionQuit
)

// Help lists the key bindings shown in the status line.
const Help = "arrows move  s start  d dest  f find  n step  c clear  w wall  m mode  r regen  q quit"

// actionForKey maps a key press to an action.
func actionForKey(key tcell.Key, r rune) Action {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyUp:
		return ActionUp
	case tcell.KeyDown:
		return ActionDown
	case tcell.KeyLeft:
		return ActionLeft
	case tcell.KeyRight:
		return ActionRight
	case tcell.KeyEnter:
		return ActionFind
	case tcell.KeyTab:
		return ActionCycleMode
	case tcell.KeyRune:
		switch r {
		case 'q', 'Q':
			return ActionQuit
		case 's':
			return ActionSetStart
		case 'd':
			return ActionSetDest
		case 'f':
			return ActionFind
		case 'c':
			return ActionClear
		case 'w', ' ':
			return ActionToggleWall
		case 'm':
			return ActionCycleMode
		case 'r':
			return ActionRegenerate
		case 'n':
			return ActionStep
		case 'k':
			return ActionUp
		case 'j':
			return ActionDown
		case 'h':
			return ActionLeft
		case 'l':
			return ActionRight
		}
	}
	return ActionNone
}

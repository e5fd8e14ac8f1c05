package core

// Action represents a semantic screensaver action, abstracted from physical key presses.
// Every backend maps its own key events onto these.
type Action int

const (
	ActionNone        Action = iota
	ActionQuit               // Q, Esc, Ctrl+C - stop the animation
	ActionPause              // Space - suspend/resume ticks
	ActionClear              // C - wipe the canvas
	ActionRedraw             // L - repaint without clearing
	ActionStats              // S - toggle the stats overlay
	ActionFaster             // + - one more tick per second
	ActionSlower             // - - one less tick per second
	ActionMuchFaster         // ] - ten more ticks per second
	ActionMuchSlower         // [ - ten less ticks per second
	ActionHelp               // ? - toggle key help
	ActionSnapshot           // Ctrl+S - save the canvas to disk
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	case ActionClear:
		return "Clear"
	case ActionRedraw:
		return "Redraw"
	case ActionStats:
		return "Stats"
	case ActionFaster:
		return "Faster"
	case ActionSlower:
		return "Slower"
	case ActionMuchFaster:
		return "MuchFaster"
	case ActionMuchSlower:
		return "MuchSlower"
	case ActionHelp:
		return "Help"
	case ActionSnapshot:
		return "Snapshot"
	default:
		return "Unknown"
	}
}

// SpeedDelta returns the tick-rate change an action requests, or 0.
func (a Action) SpeedDelta() int {
	switch a {
	case ActionFaster:
		return 1
	case ActionSlower:
		return -1
	case ActionMuchFaster:
		return 10
	case ActionMuchSlower:
		return -10
	default:
		return 0
	}
}

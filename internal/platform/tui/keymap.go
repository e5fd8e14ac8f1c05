package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-pipes/internal/core"
)

// KeyMap defines the key bindings of the screensaver.
type KeyMap struct {
	Quit       key.Binding
	Pause      key.Binding
	Clear      key.Binding
	Redraw     key.Binding
	Stats      key.Binding
	Faster     key.Binding
	Slower     key.Binding
	MuchFaster key.Binding
	MuchSlower key.Binding
	Help       key.Binding
	Snapshot   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Clear, k.Stats, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Clear, k.Redraw},
		{k.Faster, k.Slower, k.MuchFaster, k.MuchSlower},
		{k.Stats, k.Snapshot, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "quit"),
		),
		Pause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pause"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
		Redraw: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "redraw"),
		),
		Stats: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stats"),
		),
		Faster: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "faster"),
		),
		Slower: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "slower"),
		),
		MuchFaster: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "+10 fps"),
		),
		MuchSlower: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "-10 fps"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Snapshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "snapshot"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to screensaver actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys KeyMap
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{keys: DefaultKeyMap()}
}

// Keys returns the bindings, for help rendering.
func (km *KeyMapper) Keys() KeyMap {
	return km.keys
}

// MapKey translates a key message to an action.
// Returns ActionNone for unbound keys.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) core.Action {
	k := km.keys
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Pause):
		return core.ActionPause
	case key.Matches(msg, k.Clear):
		return core.ActionClear
	case key.Matches(msg, k.Redraw):
		return core.ActionRedraw
	case key.Matches(msg, k.Stats):
		return core.ActionStats
	case key.Matches(msg, k.Faster):
		return core.ActionFaster
	case key.Matches(msg, k.Slower):
		return core.ActionSlower
	case key.Matches(msg, k.MuchFaster):
		return core.ActionMuchFaster
	case key.Matches(msg, k.MuchSlower):
		return core.ActionMuchSlower
	case key.Matches(msg, k.Help):
		return core.ActionHelp
	case key.Matches(msg, k.Snapshot):
		return core.ActionSnapshot
	}
	return core.ActionNone
}

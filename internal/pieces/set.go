// Package pieces provides the glyph tables used to draw pipe pieces.
// A Set is immutable once built and safe to share between engines.
package pieces

import (
	"fmt"

	"github.com/vovakirdan/tui-pipes/internal/core"
)

// Slot identifies one of the six glyph shapes a pipe can use.
// The order matches the textual form of a set, e.g. "│─┌┐└┘".
type Slot uint8

const (
	SlotVertical   Slot = iota // │
	SlotHorizontal             // ─
	SlotDownRight              // ┌ connects bottom and right
	SlotDownLeft               // ┐ connects bottom and left
	SlotUpRight                // └ connects top and right
	SlotUpLeft                 // ┘ connects top and left
	SlotCount
)

// String returns the string representation of a slot.
func (s Slot) String() string {
	switch s {
	case SlotVertical:
		return "vertical"
	case SlotHorizontal:
		return "horizontal"
	case SlotDownRight:
		return "down-right"
	case SlotDownLeft:
		return "down-left"
	case SlotUpRight:
		return "up-right"
	case SlotUpLeft:
		return "up-left"
	default:
		return "unknown"
	}
}

// IsTurn reports whether the slot is one of the four corners.
func (s Slot) IsTurn() bool {
	return s >= SlotDownRight && s < SlotCount
}

// Connects returns the headings pointing from the cell center to the two
// edges the slot joins.
func (s Slot) Connects() [2]core.Heading {
	switch s {
	case SlotVertical:
		return [2]core.Heading{core.HeadingUp, core.HeadingDown}
	case SlotHorizontal:
		return [2]core.Heading{core.HeadingLeft, core.HeadingRight}
	case SlotDownRight:
		return [2]core.Heading{core.HeadingDown, core.HeadingRight}
	case SlotDownLeft:
		return [2]core.Heading{core.HeadingDown, core.HeadingLeft}
	case SlotUpRight:
		return [2]core.Heading{core.HeadingUp, core.HeadingRight}
	default:
		return [2]core.Heading{core.HeadingUp, core.HeadingLeft}
	}
}

// transitions maps [heading into the cell][heading out of the cell] to a slot.
// Reversals never happen; they map to the straight piece of the axis.
var transitions = [4][4]Slot{
	core.HeadingUp:    {SlotVertical, SlotVertical, SlotDownRight, SlotDownLeft},
	core.HeadingDown:  {SlotVertical, SlotVertical, SlotUpRight, SlotUpLeft},
	core.HeadingRight: {SlotUpLeft, SlotDownLeft, SlotHorizontal, SlotHorizontal},
	core.HeadingLeft:  {SlotUpRight, SlotDownRight, SlotHorizontal, SlotHorizontal},
}

// SlotFor returns the slot drawn in a cell entered with heading in and left with heading out.
func SlotFor(in, out core.Heading) Slot {
	return transitions[in%4][out%4]
}

// Set is a complete table of six glyphs. Glyphs are strings because a
// custom set may use multi-rune grapheme clusters.
type Set struct {
	Name   string
	Glyphs [SlotCount]string
}

// New builds a Set, rejecting empty glyphs.
func New(name string, glyphs []string) (Set, error) {
	if len(glyphs) != int(SlotCount) {
		return Set{}, core.NewConfigError("pieces", "set %q needs %d glyphs, got %d", name, SlotCount, len(glyphs))
	}
	s := Set{Name: name}
	for i, g := range glyphs {
		if g == "" {
			return Set{}, core.NewConfigError("pieces", "set %q has no glyph for %s", name, Slot(i))
		}
		s.Glyphs[i] = g
	}
	return s, nil
}

// Glyph returns the glyph for a slot.
func (s Set) Glyph(slot Slot) string {
	if slot >= SlotCount {
		return ""
	}
	return s.Glyphs[slot]
}

// Lookup returns the slot and glyph for a cell entered with heading in and left with heading out.
func (s Set) Lookup(in, out core.Heading) (Slot, string) {
	slot := SlotFor(in, out)
	return slot, s.Glyphs[slot]
}

// Validate ensures every transition the walker may query has a glyph.
func (s Set) Validate() error {
	for i, g := range s.Glyphs {
		if g == "" {
			return core.NewConfigError("pieces", "set %q has no glyph for %s", s.Name, Slot(i))
		}
	}
	return nil
}

// String returns the glyphs concatenated in slot order.
func (s Set) String() string {
	out := ""
	for _, g := range s.Glyphs {
		out += g
	}
	return out
}

// builtins are the default sets, indexed by id.
var builtins = []struct {
	name   string
	glyphs string
}{
	{"ascii", "|-++++"},
	{"thin-dots", "······"},
	{"bold-dots", "••••••"},
	{"thin", "│─┌┐└┘"},
	{"rounded", "│─╭╮╰╯"},
	{"double", "║═╔╗╚╝"},
	{"bold", "┃━┏┓┗┛"},
}

// DefaultID is the id of the set used when none is configured.
const DefaultID = 6

// BuiltinCount returns the number of built-in sets.
func BuiltinCount() int {
	return len(builtins)
}

// Builtin returns the built-in set with the given id.
func Builtin(id int) (Set, error) {
	if id < 0 || id >= len(builtins) {
		return Set{}, core.NewConfigError("piece_set", "id %d out of range 0..%d", id, len(builtins)-1)
	}
	b := builtins[id]
	glyphs := make([]string, 0, SlotCount)
	for _, r := range b.glyphs {
		glyphs = append(glyphs, string(r))
	}
	return New(b.name, glyphs)
}

// Default returns the default built-in set.
func Default() Set {
	s, err := Builtin(DefaultID)
	if err != nil {
		panic(fmt.Sprintf("pieces: default set: %v", err))
	}
	return s
}

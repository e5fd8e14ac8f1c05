// Package engine implements the pipe path generator and the layered
// compositor. It is UI-agnostic and deterministic for a given RNG seed:
// backends call Tick at their own pace and paint the pieces it returns.
package engine

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/palette"
	"github.com/vovakirdan/tui-pipes/internal/pieces"
)

// State is the lifecycle phase of a Walker.
type State uint8

const (
	StateSpawning State = iota
	StateAdvancing
	StateTerminating
)

// String returns the string representation of a state.
func (s State) String() string {
	switch s {
	case StateSpawning:
		return "Spawning"
	case StateAdvancing:
		return "Advancing"
	case StateTerminating:
		return "Terminating"
	default:
		return "Unknown"
	}
}

// Piece is one draw instruction: a glyph and color for a single cell.
type Piece struct {
	Cell  core.Cell
	Slot  pieces.Slot
	Glyph string
	Color core.Color
}

// WalkParams bounds the shape of generated pipes.
type WalkParams struct {
	MinLength       int     // shortest pipe, in pieces
	MaxLength       int     // longest pipe, in pieces
	TurnProbability float64 // chance of turning on each step, in [0, 1]
}

// Validate checks the parameters before any pipe is generated.
func (p WalkParams) Validate() error {
	if p.MinLength < 1 {
		return core.NewConfigError("min_length", "must be at least 1, got %d", p.MinLength)
	}
	if p.MinLength > p.MaxLength {
		return core.NewConfigError("min_length", "%d is greater than max_length %d", p.MinLength, p.MaxLength)
	}
	if math.IsNaN(p.TurnProbability) || p.TurnProbability < 0 || p.TurnProbability > 1 {
		return core.NewConfigError("turn_probability", "must be in [0, 1], got %v", p.TurnProbability)
	}
	return nil
}

// Walker advances one pipe by one grid step per call.
//
// The glyph drawn in a cell is chosen from the heading the pipe entered the
// cell with and the heading it leaves with, so the walker picks the outgoing
// heading before it draws. The current cell therefore always stays inside
// the canvas: a step that would leave it is redirected, or ends the pipe.
type Walker struct {
	size    core.Size
	params  WalkParams
	set     pieces.Set
	palette palette.Palette
	rng     *rand.Rand

	state   State
	cell    core.Cell
	heading core.Heading
	drawn   int
	target  int
	scheme  *palette.Scheme
}

// NewWalker creates a walker in the Spawning state.
func NewWalker(size core.Size, params WalkParams, set pieces.Set, pal palette.Palette, rng *rand.Rand) (*Walker, error) {
	if size.Empty() {
		return nil, core.NewConfigError("canvas", "size %dx%d has no cells", size.W, size.H)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return makeWalker(size, params, set, pal, rng), nil
}

// makeWalker skips validation; callers have checked the inputs already.
func makeWalker(size core.Size, params WalkParams, set pieces.Set, pal palette.Palette, rng *rand.Rand) *Walker {
	return &Walker{
		size:    size,
		params:  params,
		set:     set,
		palette: pal,
		rng:     rng,
		state:   StateSpawning,
	}
}

// Spawn starts a new pipe at a random cell with a random heading.
func (w *Walker) Spawn() {
	cell := core.C(w.rng.Intn(w.size.W), w.rng.Intn(w.size.H))
	heading := core.Headings[w.rng.Intn(len(core.Headings))]
	w.SpawnAt(cell, heading)
}

// SpawnAt starts a new pipe at a chosen cell and heading.
// Cells outside the canvas are clamped onto its edge.
func (w *Walker) SpawnAt(cell core.Cell, heading core.Heading) {
	w.cell = core.C(core.Clamp(cell.X, 0, w.size.W-1), core.Clamp(cell.Y, 0, w.size.H-1))
	w.heading = heading
	w.drawn = 0
	w.target = w.sampleLength()
	w.scheme = w.palette.NewScheme(w.rng)
	w.state = StateAdvancing
}

func (w *Walker) sampleLength() int {
	span := w.params.MaxLength - w.params.MinLength
	if span <= 0 {
		return w.params.MinLength
	}
	return w.params.MinLength + w.rng.Intn(span+1)
}

// Advance draws the piece at the current cell and moves one step.
// It returns false when the pipe is not advancing or cannot continue
// inside the canvas; the walker is then Terminating.
func (w *Walker) Advance() (Piece, bool) {
	if w.state != StateAdvancing {
		return Piece{}, false
	}

	out, ok := w.nextHeading()
	if !ok {
		w.state = StateTerminating
		return Piece{}, false
	}

	slot, glyph := w.set.Lookup(w.heading, out)
	piece := Piece{
		Cell:  w.cell,
		Slot:  slot,
		Glyph: glyph,
		Color: w.scheme.At(float64(w.drawn) / float64(w.target)),
	}

	w.drawn++
	w.cell = w.cell.Step(out)
	w.heading = out

	if w.drawn >= w.target {
		w.state = StateTerminating
	}
	return piece, true
}

// nextHeading decides between going straight and turning, then keeps the
// result inside the canvas.
func (w *Walker) nextHeading() (core.Heading, bool) {
	perp := w.heading.Perpendicular()

	if w.rng.Float64() < w.params.TurnProbability {
		i := w.rng.Intn(2)
		for _, h := range [2]core.Heading{perp[i], perp[1-i]} {
			if w.size.Contains(w.cell.Step(h)) {
				return h, true
			}
		}
		return w.heading, false
	}

	if w.size.Contains(w.cell.Step(w.heading)) {
		return w.heading, true
	}

	// Pipes that never turn end at the wall instead of bending.
	if w.params.TurnProbability == 0 {
		return w.heading, false
	}
	return w.forcedTurn(perp)
}

// forcedTurn picks the perpendicular heading with more room ahead.
// Ties go to the clockwise heading.
func (w *Walker) forcedTurn(perp [2]core.Heading) (core.Heading, bool) {
	best, bestRoom := perp[0], w.size.Room(w.cell, perp[0])
	if room := w.size.Room(w.cell, perp[1]); room > bestRoom {
		best, bestRoom = perp[1], room
	}
	if bestRoom <= 0 {
		return w.heading, false
	}
	return best, true
}

// State returns the lifecycle phase.
func (w *Walker) State() State {
	return w.state
}

// Cell returns the cell the next piece will be drawn at.
func (w *Walker) Cell() core.Cell {
	return w.cell
}

// Heading returns the heading the pipe entered its current cell with.
func (w *Walker) Heading() core.Heading {
	return w.heading
}

// Drawn returns how many pieces this pipe has drawn.
func (w *Walker) Drawn() int {
	return w.drawn
}

// Target returns the length this pipe was sampled to reach.
func (w *Walker) Target() int {
	return w.target
}

// Remaining returns how many pieces the pipe still intends to draw.
func (w *Walker) Remaining() int {
	if w.state != StateAdvancing {
		return 0
	}
	return w.target - w.drawn
}

// Scheme returns the pipe's color state.
func (w *Walker) Scheme() *palette.Scheme {
	return w.scheme
}

package engine

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/palette"
	"github.com/vovakirdan/tui-pipes/internal/pieces"
)

// maxSpawnAttempts bounds how often a layer may respawn within one tick
// when freshly spawned pipes end before drawing anything.
const maxSpawnAttempts = 4

// Config is the validated input of an Engine.
type Config struct {
	Size           core.Size
	Walk           WalkParams
	Pieces         pieces.Set
	Palette        palette.Palette
	MaxDrawnPieces int // 0 disables the automatic clear
	TickRate       int

	// Depth mode keeps several pipes alive and darkens the older ones.
	Depth               bool
	LayerMaxDrawnPieces int // pieces before a new layer starts; 0 never starts one
	MaxLayers           int
	DarkenFactor        uint8
	DarkenMin           core.RGB
}

// Validate checks that the configuration can be animated.
func (c Config) Validate() error {
	if c.Size.Empty() {
		return core.NewConfigError("canvas", "size %dx%d has no cells", c.Size.W, c.Size.H)
	}
	if err := c.Walk.Validate(); err != nil {
		return err
	}
	if err := c.Pieces.Validate(); err != nil {
		return err
	}
	if c.MaxDrawnPieces < 0 {
		return core.NewConfigError("max_drawn_pieces", "must not be negative, got %d", c.MaxDrawnPieces)
	}
	if c.Depth {
		if c.Palette.Kind != palette.KindRGB {
			return core.NewConfigError("depth", "requires the rgb palette, got %s", c.Palette.Kind)
		}
		if c.LayerMaxDrawnPieces < 0 {
			return core.NewConfigError("layer_max_drawn_pieces", "must not be negative, got %d", c.LayerMaxDrawnPieces)
		}
		if c.MaxLayers < 0 {
			return core.NewConfigError("max_layers", "must not be negative, got %d", c.MaxLayers)
		}
	}
	return nil
}

// Sink receives draw events as they happen. Backends that paint
// incrementally implement it; others read the Canvas after each tick.
type Sink interface {
	Put(p Piece)       // a piece was drawn
	Erase()            // the canvas was cleared
	Repaint(c *Canvas) // the whole canvas should be painted again
}

type nopSink struct{}

func (nopSink) Put(Piece)       {}
func (nopSink) Erase()          {}
func (nopSink) Repaint(*Canvas) {}

// StepResult describes what one tick changed, in order: every piece in
// Pieces was drawn, then the canvas was wiped if Cleared is set.
type StepResult struct {
	Pieces  []Piece
	Cleared bool
}

// Engine is the compositor: it owns the canvas and advances every layer's
// pipe once per tick, oldest layer first.
type Engine struct {
	cfg    Config
	rng    *rand.Rand
	canvas *Canvas
	layers *LayerStack
	clock  *Clock
	sink   Sink

	counters counters
}

type counters struct {
	ticks       int64
	piecesTotal int64
	pipesTotal  int64
	layersTotal int64
	layersDrawn int // since the last clear
	clears      int64
}

// New creates an engine with one layer and a freshly spawned pipe.
// A nil rng is seeded from the clock.
func New(cfg Config, rng *rand.Rand) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if !cfg.Depth {
		cfg.MaxLayers = 1
	} else if cfg.MaxLayers == 0 {
		cfg.MaxLayers = DefaultMaxLayers
	}

	e := &Engine{
		cfg:    cfg,
		rng:    rng,
		canvas: NewCanvas(cfg.Size, cfg.MaxDrawnPieces),
		clock:  NewClock(cfg.TickRate),
		sink:   nopSink{},
	}
	e.layers = e.newLayerStack()
	e.spawnLayer()
	return e, nil
}

func (e *Engine) newLayerStack() *LayerStack {
	aging := Aging{
		Enabled: e.cfg.Depth,
		Factor:  e.cfg.DarkenFactor,
		Min:     e.cfg.DarkenMin,
	}
	return NewLayerStack(e.cfg.MaxLayers, aging, func() *Walker {
		return makeWalker(e.cfg.Size, e.cfg.Walk, e.cfg.Pieces, e.cfg.Palette, e.rng)
	})
}

func (e *Engine) spawnLayer() {
	e.layers.SpawnLayer()
	e.counters.pipesTotal++
	e.counters.layersTotal++
	e.counters.layersDrawn++
}

// SetSink installs the receiver of draw events. nil removes it.
func (e *Engine) SetSink(s Sink) {
	if s == nil {
		s = nopSink{}
	}
	e.sink = s
}

// Config returns the configuration the engine runs with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Canvas returns the drawing buffer.
func (e *Engine) Canvas() *Canvas {
	return e.canvas
}

// Clock returns the pacing state.
func (e *Engine) Clock() *Clock {
	return e.clock
}

// Layers returns the layer stack.
func (e *Engine) Layers() *LayerStack {
	return e.layers
}

// Tick advances the animation unless it is paused or stopped.
func (e *Engine) Tick() StepResult {
	if e.clock.Stopped() || e.clock.Paused() {
		return StepResult{}
	}
	return e.Step()
}

// Step advances every layer's pipe once, regardless of the clock.
// Reaching the canvas capacity clears it, starts over with a single fresh
// layer and ends the tick.
func (e *Engine) Step() StepResult {
	e.counters.ticks++

	var res StepResult
	for _, l := range e.layers.Layers() {
		p, ok := e.advance(l)
		if !ok {
			continue
		}
		res.Pieces = append(res.Pieces, p)
		e.counters.piecesTotal++
		e.sink.Put(p)

		if e.canvas.Draw(p) {
			e.restart()
			res.Cleared = true
			return res
		}
	}

	if e.cfg.Depth && e.cfg.LayerMaxDrawnPieces > 0 {
		if top := e.layers.Newest(); top != nil && top.drawn >= e.cfg.LayerMaxDrawnPieces {
			e.spawnLayer()
		}
	}
	return res
}

// advance draws the next piece of a layer, respawning its pipe when the
// previous one has ended.
func (e *Engine) advance(l *Layer) (Piece, bool) {
	for i := 0; i < maxSpawnAttempts; i++ {
		if l.walker.State() != StateAdvancing {
			e.layers.Respawn(l)
			e.counters.pipesTotal++
		}
		if p, ok := l.walker.Advance(); ok {
			l.drawn++
			return p, true
		}
	}
	return Piece{}, false
}

// restart discards every layer and begins again with one fresh pipe.
func (e *Engine) restart() {
	e.counters.clears++
	e.counters.layersDrawn = 0
	e.layers.Reset()
	e.sink.Erase()
	e.spawnLayer()
}

// Clear wipes the canvas regardless of its count and respawns the pipes.
func (e *Engine) Clear() {
	e.canvas.Clear()
	e.restart()
}

// Redraw asks the sink to paint the canvas again. Contents and counters
// are left untouched.
func (e *Engine) Redraw() {
	e.sink.Repaint(e.canvas)
}

// Resize adapts the canvas to new terminal dimensions. The canvas is
// emptied and pipes start over.
func (e *Engine) Resize(w, h int) error {
	size := core.Size{W: w, H: h}
	if size.Empty() {
		return core.NewConfigError("canvas", "size %dx%d has no cells", w, h)
	}
	if size == e.cfg.Size {
		return nil
	}
	e.cfg.Size = size
	e.canvas.Resize(size)
	e.layers = e.newLayerStack()
	e.restart()
	return nil
}

// Apply performs the core operation bound to an input action.
// It returns false for actions the engine does not handle.
func (e *Engine) Apply(a core.Action) bool {
	switch a {
	case core.ActionQuit:
		e.clock.Stop()
	case core.ActionPause:
		e.clock.TogglePause()
	case core.ActionClear:
		e.Clear()
	case core.ActionRedraw:
		e.Redraw()
	case core.ActionFaster, core.ActionSlower, core.ActionMuchFaster, core.ActionMuchSlower:
		e.clock.Adjust(a.SpeedDelta())
	default:
		return false
	}
	return true
}

package engine

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/palette"
	"github.com/vovakirdan/tui-pipes/internal/pieces"
)

func testConfig(w, h int) Config {
	pal, _ := palette.New(palette.KindNone, false, 0)
	return Config{
		Size:     core.Size{W: w, H: h},
		Walk:     WalkParams{MinLength: 5, MaxLength: 5},
		Pieces:   pieces.Default(),
		Palette:  pal,
		TickRate: DefaultTickRate,
	}
}

func depthConfig() Config {
	cfg := testConfig(30, 15)
	cfg.Palette, _ = palette.New(palette.KindRGB, false, 0)
	cfg.Walk = WalkParams{MinLength: 3, MaxLength: 20, TurnProbability: 0.3}
	cfg.Depth = true
	cfg.LayerMaxDrawnPieces = 5
	cfg.MaxLayers = 3
	cfg.DarkenFactor = 24
	return cfg
}

func newTestEngine(t *testing.T, cfg Config, seed int64) *Engine {
	t.Helper()
	e, err := New(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return e
}

type recordingSink struct {
	puts     []Piece
	erases   int
	repaints int
}

func (s *recordingSink) Put(p Piece)       { s.puts = append(s.puts, p) }
func (s *recordingSink) Erase()            { s.erases++ }
func (s *recordingSink) Repaint(c *Canvas) { s.repaints++ }

func TestEngineStraightPipeScenario(t *testing.T) {
	e := newTestEngine(t, testConfig(10, 5), 1)
	e.Layers().Newest().Walker().SpawnAt(core.C(0, 2), core.HeadingRight)

	horizontal := pieces.Default().Glyph(pieces.SlotHorizontal)
	for i := 0; i < 5; i++ {
		res := e.Step()
		if len(res.Pieces) != 1 {
			t.Fatalf("Step() #%d drew %d pieces, expected 1", i, len(res.Pieces))
		}
		if p := res.Pieces[0]; p.Cell != core.C(i, 2) || p.Glyph != horizontal {
			t.Errorf("Step() #%d = %q at %v, expected %q at %v", i, p.Glyph, p.Cell, horizontal, core.C(i, 2))
		}
	}

	expected := strings.Repeat(horizontal, 5) + strings.Repeat(" ", 5)
	if got := e.Canvas().Row(2); got != expected {
		t.Errorf("Row(2) = %q, expected %q", got, expected)
	}
	if w := e.Layers().Newest().Walker(); w.State() != StateTerminating {
		t.Errorf("walker State() = %v, expected Terminating", w.State())
	}

	e.Step()
	if got := e.Stats().PipesTotal; got < 2 {
		t.Errorf("PipesTotal = %d, expected a new pipe to be spawned", got)
	}
}

func TestEngineCapacityClear(t *testing.T) {
	cfg := testConfig(10, 5)
	cfg.MaxDrawnPieces = 3
	e := newTestEngine(t, cfg, 1)
	sink := &recordingSink{}
	e.SetSink(sink)
	e.Layers().Newest().Walker().SpawnAt(core.C(0, 2), core.HeadingRight)

	for i := 1; i <= 2; i++ {
		if res := e.Step(); res.Cleared {
			t.Fatalf("Step() #%d cleared early", i)
		}
		if e.Canvas().Drawn() != i {
			t.Errorf("Drawn() = %d, expected %d", e.Canvas().Drawn(), i)
		}
	}

	res := e.Step()
	if !res.Cleared {
		t.Fatal("third Step() should clear the canvas")
	}
	if e.Canvas().Drawn() != 0 || e.Canvas().Filled() != 0 {
		t.Errorf("after clear Drawn() = %d, Filled() = %d, expected 0", e.Canvas().Drawn(), e.Canvas().Filled())
	}
	if sink.erases != 1 || len(sink.puts) != 3 {
		t.Errorf("sink got %d puts and %d erases, expected 3 and 1", len(sink.puts), sink.erases)
	}
	if e.Layers().Len() != 1 {
		t.Errorf("Layers().Len() = %d, expected 1 fresh layer", e.Layers().Len())
	}

	e.Layers().Newest().Walker().SpawnAt(core.C(0, 0), core.HeadingRight)
	res = e.Step()
	if len(res.Pieces) != 1 || res.Cleared {
		t.Fatalf("fourth Step() = %+v, expected one piece and no clear", res)
	}
	if e.Canvas().Drawn() != 1 || e.Canvas().Filled() != 1 {
		t.Errorf("Drawn() = %d, Filled() = %d, expected 1 and 1", e.Canvas().Drawn(), e.Canvas().Filled())
	}
	if st := e.Stats(); st.Clears != 1 || st.PiecesTotal != 4 {
		t.Errorf("Stats() clears = %d, total = %d, expected 1 and 4", st.Clears, st.PiecesTotal)
	}
}

func TestEngineUnlimitedNeverClears(t *testing.T) {
	cfg := testConfig(10, 10)
	cfg.Walk = WalkParams{MinLength: 1, MaxLength: 20, TurnProbability: 0.2}
	e := newTestEngine(t, cfg, 9)

	for i := 0; i < 2000; i++ {
		if res := e.Step(); res.Cleared {
			t.Fatalf("Step() #%d cleared an unlimited canvas", i)
		}
	}

	st := e.Stats()
	if int64(st.PiecesDrawn) != st.PiecesTotal {
		t.Errorf("PiecesDrawn = %d, expected it to match PiecesTotal %d", st.PiecesDrawn, st.PiecesTotal)
	}
	if st.PiecesDrawn <= 100 {
		t.Errorf("PiecesDrawn = %d, expected the count to grow past the canvas area", st.PiecesDrawn)
	}
}

func TestEngineManualClearAndRedraw(t *testing.T) {
	cfg := testConfig(20, 10)
	cfg.Walk = WalkParams{MinLength: 2, MaxLength: 8, TurnProbability: 0.4}
	e := newTestEngine(t, cfg, 3)
	sink := &recordingSink{}
	e.SetSink(sink)

	for i := 0; i < 50; i++ {
		e.Step()
	}

	before := e.Canvas().String()
	drawn := e.Canvas().Drawn()
	e.Redraw()
	if e.Canvas().String() != before || e.Canvas().Drawn() != drawn {
		t.Error("Redraw() changed the canvas")
	}
	if sink.repaints != 1 {
		t.Errorf("repaints = %d, expected 1", sink.repaints)
	}

	e.Clear()
	if e.Canvas().Drawn() != 0 || e.Canvas().Filled() != 0 {
		t.Errorf("after Clear() Drawn() = %d, Filled() = %d, expected 0", e.Canvas().Drawn(), e.Canvas().Filled())
	}
	if sink.erases != 1 {
		t.Errorf("erases = %d, expected 1", sink.erases)
	}
}

func TestEngineTickRespectsClock(t *testing.T) {
	e := newTestEngine(t, testConfig(10, 5), 1)

	e.Clock().TogglePause()
	if res := e.Tick(); len(res.Pieces) != 0 {
		t.Error("Tick() while paused should not draw")
	}
	if e.Stats().Ticks != 0 {
		t.Errorf("Ticks = %d while paused, expected 0", e.Stats().Ticks)
	}

	e.Clock().TogglePause()
	e.Tick()
	if e.Stats().Ticks != 1 {
		t.Errorf("Ticks = %d, expected 1", e.Stats().Ticks)
	}

	e.Apply(core.ActionQuit)
	e.Tick()
	if e.Stats().Ticks != 1 {
		t.Error("Tick() after stop should do nothing")
	}
}

func TestEngineApply(t *testing.T) {
	e := newTestEngine(t, testConfig(10, 5), 1)

	tests := []struct {
		action   core.Action
		handled  bool
		expected int
	}{
		{core.ActionFaster, true, 25},
		{core.ActionMuchFaster, true, 35},
		{core.ActionSlower, true, 34},
		{core.ActionMuchSlower, true, 24},
		{core.ActionStats, false, 24},
		{core.ActionSnapshot, false, 24},
	}

	for _, tc := range tests {
		if got := e.Apply(tc.action); got != tc.handled {
			t.Errorf("Apply(%v) = %v, expected %v", tc.action, got, tc.handled)
		}
		if e.Clock().Rate() != tc.expected {
			t.Errorf("after %v Rate() = %d, expected %d", tc.action, e.Clock().Rate(), tc.expected)
		}
	}

	if !e.Apply(core.ActionPause) || !e.Clock().Paused() {
		t.Error("Apply(Pause) should pause the clock")
	}
}

func TestEngineDepthMode(t *testing.T) {
	e := newTestEngine(t, depthConfig(), 17)

	for i := 0; i < 300; i++ {
		e.Step()
	}

	st := e.Stats()
	if st.LayersActive != 3 {
		t.Errorf("LayersActive = %d, expected 3", st.LayersActive)
	}
	if st.LayersTotal <= 3 {
		t.Errorf("LayersTotal = %d, expected layers to be replaced", st.LayersTotal)
	}

	layers := e.Layers().Layers()
	if layers[len(layers)-1].Age() != 0 {
		t.Errorf("newest layer Age() = %d, expected 0", layers[len(layers)-1].Age())
	}
	for i := 0; i < len(layers)-1; i++ {
		if layers[i].Age() <= layers[i+1].Age() {
			t.Errorf("layer %d Age() = %d, expected older layers to be darker", i, layers[i].Age())
		}
	}
}

func TestEngineDepthAgesOnNewLayer(t *testing.T) {
	cfg := depthConfig()
	cfg.DarkenMin = core.RGB{R: 30, G: 30, B: 30}
	e := newTestEngine(t, cfg, 4)

	first := e.Layers().Newest()
	before := first.Walker().Scheme().Start().RGB

	for e.Layers().Len() < 2 {
		e.Step()
	}
	// The first pipe may have been replaced before the new layer arrived.
	if first.Pipes() == 1 {
		after := first.Walker().Scheme().Start().RGB
		if after != before.Age(cfg.DarkenFactor, cfg.DarkenMin) {
			t.Errorf("aged color = %v, expected %v", after, before.Age(cfg.DarkenFactor, cfg.DarkenMin))
		}
	}
	if first.Age() != 1 {
		t.Errorf("Age() = %d, expected 1", first.Age())
	}
}

func TestEngineConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty canvas", func(c *Config) { c.Size = core.Size{} }},
		{"min above max", func(c *Config) { c.Walk.MinLength = 10 }},
		{"bad probability", func(c *Config) { c.Walk.TurnProbability = 2 }},
		{"negative capacity", func(c *Config) { c.MaxDrawnPieces = -1 }},
		{"depth without rgb", func(c *Config) { c.Depth = true }},
		{"incomplete piece set", func(c *Config) { c.Pieces = pieces.Set{Name: "broken"} }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(10, 5)
			tc.mutate(&cfg)
			if _, err := New(cfg, nil); !errors.Is(err, core.ErrInvalidConfig) {
				t.Errorf("New() error = %v, expected ErrInvalidConfig", err)
			}
		})
	}
}

func TestEngineResize(t *testing.T) {
	e := newTestEngine(t, testConfig(10, 5), 1)
	for i := 0; i < 3; i++ {
		e.Step()
	}

	if err := e.Resize(40, 12); err != nil {
		t.Fatalf("Resize() failed: %v", err)
	}
	if e.Canvas().Size() != (core.Size{W: 40, H: 12}) || e.Canvas().Drawn() != 0 {
		t.Errorf("after Resize() size = %v, drawn = %d", e.Canvas().Size(), e.Canvas().Drawn())
	}
	if err := e.Resize(0, 12); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("Resize(0, 12) error = %v, expected ErrInvalidConfig", err)
	}

	for i := 0; i < 100; i++ {
		for _, p := range e.Step().Pieces {
			if !e.Canvas().Size().Contains(p.Cell) {
				t.Fatalf("piece at %v outside resized canvas", p.Cell)
			}
		}
	}
}

func TestEngineDeterministic(t *testing.T) {
	cfg := depthConfig()
	a := newTestEngine(t, cfg, 1234)
	b := newTestEngine(t, cfg, 1234)

	for i := 0; i < 500; i++ {
		a.Step()
		b.Step()
	}
	if a.Canvas().String() != b.Canvas().String() {
		t.Error("engines with the same seed produced different canvases")
	}
	if a.Stats() != b.Stats() {
		t.Errorf("Stats() differ: %+v vs %+v", a.Stats(), b.Stats())
	}
}

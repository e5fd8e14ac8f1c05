package screen

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/engine"
	"github.com/vovakirdan/tui-pipes/internal/palette"
	"github.com/vovakirdan/tui-pipes/internal/pieces"
	"github.com/vovakirdan/tui-pipes/internal/registry"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func newTestEngine(t *testing.T, w, h, fps int) *engine.Engine {
	t.Helper()
	pal, err := palette.New(palette.KindBase16, false, 0)
	if err != nil {
		t.Fatalf("palette.New() failed: %v", err)
	}
	eng, err := engine.New(engine.Config{
		Size:     core.Size{W: w, H: h},
		Walk:     engine.WalkParams{MinLength: 3, MaxLength: 12, TurnProbability: 0.3},
		Pieces:   pieces.Default(),
		Palette:  pal,
		TickRate: fps,
	}, rand.New(rand.NewSource(11)))
	if err != nil {
		t.Fatalf("engine.New() failed: %v", err)
	}
	return eng
}

func horizontal(x, y int, color core.Color) engine.Piece {
	slot, glyph := pieces.Default().Lookup(core.HeadingRight, core.HeadingRight)
	return engine.Piece{Cell: core.C(x, y), Slot: slot, Glyph: glyph, Color: color}
}

func TestPainterPut(t *testing.T) {
	s := newSimScreen(t, 10, 4)
	p := newPainter(s, core.DefaultColor())

	pc := horizontal(3, 1, core.TrueColor(core.RGB{R: 255}))
	p.Put(pc)

	r, _, style, _ := s.GetContent(3, 1)
	if string(r) != pc.Glyph {
		t.Errorf("GetContent() rune = %q, expected %q", r, pc.Glyph)
	}
	fg, _, _ := style.Decompose()
	if fg != tcell.NewRGBColor(255, 0, 0) {
		t.Errorf("foreground = %v, expected red", fg)
	}
}

func TestPainterEraseAndRepaint(t *testing.T) {
	s := newSimScreen(t, 10, 4)
	p := newPainter(s, core.DefaultColor())

	c := engine.NewCanvas(core.Size{W: 10, H: 4}, 0)
	c.Draw(horizontal(0, 0, core.IndexColor(2)))
	c.Draw(horizontal(1, 0, core.IndexColor(2)))
	p.Put(horizontal(5, 3, core.IndexColor(4))) // not on the canvas

	p.Erase()
	if r, _, _, _ := s.GetContent(5, 3); r != ' ' {
		t.Errorf("after Erase() cell = %q, expected blank", r)
	}

	p.Repaint(c)
	glyph := c.At(core.C(0, 0)).Glyph
	for x := 0; x < 2; x++ {
		r, _, style, _ := s.GetContent(x, 0)
		if string(r) != glyph {
			t.Errorf("after Repaint() cell %d = %q, expected %q", x, r, glyph)
		}
		if fg, _, _ := style.Decompose(); fg != tcell.PaletteColor(2) {
			t.Errorf("after Repaint() cell %d foreground = %v, expected palette 2", x, fg)
		}
	}
	if r, _, _, _ := s.GetContent(5, 3); r != ' ' {
		t.Errorf("after Repaint() cell = %q, expected blank", r)
	}
}

func TestPainterBackground(t *testing.T) {
	s := newSimScreen(t, 4, 2)
	p := newPainter(s, core.TrueColor(core.RGB{B: 80}))

	p.Erase()
	_, _, style, _ := s.GetContent(2, 1)
	if _, bg, _ := style.Decompose(); bg != tcell.NewRGBColor(0, 0, 80) {
		t.Errorf("background = %v, expected #000050", bg)
	}
}

func TestPainterRepaintRow(t *testing.T) {
	s := newSimScreen(t, 6, 3)
	p := newPainter(s, core.DefaultColor())

	c := engine.NewCanvas(core.Size{W: 6, H: 3}, 0)
	c.Draw(horizontal(2, 2, core.IndexColor(1)))

	p.drawText(2, "stats")
	if r, _, _, _ := s.GetContent(0, 2); r != 's' {
		t.Errorf("drawText() cell = %q, expected 's'", r)
	}

	p.repaintRow(c, 2)
	if r, _, _, _ := s.GetContent(0, 2); r != ' ' {
		t.Errorf("repaintRow() cell 0 = %q, expected blank", r)
	}
	if r, _, _, _ := s.GetContent(2, 2); string(r) != c.At(core.C(2, 2)).Glyph {
		t.Errorf("repaintRow() cell 2 = %q, expected the piece", r)
	}
}

func TestSinkReceivesEngineDraws(t *testing.T) {
	s := newSimScreen(t, 20, 8)
	eng := newTestEngine(t, 20, 8, engine.DefaultTickRate)
	eng.SetSink(newPainter(s, core.DefaultColor()))

	for i := 0; i < 30; i++ {
		eng.Step()
	}

	// Every filled canvas cell was painted through the sink
	eng.Canvas().Each(func(pos core.Cell, cell engine.Cell) {
		if r, _, _, _ := s.GetContent(pos.X, pos.Y); string(r) != cell.Glyph {
			t.Errorf("cell %v = %q, expected %q", pos, r, cell.Glyph)
		}
	})
}

func TestMapKey(t *testing.T) {
	tests := []struct {
		name     string
		key      tcell.Key
		r        rune
		expected core.Action
	}{
		{"q", tcell.KeyRune, 'q', core.ActionQuit},
		{"esc", tcell.KeyEscape, 0, core.ActionQuit},
		{"ctrl+c", tcell.KeyCtrlC, 0, core.ActionQuit},
		{"space", tcell.KeyRune, ' ', core.ActionPause},
		{"c", tcell.KeyRune, 'c', core.ActionClear},
		{"l", tcell.KeyRune, 'l', core.ActionRedraw},
		{"ctrl+l", tcell.KeyCtrlL, 0, core.ActionRedraw},
		{"s", tcell.KeyRune, 's', core.ActionStats},
		{"+", tcell.KeyRune, '+', core.ActionFaster},
		{"-", tcell.KeyRune, '-', core.ActionSlower},
		{"]", tcell.KeyRune, ']', core.ActionMuchFaster},
		{"[", tcell.KeyRune, '[', core.ActionMuchSlower},
		{"?", tcell.KeyRune, '?', core.ActionHelp},
		{"ctrl+s", tcell.KeyCtrlS, 0, core.ActionSnapshot},
		{"unbound rune", tcell.KeyRune, 'x', core.ActionNone},
		{"arrow", tcell.KeyUp, 0, core.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapKey(tt.key, tt.r); got != tt.expected {
				t.Errorf("mapKey() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestBackendRunQuits(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	b := Backend{newScreen: func() (tcell.Screen, error) { return sim, nil }}
	eng := newTestEngine(t, 10, 5, engine.MaxTickRate)

	go func() {
		time.Sleep(100 * time.Millisecond)
		sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := b.Run(ctx, eng, registry.Options{ShowStats: true}); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if ctx.Err() != nil {
		t.Fatal("Run() returned only after the context expired")
	}
	if !eng.Clock().Stopped() {
		t.Error("quit did not stop the clock")
	}
	if eng.Stats().Ticks == 0 {
		t.Error("Run() never ticked the engine")
	}
	// The engine adopts the screen size on start
	if got := eng.Canvas().Size(); got.W != 80 || got.H != 25 {
		t.Errorf("canvas size = %+v, expected the 80x25 simulation screen", got)
	}
}

func TestBackendRunCancelled(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	b := Backend{newScreen: func() (tcell.Screen, error) { return sim, nil }}
	eng := newTestEngine(t, 10, 5, engine.DefaultTickRate)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := b.Run(ctx, eng, registry.Options{}); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if eng.Clock().Stopped() {
		t.Error("cancellation should not stop the clock")
	}
}

func TestBackendRegistered(t *testing.T) {
	if !registry.Exists("tcell") {
		t.Fatal("tcell backend is not registered")
	}
}

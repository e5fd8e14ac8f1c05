package engine

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/palette"
	"github.com/vovakirdan/tui-pipes/internal/pieces"
)

func newTestStack(t *testing.T, max int, aging Aging) *LayerStack {
	t.Helper()
	pal, err := palette.New(palette.KindRGB, true, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(21))
	params := WalkParams{MinLength: 3, MaxLength: 10, TurnProbability: 0.3}
	return NewLayerStack(max, aging, func() *Walker {
		return makeWalker(core.Size{W: 20, H: 10}, params, pieces.Default(), pal, rng)
	})
}

func TestLayerStackEvictsOldest(t *testing.T) {
	s := newTestStack(t, 3, Aging{Enabled: true, Factor: 10})

	var spawned []*Layer
	for i := 0; i < 5; i++ {
		spawned = append(spawned, s.SpawnLayer())
	}

	if s.Len() != 3 {
		t.Fatalf("Len() = %d, expected 3", s.Len())
	}
	layers := s.Layers()
	for i, l := range layers {
		if l != spawned[i+2] {
			t.Errorf("Layers()[%d] is not the layer spawned %d-th", i, i+2)
		}
	}
	if s.Newest() != spawned[4] {
		t.Error("Newest() is not the last spawned layer")
	}
}

func TestLayerStackAgesAllButNewest(t *testing.T) {
	s := newTestStack(t, 8, Aging{Enabled: true, Factor: 24})
	for i := 0; i < 4; i++ {
		s.SpawnLayer()
	}

	layers := s.Layers()
	if layers[len(layers)-1].Age() != 0 {
		t.Errorf("newest Age() = %d, expected 0", layers[len(layers)-1].Age())
	}
	for i := 0; i < len(layers)-1; i++ {
		if layers[i].Age() <= layers[i+1].Age() {
			t.Errorf("layer %d Age() = %d, expected more than layer %d's %d",
				i, layers[i].Age(), i+1, layers[i+1].Age())
		}
	}
}

func TestLayerAgingMovesTowardMinimum(t *testing.T) {
	min := core.RGB{R: 40, G: 40, B: 40}
	const factor = 24
	s := newTestStack(t, 8, Aging{Enabled: true, Factor: factor, Min: min})

	old := s.SpawnLayer()
	before := old.Walker().Scheme().Start().RGB
	s.SpawnLayer()
	after := old.Walker().Scheme().Start().RGB

	check := func(name string, b, a, m uint8) {
		if b > m {
			if a >= b || a < m {
				t.Errorf("%s: %d -> %d, expected darker but not below %d", name, b, a, m)
			}
			return
		}
		if a <= b && b != 255 {
			t.Errorf("%s: %d -> %d, expected lighter at or below minimum %d", name, b, a, m)
		}
	}
	check("R", before.R, after.R, min.R)
	check("G", before.G, after.G, min.G)
	check("B", before.B, after.B, min.B)
}

func TestLayerRespawnInheritsAge(t *testing.T) {
	// A full-range shift moves every channel to one of the extremes.
	s := newTestStack(t, 8, Aging{Enabled: true, Factor: 255})
	for i := 0; i < 3; i++ {
		s.SpawnLayer()
	}

	oldest := s.Layers()[0]
	s.Respawn(oldest)
	if oldest.Pipes() != 2 {
		t.Errorf("Pipes() = %d, expected 2", oldest.Pipes())
	}

	rgb := oldest.Walker().Scheme().Start().RGB
	for _, ch := range []uint8{rgb.R, rgb.G, rgb.B} {
		if ch != 0 && ch != 255 {
			t.Errorf("respawned color %v was not aged", rgb)
			break
		}
	}
}

func TestLayerStackWithoutAging(t *testing.T) {
	s := newTestStack(t, 1, Aging{})

	first := s.SpawnLayer()
	color := first.Walker().Scheme().Start()
	second := s.SpawnLayer()

	if s.Len() != 1 || s.Newest() != second {
		t.Errorf("Len() = %d, expected a single newest layer", s.Len())
	}
	if first.Age() != 0 || first.Walker().Scheme().Start() != color {
		t.Error("layers should not age when aging is disabled")
	}

	s.Reset()
	if s.Len() != 0 || s.Newest() != nil {
		t.Errorf("after Reset() Len() = %d, expected 0", s.Len())
	}
}

func TestNewLayerStackMinimumCapacity(t *testing.T) {
	s := newTestStack(t, 0, Aging{})
	if s.Max() != 1 {
		t.Errorf("Max() = %d, expected 1", s.Max())
	}
}

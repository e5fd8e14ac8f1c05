package engine

import (
	"github.com/vovakirdan/tui-pipes/internal/core"
)

// DefaultMaxLayers bounds how many layers depth mode keeps animating.
const DefaultMaxLayers = 8

// Layer is one depth plane: a pipe walker plus the colors it has aged by.
type Layer struct {
	walker *Walker
	age    int // how many times the layer has been darkened
	drawn  int // pieces drawn by this layer
	pipes  int // pipes started in this layer
}

// Walker returns the layer's current pipe.
func (l *Layer) Walker() *Walker {
	return l.walker
}

// Age returns how many times the layer has been darkened.
func (l *Layer) Age() int {
	return l.age
}

// Drawn returns the pieces drawn by this layer.
func (l *Layer) Drawn() int {
	return l.drawn
}

// Pipes returns the number of pipes started in this layer.
func (l *Layer) Pipes() int {
	return l.pipes
}

// Aging configures the color transform applied to older layers.
type Aging struct {
	Enabled bool
	Factor  uint8    // per-channel shift per age step
	Min     core.RGB // colors move away from this floor
}

// LayerStack is the ordered set of live layers, oldest first.
type LayerStack struct {
	layers    []*Layer
	max       int
	aging     Aging
	newWalker func() *Walker
}

// NewLayerStack creates an empty stack. max below 1 is treated as 1.
func NewLayerStack(max int, aging Aging, newWalker func() *Walker) *LayerStack {
	if max < 1 {
		max = 1
	}
	return &LayerStack{
		max:       max,
		aging:     aging,
		newWalker: newWalker,
	}
}

// SpawnLayer pushes a fresh layer with a newly spawned pipe on top.
// The oldest layer is dropped when the stack is full; its cells stay on
// the canvas but stop receiving updates. With aging enabled every older
// layer is darkened once.
func (s *LayerStack) SpawnLayer() *Layer {
	w := s.newWalker()
	w.Spawn()

	if len(s.layers) >= s.max {
		copy(s.layers, s.layers[1:])
		s.layers[len(s.layers)-1] = nil
		s.layers = s.layers[:len(s.layers)-1]
	}

	l := &Layer{walker: w, pipes: 1}
	s.layers = append(s.layers, l)

	if s.aging.Enabled {
		s.AgeAllButNewest()
	}
	return l
}

// AgeAllButNewest darkens every layer except the top one.
func (s *LayerStack) AgeAllButNewest() {
	for i := 0; i < len(s.layers)-1; i++ {
		l := s.layers[i]
		l.age++
		if sc := l.walker.Scheme(); sc != nil {
			sc.Age(s.aging.Factor, s.aging.Min)
		}
	}
}

// Respawn starts a new pipe in an existing layer. The new pipe's colors are
// aged as many times as the layer itself so it blends with its depth.
func (s *LayerStack) Respawn(l *Layer) {
	l.walker.Spawn()
	l.pipes++
	if !s.aging.Enabled {
		return
	}
	sc := l.walker.Scheme()
	for i := 0; i < l.age; i++ {
		sc.Age(s.aging.Factor, s.aging.Min)
	}
}

// Newest returns the top layer, or nil when the stack is empty.
func (s *LayerStack) Newest() *Layer {
	if len(s.layers) == 0 {
		return nil
	}
	return s.layers[len(s.layers)-1]
}

// Layers returns the live layers, oldest first.
func (s *LayerStack) Layers() []*Layer {
	out := make([]*Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

// Len returns the number of live layers.
func (s *LayerStack) Len() int {
	return len(s.layers)
}

// Max returns the layer capacity.
func (s *LayerStack) Max() int {
	return s.max
}

// Reset discards every layer.
func (s *LayerStack) Reset() {
	s.layers = nil
}

package engine

import (
	"fmt"

	"github.com/vovakirdan/tui-pipes/internal/core"
)

// Stats is a read-only snapshot of the engine counters.
type Stats struct {
	PiecesDrawn     int   // since the last clear
	PiecesTotal     int64 // since start
	LayerPieces     int   // drawn by the newest layer
	PipePieces      int   // drawn by the current pipe
	PipeLength      int   // target length of the current pipe
	PiecesRemaining int   // left in the current pipe
	PipesTotal      int64
	LayersActive    int
	LayersDrawn     int // since the last clear
	LayersTotal     int64
	Clears          int64
	Ticks           int64
	TickRate        int
	Paused          bool
	PipeColor       core.Color
}

// Stats returns the current counters.
func (e *Engine) Stats() Stats {
	s := Stats{
		PiecesDrawn:  e.canvas.Drawn(),
		PiecesTotal:  e.counters.piecesTotal,
		PipesTotal:   e.counters.pipesTotal,
		LayersActive: e.layers.Len(),
		LayersDrawn:  e.counters.layersDrawn,
		LayersTotal:  e.counters.layersTotal,
		Clears:       e.counters.clears,
		Ticks:        e.counters.ticks,
		TickRate:     e.clock.Rate(),
		Paused:       e.clock.Paused(),
		PipeColor:    core.DefaultColor(),
	}

	if top := e.layers.Newest(); top != nil {
		w := top.walker
		s.LayerPieces = top.drawn
		s.PipePieces = w.Drawn()
		s.PipeLength = w.Target()
		s.PiecesRemaining = w.Remaining()
		if sc := w.Scheme(); sc != nil {
			s.PipeColor = sc.Start()
		}
	}
	return s
}

// String renders the counters as the single-line stats overlay.
func (s Stats) String() string {
	line := fmt.Sprintf(
		"pieces: %d, layer pieces: %d, pipe pieces: %d, pipes: %d, remaining: %d, layers: %d, pipe length: %d, color: %s, fps: %d",
		s.PiecesTotal,
		s.LayerPieces,
		s.PipePieces,
		s.PipesTotal,
		s.PiecesRemaining,
		s.LayersDrawn,
		s.PipeLength,
		s.PipeColor,
		s.TickRate,
	)
	if s.Paused {
		line += " [paused]"
	}
	return line
}

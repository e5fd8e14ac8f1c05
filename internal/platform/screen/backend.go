package screen

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/engine"
	"github.com/vovakirdan/tui-pipes/internal/registry"
	"github.com/vovakirdan/tui-pipes/internal/snapshot"
)

const helpLine = "space pause  c clear  l redraw  s stats  +/- speed  [/] speed x10  ctrl+s snapshot  q quit"

// Backend runs the screensaver on a tcell screen.
type Backend struct {
	// newScreen opens the terminal; tests swap in a simulation screen.
	newScreen func() (tcell.Screen, error)
}

// Name returns the backend identifier.
func (Backend) Name() string { return "tcell" }

// Title returns a human-readable description.
func (Backend) Title() string { return "tcell incremental painter" }

// mapKey translates a tcell key to a screensaver action.
func mapKey(k tcell.Key, r rune) core.Action {
	switch k {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return core.ActionQuit
	case tcell.KeyCtrlL:
		return core.ActionRedraw
	case tcell.KeyCtrlS:
		return core.ActionSnapshot
	case tcell.KeyRune:
	default:
		return core.ActionNone
	}

	switch r {
	case 'q':
		return core.ActionQuit
	case ' ':
		return core.ActionPause
	case 'c':
		return core.ActionClear
	case 'l':
		return core.ActionRedraw
	case 's':
		return core.ActionStats
	case '+', '=':
		return core.ActionFaster
	case '-', '_':
		return core.ActionSlower
	case ']':
		return core.ActionMuchFaster
	case '[':
		return core.ActionMuchSlower
	case '?':
		return core.ActionHelp
	}
	return core.ActionNone
}

// session is the state of one Run call.
type session struct {
	screen    tcell.Screen
	eng       *engine.Engine
	painter   *painter
	opts      registry.Options
	showStats bool
	showHelp  bool
	notice    string // last snapshot result, shown on the top row until the next key
	rate      int // tick rate the ticker was last set for
}

// Run paints the engine until the user quits or ctx is cancelled.
func (b Backend) Run(ctx context.Context, eng *engine.Engine, opts registry.Options) error {
	logger := opts.LoggerOrDiscard().WithPrefix("tcell")

	open := b.newScreen
	if open == nil {
		open = tcell.NewScreen
	}
	s, err := open()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()
	s.HideCursor()

	w, h := s.Size()
	if err := eng.Resize(w, h); err != nil {
		return err
	}

	sess := &session{
		screen:    s,
		eng:       eng,
		painter:   newPainter(s, opts.Background),
		opts:      opts,
		showStats: opts.ShowStats,
		rate:      eng.Clock().Rate(),
	}
	eng.SetSink(sess.painter)
	defer eng.SetSink(nil)
	sess.painter.Repaint(eng.Canvas())

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := s.PollEvent()
			if ev == nil {
				return // screen finalized
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(eng.Clock().Interval())
	defer ticker.Stop()
	logger.Debug("started", "size", eng.Canvas().Size(), "fps", sess.rate)

	for {
		select {
		case <-ctx.Done():
			logger.Debug("cancelled", "error", ctx.Err())
			return nil

		case ev := <-events:
			if !sess.handleEvent(ev) {
				logger.Debug("quit", "ticks", eng.Stats().Ticks)
				return nil
			}
			if rate := eng.Clock().Rate(); rate != sess.rate {
				sess.rate = rate
				ticker.Reset(eng.Clock().Interval())
			}
			sess.drawOverlays()
			s.Show()

		case <-ticker.C:
			if res := eng.Tick(); res.Cleared {
				logger.Debug("canvas cleared", "clears", eng.Stats().Clears)
			}
			sess.drawOverlays()
			s.Show()
		}
	}
}

// handleEvent applies one terminal event. It returns false to quit.
func (s *session) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if s.notice != "" {
			s.notice = ""
			s.painter.repaintRow(s.eng.Canvas(), 0)
		}
		action := mapKey(ev.Key(), ev.Rune())
		switch action {
		case core.ActionQuit:
			s.eng.Apply(action)
			return false
		case core.ActionStats:
			s.showStats = !s.showStats
			s.restoreOverlayRows()
		case core.ActionHelp:
			s.showHelp = !s.showHelp
			s.restoreOverlayRows()
		case core.ActionSnapshot:
			s.saveSnapshot()
		default:
			s.eng.Apply(action)
		}

	case *tcell.EventResize:
		w, h := ev.Size()
		//nolint:errcheck // An empty size is the only error and leaves the engine as is
		s.eng.Resize(w, h)
		s.painter.Repaint(s.eng.Canvas())
	}
	return true
}

// overlayRows returns the rows used by the help and stats lines.
func (s *session) overlayRows() (helpRow, statsRow int) {
	h := s.eng.Canvas().Size().H
	return h - 2, h - 1
}

// drawOverlays paints the enabled overlay lines over the canvas.
func (s *session) drawOverlays() {
	helpRow, statsRow := s.overlayRows()
	if !s.showStats {
		helpRow = statsRow
	}
	if s.showStats {
		s.painter.drawText(statsRow, s.eng.Stats().String())
	}
	if s.showHelp && helpRow >= 0 {
		s.painter.drawText(helpRow, helpLine)
	}
	if s.notice != "" {
		s.painter.drawText(0, s.notice)
	}
}

// restoreOverlayRows repaints the rows overlays may have covered.
func (s *session) restoreOverlayRows() {
	helpRow, statsRow := s.overlayRows()
	c := s.eng.Canvas()
	if helpRow >= 0 {
		s.painter.repaintRow(c, helpRow)
	}
	s.painter.repaintRow(c, statsRow)
}

// saveSnapshot writes the canvas to a PNG and reports the outcome.
func (s *session) saveSnapshot() {
	logger := s.opts.LoggerOrDiscard().WithPrefix("tcell")
	dir := s.opts.SnapshotDir
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".pipes", "snapshots")
	}
	path := filepath.Join(dir, snapshot.Filename("pipes", "png", time.Now()))

	opts := snapshot.DefaultOptions()
	opts.Background = s.opts.Background
	if err := snapshot.SavePNG(path, s.eng.Canvas(), opts); err != nil {
		logger.Debug("snapshot failed", "error", err)
		s.notice = "snapshot failed: " + err.Error()
		return
	}
	logger.Debug("snapshot saved", "path", path)
	s.notice = "saved " + path
}

func init() {
	registry.Register("tcell", func() registry.Backend { return Backend{} })
}

package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/engine"
	"github.com/vovakirdan/tui-pipes/internal/registry"
	"github.com/vovakirdan/tui-pipes/internal/snapshot"
)

// Model is the Bubble Tea model running one screensaver engine.
type Model struct {
	eng      *engine.Engine
	keys     *KeyMapper
	help     help.Model
	lg       *lipgloss.Renderer
	renderer *Renderer
	opts     registry.Options

	showStats bool
	showHelp  bool
	notice    string // last snapshot result, shown until the next key
	quitting  bool
}

// NewModel creates a model for the engine. A nil lipgloss renderer uses
// the default one bound to stdout.
func NewModel(eng *engine.Engine, lg *lipgloss.Renderer, opts registry.Options) Model {
	if lg == nil {
		lg = lipgloss.DefaultRenderer()
	}
	h := help.New()
	h.ShowAll = true

	return Model{
		eng:       eng,
		keys:      NewKeyMapper(),
		help:      h,
		lg:        lg,
		renderer:  NewRenderer(lg, opts.Background),
		opts:      opts,
		showStats: opts.ShowStats,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.eng.Clock().Interval())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	action := m.keys.MapKey(msg)

	switch action {
	case core.ActionQuit:
		m.eng.Apply(action)
		m.quitting = true
		return m, tea.Quit
	case core.ActionStats:
		m.showStats = !m.showStats
		return m, nil
	case core.ActionHelp:
		m.showHelp = !m.showHelp
		return m, nil
	case core.ActionSnapshot:
		m.notice = m.saveSnapshot()
		return m, nil
	case core.ActionRedraw:
		m.eng.Apply(action)
		return m, tea.ClearScreen
	}

	m.eng.Apply(action)
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.help.Width = msg.Width
	// Zero sizes show up while a terminal is being detached; keep the old canvas.
	//nolint:errcheck // An empty size is the only error and leaves the engine as is
	m.eng.Resize(msg.Width, msg.Height)
	return m, nil
}

// handleTick processes animation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.eng.Clock().Stopped() {
		return m, nil
	}
	m.eng.Tick()

	// Continue ticking; the interval follows speed changes
	return m, tickCmd(m.eng.Clock().Interval())
}

// saveSnapshot writes the canvas to a timestamped PNG and returns a notice.
func (m Model) saveSnapshot() string {
	dir := m.opts.SnapshotDir
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".pipes", "snapshots")
	}
	path := filepath.Join(dir, snapshot.Filename("pipes", "png", time.Now()))

	opts := snapshot.DefaultOptions()
	opts.Background = m.opts.Background
	if err := snapshot.SavePNG(path, m.eng.Canvas(), opts); err != nil {
		return "snapshot failed: " + err.Error()
	}
	return "saved " + path
}

// View renders the canvas with the optional overlays on the bottom rows.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	rows := m.renderer.RenderRows(m.eng.Canvas())
	width := m.eng.Canvas().Size().W

	var overlay []string
	if m.showHelp {
		overlay = append(overlay, strings.Split(m.help.View(m.keys.Keys()), "\n")...)
	}
	if m.notice != "" {
		overlay = append(overlay, m.notice)
	}
	if m.showStats {
		overlay = append(overlay, m.eng.Stats().String())
	}

	style := overlayStyle(m.lg, width)
	start := len(rows) - len(overlay)
	for i, line := range overlay {
		if y := start + i; y >= 0 {
			rows[y] = style.Render(line)
		}
	}
	return strings.Join(rows, "\n")
}

// Backend runs the screensaver inside a Bubble Tea program.
type Backend struct{}

// Name returns the backend identifier.
func (Backend) Name() string { return "tui" }

// Title returns a human-readable description.
func (Backend) Title() string { return "Bubble Tea full-frame renderer" }

// Run starts the Bubble Tea program and blocks until the user quits or
// ctx is cancelled.
func (Backend) Run(ctx context.Context, eng *engine.Engine, opts registry.Options) error {
	model := NewModel(eng, nil, opts)

	p := tea.NewProgram(
		model,
		tea.WithContext(ctx),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func init() {
	registry.Register("tui", func() registry.Backend { return Backend{} })
}

package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-pipes/internal/storage"
)

// History layout constants
const (
	maxHistoryRuns  = 100 // Max runs to load
	historyChrome   = 8   // Rows used by title, totals, help and margins
	minHistoryWidth = 60  // Below this the seed column is dropped
)

// HistoryKeyMap defines the key bindings for the history viewer.
type HistoryKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Top  key.Binding
	End  key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.End},
		{k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "newest"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "oldest"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for browsing recorded runs.
type HistoryModel struct {
	runs     []storage.Run
	totals   storage.Totals
	table    table.Model
	help     help.Model
	keys     HistoryKeyMap
	width    int
	height   int
	quitting bool
}

// NewHistoryModel creates a history viewer over already loaded runs.
func NewHistoryModel(runs []storage.Run, totals storage.Totals, width, height int) HistoryModel {
	m := HistoryModel{
		runs:   runs,
		totals: totals,
		keys:   DefaultHistoryKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

// columns returns the table columns for the current width.
func (m HistoryModel) columns() []table.Column {
	columns := []table.Column{
		{Title: "When", Width: 12},
		{Title: "Source", Width: 12},
		{Title: "Size", Width: 8},
		{Title: "Pieces", Width: 8},
		{Title: "Pipes", Width: 6},
		{Title: "Clears", Width: 6},
		{Title: "Time", Width: 8},
	}
	if m.width >= minHistoryWidth+20 {
		columns = append(columns, table.Column{Title: "Seed", Width: 20})
	}
	return columns
}

// createTable creates a new table sized to the window.
func (m HistoryModel) createTable() table.Model {
	height := m.height - historyChrome
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// updateTableRows fills the table from the loaded runs.
func (m *HistoryModel) updateTableRows() {
	withSeed := len(m.table.Columns()) > 7
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		row := table.Row{
			r.CreatedAt.Local().Format("Jan 02 15:04"),
			r.Source,
			fmt.Sprintf("%dx%d", r.Width, r.Height),
			strconv.FormatInt(r.PiecesTotal, 10),
			strconv.FormatInt(r.PipesTotal, 10),
			strconv.FormatInt(r.Clears, 10),
			r.Duration.String(),
		}
		if withSeed {
			row = append(row, strconv.FormatInt(r.Seed, 10))
		}
		rows[i] = row
	}
	m.table.SetRows(rows)

	// Reset cursor to top
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history viewer.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Top):
			m.table.GotoTop()
			return m, nil

		case key.Matches(msg, m.keys.End):
			m.table.GotoBottom()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table for scrolling
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history viewer.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render("RUN HISTORY"))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))
	b.WriteString("\n")

	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(dimStyle.Render(FormatTotals(m.totals)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	if len(m.runs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No runs recorded yet.\nStart the screensaver to record one!")
	}

	return m.table.View()
}

// FormatTotals renders the aggregate counters as one line.
func FormatTotals(t storage.Totals) string {
	if t.Runs == 0 {
		return "no runs"
	}
	return fmt.Sprintf("%d runs, %d pieces, %d pipes, %d clears, %s total, last %s",
		t.Runs, t.Pieces, t.Pipes, t.Clears, t.Duration, t.LastRun.Local().Format(time.DateTime))
}

// RunHistory loads the most recent runs and shows them until the user quits.
func RunHistory(store *storage.Store, width, height int) error {
	runs, err := store.RecentRuns(maxHistoryRuns)
	if err != nil {
		return err
	}
	totals, err := store.Totals()
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		NewHistoryModel(runs, totals, width, height),
		tea.WithAltScreen(),
	)
	_, err = p.Run()
	return err
}

package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/engine"
)

// Renderer converts a canvas to a styled string for display.
// Styles are cached per color since a run only ever uses a bounded set
// of base colors, or one color per gradient step.
type Renderer struct {
	lg         *lipgloss.Renderer
	background core.Color
	styles     map[core.Color]lipgloss.Style
}

// NewRenderer creates a renderer. A nil lipgloss renderer uses the default
// one bound to stdout.
func NewRenderer(lg *lipgloss.Renderer, background core.Color) *Renderer {
	if lg == nil {
		lg = lipgloss.DefaultRenderer()
	}
	return &Renderer{
		lg:         lg,
		background: background,
		styles:     make(map[core.Color]lipgloss.Style),
	}
}

// maxCachedStyles bounds the style cache; gradients can produce many colors.
const maxCachedStyles = 4096

// style returns the lipgloss style for a foreground color.
func (r *Renderer) style(fg core.Color) lipgloss.Style {
	if s, ok := r.styles[fg]; ok {
		return s
	}
	if len(r.styles) >= maxCachedStyles {
		clear(r.styles)
	}

	s := r.lg.NewStyle()
	if c, ok := toLipgloss(fg); ok {
		s = s.Foreground(c)
	}
	if c, ok := toLipgloss(r.background); ok {
		s = s.Background(c)
	}
	r.styles[fg] = s
	return s
}

// toLipgloss maps a core color to a terminal color. Default colors have none.
func toLipgloss(c core.Color) (lipgloss.Color, bool) {
	switch c.Mode {
	case core.ColorModeIndex:
		return lipgloss.Color(strconv.Itoa(int(c.Index))), true
	case core.ColorModeRGB:
		return lipgloss.Color(c.RGB.Hex()), true
	default:
		return "", false
	}
}

// RenderRows renders each canvas row to a styled string.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func (r *Renderer) RenderRows(c *engine.Canvas) []string {
	size := c.Size()
	rows := make([]string, 0, size.H)

	for y := range size.H {
		var sb strings.Builder
		// Pre-allocate with extra space for ANSI codes
		sb.Grow(size.W * 4)

		x := 0
		for x < size.W {
			startColor := cellColor(c.At(core.C(x, y)))

			// Collect consecutive cells with same color
			var run strings.Builder
			for x < size.W {
				cell := c.At(core.C(x, y))
				if cellColor(cell) != startColor {
					break
				}
				if cell.Filled {
					run.WriteString(cell.Glyph)
				} else {
					run.WriteByte(' ')
				}
				x++
			}

			sb.WriteString(r.style(startColor).Render(run.String()))
		}
		rows = append(rows, sb.String())
	}
	return rows
}

// Render renders the whole canvas, rows joined with newlines.
func (r *Renderer) Render(c *engine.Canvas) string {
	return strings.Join(r.RenderRows(c), "\n")
}

// cellColor treats empty cells as default-colored so blank runs merge.
func cellColor(cell engine.Cell) core.Color {
	if !cell.Filled {
		return core.DefaultColor()
	}
	return cell.Color
}

// overlayStyle draws gray text on black, like a status bar.
func overlayStyle(lg *lipgloss.Renderer, width int) lipgloss.Style {
	return lg.NewStyle().
		Foreground(lipgloss.Color("7")).
		Background(lipgloss.Color("0")).
		Width(width).
		MaxWidth(width).
		MaxHeight(1)
}

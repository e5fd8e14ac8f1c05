// Package screen provides a tcell backend for the pipes screensaver.
//
// Unlike the Bubble Tea backend it never re-renders whole frames: it
// installs itself as the engine's sink and paints each piece as it is
// drawn, falling back to a full repaint from the canvas only on redraw
// and resize.
package screen

import (
	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/engine"
)

// painter writes engine draw events straight to a tcell screen.
type painter struct {
	screen     tcell.Screen
	background tcell.Color
}

func newPainter(s tcell.Screen, background core.Color) *painter {
	return &painter{screen: s, background: toTcell(background)}
}

// style returns the style for a piece color over the configured background.
func (p *painter) style(fg core.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(toTcell(fg)).Background(p.background)
}

// Put paints one piece.
func (p *painter) Put(pc engine.Piece) {
	p.setCell(pc.Cell.X, pc.Cell.Y, pc.Glyph, p.style(pc.Color))
}

// Erase blanks the whole screen.
func (p *painter) Erase() {
	p.screen.Fill(' ', p.style(core.DefaultColor()))
}

// Repaint erases the screen and paints every filled canvas cell again.
func (p *painter) Repaint(c *engine.Canvas) {
	p.Erase()
	c.Each(func(pos core.Cell, cell engine.Cell) {
		p.setCell(pos.X, pos.Y, cell.Glyph, p.style(cell.Color))
	})
	p.screen.Sync()
}

// repaintRow restores one row from the canvas, e.g. after an overlay is hidden.
func (p *painter) repaintRow(c *engine.Canvas, y int) {
	blank := p.style(core.DefaultColor())
	for x := 0; x < c.Size().W; x++ {
		cell := c.At(core.C(x, y))
		if !cell.Filled {
			p.screen.SetContent(x, y, ' ', nil, blank)
			continue
		}
		p.setCell(x, y, cell.Glyph, p.style(cell.Color))
	}
}

// drawText writes a single-line overlay padded to the screen width.
func (p *painter) drawText(y int, text string) {
	w, _ := p.screen.Size()
	style := tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack)
	x := 0
	for _, r := range text {
		if x >= w {
			break
		}
		p.screen.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < w; x++ {
		p.screen.SetContent(x, y, ' ', nil, style)
	}
}

// setCell writes a glyph that may be a multi-rune grapheme cluster.
func (p *painter) setCell(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		runes = []rune{' '}
	}
	p.screen.SetContent(x, y, runes[0], runes[1:], style)
}

// toTcell maps a core color to a tcell color.
func toTcell(c core.Color) tcell.Color {
	switch c.Mode {
	case core.ColorModeIndex:
		return tcell.PaletteColor(int(c.Index))
	case core.ColorModeRGB:
		return tcell.NewRGBColor(int32(c.RGB.R), int32(c.RGB.G), int32(c.RGB.B))
	default:
		return tcell.ColorDefault
	}
}

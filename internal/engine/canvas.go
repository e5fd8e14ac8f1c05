package engine

import (
	"strings"

	"github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/pieces"
)

// Cell is the content of one canvas position.
type Cell struct {
	Glyph  string
	Slot   pieces.Slot
	Color  core.Color
	Filled bool
}

// Canvas is the 2D buffer of drawn pieces.
// It decouples the animation from the terminal: backends repaint from it
// after a resize or redraw instead of keeping their own copy.
type Canvas struct {
	size  core.Size
	cells [][]Cell
	drawn int
	max   int // pieces before the canvas clears itself; 0 is unlimited
}

// NewCanvas creates an empty canvas.
func NewCanvas(size core.Size, maxDrawn int) *Canvas {
	c := &Canvas{size: size, max: maxDrawn}
	c.allocate()
	return c
}

// allocate creates the underlying cell storage.
func (c *Canvas) allocate() {
	h, w := c.size.H, c.size.W
	if h < 0 {
		h = 0
	}
	if w < 0 {
		w = 0
	}
	c.cells = make([][]Cell, h)
	for y := range c.cells {
		c.cells[y] = make([]Cell, w)
	}
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() core.Size {
	return c.size
}

// MaxDrawn returns the clear threshold. 0 means the canvas never clears itself.
func (c *Canvas) MaxDrawn() int {
	return c.max
}

// Drawn returns the number of pieces drawn since the last clear.
func (c *Canvas) Drawn() int {
	return c.drawn
}

// Draw writes a piece and counts it. It reports true when the count
// reached the threshold and the canvas was cleared as a result.
// Pieces outside the canvas are ignored.
func (c *Canvas) Draw(p Piece) bool {
	if !c.size.Contains(p.Cell) {
		return false
	}
	c.cells[p.Cell.Y][p.Cell.X] = Cell{
		Glyph:  p.Glyph,
		Slot:   p.Slot,
		Color:  p.Color,
		Filled: true,
	}
	c.drawn++

	if c.max > 0 && c.drawn >= c.max {
		c.Clear()
		return true
	}
	return false
}

// Clear empties every cell and resets the drawn counter.
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = Cell{}
		}
	}
	c.drawn = 0
}

// Resize changes the canvas dimensions and discards the content.
func (c *Canvas) Resize(size core.Size) {
	c.size = size
	c.allocate()
	c.drawn = 0
}

// At returns the cell at the given position.
// Returns an empty cell for out-of-bounds positions.
func (c *Canvas) At(cell core.Cell) Cell {
	if !c.size.Contains(cell) {
		return Cell{}
	}
	return c.cells[cell.Y][cell.X]
}

// Filled returns the number of non-empty cells.
func (c *Canvas) Filled() int {
	n := 0
	for y := range c.cells {
		for x := range c.cells[y] {
			if c.cells[y][x].Filled {
				n++
			}
		}
	}
	return n
}

// Each calls fn for every filled cell in row-major order.
func (c *Canvas) Each(fn func(core.Cell, Cell)) {
	for y := range c.cells {
		for x := range c.cells[y] {
			if c.cells[y][x].Filled {
				fn(core.C(x, y), c.cells[y][x])
			}
		}
	}
}

// Row returns the glyphs of one row as a string, with spaces for empty cells.
func (c *Canvas) Row(y int) string {
	if y < 0 || y >= c.size.H {
		return strings.Repeat(" ", max(c.size.W, 0))
	}
	var sb strings.Builder
	for _, cell := range c.cells[y] {
		if cell.Filled {
			sb.WriteString(cell.Glyph)
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// String converts the canvas to plain text, rows joined with newlines.
func (c *Canvas) String() string {
	var sb strings.Builder
	for y := 0; y < c.size.H; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(c.Row(y))
	}
	return sb.String()
}

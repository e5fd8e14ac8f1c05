// Package snapshot exports a canvas as a PNG image or as plain text.
//
// The PNG export does not rasterize font glyphs. Every piece is drawn as
// line strokes from the cell center to the edges it connects, which keeps
// pipes continuous regardless of the piece set in use.
package snapshot

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gogpu/gg"

	"github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/engine"
)

// Options controls the PNG rendering.
type Options struct {
	CellWidth  int     // pixels per cell horizontally
	CellHeight int     // pixels per cell vertically
	LineWidth  float64 // stroke width in pixels
	Background core.Color
	Foreground core.RGB // used for pieces drawn in the terminal default color
}

// DefaultOptions returns options matching a typical terminal cell ratio.
func DefaultOptions() Options {
	return Options{
		CellWidth:  10,
		CellHeight: 20,
		LineWidth:  4,
		Background: core.DefaultColor(),
		Foreground: core.RGB{R: 0xc0, G: 0xc0, B: 0xc0},
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.CellWidth <= 0 {
		o.CellWidth = d.CellWidth
	}
	if o.CellHeight <= 0 {
		o.CellHeight = d.CellHeight
	}
	if o.LineWidth <= 0 {
		o.LineWidth = d.LineWidth
	}
	return o
}

// Draw renders the canvas into a new drawing context.
// The caller owns the returned context and must Close it.
func Draw(c *engine.Canvas, opts Options) (*gg.Context, error) {
	opts = opts.normalized()
	size := c.Size()
	if size.Empty() {
		return nil, fmt.Errorf("snapshot: canvas %dx%d is empty", size.W, size.H)
	}

	dc := gg.NewContext(size.W*opts.CellWidth, size.H*opts.CellHeight)
	bg := opts.Background.ToRGB(core.RGBBlack)
	dc.ClearWithColor(toRGBA(bg))
	dc.SetLineWidth(opts.LineWidth)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	cw, ch := float64(opts.CellWidth), float64(opts.CellHeight)
	var strokeErr error
	c.Each(func(pos core.Cell, cell engine.Cell) {
		if strokeErr != nil {
			return
		}
		cx := float64(pos.X)*cw + cw/2
		cy := float64(pos.Y)*ch + ch/2

		for _, h := range cell.Slot.Connects() {
			dx, dy := h.Delta()
			dc.MoveTo(cx, cy)
			dc.LineTo(cx+float64(dx)*cw/2, cy+float64(dy)*ch/2)
		}
		fg := toRGBA(cell.Color.ToRGB(opts.Foreground))
		dc.SetRGB(fg.R, fg.G, fg.B)
		strokeErr = dc.Stroke()
	})
	if strokeErr != nil {
		dc.Close()
		return nil, fmt.Errorf("snapshot: stroke: %w", strokeErr)
	}
	return dc, nil
}

func toRGBA(c core.RGB) gg.RGBA {
	return gg.RGB(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}

// WritePNG encodes the canvas as PNG to w.
func WritePNG(w io.Writer, c *engine.Canvas, opts Options) error {
	dc, err := Draw(c, opts)
	if err != nil {
		return err
	}
	defer dc.Close()

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("snapshot: encode png: %w", err)
	}
	return nil
}

// SavePNG writes the canvas to a PNG file, creating parent directories.
func SavePNG(path string, c *engine.Canvas, opts Options) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("snapshot: create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: create file: %w", err)
	}
	if err := WritePNG(f, c, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Text returns the canvas glyphs as plain text with trailing spaces removed.
func Text(c *engine.Canvas) string {
	size := c.Size()
	lines := make([]string, size.H)
	for y := range size.H {
		lines[y] = strings.TrimRight(c.Row(y), " ")
	}
	return strings.Join(lines, "\n") + "\n"
}

// SaveText writes the plain-text rendering of the canvas to a file.
func SaveText(path string, c *engine.Canvas) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("snapshot: create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(Text(c)), 0o600); err != nil {
		return fmt.Errorf("snapshot: write text: %w", err)
	}
	return nil
}

// Filename returns a timestamped file name such as pipes_20060102_150405.png.
func Filename(prefix, ext string, t time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, t.Format("20060102_150405"), ext)
}

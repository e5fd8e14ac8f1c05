// Package palette resolves pipe colors: flat base colors, random true colors
// and gradients along a pipe's length.
package palette

import (
	"math"
	"math/rand"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/vovakirdan/tui-pipes/internal/core"
)

// Kind selects the set of colors pipes are drawn with.
type Kind uint8

const (
	KindNone   Kind = iota // terminal default color
	KindBase16             // the 16 colors predefined by the terminal
	KindRGB                // 24-bit true color
)

// String returns the string representation of a palette kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBase16:
		return "base16"
	case KindRGB:
		return "rgb"
	default:
		return "unknown"
	}
}

// ParseKind converts a string to a Kind.
// Returns KindBase16 and false if the string is not recognized.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "off":
		return KindNone, true
	case "base16", "base", "base-colors", "base_colors":
		return KindBase16, true
	case "rgb", "truecolor":
		return KindRGB, true
	default:
		return KindBase16, false
	}
}

// DefaultGradientStep is the gradient quantization used when none is configured.
const DefaultGradientStep = 0.005

// Palette is the immutable per-run color selection.
type Palette struct {
	Kind     Kind
	Gradient bool    // RGB only: shift color along the pipe
	Step     float64 // gradient quantization in (0, 1]; smaller is smoother
}

// New validates and builds a Palette.
func New(kind Kind, gradient bool, step float64) (Palette, error) {
	if kind > KindRGB {
		return Palette{}, core.NewConfigError("palette", "unknown kind %d", kind)
	}
	if gradient && kind != KindRGB {
		return Palette{}, core.NewConfigError("gradient", "requires the rgb palette, got %s", kind)
	}
	if gradient && (step <= 0 || step > 1 || math.IsNaN(step)) {
		return Palette{}, core.NewConfigError("gradient_step", "must be in (0, 1], got %v", step)
	}
	return Palette{Kind: kind, Gradient: gradient, Step: step}, nil
}

// NewScheme picks the colors for one pipe. The choice is fixed for the
// pipe's lifetime; only Age mutates it afterwards.
func (p Palette) NewScheme(rng *rand.Rand) *Scheme {
	s := &Scheme{palette: p}
	switch p.Kind {
	case KindBase16:
		s.start = core.IndexColor(uint8(rng.Intn(16)))
	case KindRGB:
		s.start = core.TrueColor(randomRGB(rng))
		if p.Gradient {
			s.end = core.TrueColor(randomRGB(rng))
		}
	}
	return s
}

// NewSchemeFrom builds a scheme with explicit endpoints. end is only used
// by gradient palettes.
func (p Palette) NewSchemeFrom(start, end core.Color) *Scheme {
	return &Scheme{palette: p, start: start, end: end}
}

func randomRGB(rng *rand.Rand) core.RGB {
	return core.RGB{
		R: uint8(rng.Intn(256)),
		G: uint8(rng.Intn(256)),
		B: uint8(rng.Intn(256)),
	}
}

// Scheme is the color state owned by one pipe or layer.
type Scheme struct {
	palette Palette
	start   core.Color
	end     core.Color
}

// Start returns the base color, or the first gradient endpoint.
func (s *Scheme) Start() core.Color {
	return s.start
}

// End returns the second gradient endpoint. It equals Start for flat schemes.
func (s *Scheme) End() core.Color {
	if !s.palette.Gradient {
		return s.start
	}
	return s.end
}

// At resolves the color at a position along the pipe, pos in [0, 1].
// Flat schemes ignore pos.
func (s *Scheme) At(pos float64) core.Color {
	if s.palette.Kind != KindRGB || !s.palette.Gradient {
		return s.start
	}
	t := Quantize(pos, s.palette.Step)
	return core.TrueColor(Lerp(s.start.RGB, s.end.RGB, t))
}

// Age applies the depth-mode age transform to every stored color.
func (s *Scheme) Age(factor uint8, min core.RGB) {
	s.start = s.start.Age(factor, min)
	s.end = s.end.Age(factor, min)
}

// Quantize snaps t in [0, 1] down to a multiple of step.
// The endpoints 0 and 1 are always returned exactly.
func Quantize(t, step float64) float64 {
	t = core.ClampF(t, 0, 1)
	if step <= 0 || t == 1 {
		return t
	}
	q := math.Floor(t/step+1e-9) * step
	return core.ClampF(q, 0, 1)
}

// Lerp linearly interpolates between two colors in RGB space.
// t=0 returns a, t=1 returns b.
func Lerp(a, b core.RGB, t float64) core.RGB {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	r, g, bl := toColorful(a).BlendRgb(toColorful(b), t).Clamped().RGB255()
	return core.RGB{R: r, G: g, B: bl}
}

func toColorful(c core.RGB) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// ParseHex parses "#rrggbb", "rrggbb" or "#rgb" into a color.
func ParseHex(s string) (core.RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return core.RGB{}, core.NewConfigError("color", "cannot parse %q as a hex color", s)
	}
	r, g, b := c.Clamped().RGB255()
	return core.RGB{R: r, G: g, B: b}, nil
}

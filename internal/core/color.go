package core

import "fmt"

// ColorMode tells the renderer how to interpret a Color.
type ColorMode uint8

const (
	ColorModeDefault ColorMode = iota // terminal default foreground
	ColorModeIndex                    // one of the 16 base terminal colors
	ColorModeRGB                      // 24-bit true color
)

// RGB stores explicit 8-bit color channels.
type RGB struct {
	R, G, B uint8
}

// RGBBlack is the zero value black color.
var RGBBlack = RGB{0, 0, 0}

// Hex returns the color as a #rrggbb string.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Age applies one step of the depth-mode age transform to every channel.
// Channels above min move down by factor, never below min. Channels at or
// below min move up by factor instead, saturating at 255.
func (c RGB) Age(factor uint8, min RGB) RGB {
	return RGB{
		R: ageChannel(c.R, factor, min.R),
		G: ageChannel(c.G, factor, min.G),
		B: ageChannel(c.B, factor, min.B),
	}
}

func ageChannel(v, factor, min uint8) uint8 {
	if v > min {
		if int(v)-int(factor) < int(min) {
			return min
		}
		return v - factor
	}
	if int(v)+int(factor) > 255 {
		return 255
	}
	return v + factor
}

// Color is a resolved cell color. The zero value is the terminal default.
type Color struct {
	Mode  ColorMode
	Index uint8 // valid for ColorModeIndex, 0-15
	RGB   RGB   // valid for ColorModeRGB
}

// DefaultColor returns the terminal default color.
func DefaultColor() Color {
	return Color{}
}

// IndexColor returns one of the 16 base terminal colors.
func IndexColor(i uint8) Color {
	return Color{Mode: ColorModeIndex, Index: i % 16}
}

// TrueColor returns a 24-bit color.
func TrueColor(c RGB) Color {
	return Color{Mode: ColorModeRGB, RGB: c}
}

// IsDefault reports whether the color defers to the terminal default.
func (c Color) IsDefault() bool {
	return c.Mode == ColorModeDefault
}

// Age darkens (or lightens) a true color. Other modes are returned unchanged.
func (c Color) Age(factor uint8, min RGB) Color {
	if c.Mode != ColorModeRGB {
		return c
	}
	return TrueColor(c.RGB.Age(factor, min))
}

// ToRGB approximates the color as 24-bit RGB, using fallback for the default color.
func (c Color) ToRGB(fallback RGB) RGB {
	switch c.Mode {
	case ColorModeIndex:
		return ANSI16[c.Index%16]
	case ColorModeRGB:
		return c.RGB
	default:
		return fallback
	}
}

// String returns a human-readable name for the color.
func (c Color) String() string {
	switch c.Mode {
	case ColorModeIndex:
		return ansiNames[c.Index%16]
	case ColorModeRGB:
		return c.RGB.Hex()
	default:
		return "DEFAULT"
	}
}

// ANSI16 holds the xterm defaults for the 16 base colors.
var ANSI16 = [16]RGB{
	{0, 0, 0},
	{205, 0, 0},
	{0, 205, 0},
	{205, 205, 0},
	{0, 0, 238},
	{205, 0, 205},
	{0, 205, 205},
	{229, 229, 229},
	{127, 127, 127},
	{255, 0, 0},
	{0, 255, 0},
	{255, 255, 0},
	{92, 92, 255},
	{255, 0, 255},
	{0, 255, 255},
	{255, 255, 255},
}

var ansiNames = [16]string{
	"BLACK", "RED", "GREEN", "YELLOW", "BLUE", "MAGENTA", "CYAN", "WHITE",
	"BRIGHT BLACK", "BRIGHT RED", "BRIGHT GREEN", "BRIGHT YELLOW",
	"BRIGHT BLUE", "BRIGHT MAGENTA", "BRIGHT CYAN", "BRIGHT WHITE",
}

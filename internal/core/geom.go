// Package core provides fundamental types and utilities for the pipes screensaver.
// It contains no external dependencies (especially no Bubble Tea) to keep the
// animation logic pure and testable.
package core

import "fmt"

// Heading is one of the four cardinal movement directions.
// Pipes never move diagonally.
type Heading uint8

const (
	HeadingUp Heading = iota
	HeadingDown
	HeadingRight
	HeadingLeft
)

// Headings lists every heading in a fixed order.
var Headings = [4]Heading{HeadingUp, HeadingDown, HeadingRight, HeadingLeft}

// String returns the string representation of a heading.
func (h Heading) String() string {
	switch h {
	case HeadingUp:
		return "Up"
	case HeadingDown:
		return "Down"
	case HeadingRight:
		return "Right"
	case HeadingLeft:
		return "Left"
	default:
		return "Unknown"
	}
}

// Delta returns the (dx, dy) offset for moving one step in this heading.
// Up decreases Y, Down increases Y (screen coordinates).
func (h Heading) Delta() (dx, dy int) {
	switch h {
	case HeadingUp:
		return 0, -1
	case HeadingDown:
		return 0, 1
	case HeadingRight:
		return 1, 0
	case HeadingLeft:
		return -1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the reverse heading.
func (h Heading) Opposite() Heading {
	switch h {
	case HeadingUp:
		return HeadingDown
	case HeadingDown:
		return HeadingUp
	case HeadingRight:
		return HeadingLeft
	default:
		return HeadingRight
	}
}

// Perpendicular returns the two headings at a right angle to h,
// in clockwise-then-counterclockwise order.
func (h Heading) Perpendicular() [2]Heading {
	switch h {
	case HeadingUp:
		return [2]Heading{HeadingRight, HeadingLeft}
	case HeadingDown:
		return [2]Heading{HeadingLeft, HeadingRight}
	case HeadingRight:
		return [2]Heading{HeadingDown, HeadingUp}
	default:
		return [2]Heading{HeadingUp, HeadingDown}
	}
}

// Vertical reports whether the heading moves along the Y axis.
func (h Heading) Vertical() bool {
	return h == HeadingUp || h == HeadingDown
}

// Cell is a grid position. X increases to the right, Y increases downward.
type Cell struct {
	X int
	Y int
}

// C is a convenience constructor for Cell.
func C(x, y int) Cell {
	return Cell{X: x, Y: y}
}

// String returns a string representation of the cell.
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Step returns the neighbouring cell one step in the given heading.
func (c Cell) Step(h Heading) Cell {
	dx, dy := h.Delta()
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Size describes the dimensions of a character grid.
type Size struct {
	W int
	H int
}

// Contains returns true if the cell lies within [0, W) x [0, H).
func (s Size) Contains(c Cell) bool {
	return c.X >= 0 && c.X < s.W && c.Y >= 0 && c.Y < s.H
}

// Area returns the number of cells in the grid.
func (s Size) Area() int {
	if s.W <= 0 || s.H <= 0 {
		return 0
	}
	return s.W * s.H
}

// Empty reports whether the grid has no cells.
func (s Size) Empty() bool {
	return s.Area() == 0
}

// Room returns how many steps can be taken from c in heading h
// before leaving the grid.
func (s Size) Room(c Cell, h Heading) int {
	switch h {
	case HeadingUp:
		return c.Y
	case HeadingDown:
		return s.H - 1 - c.Y
	case HeadingRight:
		return s.W - 1 - c.X
	default:
		return c.X
	}
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Package config provides YAML-based configuration loading and validation
// for the pipes screensaver.
package config

import (
	"strings"

	"github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/engine"
	"github.com/vovakirdan/tui-pipes/internal/palette"
	"github.com/vovakirdan/tui-pipes/internal/pieces"
)

// PipesConfig contains all configuration for a screensaver run.
type PipesConfig struct {
	FPS     int          `yaml:"fps"`
	Seed    int64        `yaml:"seed"`    // 0 picks a seed from the clock
	Stats   bool         `yaml:"stats"`   // show the stats overlay on start
	Backend string       `yaml:"backend"` // "tui" or "tcell"
	Pipe    PipeConfig   `yaml:"pipe"`
	Canvas  CanvasConfig `yaml:"canvas"`
	Color   ColorConfig  `yaml:"color"`
	Depth   DepthConfig  `yaml:"depth"`
	Pieces  PiecesConfig `yaml:"pieces"`
}

// PipeConfig defines the shape of generated pipes.
type PipeConfig struct {
	MinLength       int     `yaml:"min_length"`
	MaxLength       int     `yaml:"max_length"`
	TurnProbability float64 `yaml:"turn_probability"`
}

// CanvasConfig defines the drawing surface.
type CanvasConfig struct {
	MaxDrawnPieces int    `yaml:"max_drawn_pieces"` // 0 never clears
	Background     string `yaml:"background"`       // hex color, empty keeps the terminal's
}

// ColorConfig defines how pipes are colored.
type ColorConfig struct {
	Palette      string  `yaml:"palette"` // none, base16 or rgb
	Gradient     bool    `yaml:"gradient"`
	GradientStep float64 `yaml:"gradient_step"`
}

// DepthConfig defines depth mode, where older pipes fade behind new ones.
type DepthConfig struct {
	Enabled             bool   `yaml:"enabled"`
	LayerMaxDrawnPieces int    `yaml:"layer_max_drawn_pieces"`
	MaxLayers           int    `yaml:"max_layers"`
	DarkenFactor        int    `yaml:"darken_factor"` // channel units per age step
	DarkenMin           string `yaml:"darken_min"`
}

// PiecesConfig selects the glyphs pipes are drawn with.
// File wins over Custom, which wins over Set.
type PiecesConfig struct {
	Set    int    `yaml:"set"`
	Custom string `yaml:"custom"`
	File   string `yaml:"file"`
}

// Validate checks every setting and returns the first problem found as a
// core.ConfigError.
func (c PipesConfig) Validate() error {
	if c.FPS < engine.MinTickRate || c.FPS > engine.MaxTickRate {
		return core.NewConfigError("fps", "must be in [%d, %d], got %d", engine.MinTickRate, engine.MaxTickRate, c.FPS)
	}
	if err := c.walkParams().Validate(); err != nil {
		return err
	}
	if c.Canvas.MaxDrawnPieces < 0 {
		return core.NewConfigError("max_drawn_pieces", "must not be negative, got %d", c.Canvas.MaxDrawnPieces)
	}
	if _, err := c.BackgroundColor(); err != nil {
		return err
	}

	pal, err := c.Palette()
	if err != nil {
		return err
	}
	if c.Depth.Enabled {
		if pal.Kind != palette.KindRGB {
			return core.NewConfigError("depth", "requires the rgb palette, got %s", pal.Kind)
		}
		if c.Depth.LayerMaxDrawnPieces < 0 {
			return core.NewConfigError("layer_max_drawn_pieces", "must not be negative, got %d", c.Depth.LayerMaxDrawnPieces)
		}
		if c.Depth.MaxLayers < 0 {
			return core.NewConfigError("max_layers", "must not be negative, got %d", c.Depth.MaxLayers)
		}
		if c.Depth.DarkenFactor < 0 || c.Depth.DarkenFactor > 255 {
			return core.NewConfigError("darken_factor", "must be in [0, 255], got %d", c.Depth.DarkenFactor)
		}
		if _, err := c.darkenMin(); err != nil {
			return err
		}
	}

	if _, err := c.PieceSet(); err != nil {
		return err
	}
	return nil
}

func (c PipesConfig) walkParams() engine.WalkParams {
	return engine.WalkParams{
		MinLength:       c.Pipe.MinLength,
		MaxLength:       c.Pipe.MaxLength,
		TurnProbability: c.Pipe.TurnProbability,
	}
}

// Palette builds the color palette.
func (c PipesConfig) Palette() (palette.Palette, error) {
	kind, ok := palette.ParseKind(c.Color.Palette)
	if !ok {
		return palette.Palette{}, core.NewConfigError("palette", "unknown palette %q (want none, base16 or rgb)", c.Color.Palette)
	}
	return palette.New(kind, c.Color.Gradient, c.Color.GradientStep)
}

// PieceSet resolves the glyph set.
func (c PipesConfig) PieceSet() (pieces.Set, error) {
	switch {
	case c.Pieces.File != "":
		return pieces.LoadFile(ExpandHome(c.Pieces.File))
	case c.Pieces.Custom != "":
		return pieces.ParseCustom(c.Pieces.Custom)
	default:
		return pieces.Builtin(c.Pieces.Set)
	}
}

// BackgroundColor returns the color painted under empty cells.
// An empty setting keeps the terminal default.
func (c PipesConfig) BackgroundColor() (core.Color, error) {
	if strings.TrimSpace(c.Canvas.Background) == "" {
		return core.DefaultColor(), nil
	}
	rgb, err := palette.ParseHex(c.Canvas.Background)
	if err != nil {
		return core.Color{}, core.NewConfigError("background", "cannot parse %q as a hex color", c.Canvas.Background)
	}
	return core.TrueColor(rgb), nil
}

func (c PipesConfig) darkenMin() (core.RGB, error) {
	if strings.TrimSpace(c.Depth.DarkenMin) == "" {
		return core.RGBBlack, nil
	}
	rgb, err := palette.ParseHex(c.Depth.DarkenMin)
	if err != nil {
		return core.RGB{}, core.NewConfigError("darken_min", "cannot parse %q as a hex color", c.Depth.DarkenMin)
	}
	return rgb, nil
}

// EngineConfig validates the configuration and converts it for a canvas of
// the given size.
func (c PipesConfig) EngineConfig(size core.Size) (engine.Config, error) {
	if err := c.Validate(); err != nil {
		return engine.Config{}, err
	}
	pal, _ := c.Palette()
	set, _ := c.PieceSet()
	min, _ := c.darkenMin()

	return engine.Config{
		Size:                size,
		Walk:                c.walkParams(),
		Pieces:              set,
		Palette:             pal,
		MaxDrawnPieces:      c.Canvas.MaxDrawnPieces,
		TickRate:            c.FPS,
		Depth:               c.Depth.Enabled,
		LayerMaxDrawnPieces: c.Depth.LayerMaxDrawnPieces,
		MaxLayers:           c.Depth.MaxLayers,
		DarkenFactor:        uint8(c.Depth.DarkenFactor),
		DarkenMin:           min,
	}, nil
}

// RuntimeConfig returns the backend start parameters for a canvas size.
func (c PipesConfig) RuntimeConfig(w, h int) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  w,
		ScreenH:  h,
		TickRate: c.FPS,
		Seed:     c.Seed,
	}
}

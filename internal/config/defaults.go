package config

import (
	_ "embed"
)

//go:embed defaults/pipes.yaml
var defaultPipesYAML []byte

// DefaultConfig returns the default pipes configuration.
func DefaultConfig() PipesConfig {
	return PipesConfig{
		FPS:     24,
		Seed:    0,
		Stats:   false,
		Backend: "tui",
		Pipe: PipeConfig{
			MinLength:       7,
			MaxLength:       300,
			TurnProbability: 0.2,
		},
		Canvas: CanvasConfig{
			MaxDrawnPieces: 10000,
		},
		Color: ColorConfig{
			Palette:      "base16",
			Gradient:     false,
			GradientStep: 0.005,
		},
		Depth: DepthConfig{
			Enabled:             false,
			LayerMaxDrawnPieces: 1000,
			MaxLayers:           8,
			DarkenFactor:        24,
			DarkenMin:           "#000000",
		},
		Pieces: PiecesConfig{
			Set: 6,
		},
	}
}

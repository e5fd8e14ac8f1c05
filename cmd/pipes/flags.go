package main

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/vovakirdan/tui-pipes/internal/config"
)

// Flags that override configuration values when explicitly set.
var (
	flagBackend     string
	flagStats       bool
	flagMinLength   int
	flagMaxLength   int
	flagTurn        float64
	flagMaxPieces   int
	flagBackground  string
	flagPalette     string
	flagGradient    bool
	flagDepth       bool
	flagMaxLayers   int
	flagSet         int
	flagCustom      string
	flagPieceFile   string
	flagSnapshotDir string
)

// addRunFlags registers the animation flags on a flag set.
func addRunFlags(fs *pflag.FlagSet) {
	d := config.DefaultConfig()
	fs.StringVar(&flagBackend, "backend", d.Backend, "Rendering backend: tui or tcell")
	fs.BoolVar(&flagStats, "stats", d.Stats, "Show the stats overlay on start")
	fs.IntVar(&flagMinLength, "min-length", d.Pipe.MinLength, "Shortest pipe, in pieces")
	fs.IntVar(&flagMaxLength, "max-length", d.Pipe.MaxLength, "Longest pipe, in pieces")
	fs.Float64Var(&flagTurn, "turn", d.Pipe.TurnProbability, "Chance of turning on each step, 0..1")
	fs.IntVar(&flagMaxPieces, "max-pieces", d.Canvas.MaxDrawnPieces, "Pieces drawn before the screen clears (0 = never)")
	fs.StringVar(&flagBackground, "background", d.Canvas.Background, "Background hex color (empty = terminal default)")
	fs.StringVar(&flagPalette, "palette", d.Color.Palette, "Color palette: none, base16 or rgb")
	fs.BoolVar(&flagGradient, "gradient", d.Color.Gradient, "Blend colors along each pipe (rgb palette)")
	fs.BoolVar(&flagDepth, "depth", d.Depth.Enabled, "Fade older pipes behind new ones (rgb palette)")
	fs.IntVar(&flagMaxLayers, "max-layers", d.Depth.MaxLayers, "Layers kept in depth mode")
	fs.IntVar(&flagSet, "set", d.Pieces.Set, "Built-in piece set id (see 'pipes sets')")
	fs.StringVar(&flagCustom, "custom", d.Pieces.Custom, "Custom piece set: 6 glyphs in the order │─┌┐└┘")
	fs.StringVar(&flagPieceFile, "pieces-file", d.Pieces.File, "YAML piece set file")
	fs.StringVar(&flagSnapshotDir, "snapshot-dir", "~/.pipes/snapshots", "Directory for ctrl+s snapshots")
}

// loadConfig loads the configuration file and applies explicitly set flags.
func loadConfig(fs *pflag.FlagSet) (config.PipesConfig, string, error) {
	cfg, source, err := config.Load(flagConfig)
	if err != nil {
		return cfg, source, err
	}
	applyFlags(fs, &cfg)
	return cfg, source, cfg.Validate()
}

// applyFlags copies every changed flag into the configuration.
func applyFlags(fs *pflag.FlagSet, cfg *config.PipesConfig) {
	changed := func(name string) bool {
		f := fs.Lookup(name)
		return f != nil && f.Changed
	}

	if changed("fps") {
		cfg.FPS = flagFPS
	}
	if changed("seed") {
		cfg.Seed = flagSeed
	}
	if changed("backend") {
		cfg.Backend = flagBackend
	}
	if changed("stats") {
		cfg.Stats = flagStats
	}
	if changed("min-length") {
		cfg.Pipe.MinLength = flagMinLength
	}
	if changed("max-length") {
		cfg.Pipe.MaxLength = flagMaxLength
	}
	if changed("turn") {
		cfg.Pipe.TurnProbability = flagTurn
	}
	if changed("max-pieces") {
		cfg.Canvas.MaxDrawnPieces = flagMaxPieces
	}
	if changed("background") {
		cfg.Canvas.Background = flagBackground
	}
	if changed("palette") {
		cfg.Color.Palette = flagPalette
	}
	if changed("gradient") {
		cfg.Color.Gradient = flagGradient
	}
	if changed("depth") {
		cfg.Depth.Enabled = flagDepth
	}
	if changed("max-layers") {
		cfg.Depth.MaxLayers = flagMaxLayers
	}
	if changed("set") {
		cfg.Pieces.Set = flagSet
		cfg.Pieces.Custom = ""
		cfg.Pieces.File = ""
	}
	if changed("custom") {
		cfg.Pieces.Custom = flagCustom
		cfg.Pieces.File = ""
	}
	if changed("pieces-file") {
		cfg.Pieces.File = flagPieceFile
	}
}

// resolveSeed picks a seed from the clock when none is configured.
func resolveSeed(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}

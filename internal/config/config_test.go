package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/palette"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, expected nil", err)
	}
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	var cfg PipesConfig
	if err := yaml.Unmarshal(defaultPipesYAML, &cfg); err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("embedded defaults = %+v, expected %+v", cfg, DefaultConfig())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PipesConfig)
		field  string
	}{
		{"fps zero", func(c *PipesConfig) { c.FPS = 0 }, "fps"},
		{"fps too high", func(c *PipesConfig) { c.FPS = 1000 }, "fps"},
		{"min zero", func(c *PipesConfig) { c.Pipe.MinLength = 0 }, "min_length"},
		{"min above max", func(c *PipesConfig) { c.Pipe.MinLength = 500 }, "min_length"},
		{"probability", func(c *PipesConfig) { c.Pipe.TurnProbability = 1.2 }, "turn_probability"},
		{"negative capacity", func(c *PipesConfig) { c.Canvas.MaxDrawnPieces = -5 }, "max_drawn_pieces"},
		{"background", func(c *PipesConfig) { c.Canvas.Background = "nope" }, "background"},
		{"palette", func(c *PipesConfig) { c.Color.Palette = "sepia" }, "palette"},
		{"gradient without rgb", func(c *PipesConfig) { c.Color.Gradient = true }, "gradient"},
		{"gradient step", func(c *PipesConfig) {
			c.Color.Palette = "rgb"
			c.Color.Gradient = true
			c.Color.GradientStep = 0
		}, "gradient_step"},
		{"depth without rgb", func(c *PipesConfig) { c.Depth.Enabled = true }, "depth"},
		{"darken factor", func(c *PipesConfig) {
			c.Color.Palette = "rgb"
			c.Depth.Enabled = true
			c.Depth.DarkenFactor = 300
		}, "darken_factor"},
		{"darken min", func(c *PipesConfig) {
			c.Color.Palette = "rgb"
			c.Depth.Enabled = true
			c.Depth.DarkenMin = "#12"
		}, "darken_min"},
		{"piece set id", func(c *PipesConfig) { c.Pieces.Set = 9 }, "piece_set"},
		{"custom set", func(c *PipesConfig) { c.Pieces.Custom = "ab" }, "custom_piece_set"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()

			var cerr *core.ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("Validate() = %v, expected a ConfigError", err)
			}
			if cerr.Field != tc.field {
				t.Errorf("ConfigError.Field = %q, expected %q", cerr.Field, tc.field)
			}
		})
	}
}

func TestPieceSetResolution(t *testing.T) {
	cfg := DefaultConfig()

	set, err := cfg.PieceSet()
	if err != nil || set.String() != "┃━┏┓┗┛" {
		t.Errorf("PieceSet() = %q, %v, expected the default set", set.String(), err)
	}

	cfg.Pieces.Set = 0
	if set, _ := cfg.PieceSet(); set.String() != "|-++++" {
		t.Errorf("PieceSet() with set 0 = %q, expected %q", set.String(), "|-++++")
	}

	cfg.Pieces.Custom = "│─╭╮╰╯"
	if set, _ := cfg.PieceSet(); set.String() != "│─╭╮╰╯" {
		t.Errorf("PieceSet() with custom = %q, expected the custom set", set.String())
	}

	path := filepath.Join(t.TempDir(), "set.yaml")
	if err := os.WriteFile(path, []byte("name: plus\nglyphs: \"++++++\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg.Pieces.File = path
	if set, _ := cfg.PieceSet(); set.Name != "plus" {
		t.Errorf("PieceSet() with file = %q, expected the file's set", set.Name)
	}
}

func TestEngineConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Color.Palette = "rgb"
	cfg.Depth.Enabled = true
	cfg.Depth.DarkenMin = "#202020"
	cfg.Canvas.Background = "#101018"

	ec, err := cfg.EngineConfig(core.Size{W: 80, H: 24})
	if err != nil {
		t.Fatalf("EngineConfig() failed: %v", err)
	}
	if ec.Palette.Kind != palette.KindRGB || !ec.Depth {
		t.Errorf("EngineConfig() palette = %v, depth = %v", ec.Palette.Kind, ec.Depth)
	}
	if ec.DarkenMin != (core.RGB{R: 0x20, G: 0x20, B: 0x20}) || ec.DarkenFactor != 24 {
		t.Errorf("EngineConfig() darken = %v/%d", ec.DarkenMin, ec.DarkenFactor)
	}
	if ec.Walk.MinLength != 7 || ec.Walk.MaxLength != 300 || ec.MaxDrawnPieces != 10000 {
		t.Errorf("EngineConfig() = %+v, expected the defaults", ec)
	}

	bg, _ := cfg.BackgroundColor()
	if bg.RGB != (core.RGB{R: 0x10, G: 0x10, B: 0x18}) {
		t.Errorf("BackgroundColor() = %v, expected #101018", bg)
	}

	cfg.Pipe.MinLength = 0
	if _, err := cfg.EngineConfig(core.Size{W: 80, H: 24}); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("EngineConfig() error = %v, expected ErrInvalidConfig", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipes.yaml")
	data := "fps: 60\npipe:\n  turn_probability: 0.5\ncolor:\n  palette: rgb\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, source, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if source != path {
		t.Errorf("Load() source = %q, expected %q", source, path)
	}
	if cfg.FPS != 60 || cfg.Pipe.TurnProbability != 0.5 || cfg.Color.Palette != "rgb" {
		t.Errorf("Load() = %+v, expected file values", cfg)
	}
	if cfg.Pipe.MaxLength != 300 || cfg.Pieces.Set != 6 {
		t.Errorf("Load() did not keep defaults for missing keys: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load(missing) should fail")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("fps: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(bad); err == nil {
		t.Error("Load(malformed) should fail")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		input, expected string
	}{
		{"~/x.yaml", filepath.Join(home, "x.yaml")},
		{"~", home},
		{"/tmp/x", "/tmp/x"},
		{"rel/~x", "rel/~x"},
	}
	for _, tc := range tests {
		if got := ExpandHome(tc.input); got != tc.expected {
			t.Errorf("ExpandHome(%q) = %q, expected %q", tc.input, got, tc.expected)
		}
	}
}

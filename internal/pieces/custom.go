package pieces

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rivo/uniseg"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-pipes/internal/core"
)

// ParseCustom builds a set from a string of exactly six grapheme clusters,
// written in slot order (e.g. "│─┌┐└┘"). Clusters such as emoji with
// modifiers count as one glyph.
func ParseCustom(s string) (Set, error) {
	glyphs := make([]string, 0, SlotCount)
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		glyphs = append(glyphs, g.Str())
	}
	if len(glyphs) != int(SlotCount) {
		return Set{}, core.NewConfigError("custom_piece_set", "expected %d characters, got %d in %q", SlotCount, len(glyphs), s)
	}
	return New("custom", glyphs)
}

// YAMLSet represents the YAML structure for a piece-set file.
type YAMLSet struct {
	Name   string   `yaml:"name"`
	Pieces []string `yaml:"pieces,omitempty"`
	Glyphs string   `yaml:"glyphs,omitempty"` // compact alternative to pieces
}

// ParseYAML parses a piece-set file.
func ParseYAML(data []byte) (Set, error) {
	var ys YAMLSet
	if err := yaml.Unmarshal(data, &ys); err != nil {
		return Set{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	name := ys.Name
	if name == "" {
		name = "custom"
	}

	if ys.Glyphs != "" {
		s, err := ParseCustom(ys.Glyphs)
		if err != nil {
			return Set{}, err
		}
		s.Name = name
		return s, nil
	}

	return New(name, ys.Pieces)
}

// LoadFile loads a piece set from a YAML file.
func LoadFile(path string) (Set, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return Set{}, fmt.Errorf("pieces: unsupported extension: %s", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("pieces: reading file %s: %w", path, err)
	}

	s, err := ParseYAML(data)
	if err != nil {
		return Set{}, fmt.Errorf("pieces: parsing file %s: %w", path, err)
	}
	return s, nil
}

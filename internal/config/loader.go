package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source names where a configuration was loaded from.
const (
	SourceEmbedded  = "embedded"
	SourceHardcoded = "hardcoded"
)

// Load loads the pipes configuration and reports where it came from.
// Search order: customPath -> ~/.pipes/config.yaml -> ./configs/pipes.yaml -> embedded default.
// Keys missing from a file keep their default values.
func Load(customPath string) (PipesConfig, string, error) {
	// Try custom path first
	if customPath != "" {
		path := ExpandHome(customPath)
		cfg, err := readFile(path)
		if err != nil {
			return cfg, path, err
		}
		return cfg, path, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if cfg, err := readFile(userCfgPath); err == nil {
			return cfg, userCfgPath, nil
		}
	}

	// Try local configs directory
	localPath := filepath.Join("configs", "pipes.yaml")
	if cfg, err := readFile(localPath); err == nil {
		return cfg, localPath, nil
	}

	// Use embedded default YAML
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(defaultPipesYAML, &cfg); err != nil {
		return DefaultConfig(), SourceHardcoded, nil // Fallback to hardcoded if embed fails
	}
	return cfg, SourceEmbedded, nil
}

// readFile parses a config file on top of the defaults.
func readFile(path string) (PipesConfig, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Marshal renders a configuration as YAML.
func Marshal(cfg PipesConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pipes", filename)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

package core

import (
	"errors"
	"fmt"
)

// RuntimeConfig contains configuration passed to backends at start.
// Backends use this to size the canvas and seed the engine.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Animation ticks per second
	Seed     int64 // RNG seed for deterministic replay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 24,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// ErrInvalidConfig is matched by every ConfigError via errors.Is.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigError reports a setting that makes the animation impossible to run.
// It is always fatal and surfaces before the tick loop starts.
type ConfigError struct {
	Field  string
	Reason string
}

// NewConfigError creates a ConfigError for the named field.
func NewConfigError(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidConfig) true for any ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

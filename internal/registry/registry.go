// Package registry provides a global registry for rendering backends.
// Backends register themselves in init() functions, allowing the CLI
// to discover and start them without hardcoded dependencies.
package registry

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/engine"
)

// Options carries the presentation settings a backend needs besides the engine.
type Options struct {
	Runtime     core.RuntimeConfig
	Background  core.Color  // painted under empty cells
	ShowStats   bool        // start with the stats overlay visible
	SnapshotDir string      // where ctrl+s writes PNG snapshots
	Logger      *log.Logger // nil discards backend logs
}

// LoggerOrDiscard returns the configured logger, or one that writes nowhere.
func (o Options) LoggerOrDiscard() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}

// Backend drives an engine on a real display.
// The engine contains the animation logic; the backend handles input
// mapping, timing and painting.
type Backend interface {
	// Name returns a unique identifier for this backend (e.g., "tui", "tcell").
	// Used for CLI flags and config files.
	Name() string

	// Title returns a human-readable description for listings.
	Title() string

	// Run animates the engine until the user quits or ctx is cancelled.
	Run(ctx context.Context, eng *engine.Engine, opts Options) error
}

// BackendInfo contains metadata about a registered backend.
type BackendInfo struct {
	Name  string
	Title string
}

// Factory is a function that creates a new instance of a backend.
type Factory func() Backend

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a backend factory to the registry.
// Typically called from a backend's init() function.
// Panics if a backend with the same name is already registered.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("registry: backend %q already registered", name))
	}

	factories[name] = f

	// Get title by creating a temporary instance
	titles[name] = f().Title()
}

// List returns information about all registered backends, sorted by name.
func List() []BackendInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]BackendInfo, 0, len(factories))
	for name := range factories {
		result = append(result, BackendInfo{
			Name:  name,
			Title: titles[name],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create instantiates a new backend by its name.
// Returns an error if the name is not registered.
func Create(name string) (Backend, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown backend %q", name)
	}

	return f(), nil
}

// Exists checks if a backend with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}

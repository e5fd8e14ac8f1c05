package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-pipes/internal/config"
	"github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/engine"
	"github.com/vovakirdan/tui-pipes/internal/registry"
	"github.com/vovakirdan/tui-pipes/internal/storage"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the screensaver",
	Long: `Run the screensaver in the current terminal.

Controls:
  Space      - Pause / resume
  C          - Clear the screen
  L          - Redraw
  S          - Toggle stats
  + / -      - One tick per second faster / slower
  ] / [      - Ten ticks per second faster / slower
  ?          - Toggle help
  Ctrl+S     - Save a PNG snapshot
  Q/Esc      - Quit

Flags override values from the config file only when given.

Examples:
  pipes run
  pipes run --backend tcell
  pipes run --palette rgb --gradient --set 4
  pipes run --palette rgb --depth --max-layers 4
  pipes run --custom '│─╭╮╰╯' --turn 0.5`,
	RunE: runRun,
}

func init() {
	addRunFlags(runCmd.Flags())
}

func runRun(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	cfg, source, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	logger.Debug("configuration loaded", "source", source)

	backend, err := registry.Create(cfg.Backend)
	if err != nil {
		return fmt.Errorf("%w (available: %s)", err, backendNames())
	}

	width, height := terminalSize()
	seed := resolveSeed(cfg.Seed)
	eng, err := newEngine(cfg, core.Size{W: width, H: height}, seed)
	if err != nil {
		return err
	}
	logger.Debug("engine ready", "backend", backend.Name(), "size", eng.Canvas().Size(), "seed", seed)

	background, _ := cfg.BackgroundColor()
	opts := registry.Options{
		Runtime:     cfg.RuntimeConfig(width, height),
		Background:  background,
		ShowStats:   cfg.Stats,
		SnapshotDir: config.ExpandHome(flagSnapshotDir),
		Logger:      logger,
	}
	opts.Runtime.Seed = seed

	// Open run history
	store := openStore(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	runErr := backend.Run(ctx, eng, opts)

	if store != nil {
		run := storage.NewRun("local", backend.Name(), seed, eng, started)
		if _, err := store.SaveRun(run); err != nil {
			logger.Warn("could not record run", "error", err)
		}
		store.Close()
	}

	return runErr
}

// newEngine creates an engine for the configuration and canvas size.
func newEngine(cfg config.PipesConfig, size core.Size, seed int64) (*engine.Engine, error) {
	ecfg, err := cfg.EngineConfig(size)
	if err != nil {
		return nil, err
	}
	return engine.New(ecfg, rand.New(rand.NewSource(seed)))
}

// openStore opens the run history, or returns nil with a warning.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		// Continue without storage - the screensaver still works
		logger.Warn("could not open history database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 0 {
		width = w
		height = h
	}
	return width, height
}

// backendNames lists the registered backends for error messages.
func backendNames() string {
	var names []string
	for _, b := range registry.List() {
		names = append(names, b.Name)
	}
	return strings.Join(names, ", ")
}

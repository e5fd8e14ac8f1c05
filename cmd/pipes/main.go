// pipes is a terminal screensaver that draws randomly wandering pipes.
//
// Usage:
//
//	pipes                    - Run the screensaver (same as "pipes run")
//	pipes run                - Run the screensaver
//	pipes serve              - Serve the screensaver over SSH
//	pipes render             - Render a headless run to a PNG or text file
//	pipes sets               - List built-in piece sets
//	pipes history            - Show recorded runs
//	pipes config             - Print the effective configuration
//
// Global flags:
//
//	--config <path> - Config file (default: ~/.pipes/config.yaml, ./configs/pipes.yaml)
//	--fps <rate>    - Set tick rate (default: 24)
//	--seed <value>  - Set RNG seed for reproducible runs
//	--db <path>     - Set database path (default: ~/.pipes/history.db)
//	--verbose       - Log debug messages
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import backends to register them
	_ "github.com/vovakirdan/tui-pipes/internal/platform/screen"
	_ "github.com/vovakirdan/tui-pipes/internal/platform/tui"
)

var (
	// Global flags
	flagConfig  string
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pipes",
	Short: "Pipes - a screensaver of wandering pipes for your terminal",
	Long: `Pipes draws randomly wandering, colored pipes across the terminal
until the screen fills up, then clears it and starts again.

Available commands:
  run      - Run the screensaver (default)
  serve    - Serve the screensaver over SSH
  render   - Render a headless run to a PNG or text file
  sets     - List built-in piece sets
  history  - Show recorded runs
  config   - Print the effective configuration

Examples:
  pipes
  pipes --fps 60 --set 4
  pipes run --palette rgb --gradient
  pipes run --palette rgb --depth
  pipes render --ticks 2000 --out pipes.png
  pipes serve --ssh :2222`,
	SilenceUsage: true,
	RunE:         runRun,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 24, "Tick rate (ticks per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.pipes/history.db", "Path to run history database")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug messages")

	// The root command runs the screensaver, so it takes the run flags too
	addRunFlags(rootCmd.Flags())

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(setsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger creates the CLI logger.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "pipes",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

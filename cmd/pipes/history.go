package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-pipes/internal/platform/tui"
	"github.com/vovakirdan/tui-pipes/internal/storage"
)

var (
	flagLimit int
	flagPlain bool
	flagClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded runs",
	Long: `Shows the most recent screensaver runs, local and over SSH.

In a terminal the runs are shown in an interactive table; use --plain,
or pipe the output, for a text listing.

Examples:
  pipes history
  pipes history --plain --limit 5
  pipes history --db ./history.db
  pipes history --clear`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagLimit, "limit", "n", 20, "Number of runs to show in plain mode")
	historyCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print a text listing instead of the table")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all recorded runs")
}

func runHistory(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearRuns(); err != nil {
			return err
		}
		fmt.Println("Run history cleared.")
		return nil
	}

	if !flagPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		width, height := terminalSize()
		return tui.RunHistory(store, width, height)
	}

	runs, err := store.RecentRuns(flagLimit)
	if err != nil {
		return err
	}
	totals, err := store.Totals()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Printf("%-16s  %-14s  %-7s  %-9s  %8s  %6s  %6s  %8s  %s\n",
		"When", "Source", "Backend", "Size", "Pieces", "Pipes", "Clears", "Time", "Seed")
	for _, r := range runs {
		fmt.Printf("%-16s  %-14s  %-7s  %-9s  %8d  %6d  %6d  %8s  %d\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Source,
			r.Backend,
			fmt.Sprintf("%dx%d", r.Width, r.Height),
			r.PiecesTotal,
			r.PipesTotal,
			r.Clears,
			r.Duration,
			r.Seed,
		)
	}
	fmt.Println()
	fmt.Println(tui.FormatTotals(totals))
	return nil
}

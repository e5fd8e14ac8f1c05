package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pipes/internal/pieces"
)

var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "List built-in piece sets",
	Long: `Shows the built-in piece sets and their ids for --set.

Glyphs are listed in the order vertical, horizontal, then the corners
joining down-right, down-left, up-right and up-left.`,
	Run: runSets,
}

func runSets(_ *cobra.Command, _ []string) {
	fmt.Println("Built-in piece sets:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for id := range pieces.BuiltinCount() {
		set, _ := pieces.Builtin(id)
		if len(set.Name) > maxNameLen {
			maxNameLen = len(set.Name)
		}
	}

	// Print header
	fmt.Printf("  %-3s  %-*s  %s\n", "ID", maxNameLen, "Name", "Glyphs")
	fmt.Printf("  %-3s  %-*s  %s\n", "---", maxNameLen, "----", "------")

	for id := range pieces.BuiltinCount() {
		set, err := pieces.Builtin(id)
		if err != nil {
			continue
		}
		marker := ""
		if id == pieces.DefaultID {
			marker = "  (default)"
		}
		fmt.Printf("  %-3d  %-*s  %s%s\n", id, maxNameLen, set.Name, set, marker)
	}

	fmt.Println()
	fmt.Println("Use: pipes run --set <id>, or --custom '<6 glyphs>'")
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pipes/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Prints the configuration "pipes run" would use, as YAML, after the
config file search and flag overrides. The output is a valid config file.

Examples:
  pipes config > ~/.pipes/config.yaml
  pipes config --palette rgb --depth`,
	RunE: runConfig,
}

func init() {
	addRunFlags(configCmd.Flags())
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, source, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot encode config: %w", err)
	}

	fmt.Printf("# source: %s\n", source)
	fmt.Print(string(data))
	return nil
}

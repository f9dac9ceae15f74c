package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/coredata/am"
	"github.com/teranos/coredata/cmd/pcd/commands"
	"github.com/teranos/coredata/datacore"
	"github.com/teranos/coredata/logger"
)

var rootCmd = &cobra.Command{
	Use:   "pcd",
	Short: "pcd - Declarative record types loaded from raw data files",
	Long: `pcd - Inspect and convert the raw data files coredata loads records from.

Raw files map table names to lists of records. JSON, YAML, TOML and SQLite
files are understood out of the box.

Available commands:
  am       - Manage pcd configuration
  check    - Load raws through a declared record type
  formats  - List the registered raw formats
  raw      - Show, list, convert and watch raw files
  version  - Show version information

Examples:
  pcd formats                                  # Which extensions are understood
  pcd raw show items.yaml                      # Print the tables of a raw file
  pcd raw convert items.yaml items.json        # Rewrite a raw in another format
  pcd check data/ --type Item --field name     # Validate every raw in a folder`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := am.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		verbosity, _ := cmd.Flags().GetCount("verbose")
		if cfg.Log.Verbosity > verbosity {
			verbosity = cfg.Log.Verbosity
		}
		if err := logger.Initialize(cfg.Log.JSON, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		datacore.InitFromConfig(cfg)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")

	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.FormatsCmd)
	rootCmd.AddCommand(commands.RawCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

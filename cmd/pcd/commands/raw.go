package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/coredata/am"
	"github.com/teranos/coredata/datacore"
	"github.com/teranos/coredata/errors"
	"github.com/teranos/coredata/internal/util"
	"github.com/teranos/coredata/logger"
	"github.com/teranos/coredata/storage"
)

// RawCmd groups the raw file commands
var RawCmd = &cobra.Command{
	Use:   "raw",
	Short: "Show, list, convert and watch raw files",
	Long: `Work with raw files directly, without declaring record types.

A raw file maps table names to lists of records. The extension picks the
storage adapter, see 'pcd formats'.

Examples:
  pcd raw show items.yaml              # Print every table
  pcd raw show items.yaml --json       # Print the canonical form as JSON
  pcd raw ls data/                     # Summarize every raw in a folder
  pcd raw convert items.yaml items.db  # Copy a raw into SQLite
  pcd raw watch data/                  # Report raws as they change`,
}

var rawShowCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Print the tables of a raw file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRawShow,
}

var rawLsCmd = &cobra.Command{
	Use:   "ls <dir>",
	Short: "Summarize every raw file in a folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runRawLs,
}

var rawConvertCmd = &cobra.Command{
	Use:   "convert <src> <dst>",
	Short: "Rewrite a raw file in the format of another extension",
	Args:  cobra.ExactArgs(2),
	RunE:  runRawConvert,
}

var rawWatchCmd = &cobra.Command{
	Use:   "watch <dir>...",
	Short: "Report raw files as they change",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRawWatch,
}

var (
	rawShowJSON     bool
	rawExclude      []string
	rawConvertForce bool
)

func init() {
	rawShowCmd.Flags().BoolVarP(&rawShowJSON, "json", "j", false, "Print the canonical table as JSON")
	rawLsCmd.Flags().StringSliceVar(&rawExclude, "exclude", nil, "Extensions to skip, in addition to storage.excluded_extensions")
	rawConvertCmd.Flags().BoolVarP(&rawConvertForce, "force", "f", false, "Overwrite the destination")

	RawCmd.AddCommand(rawShowCmd)
	RawCmd.AddCommand(rawLsCmd)
	RawCmd.AddCommand(rawConvertCmd)
	RawCmd.AddCommand(rawWatchCmd)
}

func readRaw(path string) (storage.RawTable, error) {
	adapter, err := storage.DefaultRegistry().Open(path)
	if err != nil {
		return nil, err
	}
	return adapter.Read()
}

func runRawShow(cmd *cobra.Command, args []string) error {
	raw, err := readRaw(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if rawShowJSON {
		data, err := json.MarshalIndent(raw.Native(), "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal raw to JSON")
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(raw) == 0 {
		fmt.Fprintf(out, "%s has no tables\n", args[0])
		return nil
	}
	for _, name := range raw.TableNames() {
		table := raw[name]
		fmt.Fprintf(out, "%s (%d rows)\n", name, len(table))
		if len(table) == 0 {
			continue
		}
		if err := renderTable(out, tableData(table)); err != nil {
			return err
		}
	}
	return nil
}

// tableData lays rows out under the union of their field names.
func tableData(table storage.Table) pterm.TableData {
	seen := map[string]bool{}
	var columns []string
	for _, row := range table {
		for field := range row {
			if !seen[field] {
				seen[field] = true
				columns = append(columns, field)
			}
		}
	}
	sort.Strings(columns)

	data := pterm.TableData{append([]string{"#"}, columns...)}
	for _, idx := range table.Indices() {
		row := table[idx]
		line := []string{fmt.Sprint(idx)}
		for _, col := range columns {
			v, ok := row[col]
			if !ok {
				line = append(line, "")
				continue
			}
			line = append(line, util.Truncate(fmt.Sprintf("%v", v), 40))
		}
		data = append(data, line)
	}
	return data
}

// excludedExtensions merges configured and flag exclusions.
func excludedExtensions(extra []string) []string {
	excluded := append([]string(nil), extra...)
	cfg, err := am.Load()
	if err != nil {
		logger.Warnw("Failed to load config, using flag exclusions only", logger.FieldError, err)
		return excluded
	}
	return append(excluded, cfg.Storage.ExcludedExtensions...)
}

func runRawLs(cmd *cobra.Command, args []string) error {
	registry := storage.DefaultRegistry()
	files, err := registry.Glob(args[0], excludedExtensions(rawExclude))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintf(out, "No raw files in %s\n", args[0])
		return nil
	}

	data := pterm.TableData{{"File", "Format", "Tables", "Rows"}}
	for _, file := range files {
		d, err := registry.ResolvePath(file)
		if err != nil {
			return err
		}
		raw, err := readRaw(file)
		if err != nil {
			return errors.Wrapf(err, "failed to read %s", filepath.Base(file))
		}
		data = append(data, []string{
			filepath.Base(file),
			d.Name,
			fmt.Sprint(len(raw)),
			fmt.Sprint(raw.RowCount()),
		})
	}
	return renderTable(out, data)
}

func runRawConvert(cmd *cobra.Command, args []string) error {
	src, dst := args[0], args[1]

	raw, err := readRaw(src)
	if err != nil {
		return err
	}

	if _, err := os.Stat(dst); err == nil && !rawConvertForce {
		return errors.WithHint(
			errors.Newf("%s already exists", dst),
			"pass --force to overwrite it",
		)
	}
	target, err := storage.DefaultRegistry().Create(dst)
	if err != nil {
		return err
	}
	if err := target.Write(raw); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Converted %s to %s (%d tables, %d rows)\n",
		src, dst, len(raw), raw.RowCount())
	return nil
}

func runRawWatch(cmd *cobra.Command, args []string) error {
	watcher, err := storage.NewWatcher(datacore.Default().Pool(), args...)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	watcher.OnInvalidate(func(path string) {
		fmt.Fprintf(out, "changed: %s\n", path)
	})
	watcher.Start()
	defer watcher.Stop()

	if stop := watchConfig(out); stop != nil {
		defer stop()
	}

	pterm.Info.Printfln("Watching %d folder(s), press Ctrl+C to stop", len(args))
	return waitForInterrupt()
}

// watchConfig reports edits to the active config file. Returns nil when no
// file is in use.
func watchConfig(out io.Writer) func() {
	path := am.GetViper().ConfigFileUsed()
	if path == "" {
		return nil
	}
	cw, err := am.NewConfigWatcher(path)
	if err != nil {
		logger.Warnw("Config changes will not be reported", logger.FieldPath, path, logger.FieldError, err)
		return nil
	}
	cw.OnReload(func(cfg *am.Config) error {
		fmt.Fprintf(out, "config reloaded: %s\n", cfg)
		return nil
	})
	am.SetGlobalWatcher(cw)
	cw.Start()
	return func() {
		am.SetGlobalWatcher(nil)
		_ = cw.Stop()
	}
}

func waitForInterrupt() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	return nil
}

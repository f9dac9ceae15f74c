package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/coredata/am"
	"github.com/teranos/coredata/datacore"
	"github.com/teranos/coredata/errors"
	"github.com/teranos/coredata/storage"
)

// CheckCmd loads raws through a record type declared on the command line
var CheckCmd = &cobra.Command{
	Use:   "check <path>",
	Short: "Load raws through a declared record type",
	Long: `Declare a model from --type and --field, then load every row of its table
from a raw file, or from every raw file in a folder. Rows that do not fit
the declared fields fail the check.

Fields are written name or name:kind, where kind is one of any, string,
int, float, bool, list or map. A trailing =value gives the field a default.

Examples:
  pcd check items.yaml --type Item --field name --field damage:int=1
  pcd check data/ --type Item --table items --field name:string --show`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

var (
	checkType   string
	checkTable  string
	checkFields []string
	checkShow   bool
	checkWatch  bool
)

func init() {
	CheckCmd.Flags().StringVarP(&checkType, "type", "t", "", "Model name (required)")
	CheckCmd.Flags().StringVar(&checkTable, "table", "", "Raw table to read (defaults to the model name)")
	CheckCmd.Flags().StringArrayVarP(&checkFields, "field", "f", nil, "Field as name[:kind][=default], repeatable")
	CheckCmd.Flags().BoolVar(&checkShow, "show", false, "Print every loaded record")
	CheckCmd.Flags().BoolVarP(&checkWatch, "watch", "w", false, "Check again whenever the raws change (default from storage.watch)")
	_ = CheckCmd.MarkFlagRequired("type")
}

var kindNames = map[string]datacore.Kind{
	"any":    datacore.Any,
	"string": datacore.String,
	"int":    datacore.Int,
	"float":  datacore.Float,
	"bool":   datacore.Bool,
	"list":   datacore.List,
	"map":    datacore.Map,
}

// parseField reads name[:kind][=default].
func parseField(s string) (datacore.FieldSpec, error) {
	decl, def, hasDefault := strings.Cut(s, "=")
	name, kindName, hasKind := strings.Cut(decl, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return datacore.FieldSpec{}, errors.Newf("field %q has no name", s)
	}

	kind := datacore.Any
	if hasKind {
		k, ok := kindNames[strings.ToLower(strings.TrimSpace(kindName))]
		if !ok {
			return datacore.FieldSpec{}, errors.WithHint(
				errors.Newf("field %q has unknown kind %q", name, kindName),
				"use any, string, int, float, bool, list or map",
			)
		}
		kind = k
	}

	field := datacore.Field(name, kind)
	if hasDefault {
		field = field.Default(def)
	}
	return field, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	if len(checkFields) == 0 {
		return errors.WithHint(errors.New("no fields declared"), "add at least one --field")
	}
	fields := make([]datacore.FieldSpec, 0, len(checkFields))
	for _, f := range checkFields {
		field, err := parseField(f)
		if err != nil {
			return err
		}
		fields = append(fields, field)
	}

	var opts []datacore.DeclareOption
	if checkTable != "" {
		opts = append(opts, datacore.WithTable(checkTable))
	}

	core := datacore.New("check", datacore.WithPool(datacore.Default().Pool()))
	rt, err := core.DeclareModel(checkType, fields, opts...)
	if err != nil {
		return err
	}

	path := args[0]
	out := cmd.OutOrStdout()
	if err := checkOnce(out, rt, path); err != nil {
		return err
	}

	watch := checkWatch
	if !cmd.Flags().Changed("watch") {
		if cfg, err := am.Load(); err == nil {
			watch = cfg.Storage.Watch
		}
	}
	if !watch {
		return nil
	}
	return watchAndRecheck(out, core, rt, path)
}

func checkOnce(out io.Writer, rt *datacore.RecordType, path string) error {
	var (
		records []*datacore.Record
		err     error
	)
	if isDir(path) {
		records, err = rt.LoadDir(path, excludedExtensions(nil)...)
	} else {
		records, err = rt.Load(path)
	}
	if err != nil {
		return err
	}

	if checkShow {
		for _, rec := range records {
			fmt.Fprintln(out, rec.String())
		}
	}
	fmt.Fprintf(out, "%d %s records loaded from %s\n", len(records), rt.Name(), path)
	if len(records) == 0 {
		pterm.Warning.Printfln("table %q is empty or missing", rt.Table())
	}
	return nil
}

// watchAndRecheck reruns the check whenever a raw under path changes, until
// interrupted.
func watchAndRecheck(out io.Writer, core *datacore.DataCore, rt *datacore.RecordType, path string) error {
	dir := path
	if !isDir(path) {
		dir = filepath.Dir(path)
	}
	watcher, err := storage.NewWatcher(core.Pool(), dir)
	if err != nil {
		return err
	}
	watcher.OnInvalidate(func(changed string) {
		core.ClearInstances()
		if err := checkOnce(out, rt, path); err != nil {
			pterm.Error.Printfln("%s: %v", changed, err)
		}
	})
	watcher.Start()
	defer watcher.Stop()

	pterm.Info.Printfln("Watching %s, press Ctrl+C to stop", dir)
	return waitForInterrupt()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

package commands

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/coredata/storage"
)

// FormatsCmd lists the registered storage adapters
var FormatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the registered raw formats",
	Long: `List every storage adapter in the default registry with the extensions it
claims. When two adapters claim an extension, the first one listed wins.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data := pterm.TableData{{"Adapter", "Extensions"}}
		for _, d := range storage.DefaultRegistry().Descriptors() {
			data = append(data, []string{d.Name, strings.Join(d.Extensions, ", ")})
		}
		return renderTable(cmd.OutOrStdout(), data)
	},
}

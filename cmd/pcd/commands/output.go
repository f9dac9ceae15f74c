package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

// renderTable prints data with its first row as header.
func renderTable(w io.Writer, data pterm.TableData) error {
	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	_, err = fmt.Fprintln(w, rendered)
	return err
}

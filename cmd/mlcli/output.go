package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/GavinEsch/mlcli/internal/diff"
	"github.com/GavinEsch/mlcli/internal/model"
	"github.com/GavinEsch/mlcli/internal/ui"
)

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// printRowsTable renders flattened rows with tabwriter. An empty column
// selection uses the default column set.
func printRowsTable(rows []model.Row, columns []string) {
	if len(columns) == 0 {
		columns = model.DefaultColumns
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = strings.ToUpper(col)
	}
	fmt.Fprintln(w, strings.Join(headers, "\t"))

	cells := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			v := row.Get(col)
			if len(v) > 60 {
				v = v[:57] + "..."
			}
			cells[i] = v
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()
}

// printSummary prints a structural diff summary with per-line coloring.
func printSummary(summary string) {
	if summary == diff.NoDifferences {
		fmt.Println(ui.RenderMuted(summary))
		return
	}
	for _, line := range strings.Split(summary, "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			fmt.Println(ui.RenderAdded(line))
		case strings.HasPrefix(line, "-"):
			fmt.Println(ui.RenderRemoved(line))
		case strings.HasPrefix(line, "~"):
			fmt.Println(ui.RenderChanged(line))
		default:
			fmt.Println(line)
		}
	}
}

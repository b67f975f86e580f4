// Package export serializes the job corpus: column projection for tabular
// formats and full-record JSON, plus pluggable output destinations.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/GavinEsch/mlcli/internal/model"
)

var (
	// ErrNoJobs indicates there is nothing to export.
	ErrNoJobs = errors.New("no jobs to export")

	// ErrUnknownFormat indicates an unsupported export format.
	ErrUnknownFormat = errors.New("unknown export format")
)

// Formats supported by Serialize.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
)

// SelectColumns restricts rows to the given columns, preserving column
// order. An empty selection falls back to model.DefaultColumns. Missing
// values render as model.NA.
func SelectColumns(rows []model.Row, columns []string) ([]model.Row, []string) {
	if len(columns) == 0 {
		columns = model.DefaultColumns
	}
	out := make([]model.Row, 0, len(rows))
	for _, row := range rows {
		selected := make(model.Row, len(columns))
		for _, col := range columns {
			selected[col] = row.Get(col)
		}
		out = append(out, selected)
	}
	return out, columns
}

// Serialize renders the corpus in the requested format. JSON is the lossless
// format: it always carries the full unfiltered version entries and ignores
// the column selection. CSV and Markdown render the flattened rows projected
// onto the selected columns.
func Serialize(entries []*model.VersionEntry, rows []model.Row, format string, columns []string) ([]byte, error) {
	switch format {
	case FormatJSON:
		if len(entries) == 0 {
			return nil, ErrNoJobs
		}
		return model.CanonicalIndent(entries)
	case FormatCSV:
		if len(rows) == 0 {
			return nil, ErrNoJobs
		}
		projected, cols := SelectColumns(rows, columns)
		return serializeCSV(projected, cols)
	case FormatMarkdown:
		if len(rows) == 0 {
			return nil, ErrNoJobs
		}
		projected, cols := SelectColumns(rows, columns)
		return serializeMarkdown(projected, cols), nil
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
}

func serializeCSV(rows []model.Row, columns []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(columns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = row.Get(col)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func serializeMarkdown(rows []model.Row, columns []string) []byte {
	var b strings.Builder

	b.WriteString("| " + strings.Join(columns, " | ") + " |\n")
	sep := make([]string, len(columns))
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString("| " + strings.Join(sep, " | ") + " |\n")

	cells := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			// Pipes inside a cell would break the table structure.
			cells[i] = strings.ReplaceAll(row.Get(col), "|", "\\|")
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return []byte(b.String())
}

// FileName returns the conventional export file name for a format.
func FileName(format string) string {
	return "jobs." + format
}

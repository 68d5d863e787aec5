package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// Table renders rows with a header. Colors follow the --no-color flag.
type Table struct {
	writer table.Writer
}

// NewTable creates a table writing to w
func NewTable(w io.Writer, columns ...string) *Table {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if noColor {
		tw.SetStyle(table.StyleLight)
	} else {
		tw.SetStyle(table.StyleColoredBright)
	}
	header := make(table.Row, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	tw.AppendHeader(header)
	return &Table{writer: tw}
}

// WrapColumn limits the width of column number n (1-based)
func (t *Table) WrapColumn(n, width int) {
	t.writer.SetColumnConfigs([]table.ColumnConfig{
		{Number: n, WidthMax: width, WidthMaxEnforcer: text.WrapSoft},
	})
}

// Row appends a table row
func (t *Table) Row(values ...string) {
	row := make(table.Row, len(values))
	for i, v := range values {
		row[i] = v
	}
	t.writer.AppendRow(row)
}

// Render writes the table
func (t *Table) Render() {
	t.writer.Render()
}

// OutputResults formats and outputs results based on the specified format
func OutputResults(w io.Writer, format string, data interface{}) error {
	switch OutputFormat(format) {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)

	case FormatYAML:
		yamlData, err := yaml.Marshal(data)
		if err != nil {
			return err
		}
		fmt.Fprint(w, string(yamlData))
		return nil

	case FormatText:
		fmt.Fprintf(w, "%v\n", data)
		return nil

	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// TruncateString truncates a string to the specified length
func TruncateString(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

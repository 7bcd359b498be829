package output

import (
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/yndnr/respd/pkg/resp"
)

// TableFormatter formats data as aligned columns.
type TableFormatter struct {
	NoHeaders bool
}

// Format renders a *Table directly. A map reply becomes FIELD/VALUE rows and
// an array or set becomes INDEX/VALUE rows; other frames fall back to text.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case *Table:
		return v.RenderWithOptions(w, f.NoHeaders)
	case *resp.Map:
		t := &Table{}
		t.SetHeaders("FIELD", "VALUE")
		v.Range(func(k string, item resp.Frame) bool {
			t.AddRow(k, cell(item))
			return true
		})
		return t.RenderWithOptions(w, f.NoHeaders)
	case resp.Array:
		return itemTable(v).RenderWithOptions(w, f.NoHeaders)
	case resp.Set:
		return itemTable(v).RenderWithOptions(w, f.NoHeaders)
	}
	return (&TextFormatter{}).Format(w, data)
}

func itemTable(items []resp.Frame) *Table {
	t := &Table{}
	t.SetHeaders("INDEX", "VALUE")
	for i, item := range items {
		t.AddRow(strconv.Itoa(i+1), cell(item))
	}
	return t
}

// cell is the single-line text of f.
func cell(f resp.Frame) string {
	switch v := f.(type) {
	case resp.BulkString:
		return string(v)
	case resp.SimpleString:
		return string(v)
	}
	return strings.ReplaceAll(strings.TrimSuffix(Text(f), "\n"), "\n", " ")
}

// Table represents tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render renders the table to the writer.
func (t *Table) Render(w io.Writer) error {
	return t.RenderWithOptions(w, false)
}

// RenderWithOptions renders the table with options.
func (t *Table) RenderWithOptions(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if !noHeaders && len(t.Headers) > 0 {
		io.WriteString(tw, strings.Join(t.Headers, "\t")+"\n")
	}
	for _, row := range t.Rows {
		io.WriteString(tw, strings.Join(row, "\t")+"\n")
	}
	return tw.Flush()
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// SetHeaders sets the table headers.
func (t *Table) SetHeaders(headers ...string) {
	t.Headers = headers
}

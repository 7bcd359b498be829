package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yndnr/respd/pkg/resp"
)

// TextFormatter renders frames the way redis-cli does.
type TextFormatter struct{}

// Format writes data as text. Values that are not frames are printed with
// their default format.
func (f *TextFormatter) Format(w io.Writer, data any) error {
	var b strings.Builder
	switch v := data.(type) {
	case resp.Frame:
		writeText(&b, v, 0)
	case *Table:
		return v.Render(w)
	default:
		fmt.Fprintln(&b, v)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Text returns the text rendering of f.
func Text(f resp.Frame) string {
	var b strings.Builder
	writeText(&b, f, 0)
	return b.String()
}

func writeText(b *strings.Builder, f resp.Frame, indent int) {
	switch v := f.(type) {
	case nil, resp.Null, resp.NullBulkString, resp.NullArray:
		b.WriteString("(nil)\n")
	case resp.SimpleString:
		b.WriteString(string(v) + "\n")
	case resp.SimpleError:
		b.WriteString("(error) " + string(v) + "\n")
	case resp.Integer:
		b.WriteString("(integer) " + strconv.FormatInt(int64(v), 10) + "\n")
	case resp.BulkString:
		b.WriteString(strconv.Quote(string(v)) + "\n")
	case resp.Boolean:
		b.WriteString("(" + strconv.FormatBool(bool(v)) + ")\n")
	case resp.Double:
		b.WriteString("(double) " + strconv.FormatFloat(float64(v), 'g', -1, 64) + "\n")
	case resp.Array:
		writeItems(b, v, "array", indent)
	case resp.Set:
		writeItems(b, v, "set", indent)
	case *resp.Map:
		writeMap(b, v, indent)
	}
}

func writeItems(b *strings.Builder, items []resp.Frame, name string, indent int) {
	if len(items) == 0 {
		b.WriteString("(empty " + name + ")\n")
		return
	}
	width := len(strconv.Itoa(len(items)))
	for i, item := range items {
		if i > 0 {
			b.WriteString(strings.Repeat(" ", indent))
		}
		label := fmt.Sprintf("%*d) ", width, i+1)
		b.WriteString(label)
		writeText(b, item, indent+len(label))
	}
}

func writeMap(b *strings.Builder, m *resp.Map, indent int) {
	if m.Len() == 0 {
		b.WriteString("(empty map)\n")
		return
	}
	width := len(strconv.Itoa(m.Len()))
	i := 0
	m.Range(func(k string, v resp.Frame) bool {
		if i > 0 {
			b.WriteString(strings.Repeat(" ", indent))
		}
		i++
		label := fmt.Sprintf("%*d# %s => ", width, i, strconv.Quote(k))
		b.WriteString(label)
		writeText(b, v, indent+len(label))
		return true
	})
}

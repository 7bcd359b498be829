package output

import (
	"math"

	"github.com/yndnr/respd/pkg/resp"
)

// Value converts a frame to plain Go values: strings, int64, float64, bool,
// nil, []any and map[string]any. Errors become {"error": message}.
// Non-finite doubles become the strings "inf", "-inf" and "nan" since JSON
// cannot carry them.
func Value(f resp.Frame) any {
	switch v := f.(type) {
	case nil, resp.Null, resp.NullBulkString, resp.NullArray:
		return nil
	case resp.SimpleString:
		return string(v)
	case resp.SimpleError:
		return map[string]any{"error": string(v)}
	case resp.Integer:
		return int64(v)
	case resp.BulkString:
		return string(v)
	case resp.Boolean:
		return bool(v)
	case resp.Double:
		d := float64(v)
		switch {
		case math.IsNaN(d):
			return "nan"
		case math.IsInf(d, 1):
			return "inf"
		case math.IsInf(d, -1):
			return "-inf"
		}
		return d
	case resp.Array:
		return values(v)
	case resp.Set:
		return values(v)
	case *resp.Map:
		out := make(map[string]any, v.Len())
		v.Range(func(k string, item resp.Frame) bool {
			out[k] = Value(item)
			return true
		})
		return out
	}
	return nil
}

func values(items []resp.Frame) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = Value(item)
	}
	return out
}

func plain(data any) any {
	if f, ok := data.(resp.Frame); ok {
		return Value(f)
	}
	return data
}

package resp

import (
	"bytes"
	"math"
)

// Equal reports whether a and b are the same frame. Doubles compare by value
// except that NaN equals NaN, so every decoded frame equals its source.
func Equal(a, b Frame) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case SimpleString, SimpleError, Integer, Boolean, NullBulkString, NullArray, Null:
		return a == b
	case Double:
		y := b.(Double)
		if math.IsNaN(float64(x)) {
			return math.IsNaN(float64(y))
		}
		return x == y
	case BulkString:
		return bytes.Equal(x, b.(BulkString))
	case Array:
		return equalItems(x, b.(Array))
	case Set:
		return equalItems(x, b.(Set))
	case *Map:
		y := b.(*Map)
		if x.Len() != y.Len() {
			return false
		}
		equal := true
		x.Range(func(k string, v Frame) bool {
			w, ok := y.Get(k)
			equal = ok && Equal(v, w)
			return equal
		})
		return equal
	}
	return false
}

func equalItems(a, b []Frame) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

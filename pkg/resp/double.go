package resp

import (
	"math"
	"strconv"
	"strings"
)

// Magnitudes outside [sciMin, sciMax) are written in scientific notation.
const (
	sciMax = 1e8
	sciMin = 1e-8
)

// appendDouble writes v with an explicit sign. Non-finite values use the
// RESP3 spellings inf, -inf and nan.
func appendDouble(dst []byte, v float64) []byte {
	switch {
	case math.IsNaN(v):
		return append(dst, "nan"...)
	case math.IsInf(v, 1):
		return append(dst, "+inf"...)
	case math.IsInf(v, -1):
		return append(dst, "-inf"...)
	}

	if math.Signbit(v) {
		dst = append(dst, '-')
		v = -v
	} else {
		dst = append(dst, '+')
	}

	if v >= sciMax || (v != 0 && v < sciMin) {
		// strconv pads the exponent ("1.5e-09"); the wire form does not.
		s := strconv.FormatFloat(v, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		e, _ := strconv.Atoi(exp)
		dst = append(dst, mant...)
		dst = append(dst, 'e')
		return strconv.AppendInt(dst, int64(e), 10)
	}
	return strconv.AppendFloat(dst, v, 'f', -1, 64)
}

// parseDouble accepts any decimal or scientific literal with an optional sign,
// plus inf and nan.
func parseDouble(s string) (float64, error) {
	switch s {
	case "inf", "+inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	case "nan", "-nan", "+nan":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

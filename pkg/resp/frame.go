package resp

import (
	"fmt"
	"strconv"
	"strings"
)

var crlf = []byte("\r\n")

// Frame is one RESP value. The set of implementations is closed.
type Frame interface {
	// Kind returns the variant of the frame.
	Kind() Kind
	// AppendTo appends the wire form of the frame to dst.
	AppendTo(dst []byte) []byte

	frame()
}

type (
	// SimpleString is a single line of text ("+OK\r\n").
	SimpleString string

	// SimpleError is a single line error message ("-ERR bad\r\n").
	SimpleError string

	// Integer is a signed 64-bit integer (":+42\r\n").
	Integer int64

	// BulkString is a length-prefixed binary string ("$3\r\nfoo\r\n").
	// A nil BulkString encodes as the empty string, not as NullBulkString.
	BulkString []byte

	// NullBulkString is the RESP2 null bulk string ("$-1\r\n").
	NullBulkString struct{}

	// Array is an ordered sequence of frames ("*2\r\n...").
	Array []Frame

	// NullArray is the RESP2 null array ("*-1\r\n").
	NullArray struct{}

	// Null is the RESP3 null ("_\r\n").
	Null struct{}

	// Boolean is the RESP3 boolean ("#t\r\n" or "#f\r\n").
	Boolean bool

	// Double is the RESP3 double (",+1.5\r\n").
	Double float64

	// Set is an unordered collection of frames ("~2\r\n..."). Element order
	// is kept as received and duplicates are not removed.
	Set []Frame
)

// OK is the canonical "+OK\r\n" reply.
const OK = SimpleString("OK")

func (SimpleString) Kind() Kind   { return KindSimpleString }
func (SimpleError) Kind() Kind    { return KindSimpleError }
func (Integer) Kind() Kind        { return KindInteger }
func (BulkString) Kind() Kind     { return KindBulkString }
func (NullBulkString) Kind() Kind { return KindNullBulkString }
func (Array) Kind() Kind          { return KindArray }
func (NullArray) Kind() Kind      { return KindNullArray }
func (Null) Kind() Kind           { return KindNull }
func (Boolean) Kind() Kind        { return KindBoolean }
func (Double) Kind() Kind         { return KindDouble }
func (Set) Kind() Kind            { return KindSet }

func (SimpleString) frame()   {}
func (SimpleError) frame()    {}
func (Integer) frame()        {}
func (BulkString) frame()     {}
func (NullBulkString) frame() {}
func (Array) frame()          {}
func (NullArray) frame()      {}
func (Null) frame()           {}
func (Boolean) frame()        {}
func (Double) frame()         {}
func (Set) frame()            {}

// AppendTo implements Frame. CR and LF are written as spaces so the line
// cannot break framing.
func (s SimpleString) AppendTo(dst []byte) []byte {
	return appendLine(dst, markerSimpleString, string(s))
}

// AppendTo implements Frame. CR and LF are written as spaces.
func (e SimpleError) AppendTo(dst []byte) []byte {
	return appendLine(dst, markerSimpleError, string(e))
}

// AppendTo implements Frame.
func (n Integer) AppendTo(dst []byte) []byte {
	dst = append(dst, markerInteger)
	if n >= 0 {
		dst = append(dst, '+')
	}
	dst = strconv.AppendInt(dst, int64(n), 10)
	return append(dst, crlf...)
}

// AppendTo implements Frame.
func (b BulkString) AppendTo(dst []byte) []byte {
	dst = append(dst, markerBulkString)
	dst = strconv.AppendInt(dst, int64(len(b)), 10)
	dst = append(dst, crlf...)
	dst = append(dst, b...)
	return append(dst, crlf...)
}

// AppendTo implements Frame.
func (NullBulkString) AppendTo(dst []byte) []byte {
	return append(dst, nullBulkStringWire...)
}

// AppendTo implements Frame.
func (a Array) AppendTo(dst []byte) []byte {
	return appendAggregate(dst, markerArray, a)
}

// AppendTo implements Frame.
func (NullArray) AppendTo(dst []byte) []byte {
	return append(dst, nullArrayWire...)
}

// AppendTo implements Frame.
func (Null) AppendTo(dst []byte) []byte {
	return append(dst, nullWire...)
}

// AppendTo implements Frame.
func (b Boolean) AppendTo(dst []byte) []byte {
	if b {
		return append(dst, trueWire...)
	}
	return append(dst, falseWire...)
}

// AppendTo implements Frame.
func (d Double) AppendTo(dst []byte) []byte {
	dst = append(dst, markerDouble)
	dst = appendDouble(dst, float64(d))
	return append(dst, crlf...)
}

// AppendTo implements Frame.
func (s Set) AppendTo(dst []byte) []byte {
	return appendAggregate(dst, markerSet, s)
}

const (
	nullBulkStringWire = "$-1\r\n"
	nullArrayWire      = "*-1\r\n"
	nullWire           = "_\r\n"
	trueWire           = "#t\r\n"
	falseWire          = "#f\r\n"
)

var lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")

func appendLine(dst []byte, marker byte, s string) []byte {
	dst = append(dst, marker)
	if strings.ContainsAny(s, "\r\n") {
		s = lineBreaks.Replace(s)
	}
	dst = append(dst, s...)
	return append(dst, crlf...)
}

func appendHeader(dst []byte, marker byte, n int) []byte {
	dst = append(dst, marker)
	dst = strconv.AppendInt(dst, int64(n), 10)
	return append(dst, crlf...)
}

func appendAggregate(dst []byte, marker byte, items []Frame) []byte {
	dst = appendHeader(dst, marker, len(items))
	for _, f := range items {
		dst = appendFrame(dst, f)
	}
	return dst
}

// appendFrame encodes f, writing a nil Frame as Null.
func appendFrame(dst []byte, f Frame) []byte {
	if f == nil {
		return append(dst, nullWire...)
	}
	return f.AppendTo(dst)
}

// Encode returns the wire form of f. A nil f encodes as Null.
func Encode(f Frame) []byte {
	return appendFrame(nil, f)
}

// BulkFromString returns s as a BulkString.
func BulkFromString(s string) BulkString {
	return BulkString(s)
}

// Errorf formats an error reply. By convention the message starts with an
// upper-case error code such as ERR or WRONGTYPE.
func Errorf(format string, args ...any) SimpleError {
	return SimpleError(fmt.Sprintf(format, args...))
}

// Strings builds an Array of bulk strings, the shape of a client command.
func Strings(args ...string) Array {
	a := make(Array, len(args))
	for i, s := range args {
		a[i] = BulkString(s)
	}
	return a
}

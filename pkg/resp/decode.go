package resp

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Decoder decodes frames under a set of Limits. A Decoder holds no state
// between calls and is safe for concurrent use.
type Decoder struct {
	limits Limits
}

// NewDecoder returns a Decoder enforcing lim.
func NewDecoder(lim Limits) *Decoder {
	return &Decoder{limits: lim}
}

var defaultDecoder = NewDecoder(DefaultLimits())

// Limits returns the limits enforced by d.
func (d *Decoder) Limits() Limits { return d.limits }

// Parse decodes the frame at the start of p and returns it with the number
// of bytes it occupies. p is never modified and the returned frame holds no
// reference to it.
func (d *Decoder) Parse(p []byte) (Frame, int, error) {
	n, err := d.Probe(p)
	if err != nil {
		return nil, 0, err
	}
	return d.parse(p[:n], 0)
}

// parse decodes the frame at the start of p. The caller must have probed the
// outermost frame, so aggregates are parsed in one pass without probing
// their children again.
func (d *Decoder) parse(p []byte, depth int) (Frame, int, error) {
	if len(p) == 0 {
		return nil, 0, ErrIncomplete
	}
	switch p[0] {
	case markerSimpleString:
		s, n, err := d.parseLine(p)
		return SimpleString(s), n, err
	case markerSimpleError:
		s, n, err := d.parseLine(p)
		return SimpleError(s), n, err
	case markerInteger:
		return d.parseInteger(p)
	case markerDouble:
		return d.parseDouble(p)
	case markerBoolean:
		return d.parseBoolean(p)
	case markerNull:
		return d.parseNull(p)
	case markerBulkString:
		// The null form is matched first; anything that is not the null
		// pattern is decoded as a sized bulk string.
		if n, err := matchFixed(p, nullBulkStringWire); err == nil {
			return NullBulkString{}, n, nil
		} else if errors.Is(err, ErrIncomplete) {
			return nil, 0, err
		}
		return d.parseBulkString(p)
	case markerArray:
		if n, err := matchFixed(p, nullArrayWire); err == nil {
			return NullArray{}, n, nil
		} else if errors.Is(err, ErrIncomplete) {
			return nil, 0, err
		}
		items, n, err := d.parseItems(p, depth)
		if err != nil {
			return nil, 0, err
		}
		return Array(items), n, nil
	case markerSet:
		items, n, err := d.parseItems(p, depth)
		if err != nil {
			return nil, 0, err
		}
		return Set(items), n, nil
	case markerMap:
		return d.parseMap(p, depth)
	}
	return nil, 0, fmt.Errorf("%w: unknown marker %q", ErrInvalidFrameType, p[0])
}

// matchFixed matches a fixed wire pattern. A short p that is a prefix of the
// pattern is incomplete rather than a mismatch.
func matchFixed(p []byte, pattern string) (int, error) {
	if len(p) < len(pattern) {
		if strings.HasPrefix(pattern, string(p)) {
			return 0, ErrIncomplete
		}
		return 0, ErrInvalidFrameType
	}
	if string(p[:len(pattern)]) != pattern {
		return 0, ErrInvalidFrameType
	}
	return len(pattern), nil
}

// parseLine returns the text of a single line frame. Invalid UTF-8 is
// replaced rather than rejected.
func (d *Decoder) parseLine(p []byte) (string, int, error) {
	end, err := d.lineEnd(p)
	if err != nil {
		return "", 0, err
	}
	return strings.ToValidUTF8(string(p[1:end]), "\uFFFD"), end + 2, nil
}

func (d *Decoder) parseInteger(p []byte) (Frame, int, error) {
	s, n, err := d.parseLine(p)
	if err != nil {
		return nil, 0, err
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: integer %q", ErrMalformedNumber, s)
	}
	return Integer(v), n, nil
}

func (d *Decoder) parseDouble(p []byte) (Frame, int, error) {
	s, n, err := d.parseLine(p)
	if err != nil {
		return nil, 0, err
	}
	v, err := parseDouble(s)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: double %q", ErrMalformedNumber, s)
	}
	return Double(v), n, nil
}

func (d *Decoder) parseBoolean(p []byte) (Frame, int, error) {
	if n, err := matchFixed(p, trueWire); err == nil {
		return Boolean(true), n, nil
	} else if errors.Is(err, ErrIncomplete) {
		return nil, 0, err
	}
	n, err := matchFixed(p, falseWire)
	if err != nil {
		if errors.Is(err, ErrIncomplete) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("%w: boolean %q", ErrInvalidFrameType, truncate(p))
	}
	return Boolean(false), n, nil
}

func (d *Decoder) parseNull(p []byte) (Frame, int, error) {
	n, err := matchFixed(p, nullWire)
	if err != nil {
		if errors.Is(err, ErrIncomplete) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("%w: null %q", ErrInvalidFrameType, truncate(p))
	}
	return Null{}, n, nil
}

func (d *Decoder) parseBulkString(p []byte) (Frame, int, error) {
	n, size, err := d.header(p)
	if err != nil {
		return nil, 0, err
	}
	if err := d.checkBulkLen(n); err != nil {
		return nil, 0, err
	}
	if err := checkExtent(n, size); err != nil {
		return nil, 0, err
	}
	if len(p)-size-2 < n {
		return nil, 0, ErrIncomplete
	}
	total := size + n + 2
	if !bytes.Equal(p[size+n:total], crlf) {
		return nil, 0, fmt.Errorf("%w: bulk string of %d bytes not terminated by CRLF", ErrInvalidFrameLength, n)
	}
	return BulkString(bytes.Clone(p[size : size+n])), total, nil
}

// parseItems decodes the children of an Array or Set.
func (d *Decoder) parseItems(p []byte, depth int) ([]Frame, int, error) {
	n, off, err := d.header(p)
	if err != nil {
		return nil, 0, err
	}
	if err := d.checkCount(n); err != nil {
		return nil, 0, err
	}
	if n > (len(p)-off)/minFrameLen {
		return nil, 0, ErrIncomplete
	}
	items := make([]Frame, 0, n)
	for i := 0; i < n; i++ {
		f, m, err := d.parse(p[off:], depth+1)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, f)
		off += m
	}
	return items, off, nil
}

func (d *Decoder) parseMap(p []byte, depth int) (Frame, int, error) {
	n, off, err := d.header(p)
	if err != nil {
		return nil, 0, err
	}
	if err := d.checkCount(n); err != nil {
		return nil, 0, err
	}
	if n > (len(p)-off)/(2*minFrameLen) {
		return nil, 0, ErrIncomplete
	}
	m := NewMap()
	for i := 0; i < n; i++ {
		if off >= len(p) {
			return nil, 0, ErrIncomplete
		}
		if p[off] != markerSimpleString {
			return nil, 0, fmt.Errorf("%w: map key must be a simple string, got %q", ErrInvalidFrameType, p[off])
		}
		key, kn, err := d.parseLine(p[off:])
		if err != nil {
			return nil, 0, err
		}
		off += kn
		v, vn, err := d.parse(p[off:], depth+1)
		if err != nil {
			return nil, 0, err
		}
		off += vn
		m.Set(key, v)
	}
	return m, off, nil
}

// truncate bounds bytes quoted in error messages.
func truncate(p []byte) []byte {
	const limit = 16
	if len(p) > limit {
		return p[:limit]
	}
	return p
}

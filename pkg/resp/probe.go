package resp

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// minFrameLen is the size of the shortest frame ("_\r\n").
const minFrameLen = 3

// lineEnd returns the index of the CR that terminates the line starting with
// the marker byte at p[0].
func (d *Decoder) lineEnd(p []byte) (int, error) {
	i := bytes.Index(p[1:], crlf)
	if i < 0 {
		if limit := d.limits.MaxLineLen; limit > 0 && len(p)-1 > limit {
			return 0, fmt.Errorf("%w: line longer than %d bytes", ErrLimitExceeded, limit)
		}
		return 0, ErrIncomplete
	}
	if limit := d.limits.MaxLineLen; limit > 0 && i > limit {
		return 0, fmt.Errorf("%w: line longer than %d bytes", ErrLimitExceeded, limit)
	}
	return i + 1, nil
}

// header reads a "<marker><n>\r\n" header. It returns n and the size of the
// header including CRLF.
func (d *Decoder) header(p []byte) (n, size int, err error) {
	end, err := d.lineEnd(p)
	if err != nil {
		return 0, 0, err
	}
	n, err = strconv.Atoi(string(p[1:end]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidFrameLength, p[1:end])
	}
	return n, end + 2, nil
}

// Probe returns the total byte length of the frame at the start of p without
// decoding it. It returns ErrIncomplete when p holds only a prefix of the
// frame. Aggregates are probed recursively, so a nested frame that is still
// incomplete makes the whole aggregate incomplete.
//
// Probe only checks what is needed to find the frame's extent. Payload
// errors such as a non-numeric Integer are reported by Parse.
func (d *Decoder) Probe(p []byte) (int, error) {
	return d.probe(p, 0)
}

func (d *Decoder) probe(p []byte, depth int) (int, error) {
	if len(p) == 0 {
		return 0, ErrIncomplete
	}
	switch p[0] {
	case markerSimpleString, markerSimpleError, markerInteger,
		markerNull, markerBoolean, markerDouble:
		end, err := d.lineEnd(p)
		if err != nil {
			return 0, err
		}
		return end + 2, nil

	case markerBulkString:
		n, size, err := d.header(p)
		if err != nil {
			return 0, err
		}
		if n == -1 {
			return size, nil
		}
		if err := d.checkBulkLen(n); err != nil {
			return 0, err
		}
		if err := checkExtent(n, size); err != nil {
			return 0, err
		}
		if len(p)-size-2 < n {
			return 0, ErrIncomplete
		}
		return size + n + 2, nil

	case markerArray, markerSet, markerMap:
		if limit := d.limits.MaxDepth; limit > 0 && depth >= limit {
			return 0, fmt.Errorf("%w: nesting deeper than %d", ErrLimitExceeded, limit)
		}
		n, size, err := d.header(p)
		if err != nil {
			return 0, err
		}
		if n == -1 && p[0] == markerArray {
			return size, nil
		}
		if err := d.checkCount(n); err != nil {
			return 0, err
		}
		children := n
		if p[0] == markerMap {
			if n > math.MaxInt/2 {
				return 0, fmt.Errorf("%w: map of %d entries", ErrInvalidFrameLength, n)
			}
			children = 2 * n
		}
		if children > (math.MaxInt-size)/minFrameLen {
			return 0, fmt.Errorf("%w: element count %d", ErrInvalidFrameLength, n)
		}
		total := size
		for i := 0; i < children; i++ {
			m, err := d.probe(p[total:], depth+1)
			if err != nil {
				return 0, err
			}
			total += m
		}
		return total, nil
	}
	return 0, fmt.Errorf("%w: unknown marker %q", ErrInvalidFrameType, p[0])
}

func (d *Decoder) checkBulkLen(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: bulk length %d", ErrInvalidFrameLength, n)
	}
	if limit := d.limits.MaxBulkLen; limit > 0 && n > limit {
		return fmt.Errorf("%w: bulk length %d > %d", ErrLimitExceeded, n, limit)
	}
	return nil
}

// checkExtent rejects a bulk length whose frame size would not fit in an int.
func checkExtent(n, size int) error {
	if n > math.MaxInt-size-2 {
		return fmt.Errorf("%w: bulk length %d", ErrInvalidFrameLength, n)
	}
	return nil
}

func (d *Decoder) checkCount(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: element count %d", ErrInvalidFrameLength, n)
	}
	if limit := d.limits.MaxElements; limit > 0 && n > limit {
		return fmt.Errorf("%w: element count %d > %d", ErrLimitExceeded, n, limit)
	}
	return nil
}

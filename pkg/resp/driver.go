package resp

import (
	"errors"
	"fmt"
)

// Decode removes one frame from the head of b. On any error, including
// ErrIncomplete, b is left untouched.
func (d *Decoder) Decode(b *Buffer) (Frame, error) {
	f, ok, err := d.TryDecode(b)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrIncomplete
	}
	return f, nil
}

// TryDecode is the streaming entry point. It reports ok=false with a nil
// error when b does not yet hold a complete frame, and returns an error only
// for malformed input. The frame's bytes are consumed only when it decodes
// successfully.
func (d *Decoder) TryDecode(b *Buffer) (f Frame, ok bool, err error) {
	p := b.Bytes()
	n, err := d.Probe(p)
	if errors.Is(err, ErrIncomplete) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	f, m, err := d.parse(p[:n], 0)
	if err != nil {
		return nil, false, err
	}
	b.Advance(m)
	return f, true, nil
}

// Skip discards the frame at the head of b without decoding it and returns
// its size. It is used to resynchronise after a recoverable payload error.
func (d *Decoder) Skip(b *Buffer) (int, error) {
	n, err := d.Probe(b.Bytes())
	if err != nil {
		return 0, err
	}
	b.Advance(n)
	return n, nil
}

// Probe calls Probe on a Decoder with DefaultLimits.
func Probe(p []byte) (int, error) { return defaultDecoder.Probe(p) }

// Parse calls Parse on a Decoder with DefaultLimits.
func Parse(p []byte) (Frame, int, error) { return defaultDecoder.Parse(p) }

// Decode calls Decode on a Decoder with DefaultLimits.
func Decode(b *Buffer) (Frame, error) { return defaultDecoder.Decode(b) }

// TryDecode calls TryDecode on a Decoder with DefaultLimits.
func TryDecode(b *Buffer) (Frame, bool, error) { return defaultDecoder.TryDecode(b) }

// Skip calls Skip on a Decoder with DefaultLimits.
func Skip(b *Buffer) (int, error) { return defaultDecoder.Skip(b) }

// DecodeAs decodes one frame and requires it to be of type T. When the frame
// has another type, ErrInvalidFrameType is returned and b is untouched.
func DecodeAs[T Frame](b *Buffer) (T, error) {
	var zero T
	p := b.Bytes()
	f, n, err := defaultDecoder.Parse(p)
	if err != nil {
		return zero, err
	}
	v, ok := f.(T)
	if !ok {
		return zero, fmt.Errorf("%w: got %s", ErrInvalidFrameType, f.Kind())
	}
	b.Advance(n)
	return v, nil
}

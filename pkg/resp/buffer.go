package resp

import "io"

const minRead = 4096

// Buffer accumulates received bytes until they form complete frames. Frames
// are consumed from the head; the consumed prefix is reclaimed on a later
// write. The zero value is an empty buffer ready to use.
type Buffer struct {
	buf []byte
	off int
}

// Write appends p. It always returns len(p), nil.
func (b *Buffer) Write(p []byte) (int, error) {
	b.grow(len(p))
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// WriteString appends s.
func (b *Buffer) WriteString(s string) (int, error) {
	b.grow(len(s))
	b.buf = append(b.buf, s...)
	return len(s), nil
}

// Fill performs a single Read from r into the free space of the buffer and
// returns the number of bytes added.
func (b *Buffer) Fill(r io.Reader) (int, error) {
	b.grow(minRead)
	n, err := r.Read(b.buf[len(b.buf):cap(b.buf)])
	if n < 0 {
		n = 0
	}
	b.buf = b.buf[:len(b.buf)+n]
	return n, err
}

// Bytes returns the unconsumed bytes. The slice is only valid until the next
// call that modifies the buffer.
func (b *Buffer) Bytes() []byte { return b.buf[b.off:] }

// Len returns the number of unconsumed bytes.
func (b *Buffer) Len() int { return len(b.buf) - b.off }

// Advance consumes n bytes from the head. It panics if n exceeds Len.
func (b *Buffer) Advance(n int) {
	if n < 0 || n > b.Len() {
		panic("resp: Buffer.Advance out of range")
	}
	b.off += n
	if b.off == len(b.buf) {
		b.buf = b.buf[:0]
		b.off = 0
	}
}

// Reset discards all unconsumed bytes and keeps the allocation.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
	b.off = 0
}

// grow makes room for n more bytes, first by sliding the unconsumed bytes to
// the front of the existing allocation.
func (b *Buffer) grow(n int) {
	if cap(b.buf)-len(b.buf) >= n {
		return
	}
	if b.off > 0 {
		m := copy(b.buf, b.buf[b.off:])
		b.buf = b.buf[:m]
		b.off = 0
		if cap(b.buf)-len(b.buf) >= n {
			return
		}
	}
	nb := make([]byte, len(b.buf), 2*cap(b.buf)+n)
	copy(nb, b.buf)
	b.buf = nb
}

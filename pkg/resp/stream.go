package resp

import (
	"bufio"
	"errors"
	"io"
)

// Reader reads frames from a byte stream.
type Reader struct {
	rd  io.Reader
	dec *Decoder
	buf Buffer
	err error
}

// NewReader returns a Reader decoding from rd under lim.
func NewReader(rd io.Reader, lim Limits) *Reader {
	return &Reader{rd: rd, dec: NewDecoder(lim)}
}

// ReadFrame returns the next frame. A stream that ends in the middle of a
// frame returns io.ErrUnexpectedEOF; a clean end returns io.EOF.
func (r *Reader) ReadFrame() (Frame, error) {
	for {
		f, ok, err := r.dec.TryDecode(&r.buf)
		if err != nil {
			return nil, err
		}
		if ok {
			return f, nil
		}
		if r.err != nil {
			if errors.Is(r.err, io.EOF) && r.buf.Len() > 0 {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, r.err
		}
		_, r.err = r.buf.Fill(r.rd)
	}
}

// Buffered returns the number of received bytes not yet decoded.
func (r *Reader) Buffered() int { return r.buf.Len() }

// Writer writes frames to a buffered stream.
type Writer struct {
	w       *bufio.Writer
	scratch []byte
}

// NewWriter returns a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteFrame encodes f into the write buffer. Call Flush to send it.
func (w *Writer) WriteFrame(f Frame) error {
	w.scratch = appendFrame(w.scratch[:0], f)
	_, err := w.w.Write(w.scratch)
	return err
}

// WriteCommand writes args as an array of bulk strings.
func (w *Writer) WriteCommand(args ...string) error {
	return w.WriteFrame(Strings(args...))
}

// Flush sends buffered frames.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

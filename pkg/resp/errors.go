package resp

import "errors"

var (
	// ErrIncomplete reports that the buffer holds only a prefix of a frame.
	// It is always recoverable by waiting for more bytes and is never
	// accompanied by a buffer mutation.
	ErrIncomplete = errors.New("resp: incomplete frame")

	// ErrInvalidFrameType reports a marker byte or fixed pattern that does not
	// match any known frame kind.
	ErrInvalidFrameType = errors.New("resp: invalid frame type")

	// ErrInvalidFrameLength reports a declared length or count that cannot be
	// valid, such as a negative size or a non-numeric header.
	ErrInvalidFrameLength = errors.New("resp: invalid frame length")

	// ErrMalformedNumber reports a correctly framed Integer or Double whose
	// payload is not a number.
	ErrMalformedNumber = errors.New("resp: malformed number")

	// ErrLimitExceeded reports a frame that exceeds the configured Limits.
	ErrLimitExceeded = errors.New("resp: limit exceeded")
)

// IsFatal reports whether err ends the current frame. Every error other than
// ErrIncomplete is fatal.
func IsFatal(err error) bool {
	return err != nil && !errors.Is(err, ErrIncomplete)
}

// IsRecoverable reports whether the stream is still aligned after err, so the
// offending frame can be skipped and decoding resumed. This is only true for
// payload errors inside a well framed frame.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrMalformedNumber)
}

package resp

// Protocol limits to prevent DoS attacks.
const (
	// DefaultMaxBulkLen limits the size of a single bulk string (512MB, as Redis).
	DefaultMaxBulkLen = 512 << 20

	// DefaultMaxElements limits the declared element count of an aggregate.
	DefaultMaxElements = 1 << 20

	// DefaultMaxDepth limits aggregate nesting.
	DefaultMaxDepth = 64

	// DefaultMaxLineLen limits a header or simple line, CRLF excluded.
	DefaultMaxLineLen = 64 * 1024
)

// Limits bounds what a Decoder accepts. A zero field disables that check.
type Limits struct {
	MaxBulkLen  int
	MaxElements int
	MaxDepth    int
	MaxLineLen  int
}

// DefaultLimits returns the limits used by the package-level functions.
func DefaultLimits() Limits {
	return Limits{
		MaxBulkLen:  DefaultMaxBulkLen,
		MaxElements: DefaultMaxElements,
		MaxDepth:    DefaultMaxDepth,
		MaxLineLen:  DefaultMaxLineLen,
	}
}

package resp

// Kind identifies one of the frame variants.
type Kind uint8

// Frame kinds.
const (
	KindSimpleString Kind = iota + 1
	KindSimpleError
	KindInteger
	KindBulkString
	KindNullBulkString
	KindArray
	KindNullArray
	KindNull
	KindBoolean
	KindDouble
	KindMap
	KindSet
)

// Wire markers.
const (
	markerSimpleString = '+'
	markerSimpleError  = '-'
	markerInteger      = ':'
	markerBulkString   = '$'
	markerArray        = '*'
	markerNull         = '_'
	markerBoolean      = '#'
	markerDouble       = ','
	markerMap          = '%'
	markerSet          = '~'
)

var kindNames = [...]string{
	KindSimpleString:   "simple_string",
	KindSimpleError:    "simple_error",
	KindInteger:        "integer",
	KindBulkString:     "bulk_string",
	KindNullBulkString: "null_bulk_string",
	KindArray:          "array",
	KindNullArray:      "null_array",
	KindNull:           "null",
	KindBoolean:        "boolean",
	KindDouble:         "double",
	KindMap:            "map",
	KindSet:            "set",
}

// String returns the snake_case name of the kind, used as a metric label.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// IsMarker reports whether b starts a RESP frame.
func IsMarker(b byte) bool {
	switch b {
	case markerSimpleString, markerSimpleError, markerInteger, markerBulkString,
		markerArray, markerNull, markerBoolean, markerDouble, markerMap, markerSet:
		return true
	}
	return false
}

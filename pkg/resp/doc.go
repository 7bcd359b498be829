// Package resp implements the respd wire codec: RESP2 extended with the
// RESP3 null, boolean, double, map and set frame kinds.
//
// The package is organised around a closed set of frame types:
//
//   - Scalars: SimpleString, SimpleError, Integer, BulkString, NullBulkString,
//     Null, Boolean, Double, NullArray
//   - Aggregates: Array, *Map, Set
//
// Decoding is incremental. Bytes read from a connection are appended to a
// Buffer and TryDecode is called until it reports that no complete frame is
// left. A frame is only removed from the Buffer once it is fully present and
// has been decoded successfully; on ErrIncomplete the Buffer is left exactly
// as it was, so the same call can be repeated as more bytes arrive.
//
// Before an aggregate is decoded its total size is computed by Probe, which
// walks the declared element count and probes every child without building
// values. Probe and decode share the same framing rules, so the number of
// bytes probed is always the number of bytes consumed.
//
// Usage:
//
//	var buf resp.Buffer
//	buf.Write(chunk)
//	for {
//		f, ok, err := resp.TryDecode(&buf)
//		if err != nil {
//			return err // protocol error, close the connection
//		}
//		if !ok {
//			break // wait for more bytes
//		}
//		handle(f)
//	}
//
// Encoding never fails: every Frame appends its own wire form with AppendTo,
// and Encode returns it as a new slice.
package resp

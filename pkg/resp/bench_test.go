package resp

import (
	"fmt"
	"testing"
)

func benchCommand(args int) []byte {
	parts := make([]string, args)
	for i := range parts {
		parts[i] = fmt.Sprintf("argument-%d", i)
	}
	return Encode(Strings(parts...))
}

// BenchmarkProbe benchmarks length probing of command arrays.
func BenchmarkProbe(b *testing.B) {
	for _, n := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("args-%d", n), func(b *testing.B) {
			p := benchCommand(n)
			b.SetBytes(int64(len(p)))
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				if _, err := Probe(p); err != nil {
					b.Fatalf("Probe failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkTryDecode benchmarks the streaming driver over a pipelined buffer.
func BenchmarkTryDecode(b *testing.B) {
	frame := benchCommand(3)
	b.SetBytes(int64(len(frame)))
	b.ReportAllocs()

	var buf Buffer
	for i := 0; i < b.N; i++ {
		buf.Write(frame)
		if _, ok, err := TryDecode(&buf); err != nil || !ok {
			b.Fatalf("TryDecode failed: ok=%v err=%v", ok, err)
		}
	}
}

// BenchmarkTryDecodeFragmented feeds a frame one byte at a time.
func BenchmarkTryDecodeFragmented(b *testing.B) {
	frame := benchCommand(3)
	b.SetBytes(int64(len(frame)))
	b.ReportAllocs()

	var buf Buffer
	for i := 0; i < b.N; i++ {
		for j := range frame {
			buf.Write(frame[j : j+1])
			_, ok, err := TryDecode(&buf)
			if err != nil {
				b.Fatalf("TryDecode failed: %v", err)
			}
			if ok != (j == len(frame)-1) {
				b.Fatalf("TryDecode ok=%v at byte %d", ok, j)
			}
		}
	}
}

// BenchmarkEncode benchmarks encoding a nested reply.
func BenchmarkEncode(b *testing.B) {
	m := NewMap()
	for i := 0; i < 16; i++ {
		m.Set(fmt.Sprintf("field-%02d", i), BulkFromString("value"))
	}
	reply := Array{OK, Integer(42), Double(3.25), m}

	b.ReportAllocs()
	dst := make([]byte, 0, 1024)
	for i := 0; i < b.N; i++ {
		dst = reply.AppendTo(dst[:0])
	}
}

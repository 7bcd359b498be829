package resp

import (
	"errors"
	"testing"
)

// ============================================================
// TryDecode Tests
// ============================================================

func TestTryDecode_DrainsPipeline(t *testing.T) {
	var buf Buffer
	buf.WriteString("+OK\r\n:+1\r\n*1\r\n$4\r\nPING\r\n$3\r\nfo")

	var got []Frame
	for {
		f, ok, err := TryDecode(&buf)
		if err != nil {
			t.Fatalf("TryDecode() error = %v", err)
		}
		if !ok {
			break
		}
		got = append(got, f)
	}

	want := []Frame{OK, Integer(1), Strings("PING")}
	if len(got) != len(want) {
		t.Fatalf("decoded %d frames, want %d", len(got), len(want))
	}
	for i := range want {
		if !Equal(got[i], want[i]) {
			t.Errorf("frame[%d] = %#v, want %#v", i, got[i], want[i])
		}
	}
	if string(buf.Bytes()) != "$3\r\nfo" {
		t.Errorf("remaining = %q", buf.Bytes())
	}
}

func TestTryDecode_ByteAtATime(t *testing.T) {
	stream := "*2\r\n$3\r\nget\r\n$5\r\nhello\r\n%1\r\n+key\r\n+value\r\n#f\r\n"
	want := []Frame{
		Strings("get", "hello"),
		mapOf("key", SimpleString("value")),
		Boolean(false),
	}

	var (
		buf Buffer
		got []Frame
	)
	for i := 0; i < len(stream); i++ {
		buf.WriteString(stream[i : i+1])
		for {
			f, ok, err := TryDecode(&buf)
			if err != nil {
				t.Fatalf("TryDecode() error at byte %d: %v", i, err)
			}
			if !ok {
				break
			}
			got = append(got, f)
		}
	}

	if len(got) != len(want) {
		t.Fatalf("decoded %d frames, want %d", len(got), len(want))
	}
	for i := range want {
		if !Equal(got[i], want[i]) {
			t.Errorf("frame[%d] = %#v, want %#v", i, got[i], want[i])
		}
	}
	if buf.Len() != 0 {
		t.Errorf("buffer not drained: %q", buf.Bytes())
	}
}

func TestTryDecode_ErrorLeavesBuffer(t *testing.T) {
	var buf Buffer
	buf.WriteString(":12x\r\n+OK\r\n")

	_, ok, err := TryDecode(&buf)
	if ok || !errors.Is(err, ErrMalformedNumber) {
		t.Fatalf("TryDecode() = ok %v, err %v", ok, err)
	}
	if !IsRecoverable(err) {
		t.Error("IsRecoverable() = false for malformed number")
	}
	if string(buf.Bytes()) != ":12x\r\n+OK\r\n" {
		t.Fatalf("buffer mutated: %q", buf.Bytes())
	}

	n, err := Skip(&buf)
	if err != nil || n != 6 {
		t.Fatalf("Skip() = %d, %v", n, err)
	}
	f, err := Decode(&buf)
	if err != nil || f != OK {
		t.Errorf("Decode() after Skip = %#v, %v", f, err)
	}
}

func TestSkip_Incomplete(t *testing.T) {
	var buf Buffer
	buf.WriteString("*2\r\n:+1\r\n")
	if _, err := Skip(&buf); !errors.Is(err, ErrIncomplete) {
		t.Errorf("Skip() error = %v, want ErrIncomplete", err)
	}
	if buf.Len() != 9 {
		t.Errorf("Len() = %d, want 9", buf.Len())
	}
}

func TestIsRecoverable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{ErrIncomplete, false},
		{ErrInvalidFrameType, false},
		{ErrLimitExceeded, false},
		{ErrMalformedNumber, true},
	}
	for _, tt := range tests {
		if got := IsRecoverable(tt.err); got != tt.want {
			t.Errorf("IsRecoverable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

// ============================================================
// DecodeAs Tests
// ============================================================

func TestDecodeAs(t *testing.T) {
	var buf Buffer
	buf.WriteString("*1\r\n$4\r\nPING\r\n")

	if _, err := DecodeAs[SimpleString](&buf); !errors.Is(err, ErrInvalidFrameType) {
		t.Fatalf("DecodeAs[SimpleString] error = %v, want ErrInvalidFrameType", err)
	}
	if buf.Len() != 14 {
		t.Fatalf("buffer mutated on type mismatch, Len() = %d", buf.Len())
	}

	a, err := DecodeAs[Array](&buf)
	if err != nil {
		t.Fatalf("DecodeAs[Array] error = %v", err)
	}
	if len(a) != 1 || string(a[0].(BulkString)) != "PING" {
		t.Errorf("DecodeAs[Array] = %#v", a)
	}
	if buf.Len() != 0 {
		t.Errorf("Len() = %d, want 0", buf.Len())
	}
}

func TestDecodeAs_Map(t *testing.T) {
	var buf Buffer
	buf.WriteString("%1\r\n+proto\r\n:+3\r\n")

	m, err := DecodeAs[*Map](&buf)
	if err != nil {
		t.Fatalf("DecodeAs[*Map] error = %v", err)
	}
	if v, ok := m.Get("proto"); !ok || v != Integer(3) {
		t.Errorf("Get(proto) = %v, %v", v, ok)
	}
}

func TestDecodeAs_Incomplete(t *testing.T) {
	var buf Buffer
	buf.WriteString(":+4")
	if _, err := DecodeAs[Integer](&buf); !errors.Is(err, ErrIncomplete) {
		t.Errorf("DecodeAs[Integer] error = %v, want ErrIncomplete", err)
	}
	if buf.Len() != 3 {
		t.Errorf("Len() = %d, want 3", buf.Len())
	}
}

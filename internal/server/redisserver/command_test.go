package redisserver

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yndnr/respd/internal/storage/memory"
	"github.com/yndnr/respd/internal/telemetry/metric"
	"github.com/yndnr/respd/pkg/resp"
)

// ============================================================
// Test Helpers
// ============================================================

func newTestHandler(rateLimit int) (*CommandHandler, *memory.Store, *metric.Registry) {
	store := memory.New()
	reg := metric.NewRegistry()
	return NewCommandHandler(store, rateLimit, rateLimit, nil, reg), store, reg
}

func newTestConn() *Conn {
	return &Conn{id: "01TESTCONN", ip: "10.0.0.1", proto: protoRESP2}
}

func do(h *CommandHandler, c *Conn, args ...string) resp.Frame {
	b := make([][]byte, len(args))
	for i, a := range args {
		b[i] = []byte(a)
	}
	return h.Handle(context.Background(), c, b)
}

func assertReply(t *testing.T, got, want resp.Frame) {
	t.Helper()
	if !resp.Equal(got, want) {
		t.Errorf("reply = %q, want %q", resp.Encode(got), resp.Encode(want))
	}
}

func assertError(t *testing.T, got resp.Frame, prefix string) {
	t.Helper()
	e, ok := got.(resp.SimpleError)
	if !ok {
		t.Fatalf("reply = %q, want error", resp.Encode(got))
	}
	if !strings.HasPrefix(string(e), prefix) {
		t.Errorf("error = %q, want prefix %q", e, prefix)
	}
}

// ============================================================
// Dispatch
// ============================================================

func TestCommandHandler_Dispatch(t *testing.T) {
	h, _, _ := newTestHandler(0)
	c := newTestConn()

	tests := []struct {
		name string
		args []string
		want resp.Frame
	}{
		{"ping", []string{"PING"}, resp.SimpleString("PONG")},
		{"ping lower case", []string{"ping"}, resp.SimpleString("PONG")},
		{"ping message", []string{"PING", "hi"}, resp.BulkFromString("hi")},
		{"echo", []string{"Echo", "hello world"}, resp.BulkFromString("hello world")},
		{"empty", nil, resp.SimpleError("ERR no command")},
		{"unknown", []string{"FOO", "bar"}, resp.SimpleError("ERR unknown command 'FOO'")},
		{"get arity", []string{"GET"}, resp.SimpleError("ERR wrong number of arguments for 'get' command")},
		{"set arity", []string{"SET", "k"}, resp.SimpleError("ERR wrong number of arguments for 'set' command")},
		{"del arity", []string{"DEL"}, resp.SimpleError("ERR wrong number of arguments for 'del' command")},
		{"ping arity", []string{"PING", "a", "b"}, resp.SimpleError("ERR wrong number of arguments for 'ping' command")},
		{"hset odd pairs", []string{"HSET", "h", "f1", "v1", "f2"}, resp.SimpleError("ERR wrong number of arguments for 'hset' command")},
		{"dbsize arity", []string{"DBSIZE", "x"}, resp.SimpleError("ERR wrong number of arguments for 'dbsize' command")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertReply(t, do(h, c, tt.args...), tt.want)
		})
	}
}

func TestCommandHandler_Quit(t *testing.T) {
	h, _, _ := newTestHandler(0)
	c := newTestConn()

	assertReply(t, do(h, c, "QUIT"), resp.OK)
	if !c.quit {
		t.Error("QUIT should mark the connection for closing")
	}
}

// ============================================================
// String commands
// ============================================================

func TestCommandHandler_Strings(t *testing.T) {
	h, store, _ := newTestHandler(0)
	c := newTestConn()

	assertReply(t, do(h, c, "GET", "missing"), resp.NullBulkString{})
	assertReply(t, do(h, c, "SET", "greeting", "hello"), resp.OK)
	assertReply(t, do(h, c, "GET", "greeting"), resp.BulkFromString("hello"))
	assertReply(t, do(h, c, "SET", "greeting", ""), resp.OK)
	assertReply(t, do(h, c, "GET", "greeting"), resp.BulkFromString(""))
	assertReply(t, do(h, c, "SET", "other", "x"), resp.OK)

	assertReply(t, do(h, c, "EXISTS", "greeting", "other", "missing", "other"), resp.Integer(3))
	assertReply(t, do(h, c, "TYPE", "greeting"), resp.SimpleString("string"))
	assertReply(t, do(h, c, "TYPE", "missing"), resp.SimpleString("none"))
	assertReply(t, do(h, c, "DBSIZE"), resp.Integer(2))

	assertReply(t, do(h, c, "DEL", "greeting", "missing"), resp.Integer(1))
	assertReply(t, do(h, c, "DBSIZE"), resp.Integer(1))

	assertReply(t, do(h, c, "FLUSHDB"), resp.OK)
	if store.Len() != 0 {
		t.Errorf("store.Len() = %d after FLUSHDB", store.Len())
	}
}

func TestCommandHandler_BinaryValue(t *testing.T) {
	h, _, _ := newTestHandler(0)
	c := newTestConn()

	value := "a\r\nb\x00c"
	assertReply(t, do(h, c, "SET", "bin", value), resp.OK)
	assertReply(t, do(h, c, "GET", "bin"), resp.BulkFromString(value))
}

func TestCommandHandler_NullPerProtocol(t *testing.T) {
	h, _, _ := newTestHandler(0)
	c := newTestConn()

	assertReply(t, do(h, c, "GET", "missing"), resp.NullBulkString{})
	assertReply(t, do(h, c, "HGET", "missing", "f"), resp.NullBulkString{})

	c.proto = protoRESP3
	assertReply(t, do(h, c, "GET", "missing"), resp.Null{})
	assertReply(t, do(h, c, "HGET", "missing", "f"), resp.Null{})
}

// ============================================================
// Hash commands
// ============================================================

func TestCommandHandler_Hashes(t *testing.T) {
	h, _, _ := newTestHandler(0)
	c := newTestConn()

	assertReply(t, do(h, c, "HSET", "user", "name", "ada", "lang", "go"), resp.Integer(2))
	assertReply(t, do(h, c, "HSET", "user", "name", "grace"), resp.Integer(0))
	assertReply(t, do(h, c, "HGET", "user", "name"), resp.BulkFromString("grace"))
	assertReply(t, do(h, c, "HGET", "user", "missing"), resp.NullBulkString{})
	assertReply(t, do(h, c, "HLEN", "user"), resp.Integer(2))
	assertReply(t, do(h, c, "TYPE", "user"), resp.SimpleString("hash"))

	assertReply(t, do(h, c, "HGETALL", "user"), resp.Array{
		resp.BulkFromString("lang"), resp.BulkFromString("go"),
		resp.BulkFromString("name"), resp.BulkFromString("grace"),
	})

	c.proto = protoRESP3
	want := resp.NewMap()
	want.Set("lang", resp.BulkFromString("go"))
	want.Set("name", resp.BulkFromString("grace"))
	assertReply(t, do(h, c, "HGETALL", "user"), want)
	assertReply(t, do(h, c, "HGETALL", "missing"), resp.NewMap())

	assertReply(t, do(h, c, "HDEL", "user", "name", "nope"), resp.Integer(1))
	assertReply(t, do(h, c, "HDEL", "user", "lang"), resp.Integer(1))
	assertReply(t, do(h, c, "EXISTS", "user"), resp.Integer(0))
}

func TestCommandHandler_WrongType(t *testing.T) {
	h, _, _ := newTestHandler(0)
	c := newTestConn()

	do(h, c, "SET", "s", "v")
	do(h, c, "HSET", "h", "f", "v")

	tests := [][]string{
		{"HGET", "s", "f"},
		{"HSET", "s", "f", "v"},
		{"HGETALL", "s"},
		{"HDEL", "s", "f"},
		{"HLEN", "s"},
		{"GET", "h"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			assertError(t, do(h, c, args...), "WRONGTYPE")
		})
	}

	assertReply(t, do(h, c, "SET", "h", "now a string"), resp.OK)
	assertReply(t, do(h, c, "GET", "h"), resp.BulkFromString("now a string"))
}

// ============================================================
// HELLO
// ============================================================

func TestCommandHandler_Hello(t *testing.T) {
	h, _, _ := newTestHandler(0)
	c := newTestConn()

	reply := do(h, c, "HELLO")
	flat, ok := reply.(resp.Array)
	if !ok {
		t.Fatalf("RESP2 HELLO reply = %T, want Array", reply)
	}
	if len(flat) != 14 {
		t.Errorf("RESP2 HELLO has %d items, want 14", len(flat))
	}

	reply = do(h, c, "HELLO", "3")
	m, ok := reply.(*resp.Map)
	if !ok {
		t.Fatalf("RESP3 HELLO reply = %T, want *Map", reply)
	}
	if c.proto != protoRESP3 {
		t.Errorf("proto = %d, want 3", c.proto)
	}
	if v, _ := m.Get("proto"); !resp.Equal(v, resp.Integer(3)) {
		t.Errorf("proto field = %v", v)
	}
	if v, _ := m.Get("server"); !resp.Equal(v, resp.BulkFromString("respd")) {
		t.Errorf("server field = %v", v)
	}
	if v, _ := m.Get("id"); !resp.Equal(v, resp.BulkFromString(c.id)) {
		t.Errorf("id field = %v", v)
	}

	assertError(t, do(h, c, "HELLO", "4"), "NOPROTO")
	assertError(t, do(h, c, "HELLO", "three"), "ERR Protocol version")
	assertError(t, do(h, c, "HELLO", "3", "AUTH"), "ERR syntax error")
	if c.proto != protoRESP3 {
		t.Errorf("failed HELLO changed proto to %d", c.proto)
	}

	do(h, c, "HELLO", "2")
	if c.proto != protoRESP2 {
		t.Errorf("proto = %d, want 2", c.proto)
	}
}

// ============================================================
// Rate limiting and metrics
// ============================================================

func TestCommandHandler_RateLimit(t *testing.T) {
	h, _, reg := newTestHandler(1)
	c := newTestConn()

	assertReply(t, do(h, c, "PING"), resp.SimpleString("PONG"))
	assertReply(t, do(h, c, "PING"), errRateLimited)

	// QUIT is never limited.
	assertReply(t, do(h, c, "QUIT"), resp.OK)

	other := newTestConn()
	other.ip = "10.0.0.2"
	assertReply(t, do(h, other, "PING"), resp.SimpleString("PONG"))

	if got := testutil.ToFloat64(reg.RateLimited); got != 1 {
		t.Errorf("rate_limited_total = %v, want 1", got)
	}
}

func TestCommandHandler_Metrics(t *testing.T) {
	h, _, reg := newTestHandler(0)
	c := newTestConn()

	do(h, c, "SET", "k", "v")
	do(h, c, "GET", "k")
	do(h, c, "GET")
	do(h, c, "NOPE")

	tests := []struct {
		command, status string
		want            float64
	}{
		{"set", "ok", 1},
		{"get", "ok", 1},
		{"get", "error", 1},
		{"unknown", "error", 1},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(reg.CommandsTotal.WithLabelValues(tt.command, tt.status))
		if got != tt.want {
			t.Errorf("commands_total{%s,%s} = %v, want %v", tt.command, tt.status, got, tt.want)
		}
	}
}

func TestCommand_Arity(t *testing.T) {
	tests := []struct {
		arity, n int
		want     bool
	}{
		{2, 2, true},
		{2, 3, false},
		{-2, 2, true},
		{-2, 5, true},
		{-2, 1, false},
	}
	for _, tt := range tests {
		cmd := &command{arity: tt.arity}
		if got := cmd.arityOK(tt.n); got != tt.want {
			t.Errorf("arity %d with %d args = %v, want %v", tt.arity, tt.n, got, tt.want)
		}
	}
}

package redisserver

import (
	"io"
	"net"
	"sync/atomic"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/respd/pkg/resp"
)

// Protocol versions negotiated with HELLO.
const (
	protoRESP2 = 2
	protoRESP3 = 3
)

// Conn is one client connection.
type Conn struct {
	id      string
	ip      string
	netConn net.Conn
	buf     resp.Buffer
	out     *countingWriter
	w       *resp.Writer

	// proto selects the reply encoding for nulls and maps.
	proto int
	// quit is set by QUIT; the connection closes after the reply is flushed.
	quit bool

	closed atomic.Bool
}

func newConn(nc net.Conn) *Conn {
	out := &countingWriter{w: nc}
	return &Conn{
		id:      ulid.Make().String(),
		ip:      hostOf(nc.RemoteAddr()),
		netConn: nc,
		out:     out,
		w:       resp.NewWriter(out),
		proto:   protoRESP2,
	}
}

// ID returns the connection ULID.
func (c *Conn) ID() string { return c.id }

// Proto returns the negotiated protocol version, 2 or 3.
func (c *Conn) Proto() int { return c.proto }

// Close closes the connection once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

func hostOf(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	s := addr.String()
	host, _, err := net.SplitHostPort(s)
	if err != nil {
		return s
	}
	return host
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// take returns the bytes written since the last call.
func (cw *countingWriter) take() int64 {
	n := cw.n
	cw.n = 0
	return n
}

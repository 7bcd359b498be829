package connection

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/yndnr/respd/pkg/resp"
)

// DefaultTimeout bounds dialing and each request when no timeout is given.
const DefaultTimeout = 5 * time.Second

// ErrClosed is returned by Do after Close.
var ErrClosed = errors.New("connection: client closed")

// Client is a single RESP connection. It is safe for concurrent use; requests
// are serialized.
type Client struct {
	addr    string
	timeout time.Duration

	mu     sync.Mutex
	conn   net.Conn
	r      *resp.Reader
	w      *resp.Writer
	closed bool
}

// Dial connects to addr.
func Dial(ctx context.Context, addr string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &Client{
		addr:    addr,
		timeout: timeout,
		conn:    conn,
		r:       resp.NewReader(conn, resp.DefaultLimits()),
		w:       resp.NewWriter(conn),
	}, nil
}

// Addr returns the server address.
func (c *Client) Addr() string { return c.addr }

// Do sends a command and returns the reply. Error replies are returned as
// frames, not as Go errors; an error means the connection failed and the
// client should be discarded.
func (c *Client) Do(ctx context.Context, args ...string) (resp.Frame, error) {
	if len(args) == 0 {
		return nil, errors.New("connection: empty command")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, err
	}

	stop := context.AfterFunc(ctx, func() {
		c.conn.SetDeadline(time.Now())
	})
	defer stop()

	if err := c.w.WriteCommand(args...); err != nil {
		return nil, c.wrap(ctx, err)
	}
	if err := c.w.Flush(); err != nil {
		return nil, c.wrap(ctx, err)
	}
	f, err := c.r.ReadFrame()
	if err != nil {
		return nil, c.wrap(ctx, err)
	}
	return f, nil
}

func (c *Client) wrap(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%s: %w", c.addr, err)
}

// Close closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

package connection

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/yndnr/respd/internal/server/redisserver"
	"github.com/yndnr/respd/internal/storage/memory"
	"github.com/yndnr/respd/pkg/resp"
)

func startServer(t *testing.T) string {
	t.Helper()

	cfg := redisserver.DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	srv := redisserver.New(cfg, memory.New(), nil, nil)
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv.Addr().String()
}

// ============================================================================
// Client
// ============================================================================

func TestClient_Do(t *testing.T) {
	addr := startServer(t)
	ctx := context.Background()

	c, err := Dial(ctx, addr, time.Second)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	if c.Addr() != addr {
		t.Errorf("Addr() = %q, want %q", c.Addr(), addr)
	}

	tests := []struct {
		args []string
		want resp.Frame
	}{
		{[]string{"PING"}, resp.SimpleString("PONG")},
		{[]string{"SET", "k", "v"}, resp.OK},
		{[]string{"GET", "k"}, resp.BulkFromString("v")},
		{[]string{"GET", "missing"}, resp.NullBulkString{}},
		{[]string{"DEL", "k"}, resp.Integer(1)},
	}
	for _, tt := range tests {
		got, err := c.Do(ctx, tt.args...)
		if err != nil {
			t.Fatalf("Do(%v) error = %v", tt.args, err)
		}
		if !resp.Equal(got, tt.want) {
			t.Errorf("Do(%v) = %#v, want %#v", tt.args, got, tt.want)
		}
	}

	got, err := c.Do(ctx, "NOPE")
	if err != nil {
		t.Fatalf("Do(NOPE) error = %v", err)
	}
	if _, ok := got.(resp.SimpleError); !ok {
		t.Errorf("Do(NOPE) = %#v, want error reply", got)
	}
}

func TestClient_EmptyCommand(t *testing.T) {
	c, err := Dial(context.Background(), startServer(t), time.Second)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	if _, err := c.Do(context.Background()); err == nil {
		t.Error("Do() with no args should fail")
	}
}

func TestClient_Closed(t *testing.T) {
	c, err := Dial(context.Background(), startServer(t), time.Second)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := c.Do(context.Background(), "PING"); !errors.Is(err, ErrClosed) {
		t.Errorf("Do() after Close error = %v, want ErrClosed", err)
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	// A listener that accepts and never replies.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			defer conn.Close()
			time.Sleep(2 * time.Second)
		}
	}()

	c, err := Dial(context.Background(), ln.Addr().String(), 5*time.Second)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = c.Do(ctx, "PING")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Do() error = %v, want DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Do() took %v", elapsed)
	}
}

func TestDial_Refused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	if _, err := Dial(context.Background(), addr, time.Second); err == nil {
		t.Error("Dial() to closed port should fail")
	}
}

// ============================================================================
// Manager
// ============================================================================

func TestManager(t *testing.T) {
	addr := startServer(t)
	m := NewManager(time.Second)

	if m.IsConnected() {
		t.Error("new manager should not be connected")
	}
	if err := m.Disconnect(); err != nil {
		t.Errorf("Disconnect() without connection error = %v", err)
	}

	if err := m.Connect(context.Background(), addr); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	first := m.Current()
	if first == nil || !m.IsConnected() {
		t.Fatal("Connect() did not set current")
	}

	if err := m.Connect(context.Background(), addr); err != nil {
		t.Fatalf("second Connect() error = %v", err)
	}
	if m.Current() == first {
		t.Error("Connect() should replace the current client")
	}
	if _, err := first.Do(context.Background(), "PING"); !errors.Is(err, ErrClosed) {
		t.Errorf("replaced client Do() error = %v, want ErrClosed", err)
	}

	if err := m.Disconnect(); err != nil {
		t.Errorf("Disconnect() error = %v", err)
	}
	if m.IsConnected() {
		t.Error("IsConnected() after Disconnect = true")
	}
}

package redisserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/respd/internal/telemetry/logger"
	"github.com/yndnr/respd/internal/telemetry/metric"
	"github.com/yndnr/respd/pkg/resp"
)

// ErrProtocol reports a well framed request that is not a command.
var ErrProtocol = errors.New("protocol error")

// Config holds the RESP server configuration.
type Config struct {
	// Addr is the TCP listen address.
	Addr string
	// ReadTimeout bounds the time to receive the rest of a partly read
	// request. Helps prevent slowloris attacks.
	ReadTimeout time.Duration
	// WriteTimeout bounds flushing replies.
	WriteTimeout time.Duration
	// IdleTimeout closes connections with no pending input.
	IdleTimeout time.Duration
	// MaxConns caps concurrent connections. 0 means unlimited.
	MaxConns int
	// RateLimit is the commands per second allowed per client IP.
	// Set to 0 to disable rate limiting.
	RateLimit int
	RateBurst int
	// Limits bounds decoded requests.
	Limits resp.Limits
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:         "127.0.0.1:6379",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  5 * time.Minute,
		MaxConns:     10000,
		Limits:       resp.DefaultLimits(),
	}
}

// Server accepts RESP connections and runs their commands.
type Server struct {
	cfg     *Config
	handler *CommandHandler
	dec     *resp.Decoder
	logger  *slog.Logger
	metrics *metric.Registry

	mu    sync.Mutex
	ln    net.Listener
	conns map[*Conn]struct{}

	running atomic.Bool
	wg      sync.WaitGroup
}

// New creates a server over store. A nil metrics registry gets a private one.
func New(cfg *Config, store Backend, log *slog.Logger, metrics *metric.Registry) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = slog.Default()
	}
	if metrics == nil {
		metrics = metric.NewRegistry()
	}

	return &Server{
		cfg:     cfg,
		handler: NewCommandHandler(store, cfg.RateLimit, cfg.RateBurst, log, metrics),
		dec:     resp.NewDecoder(cfg.Limits),
		logger:  log,
		metrics: metrics,
		conns:   make(map[*Conn]struct{}),
	}
}

// Start binds the listener and serves connections in the background until
// Shutdown is called or ctx ends.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	s.running.Store(true)

	s.logger.Info("redis server listening", "address", ln.Addr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil && s.running.Load() {
			s.logger.Error("redis server accept error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		s.stopAccepting()
	}()
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

func (s *Server) stopAccepting() error {
	s.running.Store(false)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	err := s.ln.Close()
	if errors.Is(err, net.ErrClosed) {
		err = nil
	}
	return err
}

// Shutdown stops accepting, wakes idle connections so they exit after their
// current command, and waits for them. When ctx ends first the remaining
// connections are closed.
func (s *Server) Shutdown(ctx context.Context) error {
	firstErr := s.stopAccepting()

	s.mu.Lock()
	for c := range s.conns {
		_ = c.netConn.SetReadDeadline(time.Now())
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.mu.Lock()
		for c := range s.conns {
			_ = c.Close()
		}
		s.mu.Unlock()
		return ctx.Err()
	}

	s.logger.Info("redis server stopped")
	return firstErr
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		nc, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		c := newConn(nc)
		if !s.track(c) {
			s.metrics.ConnectionsRejected.WithLabelValues("max_conns").Inc()
			_ = nc.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			_, _ = nc.Write(resp.Encode(resp.SimpleError("ERR max number of clients reached")))
			_ = nc.Close()
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(c)
			s.serveConn(ctx, c)
		}()
	}
}

func (s *Server) track(c *Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.MaxConns > 0 && len(s.conns) >= s.cfg.MaxConns {
		return false
	}
	s.conns[c] = struct{}{}
	s.metrics.ConnOpened()
	return true
}

func (s *Server) untrack(c *Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	s.metrics.ConnClosed()
}

func (s *Server) serveConn(ctx context.Context, c *Conn) {
	defer c.Close()

	ctx = logger.WithConnID(ctx, c.id)
	ctx = logger.WithRemoteAddr(ctx, c.netConn.RemoteAddr().String())
	log := s.logger.With("conn_id", c.id, "remote", c.netConn.RemoteAddr().String())
	log.Debug("client connected")
	defer log.Debug("client disconnected")

	for {
		if !s.drain(ctx, c, log) {
			_ = s.flush(c)
			return
		}
		if err := s.flush(c); err != nil {
			log.Debug("write failed", "error", err)
			return
		}
		if c.quit {
			return
		}
		if err := s.fill(c); err != nil {
			if isTimeout(err) && c.buf.Len() > 0 {
				log.Debug("request timed out", "pending", c.buf.Len())
			} else if !isTimeout(err) && !errors.Is(err, net.ErrClosed) {
				log.Debug("read ended", "error", err)
			}
			return
		}
	}
}

// fill reads once from the socket. A connection with nothing pending waits
// up to IdleTimeout; one holding a partial request waits up to ReadTimeout.
func (s *Server) fill(c *Conn) error {
	timeout := s.cfg.IdleTimeout
	if c.buf.Len() > 0 {
		timeout = s.cfg.ReadTimeout
	}
	if timeout > 0 {
		if err := c.netConn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return err
		}
	}
	if !s.running.Load() {
		return net.ErrClosed
	}

	n, err := c.buf.Fill(c.netConn)
	if n > 0 {
		s.metrics.BytesRead.Add(float64(n))
		return nil
	}
	return err
}

func (s *Server) flush(c *Conn) error {
	if s.cfg.WriteTimeout > 0 {
		if err := c.netConn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
			return err
		}
	}
	err := c.w.Flush()
	if n := c.out.take(); n > 0 {
		s.metrics.BytesWritten.Add(float64(n))
	}
	return err
}

// drain runs every complete request in the receive buffer and queues the
// replies. It returns false when the connection must close.
func (s *Server) drain(ctx context.Context, c *Conn, log *slog.Logger) bool {
	for !c.quit {
		args, ok, err := s.next(c)
		switch {
		case err == nil && !ok:
			return true
		case err == nil:
			if len(args) == 0 {
				continue
			}
			if werr := c.w.WriteFrame(s.handler.Handle(ctx, c, args)); werr != nil {
				return false
			}
		case errors.Is(err, ErrProtocol):
			s.metrics.RecordProtocolError("not_command")
			_ = c.w.WriteFrame(resp.Errorf("ERR Protocol error: %v", err))
		case resp.IsRecoverable(err):
			s.metrics.RecordProtocolError(errorKind(err))
			log.Debug("skipping malformed frame", "error", err, "payload", logger.Preview(c.buf.Bytes(), 64))
			_ = c.w.WriteFrame(resp.Errorf("ERR Protocol error: %v", err))
			if _, serr := s.dec.Skip(&c.buf); serr != nil {
				return false
			}
		case errors.Is(err, resp.ErrLimitExceeded):
			s.metrics.RecordProtocolError(errorKind(err))
			log.Warn("protocol limit exceeded", "error", err)
			_ = c.w.WriteFrame(resp.SimpleError("ERR Protocol error: limit exceeded"))
			return false
		default:
			s.metrics.RecordProtocolError(errorKind(err))
			log.Debug("protocol error", "error", err, "payload", logger.Preview(c.buf.Bytes(), 64))
			_ = c.w.WriteFrame(resp.Errorf("ERR Protocol error: %v", err))
			return false
		}
	}
	return true
}

// next removes one request from the receive buffer. ok is false when the
// buffer does not hold a complete request yet.
func (s *Server) next(c *Conn) (args [][]byte, ok bool, err error) {
	p := c.buf.Bytes()
	if len(p) == 0 {
		return nil, false, nil
	}
	if !resp.IsMarker(p[0]) {
		return s.nextInline(c)
	}

	f, ok, err := s.dec.TryDecode(&c.buf)
	if err != nil || !ok {
		return nil, ok, err
	}
	s.metrics.RecordFrame(f.Kind().String())

	args, err = commandArgs(f)
	return args, true, err
}

// nextInline splits a whitespace separated command line.
func (s *Server) nextInline(c *Conn) ([][]byte, bool, error) {
	p := c.buf.Bytes()
	limit := s.dec.Limits().MaxLineLen

	i := bytes.IndexByte(p, '\n')
	if i < 0 {
		if limit > 0 && len(p) > limit {
			return nil, false, fmt.Errorf("%w: inline request longer than %d bytes", resp.ErrLimitExceeded, limit)
		}
		return nil, false, nil
	}
	if limit > 0 && i > limit {
		return nil, false, fmt.Errorf("%w: inline request longer than %d bytes", resp.ErrLimitExceeded, limit)
	}

	fields := bytes.Fields(p[:i])
	args := make([][]byte, len(fields))
	for j, f := range fields {
		args[j] = bytes.Clone(f)
	}
	c.buf.Advance(i + 1)
	return args, true, nil
}

// commandArgs extracts the arguments of a request array.
func commandArgs(f resp.Frame) ([][]byte, error) {
	a, ok := f.(resp.Array)
	if !ok {
		return nil, fmt.Errorf("%w: expected array, got %s", ErrProtocol, f.Kind())
	}
	if len(a) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrProtocol)
	}

	args := make([][]byte, len(a))
	for i, item := range a {
		switch v := item.(type) {
		case resp.BulkString:
			args[i] = v
		case resp.SimpleString:
			args[i] = []byte(v)
		default:
			return nil, fmt.Errorf("%w: expected bulk string argument, got %s", ErrProtocol, item.Kind())
		}
	}
	return args, nil
}

// errorKind is the metric label of a decode error.
func errorKind(err error) string {
	switch {
	case errors.Is(err, resp.ErrInvalidFrameType):
		return "invalid_frame_type"
	case errors.Is(err, resp.ErrInvalidFrameLength):
		return "invalid_frame_length"
	case errors.Is(err, resp.ErrMalformedNumber):
		return "malformed_number"
	case errors.Is(err, resp.ErrLimitExceeded):
		return "limit_exceeded"
	default:
		return "other"
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

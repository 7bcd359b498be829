package redisserver

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/respd/internal/infra/buildinfo"
	"github.com/yndnr/respd/internal/storage"
	"github.com/yndnr/respd/internal/telemetry/metric"
	"github.com/yndnr/respd/pkg/resp"
)

// Backend is the keyspace the commands operate on.
type Backend interface {
	Get(ctx context.Context, key string) (resp.Frame, error)
	Set(ctx context.Context, key string, value resp.Frame)
	Del(ctx context.Context, keys ...string) int
	Exists(ctx context.Context, keys ...string) int
	HGet(ctx context.Context, key, field string) (resp.Frame, error)
	HSet(ctx context.Context, key, field string, value resp.Frame) (bool, error)
	HGetAll(ctx context.Context, key string) (*resp.Map, error)
	HDel(ctx context.Context, key string, fields ...string) (int, error)
	HLen(ctx context.Context, key string) (int, error)
	Type(ctx context.Context, key string) string
	Flush(ctx context.Context)
	Len() int
}

// Standard replies.
const (
	errRateLimited = resp.SimpleError("ERR rate limit exceeded")
	errWrongType   = resp.SimpleError("WRONGTYPE Operation against a key holding the wrong kind of value")
	errSyntax      = resp.SimpleError("ERR syntax error")
	errNoProto     = resp.SimpleError("NOPROTO unsupported protocol version")
	errNotInteger  = resp.SimpleError("ERR Protocol version is not an integer or out of range")
)

// slowCommand is the execution time above which a command is logged.
const slowCommand = 10 * time.Millisecond

type commandFunc func(ctx context.Context, c *Conn, args [][]byte) resp.Frame

// command describes one command. Arity counts the command name; a negative
// arity -n means at least n arguments.
type command struct {
	name  string
	arity int
	run   commandFunc
}

func (cmd *command) arityOK(n int) bool {
	if cmd.arity >= 0 {
		return n == cmd.arity
	}
	return n >= -cmd.arity
}

// CommandHandler executes commands against a Backend.
type CommandHandler struct {
	store    Backend
	limiter  *ipLimiter
	logger   *slog.Logger
	metrics  *metric.Registry
	commands map[string]*command
}

// NewCommandHandler creates a CommandHandler. rateLimit is the per-IP
// commands per second; 0 disables limiting.
func NewCommandHandler(store Backend, rateLimit, rateBurst int, log *slog.Logger, metrics *metric.Registry) *CommandHandler {
	if log == nil {
		log = slog.Default()
	}
	if metrics == nil {
		metrics = metric.NewRegistry()
	}

	h := &CommandHandler{
		store:   store,
		logger:  log,
		metrics: metrics,
	}
	if rateLimit > 0 {
		h.limiter = newIPLimiter(rateLimit, rateBurst)
	}

	h.commands = make(map[string]*command)
	for _, cmd := range []*command{
		{"ping", -1, h.ping},
		{"echo", 2, h.echo},
		{"quit", -1, h.quit},
		{"hello", -1, h.hello},
		{"get", 2, h.get},
		{"set", 3, h.set},
		{"del", -2, h.del},
		{"exists", -2, h.exists},
		{"type", 2, h.typ},
		{"dbsize", 1, h.dbsize},
		{"flushdb", 1, h.flushdb},
		{"hget", 3, h.hget},
		{"hset", -4, h.hset},
		{"hgetall", 2, h.hgetall},
		{"hdel", -3, h.hdel},
		{"hlen", 2, h.hlen},
	} {
		h.commands[cmd.name] = cmd
	}
	return h
}

// Handle runs one command and returns its reply.
func (h *CommandHandler) Handle(ctx context.Context, c *Conn, args [][]byte) resp.Frame {
	if len(args) == 0 {
		return resp.SimpleError("ERR no command")
	}

	name := strings.ToLower(string(args[0]))
	cmd, ok := h.commands[name]
	if !ok {
		h.metrics.RecordCommand("unknown", "error", 0)
		return resp.Errorf("ERR unknown command '%s'", args[0])
	}

	if name != "quit" && h.limiter != nil && !h.limiter.Allow(c.ip) {
		h.metrics.RateLimited.Inc()
		return errRateLimited
	}

	if !cmd.arityOK(len(args)) {
		h.metrics.RecordCommand(name, "error", 0)
		return resp.Errorf("ERR wrong number of arguments for '%s' command", name)
	}

	start := time.Now()
	reply := cmd.run(ctx, c, args)
	elapsed := time.Since(start)

	status := "ok"
	if _, isErr := reply.(resp.SimpleError); isErr {
		status = "error"
	}
	h.metrics.RecordCommand(name, status, elapsed)
	if elapsed > slowCommand {
		h.logger.WarnContext(ctx, "slow command",
			"command", name,
			"duration", elapsed,
		)
	}
	return reply
}

// ============================================================
// Connection commands
// ============================================================

func (h *CommandHandler) ping(_ context.Context, _ *Conn, args [][]byte) resp.Frame {
	switch len(args) {
	case 1:
		return resp.SimpleString("PONG")
	case 2:
		return resp.BulkString(args[1])
	default:
		return resp.SimpleError("ERR wrong number of arguments for 'ping' command")
	}
}

func (h *CommandHandler) echo(_ context.Context, _ *Conn, args [][]byte) resp.Frame {
	return resp.BulkString(args[1])
}

func (h *CommandHandler) quit(_ context.Context, c *Conn, _ [][]byte) resp.Frame {
	c.quit = true
	return resp.OK
}

// hello switches the protocol version and describes the server.
func (h *CommandHandler) hello(_ context.Context, c *Conn, args [][]byte) resp.Frame {
	if len(args) > 2 {
		return errSyntax
	}
	if len(args) == 2 {
		v, err := strconv.Atoi(string(args[1]))
		if err != nil {
			return errNotInteger
		}
		if v != protoRESP2 && v != protoRESP3 {
			return errNoProto
		}
		c.proto = v
	}

	info := resp.NewMap()
	info.Set("server", resp.BulkFromString("respd"))
	info.Set("version", resp.BulkFromString(buildinfo.Version))
	info.Set("proto", resp.Integer(c.proto))
	info.Set("id", resp.BulkFromString(c.id))
	info.Set("mode", resp.BulkFromString("standalone"))
	info.Set("role", resp.BulkFromString("master"))
	info.Set("modules", resp.Array{})
	return mapReply(c, info)
}

// ============================================================
// String commands
// ============================================================

func (h *CommandHandler) get(ctx context.Context, c *Conn, args [][]byte) resp.Frame {
	v, err := h.store.Get(ctx, string(args[1]))
	if err != nil {
		return h.storeError(c, err)
	}
	return v
}

func (h *CommandHandler) set(ctx context.Context, _ *Conn, args [][]byte) resp.Frame {
	h.store.Set(ctx, string(args[1]), resp.BulkString(args[2]))
	return resp.OK
}

func (h *CommandHandler) del(ctx context.Context, _ *Conn, args [][]byte) resp.Frame {
	return resp.Integer(h.store.Del(ctx, keys(args[1:])...))
}

func (h *CommandHandler) exists(ctx context.Context, _ *Conn, args [][]byte) resp.Frame {
	return resp.Integer(h.store.Exists(ctx, keys(args[1:])...))
}

func (h *CommandHandler) typ(ctx context.Context, _ *Conn, args [][]byte) resp.Frame {
	return resp.SimpleString(h.store.Type(ctx, string(args[1])))
}

func (h *CommandHandler) dbsize(_ context.Context, _ *Conn, _ [][]byte) resp.Frame {
	return resp.Integer(h.store.Len())
}

func (h *CommandHandler) flushdb(ctx context.Context, _ *Conn, _ [][]byte) resp.Frame {
	h.store.Flush(ctx)
	return resp.OK
}

// ============================================================
// Hash commands
// ============================================================

func (h *CommandHandler) hget(ctx context.Context, c *Conn, args [][]byte) resp.Frame {
	v, err := h.store.HGet(ctx, string(args[1]), string(args[2]))
	if err != nil {
		return h.storeError(c, err)
	}
	return v
}

func (h *CommandHandler) hset(ctx context.Context, c *Conn, args [][]byte) resp.Frame {
	if len(args)%2 != 0 {
		return resp.SimpleError("ERR wrong number of arguments for 'hset' command")
	}
	key := string(args[1])
	created := 0
	for i := 2; i < len(args); i += 2 {
		isNew, err := h.store.HSet(ctx, key, string(args[i]), resp.BulkString(args[i+1]))
		if err != nil {
			return h.storeError(c, err)
		}
		if isNew {
			created++
		}
	}
	return resp.Integer(created)
}

func (h *CommandHandler) hgetall(ctx context.Context, c *Conn, args [][]byte) resp.Frame {
	m, err := h.store.HGetAll(ctx, string(args[1]))
	if err != nil {
		return h.storeError(c, err)
	}
	return mapReply(c, m)
}

func (h *CommandHandler) hdel(ctx context.Context, c *Conn, args [][]byte) resp.Frame {
	n, err := h.store.HDel(ctx, string(args[1]), keys(args[2:])...)
	if err != nil {
		return h.storeError(c, err)
	}
	return resp.Integer(n)
}

func (h *CommandHandler) hlen(ctx context.Context, c *Conn, args [][]byte) resp.Frame {
	n, err := h.store.HLen(ctx, string(args[1]))
	if err != nil {
		return h.storeError(c, err)
	}
	return resp.Integer(n)
}

// ============================================================
// Reply helpers
// ============================================================

func (h *CommandHandler) storeError(c *Conn, err error) resp.Frame {
	switch {
	case errors.Is(err, storage.ErrKeyNotFound):
		return nullReply(c)
	case errors.Is(err, storage.ErrWrongType):
		return errWrongType
	default:
		h.logger.Error("storage error", "conn_id", c.id, "error", err)
		return resp.Errorf("ERR %v", err)
	}
}

// nullReply is the missing-value reply for the connection's protocol.
func nullReply(c *Conn) resp.Frame {
	if c.proto == protoRESP3 {
		return resp.Null{}
	}
	return resp.NullBulkString{}
}

// mapReply sends m as a map to RESP3 clients and as a flat key/value array
// to RESP2 clients.
func mapReply(c *Conn, m *resp.Map) resp.Frame {
	if c.proto == protoRESP3 {
		return m
	}
	flat := make(resp.Array, 0, 2*m.Len())
	m.Range(func(k string, v resp.Frame) bool {
		flat = append(flat, resp.BulkFromString(k), v)
		return true
	})
	return flat
}

func keys(args [][]byte) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = string(a)
	}
	return out
}

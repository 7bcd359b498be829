package command

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/respd/internal/server/redisserver"
	"github.com/yndnr/respd/internal/storage/memory"
)

type testEnv struct {
	addr       string
	configPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("RESPD_SERVER", "")
	t.Setenv("RESPD_CLI_CONFIG", "")

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

	return &testEnv{
		addr:       srv.Addr().String(),
		configPath: filepath.Join(t.TempDir(), "cli.yaml"),
	}
}

// run executes respd-cli with the test config, stdin and the given args.
func (e *testEnv) run(stdin string, args ...string) (string, error) {
	var out bytes.Buffer
	app := App()
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.Reader = strings.NewReader(stdin)

	argv := append([]string{"respd-cli", "--config", e.configPath}, args...)
	err := app.Run(argv)
	return out.String(), err
}

// exec runs a command against the test server.
func (e *testEnv) exec(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run("", append([]string{"-s", e.addr}, args...)...)
	if err != nil {
		t.Fatalf("%v: error = %v", args, err)
	}
	return out
}

// ============================================================================
// Data commands
// ============================================================================

func TestDataCommands(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"ping"}, "PONG\n"},
		{[]string{"ping", "hi"}, "\"hi\"\n"},
		{[]string{"echo", "hello"}, "\"hello\"\n"},
		{[]string{"set", "k", "v"}, "OK\n"},
		{[]string{"get", "k"}, "\"v\"\n"},
		{[]string{"type", "k"}, "string\n"},
		{[]string{"exists", "k", "nope"}, "(integer) 1\n"},
		{[]string{"hset", "h", "a", "1", "b", "2"}, "(integer) 2\n"},
		{[]string{"hget", "h", "a"}, "\"1\"\n"},
		{[]string{"hlen", "h"}, "(integer) 2\n"},
		{[]string{"hdel", "h", "a"}, "(integer) 1\n"},
		{[]string{"dbsize"}, "(integer) 2\n"},
		{[]string{"del", "k", "h"}, "(integer) 2\n"},
		{[]string{"get", "k"}, "(nil)\n"},
	}

	for _, tt := range tests {
		if got := env.exec(t, tt.args...); got != tt.want {
			t.Errorf("%v = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestDataCommands_Usage(t *testing.T) {
	env := newTestEnv(t)

	for _, args := range [][]string{
		{"get"},
		{"get", "a", "b"},
		{"hset", "h", "f"},
		{"hset", "h", "f", "v", "g"},
		{"dbsize", "x"},
		{"exec"},
	} {
		_, err := env.run("", append([]string{"-s", env.addr}, args...)...)
		if err == nil || !strings.HasPrefix(err.Error(), "usage: ") {
			t.Errorf("%v error = %v, want usage error", args, err)
		}
	}
}

func TestExec(t *testing.T) {
	env := newTestEnv(t)

	if got := env.exec(t, "exec", "SET", "x", "1"); got != "OK\n" {
		t.Errorf("exec SET = %q", got)
	}

	out, err := env.run("", "-s", env.addr, "exec", "NOSUCH")
	var replyErr *ReplyError
	if !errors.As(err, &replyErr) {
		t.Fatalf("exec NOSUCH error = %v, want *ReplyError", err)
	}
	if !strings.HasPrefix(replyErr.Message, "ERR unknown command") {
		t.Errorf("Message = %q", replyErr.Message)
	}
	if out != "" {
		t.Errorf("output on error reply = %q", out)
	}
}

func TestOutputFormats(t *testing.T) {
	env := newTestEnv(t)
	env.exec(t, "set", "k", "v")

	if got := env.exec(t, "-o", "json", "get", "k"); got != "\"v\"\n" {
		t.Errorf("json = %q", got)
	}
	if got := env.exec(t, "-o", "yaml", "get", "k"); got != "v\n" {
		t.Errorf("yaml = %q", got)
	}
	if got := env.exec(t, "-o", "table", "exists", "k"); got != "(integer) 1\n" {
		t.Errorf("table scalar = %q", got)
	}

	if _, err := env.run("", "-s", env.addr, "-o", "xml", "get", "k"); err == nil {
		t.Error("unknown output format should fail")
	}
}

func TestConnectionRefused(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.run("", "-s", "127.0.0.1:1", "--timeout", "500ms", "ping"); err == nil {
		t.Error("ping to closed port should fail")
	}
}

// ============================================================================
// Config
// ============================================================================

func TestConfigCommands(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("", "config", "add", "local", env.addr)
	if err != nil {
		t.Fatalf("config add error = %v", err)
	}
	if !strings.Contains(out, `saved connection "local"`) {
		t.Errorf("config add output = %q", out)
	}

	// The saved name resolves to the server address.
	if got, err := env.run("", "-s", "local", "ping"); err != nil || got != "PONG\n" {
		t.Errorf("ping via saved connection = %q, %v", got, err)
	}

	out, err = env.run("", "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	for _, want := range []string{"default_server: 127.0.0.1:6379", "NAME", "local  " + env.addr} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}

	out, err = env.run("", "-o", "json", "config", "show")
	if err != nil {
		t.Fatalf("config show json error = %v", err)
	}
	if !strings.Contains(out, `"server": "`+env.addr+`"`) {
		t.Errorf("json config = %s", out)
	}

	if _, err := env.run("", "config", "remove", "local"); err != nil {
		t.Fatalf("config remove error = %v", err)
	}
	if _, err := env.run("", "config", "remove", "local"); err == nil {
		t.Error("removing a missing connection should fail")
	}
	if _, err := env.run("", "-s", "local", "ping"); err == nil {
		t.Error("removed connection name should not resolve")
	}
}

func TestConfigAdd_Invalid(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.run("", "config", "add", "x"); err == nil {
		t.Error("config add with one arg should fail")
	}
	if _, err := env.run("", "config", "add", "x", "no-port"); err == nil {
		t.Error("config add with bad address should fail")
	}
}

// ============================================================================
// REPL
// ============================================================================

func TestREPLCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("set a 1\nget a\nquit\n", "-s", env.addr, "repl", "--history", "")
	if err != nil {
		t.Fatalf("repl error = %v", err)
	}
	for _, want := range []string{env.addr + "> ", "OK\n", "\"1\"\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("repl output missing %q:\n%s", want, out)
		}
	}
}

func TestREPLCommand_Unreachable(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("ping\n", "-s", "127.0.0.1:1", "--timeout", "500ms", "repl", "--history", "")
	if err != nil {
		t.Fatalf("repl error = %v", err)
	}
	if !strings.Contains(out, "(error) not connected") {
		t.Errorf("output = %q", out)
	}
}

package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yndnr/respd/internal/cli/connection"
	"github.com/yndnr/respd/internal/cli/output"
	"github.com/yndnr/respd/pkg/resp"
)

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	formatter output.Formatter
	conns     *connection.Manager
	completer *Completer
	history   *History
}

// Option configures a REPL.
type Option func(*REPL)

// WithInput sets the input reader.
func WithInput(r io.Reader) Option {
	return func(repl *REPL) { repl.input = r }
}

// WithOutput sets the output writer.
func WithOutput(w io.Writer) Option {
	return func(repl *REPL) { repl.output = w }
}

// WithFormatter sets the reply formatter.
func WithFormatter(f output.Formatter) Option {
	return func(repl *REPL) { repl.formatter = f }
}

// WithHistory sets the history store.
func WithHistory(h *History) Option {
	return func(repl *REPL) { repl.history = h }
}

// New creates a new REPL sending commands over conns.
func New(conns *connection.Manager, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		formatter: &output.TextFormatter{},
		conns:     conns,
		completer: NewCompleter(),
		history:   NewHistory(""),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts the REPL loop. It returns nil on exit or end of input and
// saves the history on the way out.
func (r *REPL) Run(ctx context.Context) error {
	if err := r.history.Load(); err != nil {
		fmt.Fprintf(r.output, "warning: load history: %v\n", err)
	}
	defer func() {
		if err := r.history.Save(); err != nil {
			fmt.Fprintf(r.output, "warning: save history: %v\n", err)
		}
	}()

	reader := bufio.NewReader(r.input)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(r.output, r.prompt())

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := errors.Is(err, io.EOF)

		line = strings.TrimSpace(line)
		if line == "" {
			if eof {
				fmt.Fprintln(r.output)
				return nil
			}
			continue
		}

		r.history.Add(line)
		if done := r.execute(ctx, line); done || eof {
			return nil
		}
	}
}

func (r *REPL) prompt() string {
	if c := r.conns.Current(); c != nil {
		return c.Addr() + "> "
	}
	return "not connected> "
}

// execute runs one line and reports whether the session should end.
func (r *REPL) execute(ctx context.Context, line string) bool {
	args, err := Split(line)
	if err != nil {
		fmt.Fprintf(r.output, "(error) %v\n", err)
		return false
	}
	if len(args) == 0 {
		return false
	}

	switch strings.ToLower(args[0]) {
	case "exit", "quit":
		return true
	case "help":
		r.help(args[1:])
		return false
	case "history":
		for i, entry := range r.history.Entries() {
			fmt.Fprintf(r.output, "%4d  %s\n", i+1, entry)
		}
		return false
	case "connect":
		if len(args) != 2 {
			fmt.Fprintln(r.output, "(error) usage: connect host:port")
			return false
		}
		if err := r.conns.Connect(ctx, args[1]); err != nil {
			fmt.Fprintf(r.output, "(error) %v\n", err)
		}
		return false
	}

	c := r.conns.Current()
	if c == nil {
		fmt.Fprintln(r.output, "(error) not connected, use: connect host:port")
		return false
	}

	reply, err := c.Do(ctx, args...)
	if err != nil {
		fmt.Fprintf(r.output, "(error) %v\n", err)
		r.conns.Disconnect()
		return false
	}
	r.print(reply)
	return false
}

func (r *REPL) print(reply resp.Frame) {
	if err := r.formatter.Format(r.output, reply); err != nil {
		fmt.Fprintf(r.output, "(error) format reply: %v\n", err)
	}
}

func (r *REPL) help(args []string) {
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}
	matches := r.completer.Complete(prefix)
	if len(matches) == 0 {
		fmt.Fprintf(r.output, "no command matches %q\n", prefix)
		return
	}
	fmt.Fprintln(r.output, strings.Join(matches, " "))
}

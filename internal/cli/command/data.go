package command

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

// dataSpec describes a server command exposed as a subcommand. max < 0
// means no upper bound.
type dataSpec struct {
	name      string
	usage     string
	argsUsage string
	min, max  int
	even      bool // argument count must be even after the first
}

var dataSpecs = []dataSpec{
	{name: "ping", usage: "Check the server is alive", argsUsage: "[message]", min: 0, max: 1},
	{name: "echo", usage: "Echo a message", argsUsage: "message", min: 1, max: 1},
	{name: "get", usage: "Get the value of a key", argsUsage: "key", min: 1, max: 1},
	{name: "set", usage: "Set a key to a value", argsUsage: "key value", min: 2, max: 2},
	{name: "del", usage: "Delete keys", argsUsage: "key [key ...]", min: 1, max: -1},
	{name: "exists", usage: "Count existing keys", argsUsage: "key [key ...]", min: 1, max: -1},
	{name: "type", usage: "Show the type of a key", argsUsage: "key", min: 1, max: 1},
	{name: "dbsize", usage: "Count keys", min: 0, max: 0},
	{name: "hget", usage: "Get a hash field", argsUsage: "key field", min: 2, max: 2},
	{name: "hset", usage: "Set hash fields", argsUsage: "key field value [field value ...]", min: 3, max: -1, even: true},
	{name: "hgetall", usage: "Get all fields of a hash", argsUsage: "key", min: 1, max: 1},
	{name: "hdel", usage: "Delete hash fields", argsUsage: "key field [field ...]", min: 2, max: -1},
	{name: "hlen", usage: "Count hash fields", argsUsage: "key", min: 1, max: 1},
}

func dataCommands() []*cli.Command {
	cmds := make([]*cli.Command, 0, len(dataSpecs))
	for _, spec := range dataSpecs {
		cmds = append(cmds, spec.command())
	}
	return cmds
}

func (s dataSpec) command() *cli.Command {
	return &cli.Command{
		Name:      s.name,
		Usage:     s.usage,
		ArgsUsage: s.argsUsage,
		Action: func(c *cli.Context) error {
			args := c.Args().Slice()
			if err := s.check(len(args)); err != nil {
				return err
			}
			return send(c, append([]string{strings.ToUpper(s.name)}, args...)...)
		},
	}
}

func (s dataSpec) check(n int) error {
	ok := n >= s.min && (s.max < 0 || n <= s.max)
	if ok && s.even {
		ok = (n-1)%2 == 0
	}
	if !ok {
		return fmt.Errorf("usage: %s %s", s.name, s.argsUsage)
	}
	return nil
}

func execCommand() *cli.Command {
	return &cli.Command{
		Name:      "exec",
		Usage:     "Send an arbitrary command",
		ArgsUsage: "command [arg ...]",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("usage: exec command [arg ...]")
			}
			return send(c, c.Args().Slice()...)
		},
	}
}

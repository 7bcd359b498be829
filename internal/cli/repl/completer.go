package repl

import (
	"sort"
	"strings"
)

// Builtins are handled by the shell itself and never sent to the server.
var Builtins = []string{"connect", "exit", "help", "history", "quit"}

// ServerCommands are the commands respd understands.
var ServerCommands = []string{
	"DBSIZE", "DEL", "ECHO", "EXISTS", "FLUSHDB", "GET", "HDEL", "HELLO",
	"HGET", "HGETALL", "HLEN", "HSET", "PING", "QUIT", "SET", "TYPE",
}

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a new Completer.
func NewCompleter() *Completer {
	commands := make([]string, 0, len(Builtins)+len(ServerCommands))
	commands = append(commands, Builtins...)
	commands = append(commands, ServerCommands...)
	sort.Slice(commands, func(i, j int) bool {
		return strings.ToLower(commands[i]) < strings.ToLower(commands[j])
	})
	return &Completer{commands: commands}
}

// Complete returns completion suggestions for the given prefix, ignoring
// case.
func (c *Completer) Complete(prefix string) []string {
	prefix = strings.ToLower(prefix)
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(strings.ToLower(cmd), prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}

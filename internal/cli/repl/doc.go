// Package repl provides interactive mode for respd-cli.
//
//   - repl.go: main loop, built-in commands and dispatch to the server
//   - split.go: redis-cli compatible argument splitting
//   - completer.go: command name completion used by help
//   - history.go: command history persistence
package repl

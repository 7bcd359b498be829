// Package main provides the entry point for respd-cli.
//
// Usage:
//
//	respd-cli [global flags] [command] [args]
//	respd-cli -s 127.0.0.1:6379 set greeting hello
//	respd-cli -o json hgetall user:1
//	respd-cli                       # interactive mode
//
// Without a command the CLI starts an interactive session.
package main

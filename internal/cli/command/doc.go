// Package command provides CLI command definitions for respd-cli.
//
// It uses urfave/cli/v2 for command parsing and supports both
// single-command mode and interactive REPL mode. Running respd-cli without a
// subcommand starts the REPL.
package command

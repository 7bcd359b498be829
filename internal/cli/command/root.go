package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respd/internal/cli/config"
	"github.com/yndnr/respd/internal/cli/connection"
	"github.com/yndnr/respd/internal/cli/output"
	"github.com/yndnr/respd/internal/infra/buildinfo"
	"github.com/yndnr/respd/pkg/resp"
)

const metaConfig = "cliConfig"

// ReplyError is an error reply from the server.
type ReplyError struct {
	Message string
}

func (e *ReplyError) Error() string { return "(error) " + e.Message }

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:     "respd-cli",
		Usage:    "command-line client for respd",
		Version:  buildinfo.String(),
		Flags:    globalFlags(),
		Metadata: map[string]any{},
		Commands: append(dataCommands(),
			execCommand(),
			replCommand(),
			configCommand(),
		),
		Action: runREPL,
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			c.App.Metadata[metaConfig] = cfg
			return nil
		},
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "server address or saved connection name (default from config)",
			EnvVars: []string{"RESPD_SERVER"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: text, table, json, yaml (default from config)",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "dial and request timeout (default from config)",
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "CLI config file",
			EnvVars: []string{"RESPD_CLI_CONFIG"},
			Value:   config.DefaultConfigPath(),
		},
	}
}

// GlobalFlags holds the settings resolved from flags and the config file.
type GlobalFlags struct {
	Server  string
	Output  output.Format
	Timeout time.Duration
}

// ParseGlobalFlags resolves the global flags against the CLI config.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	cfg := CLIConfig(c)

	addr, err := cfg.Resolve(c.String("server"))
	if err != nil {
		return nil, err
	}

	name := cfg.DefaultOutput
	if c.IsSet("output") {
		name = c.String("output")
	}
	format, err := output.ParseFormat(name)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if c.IsSet("timeout") {
		timeout = c.Duration("timeout")
	}

	return &GlobalFlags{Server: addr, Output: format, Timeout: timeout}, nil
}

// CLIConfig retrieves the loaded config from context.
func CLIConfig(c *cli.Context) *config.CLIConfig {
	if cfg, ok := c.App.Metadata[metaConfig].(*config.CLIConfig); ok {
		return cfg
	}
	return config.Default()
}

// send runs one command and prints the reply. An error reply is returned as
// a *ReplyError after nothing has been printed.
func send(c *cli.Context, args ...string) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := connection.Dial(ctx, flags.Server, flags.Timeout)
	if err != nil {
		return err
	}
	defer client.Close()

	reply, err := client.Do(ctx, args...)
	if err != nil {
		return err
	}
	if e, ok := reply.(resp.SimpleError); ok {
		return &ReplyError{Message: string(e)}
	}
	return output.NewFormatter(flags.Output).Format(c.App.Writer, reply)
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}

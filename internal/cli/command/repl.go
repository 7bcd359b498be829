package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/respd/internal/cli/connection"
	"github.com/yndnr/respd/internal/cli/output"
	"github.com/yndnr/respd/internal/cli/repl"
)

func replCommand() *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Start an interactive session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history",
				Usage: "history file (empty disables persistence)",
				Value: repl.DefaultHistoryPath(),
			},
		},
		Action: runREPL,
	}
}

// runREPL connects to the configured server and starts the shell. A failed
// connection is reported and the shell starts disconnected.
func runREPL(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	mgr := connection.NewManager(flags.Timeout)
	defer mgr.Disconnect()
	if err := mgr.Connect(c.Context, flags.Server); err != nil {
		PrintError("%v", err)
	}

	historyFile := repl.DefaultHistoryPath()
	if c.IsSet("history") {
		historyFile = c.String("history")
	}

	shell := repl.New(mgr,
		repl.WithInput(c.App.Reader),
		repl.WithOutput(c.App.Writer),
		repl.WithFormatter(output.NewFormatter(flags.Output)),
		repl.WithHistory(repl.NewHistory(historyFile)),
	)
	return shell.Run(c.Context)
}

package command

import (
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respd/internal/cli/config"
	"github.com/yndnr/respd/internal/cli/output"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the CLI configuration",
				Action: configShow,
			},
			{
				Name:      "add",
				Usage:     "Save a named connection",
				ArgsUsage: "name host:port",
				Action:    configAdd,
			},
			{
				Name:      "remove",
				Usage:     "Remove a named connection",
				ArgsUsage: "name",
				Action:    configRemove,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	cfg := CLIConfig(c)
	format := output.Format(cfg.DefaultOutput)
	if c.IsSet("output") {
		f, err := output.ParseFormat(c.String("output"))
		if err != nil {
			return err
		}
		format = f
	}

	switch format {
	case output.FormatJSON, output.FormatYAML:
		return output.NewFormatter(format).Format(c.App.Writer, cfg)
	}

	fmt.Fprintf(c.App.Writer, "default_server: %s\n", cfg.DefaultServer)
	fmt.Fprintf(c.App.Writer, "default_output: %s\n", cfg.DefaultOutput)
	fmt.Fprintf(c.App.Writer, "timeout: %s\n", cfg.Timeout)
	if len(cfg.Connections) == 0 {
		return nil
	}

	names := make([]string, 0, len(cfg.Connections))
	for name := range cfg.Connections {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(c.App.Writer)
	tbl := &output.Table{}
	tbl.SetHeaders("NAME", "SERVER")
	for _, name := range names {
		tbl.AddRow(name, cfg.Connections[name].Server)
	}
	return tbl.Render(c.App.Writer)
}

func configAdd(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: config add name host:port")
	}
	cfg := CLIConfig(c)
	if err := cfg.AddConnection(c.Args().Get(0), c.Args().Get(1)); err != nil {
		return err
	}
	if err := config.Save(cfg, c.String("config")); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "saved connection %q\n", c.Args().Get(0))
	return nil
}

func configRemove(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: config remove name")
	}
	cfg := CLIConfig(c)
	name := c.Args().Get(0)
	if !cfg.RemoveConnection(name) {
		return fmt.Errorf("unknown connection %q", name)
	}
	if err := config.Save(cfg, c.String("config")); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "removed connection %q\n", name)
	return nil
}

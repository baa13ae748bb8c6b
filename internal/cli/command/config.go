package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvplay-go/internal/cli/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:   "sources",
				Usage:  "Show which settings the file, environment and flags override",
				Action: configSources,
			},
			{
				Name:      "validate",
				Usage:     "Validate a configuration file",
				ArgsUsage: "FILE",
				Action:    configValidate,
			},
		},
		Action: configShow,
	}
}

func configShow(c *cli.Context) error {
	s, err := GetSettings(c)
	if err != nil {
		return err
	}

	if s.ConfigPath != "" {
		fmt.Fprintf(errWriter(c), "# config file: %s\n", s.ConfigPath)
	}
	return s.Formatter().Format(writer(c), s.Config)
}

func configSources(c *cli.Context) error {
	s, err := GetSettings(c)
	if err != nil {
		return err
	}

	settings, err := config.Sources(config.LoadOptions{Path: s.ConfigPath, Flags: s.Flags})
	if err != nil {
		return err
	}
	if len(settings) == 0 {
		fmt.Fprintln(writer(c), "(all defaults)")
		return nil
	}
	return s.Formatter().Format(writer(c), settings)
}

func configValidate(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: kvplay config validate FILE", 2)
	}
	path := c.Args().First()

	if _, _, err := config.Load(config.LoadOptions{Path: path, Strict: true}); err != nil {
		return cli.Exit(fmt.Sprintf("%s: %v", path, err), 1)
	}
	fmt.Fprintf(writer(c), "%s: configuration is valid\n", path)
	return nil
}

package command

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvplay-go/internal/core/service"
)

// CommandsCommand returns the command listing command.
func CommandsCommand() *cli.Command {
	return &cli.Command{
		Name:  "commands",
		Usage: "List the commands the playground understands",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "group",
				Usage: "Only list commands of `GROUP` (keyspace, string, list, set, hash, server)",
			},
		},
		Action: listCommands,
	}
}

func listCommands(c *cli.Context) error {
	s, err := GetSettings(c)
	if err != nil {
		return err
	}

	all := service.Commands()
	group := strings.ToLower(c.String("group"))
	if group != "" {
		filtered := all[:0]
		for _, cmd := range all {
			if cmd.Group == group {
				filtered = append(filtered, cmd)
			}
		}
		if len(filtered) == 0 {
			return cli.Exit("no commands in group "+group, 1)
		}
		all = filtered
	}

	return s.Formatter().Format(writer(c), all)
}

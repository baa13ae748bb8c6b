package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvplay-go/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(c *cli.Context) error {
			s, err := GetSettings(c)
			if err != nil {
				return err
			}
			return s.Formatter().Format(writer(c), buildinfo.Get())
		},
	}
}

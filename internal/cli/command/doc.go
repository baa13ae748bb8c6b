// Package command provides the kvplay command-line application.
//
// It uses urfave/cli/v2. Without a subcommand kvplay starts the
// interactive console; exec runs command lines non-interactively.
package command

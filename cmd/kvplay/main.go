// Package main provides the entry point for kvplay.
//
// kvplay is an interactive playground for a Redis-like command language:
//
//	kvplay                         start the console
//	kvplay exec "SET a 1" "GET a"  run lines against a fresh store
//	kvplay -o json commands        list the supported commands
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/kvplay-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

package repl

import (
	"strings"

	"github.com/yndnr/kvplay-go/internal/core/service"
)

// metaCommands are handled by the console rather than the interpreter.
var metaCommands = []string{"help", "exit", "quit", "clear", ":dump", ":history", ":stats"}

// Completer provides command completion for the REPL.
type Completer struct {
	commands []service.Command
	meta     []string
}

// NewCompleter creates a new Completer over the interpreter's command table.
func NewCompleter() *Completer {
	return &Completer{
		commands: service.Commands(),
		meta:     metaCommands,
	}
}

// Complete returns the command names starting with prefix, ignoring case.
// Interpreter commands come first, in upper case, followed by meta commands.
func (c *Completer) Complete(prefix string) []string {
	upper := strings.ToUpper(prefix)
	lower := strings.ToLower(prefix)

	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd.Name, upper) {
			suggestions = append(suggestions, cmd.Name)
		}
	}
	for _, m := range c.meta {
		if strings.HasPrefix(m, lower) {
			suggestions = append(suggestions, m)
		}
	}
	return suggestions
}

// Hints returns "NAME usage" lines for the interpreter commands starting
// with prefix.
func (c *Completer) Hints(prefix string) []string {
	upper := strings.ToUpper(prefix)

	var hints []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd.Name, upper) {
			hints = append(hints, cmd.Synopsis())
		}
	}
	return hints
}

package service

import (
	"errors"
	"strings"
	"time"

	"github.com/yndnr/kvplay-go/internal/core/domain"
	"github.com/yndnr/kvplay-go/internal/infra/buildinfo"
	"github.com/yndnr/kvplay-go/internal/protocol/resp"
)

// ServerInfo is the static part of the INFO reply.
type ServerInfo struct {
	Version string
	Mode    string
	Port    int
}

// Interpreter executes command lines against store snapshots.
//
// Interpreter holds no store state. Every call receives the caller's snapshot
// and returns a new one when something changed, so one Interpreter may be
// shared freely.
type Interpreter struct {
	info ServerInfo
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithServerInfo overrides the server section of INFO.
func WithServerInfo(info ServerInfo) Option {
	return func(i *Interpreter) {
		i.info = info
	}
}

// New creates an Interpreter.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		info: ServerInfo{
			Version: buildinfo.Version,
			Mode:    "playground",
			Port:    6379,
		},
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Result is the outcome of one command.
type Result struct {
	// Command is the uppercase command name, or empty when the line had none.
	Command string
	// Reply is the structured reply.
	Reply resp.Reply
	// Text is the redis-cli rendering of Reply.
	Text string
	// Store is the new snapshot, or nil when the store did not change.
	Store *domain.Store
	// Err is the domain error behind a failed reply.
	Err error
}

// Changed reports whether the command produced a new store.
func (r Result) Changed() bool {
	return r.Store != nil
}

// Failed reports whether the reply is an error.
func (r Result) Failed() bool {
	return r.Reply.IsError()
}

// Execute parses line and runs it against store at now.
// The line is split on whitespace; the first token names the command.
func (i *Interpreter) Execute(line string, store *domain.Store, now time.Time) Result {
	return i.ExecuteArgs(strings.Fields(line), store, now)
}

// ExecuteArgs runs a command given as pre-split arguments.
func (i *Interpreter) ExecuteArgs(args []string, store *domain.Store, now time.Time) Result {
	if len(args) == 0 {
		return failure("", domain.ErrNoCommand)
	}

	name := normalizeCommandName([]byte(args[0]))
	cmd, ok := commands[name]
	if !ok {
		return failure(name, domain.UnknownCommandError(args[0]))
	}

	lower := strings.ToLower(name)
	if !cmd.acceptsArgs(len(args) - 1) {
		return failure(name, domain.ArityError(lower))
	}

	reply, next, err := cmd.handler(&call{
		name:  lower,
		args:  args[1:],
		store: store,
		now:   now,
		info:  i.info,
	})
	if err != nil {
		return failure(name, err)
	}
	return Result{
		Command: name,
		Reply:   reply,
		Text:    resp.Render(reply),
		Store:   next,
	}
}

func failure(name string, err error) Result {
	reply := errorReply(err)
	return Result{
		Command: name,
		Reply:   reply,
		Text:    resp.Render(reply),
		Err:     err,
	}
}

// errorReply converts an error to an error reply. Domain errors carry their
// own prefix; anything else is reported as a generic ERR.
func errorReply(err error) resp.Reply {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return resp.Err(de.ReplyText())
	}
	return resp.Err("ERR " + err.Error())
}

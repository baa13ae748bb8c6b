package service

import (
	"bytes"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/kvplay-go/internal/core/domain"
	"github.com/yndnr/kvplay-go/internal/protocol/resp"
)

// Command groups, as shown by help.
const (
	GroupKeyspace = "keyspace"
	GroupString   = "string"
	GroupList     = "list"
	GroupSet      = "set"
	GroupHash     = "hash"
	GroupServer   = "server"
)

// Command describes one entry of the dispatch table.
type Command struct {
	// Name is the uppercase command name.
	Name string `json:"name" yaml:"name"`
	// Usage is the argument hint shown after the name, e.g. "key value".
	Usage string `json:"usage" yaml:"usage"`
	// Group is the value type or area the command belongs to.
	Group string `json:"group" yaml:"group"`
	// Summary is a one-line description.
	Summary string `json:"summary" yaml:"summary"`
	// MinArgs is the minimum number of arguments after the name.
	MinArgs int `json:"-" yaml:"-"`
	// MaxArgs is the maximum number of arguments, or -1 when variadic.
	MaxArgs int `json:"-" yaml:"-"`
	// Write is true for commands that may change the store.
	Write bool `json:"write" yaml:"write"`

	handler handlerFunc
}

// Synopsis returns "NAME usage".
func (c Command) Synopsis() string {
	if c.Usage == "" {
		return c.Name
	}
	return c.Name + " " + c.Usage
}

func (c Command) acceptsArgs(n int) bool {
	if n < c.MinArgs {
		return false
	}
	return c.MaxArgs < 0 || n <= c.MaxArgs
}

// handlerFunc executes a command whose arity has been checked. A nil store
// in the return means the store did not change.
type handlerFunc func(c *call) (resp.Reply, *domain.Store, error)

// call carries the inputs of one command execution.
type call struct {
	name  string // lowercase command name, used in error replies
	args  []string
	store *domain.Store
	now   time.Time
	info  ServerInfo
}

// lookup returns the live entry for key.
func (c *call) lookup(key string) (domain.Entry, bool) {
	return c.store.Lookup(key, c.now)
}

// lookupAs returns the live entry for key and its value as T. found is false
// when the key is absent; a key of another kind yields domain.ErrWrongType.
func lookupAs[T domain.Value](c *call, key string) (v T, e domain.Entry, found bool, err error) {
	e, found = c.lookup(key)
	if !found {
		return v, e, false, nil
	}
	v, ok := e.Value.(T)
	if !ok {
		return v, e, true, domain.ErrWrongType
	}
	return v, e, true, nil
}

// parseInt parses an integer argument.
func parseInt(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, domain.ErrNotInteger.WithCause(err)
	}
	return n, nil
}

// commandTable lists every supported command.
func commandTable() []*Command {
	return []*Command{
		// Keyspace
		{Name: "DEL", Usage: "key [key ...]", Group: GroupKeyspace, Summary: "Delete keys", MinArgs: 1, MaxArgs: -1, Write: true, handler: handleDel},
		{Name: "EXISTS", Usage: "key [key ...]", Group: GroupKeyspace, Summary: "Count existing keys", MinArgs: 1, MaxArgs: -1, handler: handleExists},
		{Name: "EXPIRE", Usage: "key seconds", Group: GroupKeyspace, Summary: "Set a key's time to live in seconds", MinArgs: 2, MaxArgs: 2, Write: true, handler: handleExpire},
		{Name: "TTL", Usage: "key", Group: GroupKeyspace, Summary: "Get the remaining time to live of a key", MinArgs: 1, MaxArgs: 1, handler: handleTTL},
		{Name: "PERSIST", Usage: "key", Group: GroupKeyspace, Summary: "Remove the expiration from a key", MinArgs: 1, MaxArgs: 1, Write: true, handler: handlePersist},
		{Name: "KEYS", Usage: "pattern", Group: GroupKeyspace, Summary: "Find all keys matching a glob pattern", MinArgs: 1, MaxArgs: 1, handler: handleKeys},
		{Name: "TYPE", Usage: "key", Group: GroupKeyspace, Summary: "Determine the type stored at key", MinArgs: 1, MaxArgs: 1, handler: handleType},

		// String
		{Name: "SET", Usage: "key value [EX seconds|PX milliseconds] [NX|XX]", Group: GroupString, Summary: "Set the string value of a key", MinArgs: 2, MaxArgs: -1, Write: true, handler: handleSet},
		{Name: "GET", Usage: "key", Group: GroupString, Summary: "Get the string value of a key", MinArgs: 1, MaxArgs: 1, handler: handleGet},

		// List
		{Name: "LPUSH", Usage: "key value [value ...]", Group: GroupList, Summary: "Prepend values to a list", MinArgs: 2, MaxArgs: -1, Write: true, handler: handleLPush},
		{Name: "RPUSH", Usage: "key value [value ...]", Group: GroupList, Summary: "Append values to a list", MinArgs: 2, MaxArgs: -1, Write: true, handler: handleRPush},
		{Name: "LPOP", Usage: "key", Group: GroupList, Summary: "Remove and get the first element of a list", MinArgs: 1, MaxArgs: 1, Write: true, handler: handleLPop},
		{Name: "LRANGE", Usage: "key start stop", Group: GroupList, Summary: "Get a range of elements from a list", MinArgs: 3, MaxArgs: 3, handler: handleLRange},

		// Set
		{Name: "SADD", Usage: "key member [member ...]", Group: GroupSet, Summary: "Add members to a set", MinArgs: 2, MaxArgs: -1, Write: true, handler: handleSAdd},
		{Name: "SMEMBERS", Usage: "key", Group: GroupSet, Summary: "Get all the members of a set", MinArgs: 1, MaxArgs: 1, handler: handleSMembers},
		{Name: "SISMEMBER", Usage: "key member", Group: GroupSet, Summary: "Determine if a value is a member of a set", MinArgs: 2, MaxArgs: 2, handler: handleSIsMember},

		// Hash
		{Name: "HSET", Usage: "key field value [field value ...]", Group: GroupHash, Summary: "Set the value of hash fields", MinArgs: 3, MaxArgs: -1, Write: true, handler: handleHSet},
		{Name: "HGET", Usage: "key field", Group: GroupHash, Summary: "Get the value of a hash field", MinArgs: 2, MaxArgs: 2, handler: handleHGet},
		{Name: "HGETALL", Usage: "key", Group: GroupHash, Summary: "Get all the fields and values in a hash", MinArgs: 1, MaxArgs: 1, handler: handleHGetAll},

		// Server
		{Name: "INFO", Usage: "[section]", Group: GroupServer, Summary: "Get information about the store", MinArgs: 0, MaxArgs: 1, handler: handleInfo},
		{Name: "FLUSHALL", Usage: "", Group: GroupServer, Summary: "Remove all keys", MinArgs: 0, MaxArgs: 0, Write: true, handler: handleFlushAll},
		{Name: "PING", Usage: "[message]", Group: GroupServer, Summary: "Ping the store", MinArgs: 0, MaxArgs: 1, handler: handlePing},
	}
}

var (
	commands     = indexCommands(commandTable())
	commandNames = sortedNames(commands)
)

func indexCommands(table []*Command) map[string]*Command {
	m := make(map[string]*Command, len(table))
	for _, c := range table {
		m[c.Name] = c
	}
	return m
}

func sortedNames(m map[string]*Command) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Commands returns the command table sorted by name.
func Commands() []Command {
	out := make([]Command, 0, len(commandNames))
	for _, name := range commandNames {
		out = append(out, *commands[name])
	}
	return out
}

// LookupCommand finds a command by name, case-insensitively.
func LookupCommand(name string) (Command, bool) {
	c, ok := commands[normalizeCommandName([]byte(name))]
	if !ok {
		return Command{}, false
	}
	return *c, true
}

func normalizeCommandName(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	// Uppercase ASCII without allocating for already uppercased tokens.
	if bytes.ContainsAny(b, "abcdefghijklmnopqrstuvwxyz") {
		return strings.ToUpper(string(b))
	}
	return string(b)
}

package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/yndnr/kvplay-go/internal/cli/output"
	"github.com/yndnr/kvplay-go/internal/core/domain"
	"github.com/yndnr/kvplay-go/internal/core/service"
	"github.com/yndnr/kvplay-go/internal/infra/buildinfo"
	"github.com/yndnr/kvplay-go/internal/protocol/resp"
	"github.com/yndnr/kvplay-go/internal/telemetry/logger"
	"github.com/yndnr/kvplay-go/internal/telemetry/metric"
)

// DefaultPrompt mimics redis-cli connected to a local server.
const DefaultPrompt = "127.0.0.1:6379> "

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	completer *Completer
	history   *History
	interp    *service.Interpreter
	metrics   *metric.Registry
	logger    logger.Logger
	clock     func() time.Time

	prompt        string
	banner        bool
	sweepInterval time.Duration
	dumpFormat    output.Format

	mu    sync.Mutex
	store *domain.Store
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithPrompt sets the prompt printed before each line.
func WithPrompt(prompt string) Option {
	return func(r *REPL) {
		r.prompt = prompt
	}
}

// WithBanner enables or disables the welcome lines.
func WithBanner(enabled bool) Option {
	return func(r *REPL) {
		r.banner = enabled
	}
}

// WithHistory sets the input history.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metric.Registry) Option {
	return func(r *REPL) {
		r.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *REPL) {
		r.logger = l
	}
}

// WithSweepInterval sets the period of the expiration sweep. Zero or less
// disables the background sweep; expired keys are still invisible to reads.
func WithSweepInterval(d time.Duration) Option {
	return func(r *REPL) {
		r.sweepInterval = d
	}
}

// WithDumpFormat sets the default format of :dump.
func WithDumpFormat(f output.Format) Option {
	return func(r *REPL) {
		r.dumpFormat = f
	}
}

// WithClock sets the time source.
func WithClock(clock func() time.Time) Option {
	return func(r *REPL) {
		r.clock = clock
	}
}

// WithStore sets the initial store.
func WithStore(s *domain.Store) Option {
	return func(r *REPL) {
		r.store = s
	}
}

// New creates a new REPL instance.
func New(opts ...Option) *REPL {
	r := &REPL{
		input:         os.Stdin,
		output:        os.Stdout,
		completer:     NewCompleter(),
		interp:        service.New(),
		logger:        logger.Discard(),
		clock:         time.Now,
		prompt:        DefaultPrompt,
		banner:        true,
		sweepInterval: 100 * time.Millisecond,
		dumpFormat:    output.FormatTable,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.history == nil {
		r.history = NewHistory("", DefaultHistorySize)
	}
	if r.metrics == nil {
		r.metrics = metric.NewRegistry()
	}
	if err := r.metrics.Register(metric.NewStoreCollector(r.Store, r.clock)); err != nil {
		r.logger.Warn("store collector not registered", "error", err)
	}
	return r
}

// Store returns the current store snapshot.
func (r *REPL) Store() *domain.Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store
}

// History returns the input history.
func (r *REPL) History() *History {
	return r.history
}

// Run starts the REPL loop. It returns nil on exit, quit, end of input or
// when ctx is cancelled. History is saved on return.
func (r *REPL) Run(ctx context.Context) error {
	sessionID, err := NewSessionID(r.clock())
	if err != nil {
		return err
	}
	ctx = logger.WithSessionID(logger.WithLogger(ctx, r.logger.Named("console")), sessionID)
	log := logger.L(ctx)

	if err := r.history.Load(); err != nil {
		log.Warn("history not loaded", "error", err)
	}
	defer func() {
		if err := r.history.Save(); err != nil {
			log.Warn("history not saved", "error", err)
		}
	}()

	if r.banner {
		fmt.Fprintf(r.output, "Welcome to kvplay %s\n", buildinfo.Version)
		fmt.Fprintln(r.output, "Connected to localhost:6379")
	}
	log.Debug("console started")

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	if r.sweepInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.sweepLoop(ctx)
		}()
	}

	lines, readErr := r.readLines(ctx)
	for {
		fmt.Fprint(r.output, r.prompt)

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.output)
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(r.output)
			if err := <-readErr; err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return nil
		}

		r.history.Add(line)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if r.handle(ctx, line) {
			return nil
		}
	}
}

// readLines scans input in a goroutine so that Run can also watch ctx.
func (r *REPL) readLines(ctx context.Context) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.input)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

// handle processes one non-empty line and reports whether the console
// should exit.
func (r *REPL) handle(ctx context.Context, line string) bool {
	if prefix, ok := strings.CutSuffix(line, "?"); ok {
		r.printHints(strings.TrimSpace(prefix))
		return false
	}

	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "exit", "quit":
		return true
	case "help":
		r.printHelp(fields[1:])
	case "clear":
		r.clear(ctx)
	case ":dump":
		r.dump(fields[1:])
	case ":history":
		r.printHistory(fields[1:])
	case ":stats":
		r.printStats()
	default:
		r.execute(ctx, line)
	}
	return false
}

// Execute runs one command line against the current store, adopts the new
// store if the command changed it and records the outcome.
func (r *REPL) Execute(ctx context.Context, line string) service.Result {
	start := time.Now()

	r.mu.Lock()
	res := r.interp.Execute(line, r.store, r.clock())
	if res.Changed() {
		r.store = res.Store
	}
	r.mu.Unlock()

	d := time.Since(start)
	r.metrics.ObserveCommand(res.Command, res.Err, d)
	if log := logger.L(ctx); log.Enabled(slog.LevelDebug) {
		log.Debug("command executed",
			"command", res.Command,
			"failed", res.Failed(),
			"changed", res.Changed(),
			"duration", d,
		)
	}
	return res
}

func (r *REPL) execute(ctx context.Context, line string) {
	res := r.Execute(ctx, line)
	fmt.Fprintln(r.output, res.Text)

	if errors.Is(res.Err, domain.ErrWrongArity) {
		if cmd, ok := service.LookupCommand(res.Command); ok {
			fmt.Fprintf(r.output, "Usage: %s\n", cmd.Synopsis())
		}
	}
}

// Sweep removes expired keys from the current store and returns how many
// were removed.
func (r *REPL) Sweep(ctx context.Context) int {
	r.mu.Lock()
	next, n := service.SweepCount(r.store, r.clock())
	if n > 0 {
		r.store = next
	}
	r.mu.Unlock()

	if n > 0 {
		r.metrics.ObserveSweep(n)
		logger.L(ctx).Info("expired keys swept", "expired", n)
	}
	return n
}

func (r *REPL) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

func (r *REPL) clear(ctx context.Context) {
	r.mu.Lock()
	n := r.store.Len()
	r.store = nil
	r.mu.Unlock()

	logger.L(ctx).Debug("store cleared", "keys", n)
	fmt.Fprintln(r.output, "OK")
}

func (r *REPL) dump(args []string) {
	format := r.dumpFormat
	if len(args) > 0 {
		f, err := output.ParseFormat(args[0])
		if err != nil {
			fmt.Fprintf(r.output, "%s ERR %v\n", resp.ErrorMarker, err)
			return
		}
		format = f
	}

	views := service.Snapshot(r.Store(), r.clock())
	if len(views) == 0 && format == output.FormatTable {
		fmt.Fprintln(r.output, "(empty store)")
		return
	}
	if err := output.NewFormatter(format, false).Format(r.output, views); err != nil {
		fmt.Fprintf(r.output, "%s ERR %v\n", resp.ErrorMarker, err)
	}
}

func (r *REPL) printStats() {
	summary, err := r.metrics.Summary()
	if err != nil {
		fmt.Fprintf(r.output, "%s ERR %v\n", resp.ErrorMarker, err)
		return
	}
	if err := output.NewFormatter(r.dumpFormat, false).Format(r.output, summary); err != nil {
		fmt.Fprintf(r.output, "%s ERR %v\n", resp.ErrorMarker, err)
	}
}

func (r *REPL) printHistory(args []string) {
	pattern := ""
	if len(args) > 0 {
		pattern = strings.Join(args, " ")
	}
	for _, e := range r.history.Search(pattern) {
		fmt.Fprintf(r.output, "%5d  %s\n", e.Index, e.Line)
	}
}

func (r *REPL) printHints(prefix string) {
	hints := r.completer.Hints(prefix)
	if len(hints) == 0 {
		fmt.Fprintf(r.output, "No commands start with %q\n", prefix)
		return
	}
	for _, h := range hints {
		fmt.Fprintln(r.output, h)
	}
}

func (r *REPL) printHelp(args []string) {
	if len(args) > 0 {
		cmd, ok := service.LookupCommand(args[0])
		if !ok {
			fmt.Fprintf(r.output, "No help for '%s'\n", args[0])
			return
		}
		fmt.Fprintf(r.output, "\n  %s\n  summary: %s\n  group: %s\n\n", cmd.Synopsis(), cmd.Summary, cmd.Group)
		return
	}

	fmt.Fprintf(r.output, "kvplay %s\n", buildinfo.Version)
	fmt.Fprintln(r.output, `Type a command, "help <command>" for its usage, or "exit" to quit.`)
	fmt.Fprintln(r.output, `End a line with "?" to list matching commands.`)

	group := ""
	for _, cmd := range commandsByGroup() {
		if cmd.Group != group {
			group = cmd.Group
			fmt.Fprintf(r.output, "\n# %s\n", group)
		}
		fmt.Fprintf(r.output, "  %s\n", cmd.Synopsis())
	}
	fmt.Fprintln(r.output, "\n# console")
	fmt.Fprintln(r.output, "  clear")
	fmt.Fprintln(r.output, "  :dump [table|json|yaml]")
	fmt.Fprintln(r.output, "  :history [glob]")
	fmt.Fprintln(r.output, "  :stats")
}

var groupOrder = []string{
	service.GroupKeyspace,
	service.GroupString,
	service.GroupList,
	service.GroupSet,
	service.GroupHash,
	service.GroupServer,
}

func commandsByGroup() []service.Command {
	all := service.Commands()
	out := make([]service.Command, 0, len(all))
	for _, g := range groupOrder {
		for _, cmd := range all {
			if cmd.Group == g {
				out = append(out, cmd)
			}
		}
	}
	return out
}

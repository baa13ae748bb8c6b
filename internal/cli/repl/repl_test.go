package repl

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/kvplay-go/internal/cli/output"
	"github.com/yndnr/kvplay-go/internal/telemetry/metric"
)

var t0 = time.UnixMilli(1_700_000_000_000)

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestREPL(input string, opts ...Option) (*REPL, *bytes.Buffer) {
	out := &bytes.Buffer{}
	clock := &fakeClock{now: t0}
	base := []Option{
		WithIO(strings.NewReader(input), out),
		WithBanner(false),
		WithSweepInterval(0),
		WithClock(clock.Now),
	}
	return New(append(base, opts...)...), out
}

func TestNew(t *testing.T) {
	r := New()
	if r == nil {
		t.Fatal("New returned nil")
	}
	if r.completer == nil {
		t.Error("completer should be initialized")
	}
	if r.history == nil {
		t.Error("history should be initialized")
	}
	if r.metrics == nil {
		t.Error("metrics should be initialized")
	}
	if r.prompt != DefaultPrompt {
		t.Errorf("prompt = %q, want %q", r.prompt, DefaultPrompt)
	}
}

func TestREPL_Run_Exit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exit command", "exit\n"},
		{"quit command", "quit\n"},
		{"upper case", "EXIT\n"},
		{"EOF", ""}, // No newline, simulates Ctrl+D
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestREPL(tt.input + "SET after exit\n")
			if err := r.Run(context.Background()); err != nil {
				t.Errorf("Run() returned error: %v", err)
			}
			if tt.input != "" && r.Store().Len() != 0 {
				t.Error("lines after exit should not run")
			}
		})
	}
}

func TestREPL_Run_EmptyLines(t *testing.T) {
	r, out := newTestREPL("\n\n\nexit\n")
	if err := r.Run(context.Background()); err != nil {
		t.Errorf("Run() returned error: %v", err)
	}

	// One prompt per line read
	if prompts := strings.Count(out.String(), DefaultPrompt); prompts != 4 {
		t.Errorf("expected 4 prompts, got %d", prompts)
	}
}

func TestREPL_Run_Banner(t *testing.T) {
	r, out := newTestREPL("", WithBanner(true))
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "Welcome to kvplay ") {
		t.Errorf("output = %q, want banner", out.String())
	}
	if !strings.Contains(out.String(), "Connected to localhost:6379\n") {
		t.Errorf("output = %q, want connected line", out.String())
	}
}

func TestREPL_Run_Commands(t *testing.T) {
	r, out := newTestREPL("SET k v\nGET k\nLPUSH k x\nGET missing\n")
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{
		"OK",
		`"v"`,
		"(error) WRONGTYPE Operation against a key holding the wrong kind of value",
		"(nil)",
	}
	got := out.String()
	for _, w := range want {
		if !strings.Contains(got, w+"\n") {
			t.Errorf("output missing %q:\n%s", w, got)
		}
	}
	if r.Store().Len() != 1 {
		t.Errorf("store Len() = %d, want 1", r.Store().Len())
	}
}

func TestREPL_Run_UsageHint(t *testing.T) {
	r, out := newTestREPL("GET\n")
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "(error) ERR wrong number of arguments for 'get' command\n") {
		t.Errorf("output = %q, want arity error", got)
	}
	if !strings.Contains(got, "Usage: GET key\n") {
		t.Errorf("output = %q, want usage hint", got)
	}
}

func TestREPL_Run_Hints(t *testing.T) {
	r, out := newTestREPL("LP?\nzz?\n")
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "LPOP key\n") || !strings.Contains(got, "LPUSH key value [value ...]\n") {
		t.Errorf("output = %q, want LP* hints", got)
	}
	if !strings.Contains(got, `No commands start with "zz"`) {
		t.Errorf("output = %q, want no-match message", got)
	}
}

func TestREPL_Run_HistoryAdded(t *testing.T) {
	history := NewHistory("", 10)
	r, _ := newTestREPL("PING\nPING\nSET a 1\nexit\n", WithHistory(history))

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Repeated lines collapse; exit is recorded too
	want := []string{"PING", "SET a 1", "exit"}
	got := history.Entries()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("history = %q, want %q", got, want)
	}
}

func TestREPL_Run_HistoryPersisted(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "history")

	r, _ := newTestREPL("SET a 1\n", WithHistory(NewHistory(file, 10)))
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	h := NewHistory(file, 10)
	r2, out := newTestREPL(":history\n", WithHistory(h))
	if err := r2.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "    1  SET a 1\n") {
		t.Errorf("output = %q, want loaded history", out.String())
	}
}

func TestREPL_Clear(t *testing.T) {
	r, out := newTestREPL("SET a 1\nSET b 2\nclear\nKEYS *\n")
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if r.Store().Len() != 0 {
		t.Errorf("store Len() = %d, want 0", r.Store().Len())
	}
	if !strings.Contains(out.String(), "(empty array)") {
		t.Errorf("output = %q, want empty KEYS reply", out.String())
	}
}

func TestREPL_Dump(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		r, out := newTestREPL("SET a 1\nRPUSH l x y\n:dump\n")
		if err := r.Run(context.Background()); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		got := out.String()
		if !strings.Contains(got, "KEY") || !strings.Contains(got, "[x, y]") {
			t.Errorf("output = %q, want table dump", got)
		}
	})

	t.Run("json", func(t *testing.T) {
		r, out := newTestREPL("", WithStore(nil))
		r.Execute(context.Background(), "HSET h f v")
		out.Reset()
		r.dump([]string{"json"})

		var views []map[string]any
		if err := json.Unmarshal(out.Bytes(), &views); err != nil {
			t.Fatalf("dump is not JSON: %v\n%s", err, out.String())
		}
		if len(views) != 1 || views[0]["key"] != "h" || views[0]["type"] != "hash" {
			t.Errorf("views = %v", views)
		}
	})

	t.Run("empty", func(t *testing.T) {
		r, out := newTestREPL(":dump\n")
		if err := r.Run(context.Background()); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if !strings.Contains(out.String(), "(empty store)") {
			t.Errorf("output = %q", out.String())
		}
	})

	t.Run("bad format", func(t *testing.T) {
		r, out := newTestREPL(":dump csv\n")
		if err := r.Run(context.Background()); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if !strings.Contains(out.String(), "(error) ERR unknown output format") {
			t.Errorf("output = %q", out.String())
		}
	})
}

func TestREPL_Stats(t *testing.T) {
	r, out := newTestREPL("SET a 1\nGET a\nGET\n:stats\n", WithDumpFormat(output.FormatJSON))
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := out.String()
	start := strings.Index(got, "{")
	end := strings.LastIndex(got, "}")
	if start < 0 || end < start {
		t.Fatalf("no JSON in output %q", got)
	}

	var stats struct {
		Commands float64 `json:"commands"`
		Errors   float64 `json:"errors"`
		Keys     float64 `json:"keys"`
	}
	if err := json.Unmarshal([]byte(got[start:end+1]), &stats); err != nil {
		t.Fatalf("stats are not JSON: %v", err)
	}
	if stats.Commands != 3 || stats.Errors != 1 || stats.Keys != 1 {
		t.Errorf("stats = %+v, want 3 commands, 1 error, 1 key", stats)
	}
}

func TestREPL_UnknownCommandsShareLabel(t *testing.T) {
	reg := metric.NewRegistry()
	r, out := newTestREPL("\xff\nFOO1\nfoo2\nBAR x\nSET a 1\n", WithMetrics(reg))
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if n := strings.Count(out.String(), "(error) ERR unknown command"); n != 4 {
		t.Errorf("got %d unknown command replies, want 4:\n%s", n, out.String())
	}

	s, err := reg.Summary()
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if len(s.ByCommand) != 2 || s.ByCommand[metric.CommandUnknown] != 4 || s.ByCommand["SET"] != 1 {
		t.Errorf("ByCommand = %v", s.ByCommand)
	}
}

func TestREPL_Help(t *testing.T) {
	r, out := newTestREPL("help\nhelp set\nhelp nope\n")
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{"# keyspace", "# hash", "# console", "  summary: ", "No help for 'nope'"} {
		if !strings.Contains(got, want) {
			t.Errorf("help output missing %q", want)
		}
	}
	if !strings.Contains(got, "  SET key value") {
		t.Errorf("help set output = %q", got)
	}
}

func TestREPL_Sweep(t *testing.T) {
	clock := &fakeClock{now: t0}
	r, _ := newTestREPL("", WithClock(clock.Now))
	ctx := context.Background()

	r.Execute(ctx, "SET a 1")
	r.Execute(ctx, "EXPIRE a 1")
	r.Execute(ctx, "SET b 2")

	clock.Advance(500 * time.Millisecond)
	if n := r.Sweep(ctx); n != 0 {
		t.Errorf("Sweep() at +500ms removed %d, want 0", n)
	}

	clock.Advance(501 * time.Millisecond)
	if n := r.Sweep(ctx); n != 1 {
		t.Errorf("Sweep() at +1001ms removed %d, want 1", n)
	}
	if r.Store().Len() != 1 {
		t.Errorf("store Len() = %d, want 1", r.Store().Len())
	}

	summary, err := r.metrics.Summary()
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.KeysExpired != 1 {
		t.Errorf("KeysExpired = %v, want 1", summary.KeysExpired)
	}
}

func TestREPL_SweepLoop(t *testing.T) {
	clock := &fakeClock{now: t0}
	r, _ := newTestREPL("", WithClock(clock.Now), WithSweepInterval(10*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r.Execute(ctx, "SET a 1 PX 5")
	clock.Advance(time.Second)

	go r.sweepLoop(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for r.Store().Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("sweep loop did not remove the expired key")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestREPL_Run_Cancel(t *testing.T) {
	// A reader that never returns keeps Run waiting for input.
	pr, pw := newBlockingReader()
	defer pw()

	out := &bytes.Buffer{}
	r := New(WithIO(pr, out), WithBanner(false), WithSweepInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestNewSessionID(t *testing.T) {
	a, err := NewSessionID(t0)
	if err != nil {
		t.Fatalf("NewSessionID() error = %v", err)
	}
	b, _ := NewSessionID(t0)

	if !strings.HasPrefix(a, SessionIDPrefix) || len(a) != len(SessionIDPrefix)+26 {
		t.Errorf("NewSessionID() = %q", a)
	}
	if a == b {
		t.Error("session ids should be unique")
	}
	if strings.ToLower(a) != a {
		t.Errorf("session id %q should be lowercase", a)
	}
}

func TestREPL_HistoryFilter(t *testing.T) {
	r, out := newTestREPL("SET a 1\n GET a\nLPUSH l x\n:history set*\n")
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "    1  SET a 1\n") {
		t.Errorf("output = %q, want SET entry", got)
	}
	if strings.Contains(got, "  GET a\n") || strings.Contains(got, "  LPUSH l x\n") {
		t.Errorf("output = %q, want only matching entries", got)
	}
	if r.History().Len() != 3 {
		t.Errorf("History().Len() = %d, want 3 (space-prefixed line skipped)", r.History().Len())
	}
}

package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Logger is the logging interface used throughout kvplay.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	// Named tags every record with a component attribute.
	Named(component string) Logger
	// Enabled reports whether a record at level would be written.
	Enabled(level slog.Level) bool
}

// Config holds logger configuration.
type Config struct {
	// Level is the minimum level (debug, info, warn, error). Empty means warn.
	Level string
	// Format is text or json. Empty means text.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
	// AddSource adds source positions to records.
	AddSource bool
	// MaxValueLen caps string attribute values. Zero means DefaultMaxValueLen.
	MaxValueLen int
}

// DefaultConfig returns the configuration used before settings are loaded.
func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Format: FormatText,
		Output: os.Stderr,
	}
}

var levelNames = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// ParseLevel converts a level name, case-insensitively.
func ParseLevel(name string) (slog.Level, error) {
	if l, ok := levelNames[strings.ToLower(name)]; ok {
		return l, nil
	}
	return slog.LevelWarn, fmt.Errorf("unknown log level %q", name)
}

// LevelName returns the canonical name of l.
func LevelName(l slog.Level) string {
	switch {
	case l <= slog.LevelDebug:
		return "debug"
	case l <= slog.LevelInfo:
		return "info"
	case l <= slog.LevelWarn:
		return "warn"
	default:
		return "error"
	}
}

// ValidLevel reports whether name is a known level.
func ValidLevel(name string) bool {
	_, err := ParseLevel(name)
	return err == nil
}

// ValidFormat reports whether format is text or json.
func ValidFormat(format string) bool {
	switch strings.ToLower(format) {
	case FormatText, FormatJSON:
		return true
	}
	return false
}

// level is shared by every logger built with New, so a config reload can
// raise or lower verbosity for loggers already handed out.
var level = new(slog.LevelVar)

// SetLevel changes the level of all loggers created by New.
func SetLevel(name string) error {
	l, err := ParseLevel(name)
	if err != nil {
		return err
	}
	level.Set(l)
	return nil
}

// GetLevel returns the current level name.
func GetLevel() string {
	return LevelName(level.Level())
}

// New creates a logger. Unknown levels and formats are rejected.
func New(cfg Config) (Logger, error) {
	if cfg.Level == "" {
		cfg.Level = "warn"
	}
	if cfg.Format == "" {
		cfg.Format = FormatText
	}
	l, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if !ValidFormat(cfg.Format) {
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	maxLen := cfg.MaxValueLen
	if maxLen <= 0 {
		maxLen = DefaultMaxValueLen
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return shortenAttr(a, maxLen)
		},
	}
	var h slog.Handler
	if strings.EqualFold(cfg.Format, FormatJSON) {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}

	level.Set(l)
	return &slogLogger{logger: slog.New(h)}, nil
}

// Discard returns a logger that drops every record.
func Discard() Logger {
	return &slogLogger{logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError + 1,
	}))}
}

type slogLogger struct {
	logger *slog.Logger
}

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

func (l *slogLogger) Named(component string) Logger {
	return l.With("component", component)
}

func (l *slogLogger) Enabled(lvl slog.Level) bool {
	return l.logger.Enabled(context.Background(), lvl)
}

var defaultLogger atomic.Pointer[slogLogger]

func init() {
	l, _ := New(DefaultConfig())
	defaultLogger.Store(l.(*slogLogger))
}

// SetDefault replaces the process-wide logger.
func SetDefault(l Logger) {
	if sl, ok := l.(*slogLogger); ok {
		defaultLogger.Store(sl)
	}
}

// Default returns the process-wide logger.
func Default() Logger {
	return defaultLogger.Load()
}

// Debug logs with the default logger.
func Debug(msg string, args ...any) { Default().Debug(msg, args...) }

// Info logs with the default logger.
func Info(msg string, args ...any) { Default().Info(msg, args...) }

// Warn logs with the default logger.
func Warn(msg string, args ...any) { Default().Warn(msg, args...) }

// Error logs with the default logger.
func Error(msg string, args ...any) { Default().Error(msg, args...) }

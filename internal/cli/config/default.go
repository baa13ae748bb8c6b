package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultPrompt      = "127.0.0.1:6379> "
	DefaultHistoryFile = "~/.kvplay/history"
	DefaultHistorySize = 1000

	DefaultSweepInterval = 100 * time.Millisecond
	MinSweepInterval     = 10 * time.Millisecond

	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"

	DefaultOutputFormat = "table"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Console: ConsoleSection{
			Prompt:      DefaultPrompt,
			Banner:      true,
			HistoryFile: DefaultHistoryFile,
			HistorySize: DefaultHistorySize,
		},
		Expiry: ExpirySection{
			SweepInterval: DefaultSweepInterval,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Output: OutputSection{
			Format: DefaultOutputFormat,
		},
	}
}

// DefaultConfigPath returns the config file looked up when --config is not given.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".kvplay", "config.yaml")
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, path[2:])
}

package config

import "time"

// Config is the root configuration for kvplay.
type Config struct {
	Console ConsoleSection `koanf:"console" yaml:"console" json:"console"`
	Expiry  ExpirySection  `koanf:"expiry" yaml:"expiry" json:"expiry"`
	Log     LogSection     `koanf:"log" yaml:"log" json:"log"`
	Metrics MetricsSection `koanf:"metrics" yaml:"metrics" json:"metrics"`
	Output  OutputSection  `koanf:"output" yaml:"output" json:"output"`
}

// ConsoleSection configures the interactive console.
type ConsoleSection struct {
	// Prompt is printed before every input line.
	Prompt string `koanf:"prompt" yaml:"prompt" json:"prompt"`

	// Banner enables the welcome lines on start.
	Banner bool `koanf:"banner" yaml:"banner" json:"banner"`

	// HistoryFile stores entered lines between sessions. Empty disables
	// persistence. A leading "~/" expands to the home directory.
	HistoryFile string `koanf:"history_file" yaml:"history_file" json:"history_file"`

	// HistorySize caps the number of remembered lines.
	HistorySize int `koanf:"history_size" yaml:"history_size" json:"history_size"`

	// WatchConfig reloads the log level when the config file changes.
	WatchConfig bool `koanf:"watch_config" yaml:"watch_config" json:"watch_config"`
}

// ExpirySection configures the expiration sweeper.
type ExpirySection struct {
	// SweepInterval is the period of the background sweep.
	SweepInterval time.Duration `koanf:"sweep_interval" yaml:"sweep_interval" json:"sweep_interval"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level" json:"level"`
	Format string `koanf:"format" yaml:"format" json:"format"`
}

// MetricsSection configures metrics export.
type MetricsSection struct {
	// Textfile receives the metrics in text exposition format on exit.
	// Empty disables the export.
	Textfile string `koanf:"textfile" yaml:"textfile" json:"textfile"`
}

// OutputSection configures structured output.
type OutputSection struct {
	// Format is one of table, json or yaml.
	Format string `koanf:"format" yaml:"format" json:"format"`
}

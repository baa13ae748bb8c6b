package command

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvplay-go/internal/cli/config"
	"github.com/yndnr/kvplay-go/internal/cli/output"
	"github.com/yndnr/kvplay-go/internal/infra/buildinfo"
	"github.com/yndnr/kvplay-go/internal/telemetry/logger"
)

// settingsKey is the App.Metadata key holding *Settings.
const settingsKey = "settings"

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:    "kvplay",
		Usage:   "Interactive playground for a Redis-like command language",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			ReplCommand(),
			ExecCommand(),
			CommandsCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
		Before: loadSettings,
		Action: runRepl,
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Configuration file (default ~/.kvplay/config.yaml if present)",
			EnvVars: []string{"KVPLAY_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Do not truncate table cells",
		},
	}
}

// Settings is the state shared by all commands, built before any of them runs.
type Settings struct {
	Config     *config.Config
	ConfigPath string
	// Flags holds the config overrides taken from global flags.
	Flags  map[string]any
	Logger logger.Logger
	Wide   bool
}

// Formatter returns the formatter for the configured output format.
func (s *Settings) Formatter() output.Formatter {
	return output.NewFormatter(s.OutputFormat(), s.Wide)
}

// OutputFormat returns the configured output format.
func (s *Settings) OutputFormat() output.Format {
	format, err := output.ParseFormat(s.Config.Output.Format)
	if err != nil {
		return output.FormatTable
	}
	return format
}

// flagOverrides maps explicitly set global flags to config keys.
func flagOverrides(c *cli.Context) map[string]any {
	flags := make(map[string]any)
	if c.IsSet("log-level") {
		flags["log.level"] = c.String("log-level")
	}
	if c.IsSet("output") {
		flags["output.format"] = c.String("output")
	}
	return flags
}

// loadSettings loads the configuration and sets up logging.
func loadSettings(c *cli.Context) error {
	s, err := newSettings(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[settingsKey] = s
	return nil
}

func newSettings(c *cli.Context) (*Settings, error) {
	flags := flagOverrides(c)
	cfg, path, err := config.Load(config.LoadOptions{
		Path:  c.String("config"),
		Flags: flags,
	})
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: errWriter(c),
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	logger.SetDefault(log)
	log.Debug("configuration loaded", "file", path)

	return &Settings{
		Config:     cfg,
		ConfigPath: path,
		Flags:      flags,
		Logger:     log,
		Wide:       c.Bool("wide"),
	}, nil
}

// GetSettings retrieves the settings stored by the Before hook.
func GetSettings(c *cli.Context) (*Settings, error) {
	if s, ok := c.App.Metadata[settingsKey].(*Settings); ok {
		return s, nil
	}
	return nil, errors.New("settings not loaded")
}

func writer(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

func errWriter(c *cli.Context) io.Writer {
	if c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}

func reader(c *cli.Context) io.Reader {
	if c.App.Reader != nil {
		return c.App.Reader
	}
	return os.Stdin
}

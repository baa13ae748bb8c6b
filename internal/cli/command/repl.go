package command

import (
	"context"
	"errors"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvplay-go/internal/cli/config"
	"github.com/yndnr/kvplay-go/internal/cli/repl"
	"github.com/yndnr/kvplay-go/internal/infra/confloader"
	"github.com/yndnr/kvplay-go/internal/infra/shutdown"
	"github.com/yndnr/kvplay-go/internal/telemetry/logger"
	"github.com/yndnr/kvplay-go/internal/telemetry/metric"
)

// shutdownTimeout bounds the cleanup hooks run when the console exits.
const shutdownTimeout = 5 * time.Second

// ReplCommand returns the interactive console command.
func ReplCommand() *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Start the interactive console (default)",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-banner",
				Usage: "Do not print the welcome lines",
			},
		},
		Action: runRepl,
	}
}

func runRepl(c *cli.Context) error {
	s, err := GetSettings(c)
	if err != nil {
		return err
	}
	cfg := s.Config

	reg := metric.NewRegistry()
	console := repl.New(
		repl.WithIO(reader(c), writer(c)),
		repl.WithPrompt(cfg.Console.Prompt),
		repl.WithBanner(cfg.Console.Banner && !c.Bool("no-banner")),
		repl.WithHistory(repl.NewHistory(config.ExpandHome(cfg.Console.HistoryFile), cfg.Console.HistorySize)),
		repl.WithMetrics(reg),
		repl.WithLogger(s.Logger),
		repl.WithSweepInterval(cfg.Expiry.SweepInterval),
		repl.WithDumpFormat(s.OutputFormat()),
	)

	h := shutdown.NewHandler(shutdownTimeout, shutdown.WithLogger(s.Logger.Named("shutdown")))
	if path := cfg.Metrics.Textfile; path != "" {
		h.OnShutdown("metrics-textfile", func(context.Context) error {
			return reg.WriteTextfile(path)
		})
	}
	if cfg.Console.WatchConfig && s.ConfigPath != "" {
		w, err := watchConfig(s)
		if err != nil {
			s.Logger.Warn("config watch disabled", "error", err)
		} else {
			h.OnShutdown("config-watcher", func(context.Context) error {
				return w.Stop()
			})
		}
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- console.Run(ctx)
		cancel()
	}()

	hookErr := h.WaitContext(ctx)
	cancel()
	return errors.Join(<-errCh, hookErr)
}

// watchConfig reloads the config file on change and applies its log level.
func watchConfig(s *Settings) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(s.Logger.Named("confloader")))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(s.ConfigPath); err != nil {
		w.Stop()
		return nil, err
	}

	w.OnChange(func(path string) {
		cfg, _, err := config.Load(config.LoadOptions{Path: path, Flags: s.Flags})
		if err != nil {
			s.Logger.Warn("config reload failed", "file", path, "error", err)
			return
		}
		if err := logger.SetLevel(cfg.Log.Level); err != nil {
			s.Logger.Warn("log level not applied", "level", cfg.Log.Level, "error", err)
			return
		}
		s.Logger.Info("log level reloaded", "level", logger.GetLevel())
	})
	w.StartAsync()
	return w, nil
}

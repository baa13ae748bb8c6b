package config

import (
	"errors"
	"fmt"

	"github.com/yndnr/kvplay-go/internal/cli/output"
	"github.com/yndnr/kvplay-go/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if err := verifyConsole(&cfg.Console); err != nil {
		return err
	}
	if err := verifyExpiry(&cfg.Expiry); err != nil {
		return err
	}
	if err := verifyLog(&cfg.Log); err != nil {
		return err
	}
	if _, err := output.ParseFormat(cfg.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	return nil
}

func verifyConsole(cfg *ConsoleSection) error {
	if cfg.HistorySize < 1 {
		return errors.New("console.history_size must be at least 1")
	}
	return nil
}

func verifyExpiry(cfg *ExpirySection) error {
	if cfg.SweepInterval < MinSweepInterval {
		return fmt.Errorf("expiry.sweep_interval must be at least %s, got %s", MinSweepInterval, cfg.SweepInterval)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	if !logger.ValidFormat(cfg.Format) {
		return fmt.Errorf("log.format %q is not one of json, text", cfg.Format)
	}
	return nil
}

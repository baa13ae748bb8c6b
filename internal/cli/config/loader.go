package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/yndnr/kvplay-go/internal/infra/confloader"
)

// LoadOptions selects the sources layered over the defaults.
type LoadOptions struct {
	// Path is the config file. Empty means DefaultConfigPath, which is
	// skipped silently when it does not exist.
	Path string

	// Flags override every other source, keyed by dotted name.
	Flags map[string]any

	// Strict rejects keys the configuration does not declare.
	Strict bool
}

// Load builds the configuration from defaults, file, environment and flags,
// then verifies it. It returns the file actually read, or "" if none.
func Load(opts LoadOptions) (*Config, string, error) {
	cfg, path, _, err := load(opts)
	return cfg, path, err
}

// Sources reports which keys the file, environment and flags set over the
// defaults.
func Sources(opts LoadOptions) ([]confloader.Setting, error) {
	_, _, loader, err := load(opts)
	if err != nil {
		return nil, err
	}
	return loader.Settings(), nil
}

func load(opts LoadOptions) (*Config, string, *confloader.Loader, error) {
	path, err := resolvePath(opts.Path)
	if err != nil {
		return nil, "", nil, err
	}

	loaderOpts := []confloader.Option{
		confloader.WithConfigFile(path),
		confloader.WithFlags(opts.Flags),
	}
	if opts.Strict {
		loaderOpts = append(loaderOpts, confloader.WithStrict())
	}
	loader := confloader.NewLoader(loaderOpts...)

	cfg := Default()
	if err := loader.Load(cfg); err != nil {
		return nil, "", nil, err
	}
	if err := Verify(cfg); err != nil {
		return nil, "", nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, path, loader, nil
}

func resolvePath(path string) (string, error) {
	if path != "" {
		path = ExpandHome(path)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return path, nil
	}

	path = DefaultConfigPath()
	if path == "" {
		return "", nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("config file: %w", err)
	}
	return path, nil
}

// Package config defines the kvplay configuration structure.
//
// Configuration is loaded by confloader from, lowest to highest priority,
// built-in defaults, a YAML file, KVPLAY_* environment variables and
// command-line flags.
package config

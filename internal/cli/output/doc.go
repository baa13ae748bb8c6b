// Package output formats store snapshots, command tables and configuration
// for the terminal.
//
//   - table.go: aligned text tables built from structs and slices
//   - json.go, yaml.go: machine-readable encodings
//   - progress.go: progress bar for batch execution
package output

// Package logger provides structured logging for kvplay.
//
// It wraps log/slog:
//
//   - logger.go: Logger interface, text/json handlers, shared dynamic level
//   - context.go: context propagation with session ids
//   - shorten.go: truncation of oversized attribute values
//
// Console output goes to stdout, so logs are written to stderr by default
// and stay at warn level unless configured otherwise.
package logger

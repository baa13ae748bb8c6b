// Package service implements the kvplay command interpreter and the
// expiration sweeper.
//
// Both entry points are pure functions over immutable store snapshots:
//
//   - Interpreter.Execute parses one command line, checks arity and value
//     kind, and returns a Result holding the reply and, when the command
//     changed something, the new store.
//   - Sweep removes entries whose expiration has passed.
//
// The caller owns the current store and the clock. Time is always passed in
// as an argument.
package service

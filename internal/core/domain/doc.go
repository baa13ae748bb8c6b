// Package domain defines the store model for kvplay.
//
// Domain models are pure value objects without any IO dependencies or
// framework coupling. This package contains:
//
//   - Value: the String / List / Set / Hash sum type
//   - Entry: a value plus its optional expiration instant
//   - Store: an immutable key -> Entry snapshot
//   - MatchGlob: Redis-style key pattern matching
//   - Errors: command error codes grouped by class
//
// Every Store mutation returns a new snapshot; older snapshots stay valid,
// so the owner of the current store decides which snapshot becomes current.
package domain

package domain

import (
	"errors"
	"fmt"
)

// ErrorClass groups command errors by cause.
type ErrorClass uint8

const (
	// ClassSyntax covers unknown commands, wrong argument counts and bad options.
	ClassSyntax ErrorClass = iota + 1
	// ClassType covers commands addressing a key of another kind.
	ClassType
	// ClassRange covers malformed or out of range numeric arguments.
	ClassRange
)

func (c ErrorClass) String() string {
	switch c {
	case ClassSyntax:
		return "syntax"
	case ClassType:
		return "type"
	case ClassRange:
		return "range"
	default:
		return "unknown"
	}
}

// DomainError is a command error with a structured code.
//
// The Message is the Redis-compatible reply text without the error prefix;
// Prefix returns "WRONGTYPE" for type errors and "ERR" otherwise.
type DomainError struct {
	Code    string     // e.g. "KV-TYPE-4090"
	Class   ErrorClass
	Message string     // reply text for the bare error
	Details string     // reply text naming the command, replaces Message
	Cause   error
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Prefix returns the leading token of the Redis error reply.
func (e *DomainError) Prefix() string {
	if e.Class == ClassType {
		return "WRONGTYPE"
	}
	return "ERR"
}

// ReplyText returns the Redis error reply text, e.g.
// "ERR wrong number of arguments for 'get' command".
func (e *DomainError) ReplyText() string {
	if e.Details != "" {
		return e.Prefix() + " " + e.Details
	}
	return e.Prefix() + " " + e.Message
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code string, class ErrorClass, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Class:   class,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
// For command errors the details replace the message in the reply text.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Class:   e.Class,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Class:   e.Class,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// ClassOf returns the class of a DomainError, or zero for other errors.
func ClassOf(err error) ErrorClass {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Class
	}
	return 0
}

// ============================================================================
// Syntax Errors (SYN)
// ============================================================================

var (
	// ErrNoCommand indicates an empty command line.
	ErrNoCommand = NewDomainError("KV-SYN-4000", ClassSyntax, "no command")

	// ErrUnknownCommand indicates the command name is not in the command table.
	ErrUnknownCommand = NewDomainError("KV-SYN-4001", ClassSyntax, "unknown command")

	// ErrWrongArity indicates a wrong number of arguments for the command.
	ErrWrongArity = NewDomainError("KV-SYN-4002", ClassSyntax, "wrong number of arguments")

	// ErrSyntax indicates invalid options or option combinations.
	ErrSyntax = NewDomainError("KV-SYN-4003", ClassSyntax, "syntax error")
)

// ============================================================================
// Type Errors (TYPE)
// ============================================================================

var (
	// ErrWrongType indicates the key holds a value of another kind.
	ErrWrongType = NewDomainError("KV-TYPE-4090", ClassType, "Operation against a key holding the wrong kind of value")
)

// ============================================================================
// Range Errors (RANGE)
// ============================================================================

var (
	// ErrNotInteger indicates a numeric argument could not be parsed.
	ErrNotInteger = NewDomainError("KV-RANGE-4000", ClassRange, "value is not an integer or out of range")

	// ErrInvalidExpire indicates an expiration that overflows the clock range.
	ErrInvalidExpire = NewDomainError("KV-RANGE-4001", ClassRange, "invalid expire time")
)

// UnknownCommandError returns ErrUnknownCommand with the Redis reply text for name.
func UnknownCommandError(name string) *DomainError {
	return ErrUnknownCommand.WithDetails(fmt.Sprintf("unknown command '%s'", name))
}

// ArityError returns ErrWrongArity with the Redis reply text for command name.
func ArityError(name string) *DomainError {
	return ErrWrongArity.WithDetails(fmt.Sprintf("wrong number of arguments for '%s' command", name))
}

// InvalidExpireError returns ErrInvalidExpire with the Redis reply text for command name.
func InvalidExpireError(name string) *DomainError {
	return ErrInvalidExpire.WithDetails(fmt.Sprintf("invalid expire time in '%s' command", name))
}

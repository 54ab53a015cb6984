// Package errors provides custom error types and utilities for wizardnav.
// It implements structured errors with error codes, operation context, and proper
// support for Go's error wrapping with errors.Is() and errors.As().
package errors

import (
	"errors"
	"fmt"
)

// Code represents error categories for classifying different types of failures.
type Code int

const (
	// Unknown indicates an unclassified error.
	Unknown Code = iota
	// UnknownStep indicates a step identifier that is not declared in the graph.
	UnknownStep
	// DeadEnd indicates no visible successor could be found for a step.
	DeadEnd
	// NoPredecessor indicates no visible previous step exists for a step.
	NoPredecessor
	// UnreachableStep indicates the path planner could not connect two steps.
	UnreachableStep
	// Navigation indicates the wizard ended up on a different step than planned.
	Navigation
	// StepSetup indicates an on-enter callback failed to prepare a step.
	StepSetup
	// Browser indicates the browser driver failed to perform an action.
	Browser
	// Configuration indicates a configuration error.
	Configuration
	// Validation indicates a validation failure.
	Validation
	// Timeout indicates an operation exceeded its time limit.
	Timeout
	// NotFound indicates a required resource was not found.
	NotFound
	// Unsupported indicates the collaborator lacks a requested capability.
	Unsupported
	// Locked indicates another process holds the session lock.
	Locked
)

// String returns the string representation of the error code.
func (c Code) String() string {
	switch c {
	case Unknown:
		return "Unknown"
	case UnknownStep:
		return "UnknownStep"
	case DeadEnd:
		return "DeadEnd"
	case NoPredecessor:
		return "NoPredecessor"
	case UnreachableStep:
		return "UnreachableStep"
	case Navigation:
		return "Navigation"
	case StepSetup:
		return "StepSetup"
	case Browser:
		return "Browser"
	case Configuration:
		return "Configuration"
	case Validation:
		return "Validation"
	case Timeout:
		return "Timeout"
	case NotFound:
		return "NotFound"
	case Unsupported:
		return "Unsupported"
	case Locked:
		return "Locked"
	default:
		return fmt.Sprintf("Code(%d)", c)
	}
}

// Error represents a structured application error with code, message,
// operation context, and optional cause for error chaining.
type Error struct {
	Code    Code   // Error category
	Message string // Human-readable error message
	Op      string // Operation that failed (e.g., "navigator.Reach")
	Cause   error  // Underlying error, if any
}

// New creates a new Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new Error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with additional context.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(code Code, cause error, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// WithOp adds operation context to the error and returns the modified error.
// This allows for fluent chaining: errors.New(...).WithOp("operation").
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// Error implements the error interface.
// The format varies based on whether Op and Cause are set:
//   - With Op and Cause: "op: message: cause"
//   - With Op only: "op: message"
//   - With Cause only: "message: cause"
//   - Message only: "message"
func (e *Error) Error() string {
	if e.Op != "" {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Cause)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error's code.
// This enables errors.Is() to match errors by their code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// GetCode extracts the error code from an error.
// Returns Unknown if the error chain carries no coded error.
func GetCode(err error) Code {
	var c interface{ ErrorCode() Code }
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return Unknown
}

// ErrorCode returns the error's code. Other packages implement the same
// method on their own error types so GetCode can classify them.
func (e *Error) ErrorCode() Code {
	return e.Code
}

// IsCode checks if an error has a specific code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

// Sentinel errors for the navigation failure kinds.
// These can be matched with errors.Is or wrapped with additional context.
var (
	// ErrUnknownStep indicates a step that is not part of the graph.
	ErrUnknownStep = New(UnknownStep, "unknown step")
	// ErrDeadEnd indicates a step has no visible successor.
	ErrDeadEnd = New(DeadEnd, "no visible successor")
	// ErrNoPredecessor indicates a step has no visible predecessor.
	ErrNoPredecessor = New(NoPredecessor, "no visible predecessor")
	// ErrUnreachableStep indicates the planner gave up connecting two steps.
	ErrUnreachableStep = New(UnreachableStep, "step is unreachable")
	// ErrNavigation indicates the observed step differs from the expected one.
	ErrNavigation = New(Navigation, "unexpected step")
	// ErrUnsupported indicates the transitioner lacks a capability.
	ErrUnsupported = New(Unsupported, "operation not supported by transitioner")
	// ErrTimeout indicates an operation exceeded its allowed time.
	ErrTimeout = New(Timeout, "operation timed out")
)

// Copyright © 2018 One Concern

// Package errors augments the standard errors
// provided by fmt (https://golang.org/src/fmt/errors.go)
// with wrapping that keeps a sentinel error identifiable
// through the chain without resorting to fmt.Errorf("%w", err).
package errors

import (
	stderr "errors"
	"fmt"
)

var _ error = New("")

// New creates a sentinel Error
func New(msg string) *Error {
	return &Error{msg: msg}
}

// Error augments the standard error interface with Wrap methods.
//
// The main difference with github.com/pkg/errors is that we are wrapping
// errors from errors, not from text.
//
// Wrapping never mutates the receiver: sentinels declared at package
// level may be wrapped concurrently from independent goroutines.
type Error struct {
	msg      string
	sentinel *Error
	err      error
}

// Error message, including the wrapped cause when there is one
func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

// Unwrap nested error
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Wrap a cause under this error. The result still matches the
// receiver with errors.Is.
func (e *Error) Wrap(err error) *Error {
	sentinel := e.sentinel
	if sentinel == nil {
		sentinel = e
	}
	return &Error{msg: e.msg, sentinel: sentinel, err: err}
}

// WrapMessage wraps a formatted cause under this error. Use %w in the
// format to keep a nested cause unwrappable.
func (e *Error) WrapMessage(format string, args ...interface{}) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// Is of some error type?
func (e *Error) Is(target error) bool {
	if e == target {
		return true
	}
	if e.sentinel != nil && e.sentinel == target {
		return true
	}
	return false
}

// As finds the first error in err's chain that matches target, and if so, sets target to that error value and returns true.
// (a shortcut to standard lib errors.As)
func As(err error, target interface{}) bool {
	return stderr.As(err, target)
}

// Is reports whether any error in err's chain matches target
// (a shortcut to standard lib errors.Is)
func Is(err, target error) bool {
	return stderr.Is(err, target)
}

// Package errors classifies infrastructure failures as transient or
// permanent so callers can decide whether retrying is worthwhile.
package errors

import (
	"errors"
	"fmt"
)

// Class distinguishes retryable from non-retryable failures.
type Class int

const (
	// ClassTransient marks failures that may succeed on retry (network
	// errors, rate limits, upstream 5xx).
	ClassTransient Class = iota
	// ClassPermanent marks failures that will not succeed on retry
	// (bad credentials, missing channel, malformed request).
	ClassPermanent
)

// ClassifiedError wraps a cause with a failure class and an operation
// description.
type ClassifiedError struct {
	class Class
	msg   string
	cause error
}

// NewTransientError wraps cause as a transient failure.
func NewTransientError(msg string, cause error) error {
	return &ClassifiedError{class: ClassTransient, msg: msg, cause: cause}
}

// NewPermanentError wraps cause as a permanent failure.
func NewPermanentError(msg string, cause error) error {
	return &ClassifiedError{class: ClassPermanent, msg: msg, cause: cause}
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

// Unwrap exposes the cause for errors.Is/errors.As.
func (e *ClassifiedError) Unwrap() error {
	return e.cause
}

// Class returns the failure class.
func (e *ClassifiedError) Class() Class {
	return e.class
}

// IsTransientError reports whether err is classified as transient.
func IsTransientError(err error) bool {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.class == ClassTransient
	}
	return false
}

// IsPermanentError reports whether err is classified as permanent.
func IsPermanentError(err error) bool {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.class == ClassPermanent
	}
	return false
}

// Package errors defines the error kinds shared by every stark-fri-core
// component, following the same wrapped-error idiom throughout the
// package: a stable Kind, a human message, and an optional cause.
package errors

import (
	"errors"
	"fmt"
)

// Kind identifies the class of failure that aborted a prove/verify call.
type Kind int

const (
	// Unknown is the zero value and should not be produced deliberately.
	Unknown Kind = iota

	// Configuration marks a security-options rejection, caught before any
	// prove/verify work begins.
	Configuration

	// MerkleVerification marks a batch Merkle proof that failed to
	// reconstruct the expected root.
	MerkleVerification

	// DegreeBound marks a claimed degree bound that the data does not
	// support.
	DegreeBound

	// RemainderMismatch marks a FRI remainder that is not close to a
	// low-degree polynomial.
	RemainderMismatch

	// LinearCombination marks a failure while combining evaluation
	// vectors into the single FRI target.
	LinearCombination

	// ConstraintViolation marks an AIR constraint that evaluated to a
	// nonzero value where it was required to vanish.
	ConstraintViolation

	// InternalProver marks a self-check failure inside the prover: the
	// prover produced a proof that it cannot verify itself, indicating an
	// arithmetic or backend bug rather than a malicious input.
	InternalProver
)

func (k Kind) String() string {
	switch k {
	case Configuration:
		return "ConfigurationError"
	case MerkleVerification:
		return "MerkleVerificationError"
	case DegreeBound:
		return "DegreeBoundError"
	case RemainderMismatch:
		return "RemainderMismatchError"
	case LinearCombination:
		return "LinearCombinationError"
	case ConstraintViolation:
		return "ConstraintViolation"
	case InternalProver:
		return "InternalProverError"
	default:
		return "UnknownError"
	}
}

// Error is the concrete error type returned by every core component.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// New creates an *Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an *Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error that records cause as its Unwrap target.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Wrapf creates an *Error with a formatted message and a wrapped cause.
func Wrapf(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf extracts the Kind of err, if err is (or wraps) an *Error.
// Returns Unknown for any other error, including nil.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

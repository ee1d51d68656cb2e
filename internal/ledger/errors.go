package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrVerification marks a mismatch between the computed expectation and
	// what the UI rendered. Fatal to the scenario; never retried.
	ErrVerification = errors.New("verification failed")

	// ErrPrecondition marks an operation invoked without the data it needs,
	// which is a defect in the calling scenario.
	ErrPrecondition = errors.New("precondition violated")
)

// VerificationError carries the expected/actual pair of a failed check.
type VerificationError struct {
	// Subject is what was checked, usually a product name or "order".
	Subject  string
	Field    string
	Expected string
	Actual   string
}

func (e *VerificationError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("%s: expected %s %q, got %q", ErrVerification, e.Field, e.Expected, e.Actual)
	}
	return fmt.Sprintf("%s: expected %s of %s to be %q, got %q", ErrVerification, e.Field, e.Subject, e.Expected, e.Actual)
}

func (e *VerificationError) Unwrap() error { return ErrVerification }

func mismatch(subject, field, expected, actual string) error {
	return &VerificationError{Subject: subject, Field: field, Expected: expected, Actual: actual}
}

// PreconditionError names the operation and what was missing.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrPrecondition, e.Op, e.Reason)
}

func (e *PreconditionError) Unwrap() error { return ErrPrecondition }

func precondition(op, format string, args ...any) error {
	return &PreconditionError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

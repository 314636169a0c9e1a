// Package faults defines the error taxonomy shared by the stores, the
// allocation engine, and the HTTP layer.
//
// Expected conditions (a rejected submission, a missing short code, a closed
// deadline) are represented as *Fault values with a Kind, so handlers can map
// them to structured {kind, detail} responses without string matching.
// Only genuine storage failures carry a wrapped underlying error.
package faults

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a fault for API responses and retry policy.
type Kind string

const (
	// ValidationFailed carries one or more enumerated reasons. The client
	// corrects its input and resubmits.
	ValidationFailed Kind = "validation_failed"

	// DeadlineClosed means the submission channel is not accepting
	// submissions; only an administrator can reopen it.
	DeadlineClosed Kind = "deadline_closed"

	// NotFound covers unknown short codes and missing entities.
	NotFound Kind = "not_found"

	// CorruptCollection means a persisted collection failed to decode.
	// It is reported to the administrator, never treated as absent.
	CorruptCollection Kind = "corrupt_collection"

	// IOError is a store-level read or write failure.
	IOError Kind = "io_error"

	// ConcurrencyConflict means a collection lock could not be acquired
	// within the bounded wait. Recoverable by resubmission.
	ConcurrencyConflict Kind = "concurrency_conflict"
)

// Fault is a classified error. Reasons is populated only for
// ValidationFailed, where every failing rule is collected.
type Fault struct {
	Kind    Kind
	Detail  string
	Reasons []string
	Err     error
}

func (f *Fault) Error() string {
	if len(f.Reasons) > 0 {
		return fmt.Sprintf("%s: %s", f.Kind, strings.Join(f.Reasons, "; "))
	}
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Detail, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
}

func (f *Fault) Unwrap() error { return f.Err }

// New constructs a fault with a detail message.
func New(kind Kind, detail string) *Fault {
	return &Fault{Kind: kind, Detail: detail}
}

// Wrap constructs a fault around an underlying error.
func Wrap(kind Kind, detail string, err error) *Fault {
	return &Fault{Kind: kind, Detail: detail, Err: err}
}

// Validation constructs a ValidationFailed fault from the collected reasons.
func Validation(reasons []string) *Fault {
	return &Fault{Kind: ValidationFailed, Detail: "submission rejected", Reasons: reasons}
}

// KindOf returns the Kind of err if it is (or wraps) a *Fault.
// Unclassified errors report IOError, the conservative default for
// anything that escaped the store layer.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return IOError
}

// Is reports whether err is a *Fault of the given kind.
func Is(err error, kind Kind) bool {
	var f *Fault
	return errors.As(err, &f) && f.Kind == kind
}

// ReasonsOf returns the reason list of a ValidationFailed fault, or nil.
func ReasonsOf(err error) []string {
	var f *Fault
	if errors.As(err, &f) {
		return f.Reasons
	}
	return nil
}

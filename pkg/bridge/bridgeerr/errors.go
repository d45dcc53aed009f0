// Package bridgeerr enumerates the error kinds of the bridge engine's
// error-handling design: everything that is not an adversarial
// disprove-triggering condition is surfaced to the caller by value;
// programmer-error invariants panic.
package bridgeerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions that are meaningful to callers by
// identity, not just by message.
var (
	// ErrMissingArtifact indicates a required input file/value was not
	// supplied by the host.
	ErrMissingArtifact = errors.New("bridge: required artifact missing")

	// ErrKeyDisagreement indicates the aggregated federation taproot
	// key does not match the configured value.
	ErrKeyDisagreement = errors.New("bridge: aggregated federation key disagrees with configured key")

	// ErrPreSignConflict marks a re-entrant pre-sign attempt on an
	// input that already carries an aggregated signature. Callers may
	// treat this as a no-op; it is never fatal.
	ErrPreSignConflict = errors.New("bridge: input already has an aggregated signature")

	// ErrDuplicateCommitment indicates the commitment registry was
	// asked to bind two WOTS keys to the same tag.
	ErrDuplicateCommitment = errors.New("bridge: duplicate commitment tag")
)

// DecodeError wraps a malformed JSON/hex/consensus payload with the
// file or field that produced it.
type DecodeError struct {
	Context string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("bridge: decode error in %s: %v", e.Context, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// NewDecodeError builds a DecodeError, returning nil if err is nil.
func NewDecodeError(context string, err error) error {
	if err == nil {
		return nil
	}
	return &DecodeError{Context: context, Err: err}
}

// WotsVerifyError signals a WOTS signature failed verification during
// assertion validation. It is not fatal: it is the trigger for
// emitting a disprove witness.
type WotsVerifyError struct {
	Tag string
}

func (e *WotsVerifyError) Error() string {
	return fmt.Sprintf("bridge: wots verification failed for %q", e.Tag)
}

// GrothVerifyError signals the independent Groth16 pairing check
// failed against the recovered operand vector. Also disprove-eligible,
// not fatal.
type GrothVerifyError struct {
	Reason string
}

func (e *GrothVerifyError) Error() string {
	return fmt.Sprintf("bridge: groth16 verification failed: %s", e.Reason)
}

// InvariantViolation marks a programmer error: a connector leaf-count
// mismatch, a dust violation, or any other condition that can only
// arise from a bug in this engine, never from adversarial input.
// Callers that hit this should not attempt to recover; PanicInvariant
// is the canonical way to raise one.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("bridge: internal invariant violated: %s", e.Msg)
}

// PanicInvariant panics with an InvariantViolation. Use for conditions
// spec.md §7 classifies as InternalInvariant: connector leaf count
// mismatch, dust violation, and similar "this should be impossible"
// states.
func PanicInvariant(format string, args ...interface{}) {
	panic(&InvariantViolation{Msg: fmt.Sprintf(format, args...)})
}

// Package pqcerr defines the error-kind taxonomy shared by the kyber,
// dilithium, and mceliece packages. Every exported sentinel below is
// wrapped, not replaced, by the package-specific errors each top package
// still exports (e.g. kyber.ErrInvalidKeySize) so callers can match on
// either the specific or the general kind with errors.Is.
package pqcerr

import "errors"

var (
	// ErrEntropyFailure means the OS entropy provider refused to produce
	// bytes; no output was produced.
	ErrEntropyFailure = errors.New("pqc: entropy source failure")

	// ErrAuthFailure means a KEM decapsulation re-encryption check or a
	// signature verification rejected its input. For KEMs the shared
	// secret is still populated (implicit rejection); callers must treat
	// the error as authoritative.
	ErrAuthFailure = errors.New("pqc: authentication failure")

	// ErrParameterMismatch means a key, ciphertext, signature, or context
	// string had a size inconsistent with the parameter set in use.
	ErrParameterMismatch = errors.New("pqc: parameter size mismatch")

	// ErrInternalInvariant indicates a bug: an invariant the algorithm
	// guarantees (e.g. systematic-form Gaussian elimination succeeding
	// during decapsulation) did not hold.
	ErrInternalInvariant = errors.New("pqc: internal invariant violated")

	// ErrRetriesExhausted is returned when a bounded rejection loop
	// (key generation, signing) exceeds its hard restart cap.
	ErrRetriesExhausted = errors.New("pqc: rejection loop exceeded retry bound")
)

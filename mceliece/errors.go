package mceliece

import (
	"errors"
	"fmt"

	"github.com/QRCS-CORP/QSC-sub003/internal/pqcerr"
)

// keygenRetriesMax bounds the Goppa polynomial search and the support
// permutation / systematic-form search during GenerateKeyPair.
const keygenRetriesMax = 100

var (
	// ErrInvalidKeySize means a key blob's length did not match the
	// parameter set in use.
	ErrInvalidKeySize = fmt.Errorf("mceliece: invalid key size: %w", pqcerr.ErrParameterMismatch)

	// ErrInvalidCipherTextSize means a ciphertext's length did not match
	// the parameter set in use.
	ErrInvalidCipherTextSize = fmt.Errorf("mceliece: invalid ciphertext size: %w", pqcerr.ErrParameterMismatch)

	errKeygenRetriesExhausted = fmt.Errorf("mceliece: key generation exceeded %d attempts: %w", keygenRetriesMax, pqcerr.ErrRetriesExhausted)

	// errIrreducibleRetry means findIrreducible drew keygenRetriesMax
	// candidate polynomials without finding one that passes Rabin's
	// irreducibility test. Grounded on original_source/McEliece/McEliece/
	// sk_gen.c, which retries this same draw in a loop rather than failing
	// key generation outright; this module bounds that loop and surfaces
	// the bound being hit as its own sentinel instead of folding it into
	// the generic retries-exhausted error GenerateKeyPair returns.
	errIrreducibleRetry = fmt.Errorf("mceliece: no irreducible Goppa polynomial found in %d attempts: %w", keygenRetriesMax, pqcerr.ErrRetriesExhausted)

	// errPermutationRetry means sampleSupport drew keygenRetriesMax
	// candidate support permutations without finding one whose 32-bit sort
	// keys were all distinct. Same grounding and rationale as
	// errIrreducibleRetry, for sk_gen.c's permutation-sampling retry loop.
	errPermutationRetry = fmt.Errorf("mceliece: no collision-free support permutation found in %d attempts: %w", keygenRetriesMax, pqcerr.ErrRetriesExhausted)
)

// IsAuthFailure reports whether err is (or wraps) the decapsulation
// confirmation-hash mismatch. The shared secret returned alongside such an
// error is still a valid (implicitly rejected) value; callers must not
// treat the error as recoverable.
func IsAuthFailure(err error) bool {
	return errors.Is(err, pqcerr.ErrAuthFailure)
}

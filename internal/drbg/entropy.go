package drbg

import (
	"crypto/rand"
	"io"

	"golang.org/x/sys/cpu"

	"github.com/QRCS-CORP/QSC-sub003/internal/pqcerr"
)

// HasRDRAND reports whether the running CPU advertises the RDRAND
// instruction. This package never emits the RDRAND opcode itself (no
// cgo/asm, portable scalar only) — when true, callers may still only mix in
// OS entropy, but the flag is kept and exercised so a future hardware-backed
// source can gate on it without changing the public surface.
func HasRDRAND() bool {
	return cpu.X86.HasRDRAND
}

// OSEntropy draws from the operating system's CSPRNG (crypto/rand, backed
// by /dev/urandom, getrandom(2), or BCryptGenRandom depending on GOOS), and
// records whether the platform's hardware RNG is also present. Every
// asymmetric key-generation and encapsulation call in this module draws its
// initial randomness from an OSEntropy reader (or a caller-supplied
// io.Reader standing in for one).
type OSEntropy struct {
	rdrandAvailable bool
}

// NewOSEntropy constructs the default entropy provider for this process.
func NewOSEntropy() *OSEntropy {
	return &OSEntropy{rdrandAvailable: HasRDRAND()}
}

// Read fills p with cryptographically strong bytes. It never blocks except
// on first use of the OS CSPRNG, and returns pqcerr.ErrEntropyFailure rather
// than a partial read if the provider is unable to produce output.
func (e *OSEntropy) Read(p []byte) (int, error) {
	n, err := io.ReadFull(rand.Reader, p)
	if err != nil {
		return n, pqcerr.ErrEntropyFailure
	}
	return n, nil
}

// RDRANDAvailable reports whether this provider detected hardware RNG
// support at construction time.
func (e *OSEntropy) RDRANDAvailable() bool {
	return e.rdrandAvailable
}

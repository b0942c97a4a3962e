// Package xof wraps the Keccak-family hash and extendable-output functions
// shared by every primitive in this module: SHA3-256/512, SHAKE-128/256, and
// cSHAKE. Kept as a single seam so every L2 primitive absorbs/squeezes the
// same way the Kyber port this module grew from already did.
package xof

import (
	"hash"

	"golang.org/x/crypto/sha3"
)

// Size256 and Size512 are the output sizes, in bytes, of the fixed-length
// SHA3 variants used throughout the module (seed hashing, pk hashing, FO
// transform binding).
const (
	Size256 = 32
	Size512 = 64
)

// Sum256 returns SHA3-256(data).
func Sum256(data []byte) [Size256]byte {
	return sha3.Sum256(data)
}

// Sum512 returns SHA3-512(data).
func Sum512(data []byte) [Size512]byte {
	return sha3.Sum512(data)
}

// New256 returns a fresh SHA3-256 state, for streaming absorption.
func New256() hash.Hash { return sha3.New256() }

// New512 returns a fresh SHA3-512 state, for streaming absorption.
func New512() hash.Hash { return sha3.New512() }

// Shake128Sum squeezes len(out) bytes of SHAKE-128(data) into out.
func Shake128Sum(out, data []byte) {
	sha3.ShakeSum128(out, data)
}

// Shake256Sum squeezes len(out) bytes of SHAKE-256(data) into out.
func Shake256Sum(out, data []byte) {
	sha3.ShakeSum256(out, data)
}

// ShakeState is a restartable, incrementally-absorbable/squeezable sponge:
// absorb is incremental via Write, squeeze is restartable across blocks via
// Read, and Reset returns the sponge to its post-construction state.
type ShakeState interface {
	Write(p []byte) (n int, err error)
	Read(p []byte) (n int, err error)
	Reset()
}

// NewShake128 returns a new SHAKE-128 sponge (rate 168, domain sep 0x1F).
func NewShake128() ShakeState { return sha3.NewShake128() }

// NewShake256 returns a new SHAKE-256 sponge (rate 136, domain sep 0x1F).
func NewShake256() ShakeState { return sha3.NewShake256() }

// NewCShake128 returns a cSHAKE-128 sponge customized with function-name N
// and customization-string S, per NIST SP 800-185. When both N and S are
// empty, cSHAKE degenerates to plain SHAKE (domain separator 0x1F instead
// of 0x04), which golang.org/x/crypto/sha3 already handles internally.
func NewCShake128(n, s []byte) ShakeState { return sha3.NewCShake128(n, s) }

// NewCShake256 is the 256-bit-security cSHAKE variant.
func NewCShake256(n, s []byte) ShakeState { return sha3.NewCShake256(n, s) }

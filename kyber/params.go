// Package kyber implements ML-KEM (FIPS 203), the module-LWE key
// encapsulation mechanism standardized from CRYSTALS-Kyber. It exposes the
// IND-CPA public-key encryption scheme (genMatrix/indcpa{KeyPair,Encrypt,
// Decrypt}) wrapped by a Fujisaki-Okamoto transform (GenerateKeyPair /
// Encapsulate / Decapsulate) into an IND-CCA2-secure KEM.
//
// This package started as a port of the Kyber round-2 submission (which
// used Q=7681); it has been rebuilt against the final FIPS 203 parameters
// (Q=3329, the canonical compression/rounding constants, and the
// Barrett/Montgomery reductions that go with them) since a standards-track
// reimplementation must not emulate the legacy modulus.
package kyber

const (
	// SymSize is the size, in bytes, of the shared secret, hashes, and
	// seeds used throughout the scheme.
	SymSize = 32

	n = 256
	q = 3329

	// polyBytes is the size of a fully-packed (12 bits/coefficient) polynomial.
	polyBytes = 384

	// eta2 is the CBD parameter used for e1/e2 noise in every parameter set.
	eta2 = 2

	// keyPairRetriesMax is declared as a retry bound, but genMatrix does not
	// read it: the matrix expansion rejection loop has no iteration cap.
	keyPairRetriesMax = 100
)

// ParameterSet describes one of the three standardized ML-KEM parameter
// sets (512/768/1024).
type ParameterSet struct {
	name string

	k    int
	eta1 int
	du   int
	dv   int

	polyVecBytes int

	indcpaPublicKeySize  int
	indcpaSecretKeySize  int
	indcpaCipherTextSize int

	publicKeySize  int
	secretKeySize  int
	cipherTextSize int
}

var (
	// Kyber512 targets AES-128 equivalent security.
	Kyber512 = newParameterSet("ML-KEM-512", 2, 3, 10, 4)

	// Kyber768 targets AES-192 equivalent security.
	Kyber768 = newParameterSet("ML-KEM-768", 3, 2, 10, 4)

	// Kyber1024 targets AES-256 equivalent security.
	Kyber1024 = newParameterSet("ML-KEM-1024", 4, 2, 11, 5)
)

// Name returns the parameter set's standardized name.
func (p *ParameterSet) Name() string { return p.name }

// PublicKeySize returns the encoded public key size in bytes.
func (p *ParameterSet) PublicKeySize() int { return p.publicKeySize }

// PrivateKeySize returns the encoded private (secret) key size in bytes.
func (p *ParameterSet) PrivateKeySize() int { return p.secretKeySize }

// CipherTextSize returns the encoded ciphertext size in bytes.
func (p *ParameterSet) CipherTextSize() int { return p.cipherTextSize }

// SharedSecretSize returns the shared secret size in bytes (always SymSize).
func (p *ParameterSet) SharedSecretSize() int { return SymSize }

func newParameterSet(name string, k, eta1, du, dv int) *ParameterSet {
	var p ParameterSet
	p.name = name
	p.k = k
	p.eta1 = eta1
	p.du = du
	p.dv = dv

	p.polyVecBytes = k * polyBytes

	p.indcpaPublicKeySize = p.polyVecBytes + SymSize
	p.indcpaSecretKeySize = p.polyVecBytes
	p.indcpaCipherTextSize = du*k*n/8 + dv*n/8

	p.publicKeySize = p.indcpaPublicKeySize
	// secret key = indcpa sk || pk || H(pk) || z
	p.secretKeySize = p.indcpaSecretKeySize + p.indcpaPublicKeySize + 2*SymSize
	p.cipherTextSize = p.indcpaCipherTextSize

	return &p
}

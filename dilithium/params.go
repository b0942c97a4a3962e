// Package dilithium implements ML-DSA (FIPS 204), the module-lattice digital
// signature scheme standardized from CRYSTALS-Dilithium. It follows the same
// shape as this module's kyber package: a rejection-sampled Fiat-Shamir
// construction with aborts (GenerateKeyPair / Sign / Verify), built from
// matrix/vector arithmetic over the ring Z_q[X]/(X^256+1), q=8380417.
//
// Grounded on github.com/KarpelesLab/mldsa (a from-scratch Go ML-DSA port
// using only stdlib crypto/sha3), adapted here to this module's internal/xof
// seam (golang.org/x/crypto/sha3, the library the rest of the module already
// depends on) and to this module's error/packing conventions.
package dilithium

const (
	n = 256
	q = 8380417

	// d is the number of bits dropped from t when forming t1 (power2round).
	d = 13

	seedBytes = 32
	crhBytes  = 64 // tr, mu, rhoprime sizes.

	// polyT1PackedBytes, polyT0PackedBytes are fixed across all parameter
	// sets (t1/t0 bit widths don't vary with K/L/eta).
	polyT1PackedBytes = 320 // 10 bits/coeff
	polyT0PackedBytes = 416 // 13 bits/coeff

	gamma1Exp17 = 1 << 17
	gamma1Exp19 = 1 << 19

	gamma2Q88 = (q - 1) / 88
	gamma2Q32 = (q - 1) / 32

	// signRetriesMax bounds the rejection-sampled sign loop (spec.md
	// §5/§9: "a hard restart cap ... to prevent pathological hangs").
	signRetriesMax = 1000
)

// ParameterSet describes one of the three standardized ML-DSA parameter
// sets (44/65/87, named after their original Dilithium security levels
// 2/3/5 in the round-3 submission).
type ParameterSet struct {
	name string

	k, l int
	eta  int
	tau  int
	beta int

	gamma1 int32
	gamma2 int32
	omega  int

	polyEtaPackedBytes int
	polyZPackedBytes   int
	cTildeBytes        int

	publicKeySize  int
	secretKeySize  int
	signatureSize  int
}

var (
	// MLDSA44 targets NIST security category 2.
	MLDSA44 = newParameterSet("ML-DSA-44", 4, 4, 2, 39, 78, gamma1Exp17, gamma2Q88, 80, 32)

	// MLDSA65 targets NIST security category 3.
	MLDSA65 = newParameterSet("ML-DSA-65", 6, 5, 4, 49, 196, gamma1Exp19, gamma2Q32, 55, 48)

	// MLDSA87 targets NIST security category 5.
	MLDSA87 = newParameterSet("ML-DSA-87", 8, 7, 2, 60, 120, gamma1Exp19, gamma2Q32, 75, 64)
)

// Name returns the parameter set's standardized name.
func (p *ParameterSet) Name() string { return p.name }

// PublicKeySize returns the encoded public key size in bytes.
func (p *ParameterSet) PublicKeySize() int { return p.publicKeySize }

// PrivateKeySize returns the encoded private (signing) key size in bytes.
func (p *ParameterSet) PrivateKeySize() int { return p.secretKeySize }

// SignatureSize returns the encoded signature size in bytes.
func (p *ParameterSet) SignatureSize() int { return p.signatureSize }

func newParameterSet(name string, k, l, eta, tau, beta int, gamma1, gamma2 int32, omega, cTildeBytes int) *ParameterSet {
	p := &ParameterSet{
		name:        name,
		k:           k,
		l:           l,
		eta:         eta,
		tau:         tau,
		beta:        beta,
		gamma1:      gamma1,
		gamma2:      gamma2,
		omega:       omega,
		cTildeBytes: cTildeBytes,
	}

	switch eta {
	case 2:
		p.polyEtaPackedBytes = 96 // 3 bits/coeff
	case 4:
		p.polyEtaPackedBytes = 128 // 4 bits/coeff
	default:
		panic("dilithium: unsupported eta")
	}

	switch gamma1 {
	case gamma1Exp17:
		p.polyZPackedBytes = 576 // 18 bits/coeff
	case gamma1Exp19:
		p.polyZPackedBytes = 640 // 20 bits/coeff
	default:
		panic("dilithium: unsupported gamma1")
	}

	p.publicKeySize = seedBytes + k*polyT1PackedBytes
	p.secretKeySize = 2*seedBytes + crhBytes + l*p.polyEtaPackedBytes + k*p.polyEtaPackedBytes + k*polyT0PackedBytes
	p.signatureSize = cTildeBytes + l*p.polyZPackedBytes + omega + k

	return p
}

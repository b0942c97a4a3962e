// Package mceliece implements the Classic McEliece code-based KEM family
// (spec.md §6): binary Goppa codes over GF(2^m), syndrome decoding via
// Berlekamp-Massey, and a SHAKE-256 confirmation hash giving IND-CCA2
// security with constant-time implicit rejection on decapsulation failure.
//
// Grounded on github.com/cloudflare/circl's kem/mceliece/mceliece348864
// package for field arithmetic style, systematic public-key generation via
// Gaussian elimination, and root/minimal-polynomial routines; circl's
// reference stubs encapsulation/decapsulation (panic("TODO")), so those
// halves follow spec.md §6.6-§6.8 and the reference C sources under
// _examples/original_source/McEliece directly.
package mceliece

import "github.com/QRCS-CORP/QSC-sub003/internal/gf2m"

// ParameterSet fixes the (m, n, t) triple defining one Classic McEliece
// instance: GF(2^m) arithmetic, a code length of n, and an error-correcting
// capacity of t bits. All derived sizes (public/private key, ciphertext)
// follow mechanically from these three numbers.
type ParameterSet struct {
	name string
	m    int
	n    int
	t    int

	pkNRows int
	pkNCols int
	pkRowBytes int

	publicKeySize  int
	secretKeySize  int
	ciphertextSize int
	condBytes      int
}

func newParameterSet(name string, m, n, t int) *ParameterSet {
	pkNRows := m * t
	pkNCols := n - pkNRows
	pkRowBytes := (pkNCols + 7) / 8
	syndBytes := (pkNRows + 7) / 8
	condBytes := (1 << uint(m-4)) * (2*m - 1)

	return &ParameterSet{
		name:           name,
		m:              m,
		n:              n,
		t:              t,
		pkNRows:        pkNRows,
		pkNCols:        pkNCols,
		pkRowBytes:     pkRowBytes,
		publicKeySize:  pkNRows * pkRowBytes,
		secretKeySize:  32 + 8 + 2*t + condBytes + n/8,
		ciphertextSize: syndBytes + 32,
		condBytes:      condBytes,
	}
}

// Classic McEliece parameter sets, spec.md §6's table. Mceliece348864
// uses m=12 (2^12=4096 is the smallest power of two containing n=3488);
// every larger set needs m=13.
var (
	Mceliece348864  = newParameterSet("mceliece348864", 12, 3488, 64)
	Mceliece460896  = newParameterSet("mceliece460896", 13, 4608, 96)
	Mceliece6688128 = newParameterSet("mceliece6688128", 13, 6688, 128)
	Mceliece6960119 = newParameterSet("mceliece6960119", 13, 6960, 119)
	Mceliece8192128 = newParameterSet("mceliece8192128", 13, 8192, 128)
)

func (p *ParameterSet) Name() string           { return p.name }
func (p *ParameterSet) PublicKeySize() int      { return p.publicKeySize }
func (p *ParameterSet) PrivateKeySize() int     { return p.secretKeySize }
func (p *ParameterSet) CiphertextSize() int     { return p.ciphertextSize }
func (p *ParameterSet) SharedSecretSize() int   { return sharedSecretSize }
func (p *ParameterSet) SyndromeBytes() int      { return (p.pkNRows + 7) / 8 }

const sharedSecretSize = 32

// field returns a fresh GF(2^m) arithmetic context for this parameter set.
// Field contexts are cheap to build relative to keygen/decode cost and are
// not retained across calls, keeping ParameterSet itself immutable and
// safe for concurrent use the way kyber.ParameterSet and
// dilithium.ParameterSet are.
func (p *ParameterSet) field() *gf2m.Field { return gf2m.NewField(p.m) }

package kyber

import (
	"bytes"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"

	"github.com/QRCS-CORP/QSC-sub003/internal/drbg"
	"github.com/QRCS-CORP/QSC-sub003/internal/pqcerr"
	"github.com/QRCS-CORP/QSC-sub003/internal/xof"
)

var (
	// ErrInvalidKeySize is returned when a serialized key is the wrong size
	// for the parameter set it is being decoded against.
	ErrInvalidKeySize = fmt.Errorf("kyber: invalid key size: %w", pqcerr.ErrParameterMismatch)

	// ErrInvalidCipherTextSize is returned when a serialized ciphertext is
	// the wrong size for the parameter set it is being decoded against.
	ErrInvalidCipherTextSize = fmt.Errorf("kyber: invalid ciphertext size: %w", pqcerr.ErrParameterMismatch)

	// ErrInvalidPrivateKey is returned when a serialized private key's
	// embedded public-key hash does not match its embedded public key.
	ErrInvalidPrivateKey = fmt.Errorf("kyber: invalid private key: %w", pqcerr.ErrParameterMismatch)
)

// PrivateKey is an ML-KEM decapsulation key.
type PrivateKey struct {
	PublicKey
	sk *indcpaSecretKey
	z  []byte
}

// Bytes returns the byte serialization of a PrivateKey: the IND-CPA secret
// key, the embedded public key, its hash, and the implicit-rejection seed z.
func (sk *PrivateKey) Bytes() []byte {
	p := sk.PublicKey.p

	b := make([]byte, 0, p.secretKeySize)
	b = append(b, sk.sk.packed...)
	b = append(b, sk.PublicKey.pk.packed...)
	b = append(b, sk.PublicKey.pk.h[:]...)
	b = append(b, sk.z...)

	return b
}

// PrivateKeyFromBytes deserializes a byte-serialized PrivateKey.
func (p *ParameterSet) PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != p.secretKeySize {
		return nil, ErrInvalidKeySize
	}

	sk := new(PrivateKey)
	sk.sk = new(indcpaSecretKey)
	sk.z = make([]byte, SymSize)
	sk.PublicKey.pk = new(indcpaPublicKey)
	sk.PublicKey.p = p

	off := p.indcpaSecretKeySize
	if err := sk.PublicKey.pk.fromBytes(p, b[off:off+p.publicKeySize]); err != nil {
		return nil, err
	}
	off += p.publicKeySize
	if !bytes.Equal(sk.PublicKey.pk.h[:], b[off:off+SymSize]) {
		return nil, ErrInvalidPrivateKey
	}
	off += SymSize
	copy(sk.z, b[off:])

	if err := sk.sk.fromBytes(p, b[:p.indcpaSecretKeySize]); err != nil {
		return nil, err
	}

	return sk, nil
}

// PublicKey is an ML-KEM encapsulation key.
type PublicKey struct {
	pk *indcpaPublicKey
	p  *ParameterSet
}

// Bytes returns the byte serialization of a PublicKey.
func (pk *PublicKey) Bytes() []byte {
	return pk.pk.toBytes()
}

// PublicKeyFromBytes deserializes a byte-serialized PublicKey.
func (p *ParameterSet) PublicKeyFromBytes(b []byte) (*PublicKey, error) {
	pk := &PublicKey{pk: new(indcpaPublicKey), p: p}

	if err := pk.pk.fromBytes(p, b); err != nil {
		return nil, err
	}

	return pk, nil
}

// GenerateKeyPair generates an encapsulation/decapsulation key pair for the
// given parameter set, FIPS 203 Algorithm 19 (ML-KEM.KeyGen). A nil rng
// draws from the process's OS entropy source; otherwise rng's output seeds
// a CSG (cSHAKE-256) DRBG that actually supplies every random byte the key
// pair is generated from, per spec.md §4.10.
func (p *ParameterSet) GenerateKeyPair(rng io.Reader) (*PublicKey, *PrivateKey, error) {
	if rng == nil {
		rng = drbg.NewOSEntropy()
	}
	drbgRng, err := drbg.Seeded(rng, []byte("kyber.GenerateKeyPair"))
	if err != nil {
		return nil, nil, fmt.Errorf("kyber: seeding key-generation DRBG: %w", pqcerr.ErrEntropyFailure)
	}

	kp := new(PrivateKey)

	if kp.PublicKey.pk, kp.sk, err = p.indcpaKeyPair(drbgRng); err != nil {
		return nil, nil, err
	}

	kp.PublicKey.p = p
	kp.z = make([]byte, SymSize)
	if _, err := io.ReadFull(drbgRng, kp.z); err != nil {
		return nil, nil, fmt.Errorf("kyber: reading implicit-rejection seed: %w", pqcerr.ErrEntropyFailure)
	}

	return &kp.PublicKey, kp, nil
}

// Encapsulate generates a ciphertext and shared secret under pk, FIPS 203
// Algorithm 20 (ML-KEM.Encaps) composed with the Fujisaki-Okamoto transform
// over K-PKE.
func (pk *PublicKey) Encapsulate(rng io.Reader) (cipherText, sharedSecret []byte, err error) {
	if rng == nil {
		rng = drbg.NewOSEntropy()
	}
	drbgRng, err := drbg.Seeded(rng, []byte("kyber.Encapsulate"))
	if err != nil {
		return nil, nil, fmt.Errorf("kyber: seeding encapsulation DRBG: %w", pqcerr.ErrEntropyFailure)
	}

	var buf [SymSize]byte
	if _, err = io.ReadFull(drbgRng, buf[:]); err != nil {
		return nil, nil, fmt.Errorf("kyber: reading encapsulation coins: %w", pqcerr.ErrEntropyFailure)
	}
	buf = xof.Sum256(buf[:]) // Don't release raw system RNG output.

	hKr := xof.New512()
	hKr.Write(buf[:])
	hKr.Write(pk.pk.h[:]) // Multitarget countermeasure for coins + contributory binding.
	kr := hKr.Sum(nil)

	cipherText = make([]byte, pk.p.cipherTextSize)
	pk.p.indcpaEncrypt(cipherText, buf[:], pk.pk, kr[SymSize:])

	hc := xof.Sum256(cipherText)
	copy(kr[SymSize:], hc[:])
	hSs := xof.New256()
	hSs.Write(kr)
	sharedSecret = hSs.Sum(nil)

	return cipherText, sharedSecret, nil
}

// Decapsulate recovers the shared secret for cipherText under sk, FIPS 203
// Algorithm 21 (ML-KEM.Decaps). On a failed re-encryption check the returned
// error wraps pqcerr.ErrAuthFailure, but sharedSecret is still populated
// (with the implicit-rejection value derived from z) so that callers who
// ignore the error do not leak which branch ran via a differing return
// shape — only via constant-time-selected content.
func (sk *PrivateKey) Decapsulate(cipherText []byte) (sharedSecret []byte, err error) {
	var buf [2 * SymSize]byte

	p := sk.PublicKey.p
	if len(cipherText) != p.CipherTextSize() {
		return nil, ErrInvalidCipherTextSize
	}
	p.indcpaDecrypt(buf[:SymSize], cipherText, sk.sk)

	copy(buf[SymSize:], sk.PublicKey.pk.h[:])
	kr := xof.Sum512(buf[:])

	cmp := make([]byte, p.cipherTextSize)
	p.indcpaEncrypt(cmp, buf[:SymSize], sk.PublicKey.pk, kr[SymSize:])

	hc := xof.Sum256(cipherText)
	copy(kr[SymSize:], hc[:])

	fail := subtle.ConstantTimeSelect(subtle.ConstantTimeCompare(cipherText, cmp), 0, 1)
	subtle.ConstantTimeCopy(fail, kr[SymSize:], sk.z)

	h := xof.New256()
	h.Write(kr[:])
	sharedSecret = h.Sum(nil)

	if fail == 1 {
		return sharedSecret, fmt.Errorf("kyber: ciphertext re-encryption mismatch: %w", pqcerr.ErrAuthFailure)
	}
	return sharedSecret, nil
}

// IsAuthFailure reports whether err is (or wraps) the re-encryption-mismatch
// error Decapsulate returns on implicit rejection.
func IsAuthFailure(err error) bool {
	return errors.Is(err, pqcerr.ErrAuthFailure)
}

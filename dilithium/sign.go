package dilithium

import (
	"fmt"
	"io"

	"github.com/QRCS-CORP/QSC-sub003/internal/drbg"
	"github.com/QRCS-CORP/QSC-sub003/internal/pqcerr"
	"github.com/QRCS-CORP/QSC-sub003/internal/xof"
)

// ErrInvalidKeySize is returned when a serialized key is the wrong size for
// the parameter set it is being decoded against.
var ErrInvalidKeySize = fmt.Errorf("dilithium: invalid key size: %w", pqcerr.ErrParameterMismatch)

// ErrContextTooLong is returned when the domain-separation context string
// passed to Sign/Verify exceeds the 255-byte limit FIPS 204 imposes.
var ErrContextTooLong = fmt.Errorf("dilithium: context string too long: %w", pqcerr.ErrParameterMismatch)

// PublicKey is an ML-DSA verification key.
type PublicKey struct {
	p   *ParameterSet
	rho []byte
	t1  polyVec
	tr  []byte
	a   []poly // K*L matrix, row-major, NTT domain.
}

// PrivateKey is an ML-DSA signing key.
type PrivateKey struct {
	PublicKey
	key        []byte
	s1, s2, t0 polyVec
}

func expandMatrix(p *ParameterSet, rho []byte) []poly {
	mat := make([]poly, p.k*p.l)
	for i := 0; i < p.k; i++ {
		for j := 0; j < p.l; j++ {
			mat[i*p.l+j].uniform(rho, i, j)
		}
	}
	return mat
}

// GenerateKeyPair generates a signing/verification key pair for the given
// parameter set, FIPS 204 Algorithm 1 (ML-DSA.KeyGen) via the internal
// Algorithm 6 (KeyGen_internal) seeded from rng. A nil rng draws from the
// process's OS entropy source; otherwise rng's output seeds a CSG DRBG that
// supplies the key-generation seed zeta, per spec.md §4.10.
func (p *ParameterSet) GenerateKeyPair(rng io.Reader) (*PublicKey, *PrivateKey, error) {
	if rng == nil {
		rng = drbg.NewOSEntropy()
	}
	drbgRng, err := drbg.Seeded(rng, []byte("dilithium.GenerateKeyPair"))
	if err != nil {
		return nil, nil, fmt.Errorf("dilithium: seeding key-generation DRBG: %w", pqcerr.ErrEntropyFailure)
	}

	var zeta [seedBytes]byte
	if _, err := io.ReadFull(drbgRng, zeta[:]); err != nil {
		return nil, nil, fmt.Errorf("dilithium: reading key-gen seed: %w", pqcerr.ErrEntropyFailure)
	}

	h := xof.NewShake256()
	h.Write(zeta[:])
	h.Write([]byte{byte(p.k), byte(p.l)})

	expanded := make([]byte, 2*seedBytes+crhBytes)
	h.Read(expanded)

	rho := expanded[:seedBytes]
	rhoPrime := expanded[seedBytes : seedBytes+crhBytes]
	key := expanded[seedBytes+crhBytes:]

	s1 := newPolyVec(p.l)
	for i := 0; i < p.l; i++ {
		s1[i].sampleEta(rhoPrime, uint16(i), p.eta)
	}
	s2 := newPolyVec(p.k)
	for i := 0; i < p.k; i++ {
		s2[i].sampleEta(rhoPrime, uint16(p.l+i), p.eta)
	}

	mat := expandMatrix(p, rho)

	s1NTT := s1.clone()
	s1NTT.ntt()

	t := newPolyVec(p.k)
	matrixPointwiseMontgomery(t, mat, p.l, s1NTT)
	t.invntt()
	t.add(t, s2)
	t.caddq()

	t1 := newPolyVec(p.k)
	t0 := newPolyVec(p.k)
	for i := 0; i < p.k; i++ {
		t[i].power2Round(&t0[i])
		t1[i] = t[i]
	}

	pkBytes := p.packPublicKey(rho, t1)
	tr := make([]byte, crhBytes)
	trH := xof.NewShake256()
	trH.Write(pkBytes)
	trH.Read(tr)

	pub := PublicKey{p: p, rho: append([]byte(nil), rho...), t1: t1, tr: tr, a: mat}
	priv := &PrivateKey{
		PublicKey: pub,
		key:       append([]byte(nil), key...),
		s1:        s1,
		s2:        s2,
		t0:        t0,
	}

	return &priv.PublicKey, priv, nil
}

// Bytes returns the byte serialization of a PublicKey, FIPS 204's pkEncode.
func (pk *PublicKey) Bytes() []byte {
	return pk.p.packPublicKey(pk.rho, pk.t1)
}

// PublicKeyFromBytes deserializes a byte-serialized PublicKey.
func (p *ParameterSet) PublicKeyFromBytes(b []byte) (*PublicKey, error) {
	if len(b) != p.publicKeySize {
		return nil, ErrInvalidKeySize
	}
	rho, t1 := p.unpackPublicKey(b)

	tr := make([]byte, crhBytes)
	h := xof.NewShake256()
	h.Write(b)
	h.Read(tr)

	return &PublicKey{p: p, rho: rho, t1: t1, tr: tr, a: expandMatrix(p, rho)}, nil
}

// Bytes returns the byte serialization of a PrivateKey, FIPS 204's skEncode.
func (sk *PrivateKey) Bytes() []byte {
	return sk.p.packPrivateKey(sk.rho, sk.key, sk.tr, sk.s1, sk.s2, sk.t0)
}

// PrivateKeyFromBytes deserializes a byte-serialized PrivateKey.
func (p *ParameterSet) PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != p.secretKeySize {
		return nil, ErrInvalidKeySize
	}
	rho, key, tr, s1, s2, t0 := p.unpackPrivateKey(b)

	return &PrivateKey{
		PublicKey: PublicKey{p: p, rho: rho, tr: tr, a: expandMatrix(p, rho)},
		key:       key,
		s1:        s1,
		s2:        s2,
		t0:        t0,
	}, nil
}

func buildMPrime(ctx, msg []byte) ([]byte, error) {
	if len(ctx) > 255 {
		return nil, ErrContextTooLong
	}
	mp := make([]byte, 2+len(ctx)+len(msg))
	mp[0] = 0
	mp[1] = byte(len(ctx))
	copy(mp[2:], ctx)
	copy(mp[2+len(ctx):], msg)
	return mp, nil
}

// Sign produces a randomized signature over msg under the given
// domain-separation context, FIPS 204 Algorithm 2 (ML-DSA.Sign): 32 extra
// bytes from rng are folded into the per-attempt seed rho'' so repeated
// signing of the same message does not reveal rho''-collisions across
// calls, the randomized variant spec.md §4.9 calls out as an alternative to
// the deterministic one.
func (sk *PrivateKey) Sign(rng io.Reader, msg, ctx []byte) ([]byte, error) {
	if rng == nil {
		rng = drbg.NewOSEntropy()
	}
	drbgRng, err := drbg.SeededHCG(rng, []byte("dilithium.Sign"))
	if err != nil {
		return nil, fmt.Errorf("dilithium: seeding signing DRBG: %w", pqcerr.ErrEntropyFailure)
	}

	var rnd [seedBytes]byte
	if _, err := io.ReadFull(drbgRng, rnd[:]); err != nil {
		return nil, fmt.Errorf("dilithium: reading signing randomness: %w", pqcerr.ErrEntropyFailure)
	}
	mPrime, err := buildMPrime(ctx, msg)
	if err != nil {
		return nil, err
	}
	return sk.signInternal(rnd[:], mPrime)
}

// SignDeterministic produces a signature with rho'' derived solely from the
// signing key and message (no rng), matching the original Dilithium
// round-3 default and needed for KAT reproducibility.
func (sk *PrivateKey) SignDeterministic(msg, ctx []byte) ([]byte, error) {
	var rnd [seedBytes]byte // all-zero: FIPS 204 Algorithm 2's deterministic branch.
	mPrime, err := buildMPrime(ctx, msg)
	if err != nil {
		return nil, err
	}
	return sk.signInternal(rnd[:], mPrime)
}

func (sk *PrivateKey) signInternal(rnd, mPrime []byte) ([]byte, error) {
	p := sk.p

	h := xof.NewShake256()
	h.Write(sk.tr)
	h.Write(mPrime)
	mu := make([]byte, crhBytes)
	h.Read(mu)

	h.Reset()
	h.Write(sk.key)
	h.Write(rnd)
	h.Write(mu)
	rhoPrimePrime := make([]byte, crhBytes)
	h.Read(rhoPrimePrime)

	s1NTT := sk.s1.clone()
	s1NTT.ntt()
	s2NTT := sk.s2.clone()
	s2NTT.ntt()
	t0NTT := sk.t0.clone()
	t0NTT.ntt()

	for kappa := 0; kappa < signRetriesMax; kappa++ {
		y := newPolyVec(p.l)
		for i := 0; i < p.l; i++ {
			y[i].sampleMask(rhoPrimePrime, uint16(p.l*kappa+i), p.gamma1)
		}

		yNTT := y.clone()
		yNTT.ntt()

		w := newPolyVec(p.k)
		matrixPointwiseMontgomery(w, sk.a, p.l, yNTT)
		w.invntt()
		w.reduce()
		w.caddq()

		w1 := newPolyVec(p.k)
		w0 := newPolyVec(p.k)
		for i := 0; i < p.k; i++ {
			w[i].decompose(&w0[i], p.gamma2)
			w1[i] = w[i]
		}

		h.Reset()
		h.Write(mu)
		wbuf := make([]byte, w1PackedSize(p.gamma2))
		for i := 0; i < p.k; i++ {
			w1[i].packW1(wbuf, p.gamma2)
			h.Write(wbuf)
		}
		cTilde := make([]byte, p.cTildeBytes)
		h.Read(cTilde)

		c := sampleInBall(cTilde, p.tau)
		cNTT := *c
		cNTT.ntt()

		z := newPolyVec(p.l)
		for i := 0; i < p.l; i++ {
			var cs1 poly
			cs1.pointwiseMontgomery(&cNTT, &s1NTT[i])
			cs1.invntt()
			z[i].add(&y[i], &cs1)
			z[i].reduce()
		}
		if z.infinityNormGE(p.gamma1 - int32(p.beta)) {
			continue
		}

		r0 := newPolyVec(p.k)
		for i := 0; i < p.k; i++ {
			var cs2 poly
			cs2.pointwiseMontgomery(&cNTT, &s2NTT[i])
			cs2.invntt()
			var rr poly
			rr.sub(&w0[i], &cs2)
			rr.reduce()
			r0[i] = rr
		}
		if r0.infinityNormGE(p.gamma2 - int32(p.beta)) {
			continue
		}

		ct0 := newPolyVec(p.k)
		for i := 0; i < p.k; i++ {
			ct0[i].pointwiseMontgomery(&cNTT, &t0NTT[i])
			ct0[i].invntt()
			ct0[i].reduce()
		}
		if ct0.infinityNormGE(p.gamma2) {
			continue
		}

		hint := newPolyVec(p.k)
		weight := 0
		for i := 0; i < p.k; i++ {
			var combined poly // (LowBits(w) - c*s2) + c*t0, checked against the original HighBits(w).
			combined.add(&r0[i], &ct0[i])
			weight += hint[i].makeHintPoly(&combined, &w1[i], p.gamma2)
		}
		if weight > p.omega {
			continue
		}

		return p.packSignature(cTilde, z, hint), nil
	}

	return nil, fmt.Errorf("dilithium: sign loop exceeded %d attempts: %w", signRetriesMax, pqcerr.ErrRetriesExhausted)
}

func w1PackedSize(gamma2 int32) int {
	if gamma2 == gamma2Q32 {
		return n / 2 // 4 bits/coeff
	}
	return n * 6 / 8 // 6 bits/coeff
}

// Verify checks sig over msg under context ctx, FIPS 204 Algorithm 3
// (ML-DSA.Verify).
func (pk *PublicKey) Verify(msg, sig, ctx []byte) bool {
	mPrime, err := buildMPrime(ctx, msg)
	if err != nil {
		return false
	}
	return pk.verifyInternal(sig, mPrime)
}

func (pk *PublicKey) verifyInternal(sig, mPrime []byte) bool {
	p := pk.p

	cTilde, z, hint, ok := p.unpackSignature(sig)
	if !ok {
		return false
	}
	if z.infinityNormGE(p.gamma1 - int32(p.beta)) {
		return false
	}

	h := xof.NewShake256()
	h.Write(pk.tr)
	h.Write(mPrime)
	mu := make([]byte, crhBytes)
	h.Read(mu)

	c := sampleInBall(cTilde, p.tau)
	cNTT := *c
	cNTT.ntt()

	zNTT := z.clone()
	zNTT.ntt()

	t1Scaled := pk.t1.clone()
	for i := range t1Scaled {
		t1Scaled[i].shiftLeftD()
	}
	t1Scaled.ntt()

	az := newPolyVec(p.k)
	matrixPointwiseMontgomery(az, pk.a, p.l, zNTT)

	w1 := newPolyVec(p.k)
	h.Reset()
	h.Write(mu)
	wbuf := make([]byte, w1PackedSize(p.gamma2))
	for i := 0; i < p.k; i++ {
		var ct1 poly
		ct1.pointwiseMontgomery(&cNTT, &t1Scaled[i])
		var acc poly
		acc.sub(&az[i], &ct1)
		acc.invntt()
		acc.reduce()
		acc.caddq()

		w1[i].useHintPoly(&acc, &hint[i], p.gamma2)
		w1[i].packW1(wbuf, p.gamma2)
		h.Write(wbuf)
	}

	cTildeCheck := make([]byte, p.cTildeBytes)
	h.Read(cTildeCheck)

	return ctEqualCTilde(cTilde, cTildeCheck)
}

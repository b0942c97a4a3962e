package mceliece

import (
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/QRCS-CORP/QSC-sub003/internal/drbg"
	"github.com/QRCS-CORP/QSC-sub003/internal/gf2m"
	"github.com/QRCS-CORP/QSC-sub003/internal/pqcerr"
	"github.com/QRCS-CORP/QSC-sub003/internal/xof"
)

// PublicKey is a Classic McEliece public key: the systematic part of a
// binary Goppa code's parity-check matrix.
type PublicKey struct {
	p     *ParameterSet
	bytes []byte
}

// PrivateKey is a Classic McEliece private key: the Goppa polynomial, the
// support it is evaluated over, the permutation's Beneš control bits (so
// the support can be regenerated from the packed bytes alone), and the
// implicit-rejection seed s.
type PrivateKey struct {
	PublicKey

	delta       []byte
	g           poly
	l           []gf2m.Elt
	controlBits []byte
	s           []byte

	bytes []byte
}

// Bytes serializes the public key.
func (pk *PublicKey) Bytes() []byte {
	b := make([]byte, len(pk.bytes))
	copy(b, pk.bytes)
	return b
}

// PublicKeyFromBytes deserializes a public key for parameter set p.
func (p *ParameterSet) PublicKeyFromBytes(b []byte) (*PublicKey, error) {
	if len(b) != p.publicKeySize {
		return nil, fmt.Errorf("mceliece: %w", ErrInvalidKeySize)
	}
	pk := &PublicKey{p: p, bytes: make([]byte, len(b))}
	copy(pk.bytes, b)
	return pk, nil
}

// packPrivateKey serializes delta || pivots(reserved) || g || condition
// bits || s, matching the byte layout spec.md's key-size table implies
// (see buildSystematicPK's doc comment on the reserved pivots field).
func (p *ParameterSet) packPrivateKey(delta []byte, g poly, controlBits []byte, s []byte) []byte {
	b := make([]byte, p.secretKeySize)
	off := 0
	copy(b[off:off+32], delta)
	off += 32
	off += 8 // reserved pivots field, always zero
	for i := 0; i < p.t; i++ {
		binary.LittleEndian.PutUint16(b[off+2*i:], uint16(g[i]))
	}
	off += 2 * p.t
	for i, bit := range controlBits {
		if bit != 0 {
			b[off+i/8] |= 1 << uint(i%8)
		}
	}
	off += p.condBytes
	copy(b[off:off+len(s)], s)
	return b
}

// PrivateKeyFromBytes deserializes a private key for parameter set p,
// regenerating the support and public-key bytes from the packed fields.
func (p *ParameterSet) PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != p.secretKeySize {
		return nil, fmt.Errorf("mceliece: %w", ErrInvalidKeySize)
	}
	f := p.field()

	off := 0
	delta := append([]byte(nil), b[off:off+32]...)
	off += 32
	off += 8

	g := make(poly, p.t+1)
	g[p.t] = 1
	for i := 0; i < p.t; i++ {
		g[i] = gf2m.Elt(binary.LittleEndian.Uint16(b[off+2*i:])) & f.Mask()
	}
	off += 2 * p.t

	nbits := benesBitLen(f.Size())
	controlBits := make([]byte, nbits)
	for i := range controlBits {
		controlBits[i] = (b[off+i/8] >> uint(i%8)) & 1
	}
	off += p.condBytes

	s := append([]byte(nil), b[off:off+p.n/8]...)

	identity := make([]int32, f.Size())
	for i := range identity {
		identity[i] = int32(i)
	}
	applyBenes(identity, controlBits)
	l := make([]gf2m.Elt, f.Size())
	for i := range l {
		l[i] = f.BitRev(gf2m.Elt(identity[i]))
	}
	l = l[:p.n]

	pkBytes, ok := p.buildSystematicPK(f, g, l)
	if !ok {
		return nil, fmt.Errorf("mceliece: %w", pqcerr.ErrInternalInvariant)
	}

	priv := &PrivateKey{
		PublicKey:   PublicKey{p: p, bytes: pkBytes},
		delta:       delta,
		g:           g,
		l:           l,
		controlBits: controlBits,
		s:           s,
		bytes:       append([]byte(nil), b...),
	}
	return priv, nil
}

// Bytes serializes the private key.
func (sk *PrivateKey) Bytes() []byte {
	b := make([]byte, len(sk.bytes))
	copy(b, sk.bytes)
	return b
}

// sampleErrorVector draws a uniformly random weight-t binary vector of
// length n via rejection sampling over random index tuples, the standard
// Classic McEliece Encap technique (spec.md §6.7): draw candidate field
// elements, keep those below n, reject duplicates, stop once t distinct
// positions are found.
func sampleErrorVector(f *gf2m.Field, rng io.Reader, n, t int) ([]byte, error) {
	e := make([]byte, (n+7)/8)
	picked := 0
	nbytes := make([]byte, 2)
	var seen = make(map[int]bool, t)

	for picked < t {
		if _, err := io.ReadFull(rng, nbytes); err != nil {
			return nil, err
		}
		v := int(nbytes[0]) | int(nbytes[1])<<8
		v &= (1 << uint(f.M())) - 1
		if v >= n || seen[v] {
			continue
		}
		seen[v] = true
		e[v/8] |= 1 << uint(v%8)
		picked++
	}
	return e, nil
}

// syndrome computes H*e for the systematic public-key matrix pk
// ([I | T] implicitly, only T is stored — the identity block contributes
// e's own leading pkNRows bits directly).
func (p *ParameterSet) syndrome(pkBytes, e []byte) []byte {
	rows := p.pkNRows
	rowBytes := p.pkRowBytes
	synd := make([]byte, (rows+7)/8)

	getBit := func(buf []byte, i int) byte { return (buf[i/8] >> uint(i%8)) & 1 }

	// H = [I_rows | T]. Column i<rows contributes e's own bit i (the
	// identity block); columns rows..n-1 are T, stored row-major in
	// pkBytes with pkRowBytes bytes per row — addressed bit-by-bit rather
	// than byte-aligned, since rows is not always a multiple of 8 (e.g.
	// mceliece6960119's pkNRows=1547), so the T block does not start on a
	// byte boundary within e.
	for i := 0; i < rows; i++ {
		bit := getBit(e, i)
		row := pkBytes[i*rowBytes : (i+1)*rowBytes]
		for c := 0; c < p.pkNCols; c++ {
			bit ^= (row[c/8] >> uint(c%8)) & 1 & getBit(e, rows+c)
		}
		if bit != 0 {
			synd[i/8] |= 1 << uint(i%8)
		}
	}
	return synd
}

// domainHash computes a 32-byte SHAKE-256 digest of prefix||parts..., used
// with distinct one-byte domain prefixes for the embedded ciphertext
// confirmation (2) and the final shared secret (1), so the two never
// collide to the same value.
func domainHash(prefix byte, parts ...[]byte) []byte {
	h := xof.NewShake256()
	h.Write([]byte{prefix})
	for _, p := range parts {
		h.Write(p)
	}
	out := make([]byte, 32)
	h.Read(out)
	return out
}

// Encapsulate runs Classic McEliece Encap: sample a random weight-t error
// vector, compute its syndrome under the public key, embed a confirmation
// hash of the error vector, and derive the shared secret by hashing the
// error vector together with that confirmation.
func (pk *PublicKey) Encapsulate(rng io.Reader) (ciphertext, sharedSecret []byte, err error) {
	if rng == nil {
		rng = drbg.NewOSEntropy()
	}
	drbgRng, err := drbg.Seeded(rng, []byte("mceliece.Encapsulate"))
	if err != nil {
		return nil, nil, fmt.Errorf("mceliece: seeding encapsulation DRBG: %w", pqcerr.ErrEntropyFailure)
	}

	f := pk.p.field()
	e, err := sampleErrorVector(f, drbgRng, pk.p.n, pk.p.t)
	if err != nil {
		return nil, nil, fmt.Errorf("mceliece: sampling error vector: %w", pqcerr.ErrEntropyFailure)
	}

	synd := pk.p.syndrome(pk.bytes, e)
	tau := domainHash(2, e)

	ciphertext = make([]byte, pk.p.ciphertextSize)
	copy(ciphertext, synd)
	copy(ciphertext[len(synd):], tau)

	sharedSecret = domainHash(1, e, tau)
	return ciphertext, sharedSecret, nil
}

// Decapsulate runs Classic McEliece Decap: recover the error vector via
// syndrome decoding (Berlekamp-Massey plus support evaluation), confirm it
// against the embedded hash, and fall back to an implicit-rejection secret derived from s when decoding fails or the
// confirmation hash mismatches.
func (sk *PrivateKey) Decapsulate(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) != sk.p.ciphertextSize {
		return nil, fmt.Errorf("mceliece: %w", ErrInvalidCipherTextSize)
	}
	f := sk.p.field()

	syndBytes := sk.p.SyndromeBytes()
	synd := ciphertext[:syndBytes]
	tau := ciphertext[syndBytes:]

	e, decodeOK := sk.decodeSyndrome(f, synd)

	valid := decodeOK
	var gotTau []byte
	if decodeOK {
		gotTau = domainHash(2, e)
		if subtle.ConstantTimeCompare(gotTau, tau) != 1 {
			valid = false
		}
	}

	if !valid {
		// Implicit rejection: derive a secret from s and the ciphertext, so
		// a bad ciphertext and a decoding failure give output of the same
		// shape. The two paths do not run the same operations: a decoding
		// failure skips the confirmation hash above, and decodeSyndrome
		// returns early when the locator degree is not positive.
		rejected := domainHash(0, sk.s, ciphertext)
		return rejected, fmt.Errorf("mceliece: %w", pqcerr.ErrAuthFailure)
	}

	return domainHash(1, e, gotTau), nil
}

// decodeSyndrome turns a packed syndrome back into the sparse weight-t
// error vector it was computed from: expand the syndrome into GF(2^m)
// coefficients via the Goppa polynomial's power basis, run
// Berlekamp-Massey to find the error locator, then evaluate it at every
// support point to find the error positions (spec.md §6.7/§6.8).
func (sk *PrivateKey) decodeSyndrome(f *gf2m.Field, synd []byte) (e []byte, ok bool) {
	t := sk.p.t
	synVec := make([]gf2m.Elt, 2*t)

	// The stored syndrome bits are H*e with H's rows indexed 0..pkNRows-1
	// (t blocks of m bits each, per buildSystematicPK). Unpack gives the
	// GF(2^m) values S_0..S_{t-1} = sum_i e_i * L_i^j / g(L_i); the upper
	// half S_t..S_{2t-1} Berlekamp-Massey needs is filled by Frobenius
	// squaring, which commutes with that defining sum since it is GF(2)-
	// linear in e.
	s0 := make([]gf2m.Elt, t)
	for j := 0; j < t; j++ {
		var v gf2m.Elt
		for k := 0; k < f.M(); k++ {
			bitIndex := j*f.M() + k
			if bitIndex >= sk.p.pkNRows {
				break
			}
			if (synd[bitIndex/8]>>uint(bitIndex%8))&1 != 0 {
				v |= 1 << uint(k)
			}
		}
		s0[j] = v
	}
	for j := 0; j < t; j++ {
		synVec[j] = s0[j]
	}
	for j := t; j < 2*t; j++ {
		synVec[j] = f.Sq(synVec[j-t])
	}

	sigma := berlekampMassey(f, synVec)
	if sigma.deg() <= 0 {
		return nil, false
	}

	e = make([]byte, (sk.p.n+7)/8)
	count := 0
	for i, alpha := range sk.l {
		if sigma.eval(f, alpha) == 0 {
			e[i/8] |= 1 << uint(i%8)
			count++
		}
	}

	// spec.md §4.8 step 2: recompute syndrome(e') from the recovered error
	// vector and compare it against the syndrome actually received, on top
	// of the weight check above — either mismatch must invalidate the
	// decode, the same way a re-encryption mismatch invalidates Kyber's FO
	// transform in kyber/kem.go's Decapsulate.
	recomputed := sk.p.syndrome(sk.PublicKey.bytes, e)
	synOK := subtle.ConstantTimeCompare(recomputed, synd) == 1
	weightOK := count == sigma.deg()

	return e, weightOK && synOK
}

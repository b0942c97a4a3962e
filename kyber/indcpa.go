package kyber

import (
	"io"

	"github.com/QRCS-CORP/QSC-sub003/internal/pqcerr"
	"github.com/QRCS-CORP/QSC-sub003/internal/xof"
)

// packPublicKey serializes the public key as the concatenation of the fully
// encoded (12 bits/coefficient, uncompressed) vector t and the public seed
// used to generate the matrix A. FIPS 203's K-PKE.KeyGen never compresses
// the public key — only ciphertexts are — unlike the round-2 submission
// this package started from, which compressed pk too.
func packPublicKey(r []byte, pk *polyVec, seed []byte) {
	pk.toBytes(r)
	copy(r[len(pk.vec)*polyBytes:], seed[:SymSize])
}

// unpackPublicKey is the approximate inverse of packPublicKey.
func unpackPublicKey(pk *polyVec, seed, packedPk []byte) {
	pk.fromBytes(packedPk)

	off := len(pk.vec) * polyBytes
	copy(seed, packedPk[off:off+SymSize])
}

// packCiphertext serializes the ciphertext as the concatenation of the
// du-compressed vector b and the dv-compressed polynomial v.
func packCiphertext(r []byte, b *polyVec, v *poly, dv int) {
	b.compress(r)
	v.compress(r[b.compressedSize():], dv)
}

// unpackCiphertext is the approximate inverse of packCiphertext.
func unpackCiphertext(b *polyVec, v *poly, c []byte, dv int) {
	b.decompress(c)
	v.decompress(c[b.compressedSize():], dv)
}

// packSecretKey serializes the secret key at the full 12 bits/coefficient.
func packSecretKey(r []byte, sk *polyVec) {
	sk.toBytes(r)
}

// unpackSecretKey is the inverse of packSecretKey.
func unpackSecretKey(sk *polyVec, packedSk []byte) {
	sk.fromBytes(packedSk)
}

// genMatrix deterministically expands matrix A (or its transpose) from a
// seed via rejection sampling on a SHAKE-128 stream, FIPS 203 Algorithm 7
// (SampleNTT): each 3-byte chunk yields up to two candidate 12-bit values,
// each accepted if it falls below q.
func genMatrix(a []polyVec, seed []byte, transposed bool) {
	const shake128Rate = 168

	var extSeed [SymSize + 2]byte
	copy(extSeed[:SymSize], seed)

	sponge := xof.NewShake128()
	var buf [shake128Rate]byte

	for i, v := range a {
		for j, p := range v.vec {
			if transposed {
				extSeed[SymSize] = byte(i)
				extSeed[SymSize+1] = byte(j)
			} else {
				extSeed[SymSize] = byte(j)
				extSeed[SymSize+1] = byte(i)
			}

			sponge.Write(extSeed[:])
			sponge.Read(buf[:])
			pos, ctr := 0, 0

			for ctr < n {
				if pos+3 > shake128Rate {
					sponge.Read(buf[:])
					pos = 0
				}

				d1 := uint16(buf[pos]) | (uint16(buf[pos+1]&0x0f) << 8)
				d2 := uint16(buf[pos+1]>>4) | (uint16(buf[pos+2]) << 4)
				pos += 3

				if d1 < q && ctr < n {
					p.coeffs[ctr] = d1
					ctr++
				}
				if d2 < q && ctr < n {
					p.coeffs[ctr] = d2
					ctr++
				}
			}

			sponge.Reset()
		}
	}
}

type indcpaPublicKey struct {
	packed []byte
	h      [32]byte
}

func (pk *indcpaPublicKey) toBytes() []byte {
	return pk.packed
}

func (pk *indcpaPublicKey) fromBytes(p *ParameterSet, b []byte) error {
	if len(b) != p.indcpaPublicKeySize {
		return pqcerr.ErrParameterMismatch
	}

	pk.packed = make([]byte, len(b))
	copy(pk.packed, b)
	pk.h = xof.Sum256(b)

	return nil
}

type indcpaSecretKey struct {
	packed []byte
}

func (sk *indcpaSecretKey) fromBytes(p *ParameterSet, b []byte) error {
	if len(b) != p.indcpaSecretKeySize {
		return pqcerr.ErrParameterMismatch
	}

	sk.packed = make([]byte, len(b))
	copy(sk.packed, b)

	return nil
}

// indcpaKeyPair generates a public/private key pair for the IND-CPA-secure
// encryption scheme underlying ML-KEM, FIPS 203 Algorithm 13 (K-PKE.KeyGen).
func (p *ParameterSet) indcpaKeyPair(rng io.Reader) (*indcpaPublicKey, *indcpaSecretKey, error) {
	buf := make([]byte, SymSize+SymSize)
	if _, err := io.ReadFull(rng, buf[:SymSize]); err != nil {
		return nil, nil, pqcerr.ErrEntropyFailure
	}

	sk := &indcpaSecretKey{packed: make([]byte, p.indcpaSecretKeySize)}
	pk := &indcpaPublicKey{packed: make([]byte, p.indcpaPublicKeySize)}

	h := xof.New512()
	h.Write(buf[:SymSize])
	buf = buf[:0]
	buf = h.Sum(buf)
	publicSeed, noiseSeed := buf[:SymSize], buf[SymSize:]

	a := p.allocMatrix()
	genMatrix(a, publicSeed, false)

	var nonce byte
	skpv := p.allocPolyVec(0)
	for _, pv := range skpv.vec {
		pv.getNoise(noiseSeed, nonce, p.eta1)
		nonce++
	}
	skpv.ntt()

	e := p.allocPolyVec(0)
	for _, pv := range e.vec {
		pv.getNoise(noiseSeed, nonce, p.eta1)
		nonce++
	}

	pkpv := p.allocPolyVec(0)
	for i, pv := range pkpv.vec {
		pv.pointwiseAcc(&skpv, &a[i])
	}

	pkpv.invntt()
	pkpv.add(&pkpv, &e)

	packSecretKey(sk.packed, &skpv)
	packPublicKey(pk.packed, &pkpv, publicSeed)
	pk.h = xof.Sum256(pk.packed)

	return pk, sk, nil
}

// indcpaEncrypt is the encryption function of the IND-CPA-secure scheme
// underlying ML-KEM, FIPS 203 Algorithm 14 (K-PKE.Encrypt).
func (p *ParameterSet) indcpaEncrypt(c, m []byte, pk *indcpaPublicKey, coins []byte) {
	var k, v, epp poly
	var seed [SymSize]byte

	pkpv := p.allocPolyVec(0)
	unpackPublicKey(&pkpv, seed[:], pk.packed)

	k.fromMsg(m)
	pkpv.ntt()

	at := p.allocMatrix()
	genMatrix(at, seed[:], true)

	var nonce byte
	sp := p.allocPolyVec(0)
	for _, pv := range sp.vec {
		pv.getNoise(coins, nonce, p.eta1)
		nonce++
	}
	sp.ntt()

	ep := p.allocPolyVec(0)
	for _, pv := range ep.vec {
		pv.getNoise(coins, nonce, eta2)
		nonce++
	}

	bp := p.allocPolyVec(p.du)
	for i, pv := range bp.vec {
		pv.pointwiseAcc(&sp, &at[i])
	}

	bp.invntt()
	bp.add(&bp, &ep)

	v.pointwiseAcc(&pkpv, &sp)
	v.invntt()

	epp.getNoise(coins, nonce, eta2)

	v.add(&v, &epp)
	v.add(&v, &k)

	packCiphertext(c, &bp, &v, p.dv)
}

// indcpaDecrypt is the decryption function of the IND-CPA-secure scheme
// underlying ML-KEM, FIPS 203 Algorithm 15 (K-PKE.Decrypt).
func (p *ParameterSet) indcpaDecrypt(m, c []byte, sk *indcpaSecretKey) {
	var v, mp poly

	skpv := p.allocPolyVec(0)
	bp := p.allocPolyVec(p.du)
	unpackCiphertext(&bp, &v, c, p.dv)
	unpackSecretKey(&skpv, sk.packed)

	bp.ntt()

	mp.pointwiseAcc(&skpv, &bp)
	mp.invntt()

	mp.sub(&mp, &v)

	mp.toMsg(m)
}

func (p *ParameterSet) allocMatrix() []polyVec {
	m := make([]polyVec, 0, p.k)
	for i := 0; i < p.k; i++ {
		m = append(m, p.allocPolyVec(0))
	}
	return m
}

func (p *ParameterSet) allocPolyVec(d int) polyVec {
	vec := make([]*poly, 0, p.k)
	for i := 0; i < p.k; i++ {
		vec = append(vec, new(poly))
	}
	return polyVec{vec: vec, d: d}
}

package dilithium

import (
	"github.com/QRCS-CORP/QSC-sub003/internal/ct"
	"github.com/QRCS-CORP/QSC-sub003/internal/xof"
)

// Elements of R_q = Z_q[X]/(X^n+1), the Dilithium analogue of kyber/poly.go.
type poly struct {
	coeffs [n]int32
}

func (p *poly) add(a, b *poly) {
	for i := range p.coeffs {
		p.coeffs[i] = a.coeffs[i] + b.coeffs[i]
	}
}

func (p *poly) sub(a, b *poly) {
	for i := range p.coeffs {
		p.coeffs[i] = a.coeffs[i] - b.coeffs[i]
	}
}

func (p *poly) reduce() {
	for i := range p.coeffs {
		p.coeffs[i] = reduce32(p.coeffs[i])
	}
}

func (p *poly) caddq() {
	for i := range p.coeffs {
		p.coeffs[i] = caddq(p.coeffs[i])
	}
}

func (p *poly) shiftLeftD() {
	for i := range p.coeffs {
		p.coeffs[i] <<= d
	}
}

func (p *poly) ntt()    { nttRef(&p.coeffs) }
func (p *poly) invntt() { invnttRef(&p.coeffs) }

// pointwiseMontgomery sets p = a*b coefficient-wise, both operands (and the
// result) in Montgomery/NTT domain.
func (p *poly) pointwiseMontgomery(a, b *poly) {
	for i := range p.coeffs {
		p.coeffs[i] = montgomeryReduce(int64(a.coeffs[i]) * int64(b.coeffs[i]))
	}
}

// infinityNormGE reports whether any |coeff| >= bound. Coefficients must
// already be centered (e.g. by reduce32). Used only against public bounds (gamma1-beta etc.), so the
// data-dependent short-circuit on the first over-bound coefficient is fine:
// this never runs on values an attacker can use to extract secrets bit by
// bit, just a public accept/reject decision already made in the clear by
// the reference algorithm.
func (p *poly) infinityNormGE(bound int32) bool {
	for _, c := range p.coeffs {
		t := c >> 31
		t = c - (t & (2 * c))
		if t >= bound {
			return true
		}
	}
	return false
}

// power2Round splits each coefficient a = a1*2^d + a0, -2^(d-1) < a0 <= 2^(d-1).
func (p *poly) power2Round(p0 *poly) {
	for i := range p.coeffs {
		a := p.coeffs[i]
		a1 := (a + (1 << (d - 1)) - 1) >> d
		p0.coeffs[i] = a - (a1 << d)
		p.coeffs[i] = a1
	}
}

// decompose splits a (mod q, in [0,q)) into high/low bits per the gamma2
// selected by the parameter set, FIPS 204 Algorithm 35.
func decompose(a, gamma2 int32) (a1, a0 int32) {
	a1 = (a + 127) >> 7
	if gamma2 == gamma2Q32 {
		a1 = (a1*1025 + (1 << 21)) >> 22
		a1 &= 15
	} else {
		a1 = (a1*11275 + (1 << 23)) >> 24
		a1 ^= ((43 - a1) >> 31) & a1
	}
	a0 = a - a1*2*gamma2
	a0 -= (((q-1)/2 - a0) >> 31) & q
	return a1, a0
}

func (p *poly) decompose(p0 *poly, gamma2 int32) {
	for i := range p.coeffs {
		a1, a0 := decompose(p.coeffs[i], gamma2)
		p.coeffs[i] = a1
		p0.coeffs[i] = a0
	}
}

func makeHint(a0, a1, gamma2 int32) int32 {
	if a0 > gamma2 || a0 < -gamma2 || (a0 == -gamma2 && a1 != 0) {
		return 1
	}
	return 0
}

func useHint(a int32, hint int32, gamma2 int32) int32 {
	a1, a0 := decompose(a, gamma2)
	if hint == 0 {
		return a1
	}
	if gamma2 == gamma2Q32 {
		if a0 > 0 {
			return (a1 + 1) & 15
		}
		return (a1 - 1) & 15
	}
	if a0 > 0 {
		if a1 == 43 {
			return 0
		}
		return a1 + 1
	}
	if a1 == 0 {
		return 43
	}
	return a1 - 1
}

// makeHintPoly sets h.coeffs[i] = makeHint(a0[i], a1[i]) and returns the
// Hamming weight of h.
func (h *poly) makeHintPoly(a0, a1 *poly, gamma2 int32) int {
	count := 0
	for i := range h.coeffs {
		v := makeHint(a0.coeffs[i], a1.coeffs[i], gamma2)
		h.coeffs[i] = v
		count += int(v)
	}
	return count
}

func (p *poly) useHintPoly(a, h *poly, gamma2 int32) {
	for i := range p.coeffs {
		p.coeffs[i] = useHint(a.coeffs[i], h.coeffs[i], gamma2)
	}
}

// ---- packing ----

// genericPack writes each coefficient, transformed by xform, as a bits-wide
// little-endian field, LSB-first across the byte stream — the same generic
// bit-accumulator kyber/poly.go's compress uses, which is byte-for-byte
// equivalent to the reference's fixed 4-coefficient grouping for every
// width used here (10/13/18/20/3/4/6 bits) since both are just sequential
// LSB-first bit packing.
func genericPack(r []byte, coeffs *[n]int32, bits int, xform func(int32) uint32) {
	mask := uint32(1)<<uint(bits) - 1
	var acc uint32
	accBits, pos := 0, 0

	for i := 0; i < n; i++ {
		val := xform(coeffs[i]) & mask
		acc |= val << uint(accBits)
		accBits += bits
		for accBits >= 8 {
			r[pos] = byte(acc)
			acc >>= 8
			accBits -= 8
			pos++
		}
	}
}

func genericUnpack(coeffs *[n]int32, a []byte, bits int, xform func(uint32) int32) {
	mask := uint32(1)<<uint(bits) - 1
	var acc uint32
	accBits, pos := 0, 0

	for i := 0; i < n; i++ {
		for accBits < bits {
			acc |= uint32(a[pos]) << uint(accBits)
			accBits += 8
			pos++
		}
		val := acc & mask
		acc >>= uint(bits)
		accBits -= bits
		coeffs[i] = xform(val)
	}
}

// packT1 encodes the public-key high bits, 10 bits/coefficient, unsigned.
func (p *poly) packT1(r []byte) {
	genericPack(r, &p.coeffs, 10, func(c int32) uint32 { return uint32(c) })
}

func (p *poly) unpackT1(a []byte) {
	genericUnpack(&p.coeffs, a, 10, func(v uint32) int32 { return int32(v) })
}

// packT0 encodes the secret-key low bits, 13 bits/coefficient, offset by
// 2^(d-1) so the stored value is unsigned.
func (p *poly) packT0(r []byte) {
	genericPack(r, &p.coeffs, 13, func(c int32) uint32 { return uint32((1 << (d - 1)) - c) })
}

func (p *poly) unpackT0(a []byte) {
	genericUnpack(&p.coeffs, a, 13, func(v uint32) int32 { return (1 << (d - 1)) - int32(v) })
}

// packEta encodes a bounded secret coefficient (|c| <= eta), offset by eta.
func (p *poly) packEta(r []byte, eta int) {
	bits := 3
	if eta == 4 {
		bits = 4
	}
	genericPack(r, &p.coeffs, bits, func(c int32) uint32 { return uint32(int32(eta) - c) })
}

func (p *poly) unpackEta(a []byte, eta int) {
	bits := 3
	if eta == 4 {
		bits = 4
	}
	genericUnpack(&p.coeffs, a, bits, func(v uint32) int32 { return int32(eta) - int32(v) })
}

// packZ encodes a y/z vector coefficient bounded by gamma1, offset by gamma1.
func (p *poly) packZ(r []byte, gamma1 int32) {
	bits := 18
	if gamma1 == gamma1Exp19 {
		bits = 20
	}
	genericPack(r, &p.coeffs, bits, func(c int32) uint32 { return uint32(gamma1 - c) })
}

func (p *poly) unpackZ(a []byte, gamma1 int32) {
	bits := 18
	if gamma1 == gamma1Exp19 {
		bits = 20
	}
	genericUnpack(&p.coeffs, a, bits, func(v uint32) int32 { return gamma1 - int32(v) })
}

// packW1 encodes the public commitment high bits for hashing into c~,
// unsigned, width depending on gamma2.
func (p *poly) packW1(r []byte, gamma2 int32) {
	bits := 6
	if gamma2 == gamma2Q32 {
		bits = 4
	}
	genericPack(r, &p.coeffs, bits, func(c int32) uint32 { return uint32(c) })
}

// ---- sampling ----

// rejUniform fills a with values in [0,q) rejection-sampled from a stream of
// uniformly random bytes, three bytes per candidate, FIPS 204 Algorithm 30.
// Returns the number of coefficients filled.
func rejUniform(a []int32, buf []byte) int {
	ctr, pos := 0, 0
	for ctr < len(a) && pos+3 <= len(buf) {
		t := uint32(buf[pos]) | uint32(buf[pos+1])<<8 | uint32(buf[pos+2])<<16
		pos += 3
		t &= 0x7FFFFF
		if t < q {
			a[ctr] = int32(t)
			ctr++
		}
	}
	return ctr
}

// uniform expands one matrix cell A[i][j] from rho by rejection sampling
// over SHAKE-128(rho || j || i), FIPS 204 Algorithm 29 (ExpandA per-cell).
func (p *poly) uniform(rho []byte, i, j int) {
	var seed [34]byte
	copy(seed[:32], rho)
	seed[32] = byte(j)
	seed[33] = byte(i)

	shake := xof.NewShake128()
	shake.Write(seed[:])

	const blockBytes = 168
	buf := make([]byte, blockBytes)
	ctr := 0
	for ctr < n {
		shake.Read(buf)
		ctr += rejUniform(p.coeffs[ctr:], buf)
	}
}

// rejEta fills a with centered values in [-eta,eta], rejection sampling two
// nibbles per input byte, FIPS 204 Algorithm 31.
func rejEta(a []int32, buf []byte, eta int) int {
	ctr, pos := 0, 0
	for ctr < len(a) && pos < len(buf) {
		t0 := uint32(buf[pos]) & 0x0F
		t1 := uint32(buf[pos]) >> 4
		pos++

		if eta == 2 {
			if t0 < 15 {
				t0 -= (205 * t0 >> 10) * 5
				a[ctr] = 2 - int32(t0)
				ctr++
			}
			if t1 < 15 && ctr < len(a) {
				t1 -= (205 * t1 >> 10) * 5
				a[ctr] = 2 - int32(t1)
				ctr++
			}
		} else {
			if t0 < 9 {
				a[ctr] = 4 - int32(t0)
				ctr++
			}
			if t1 < 9 && ctr < len(a) {
				a[ctr] = 4 - int32(t1)
				ctr++
			}
		}
	}
	return ctr
}

// sampleEta samples a bounded secret-vector polynomial from rhoPrime and a
// 16-bit domain-separating nonce, FIPS 204 Algorithm 31 (ExpandS per-poly).
func (p *poly) sampleEta(rhoPrime []byte, nonce uint16, eta int) {
	var seed [66]byte
	copy(seed[:64], rhoPrime)
	seed[64] = byte(nonce)
	seed[65] = byte(nonce >> 8)

	shake := xof.NewShake256()
	shake.Write(seed[:])

	const blockBytes = 136
	buf := make([]byte, blockBytes)
	ctr := 0
	for ctr < n {
		shake.Read(buf)
		ctr += rejEta(p.coeffs[ctr:], buf, eta)
	}
}

// sampleMask samples the masking vector y from rhoPrimePrime and a 16-bit
// nonce, coefficients uniform in (-gamma1, gamma1], FIPS 204 Algorithm 34
// (ExpandMask per-poly): generate a uniform bit-stream and unpack it exactly
// as packZ's inverse.
func (p *poly) sampleMask(rhoPrimePrime []byte, nonce uint16, gamma1 int32) {
	var seed [66]byte
	copy(seed[:64], rhoPrimePrime)
	seed[64] = byte(nonce)
	seed[65] = byte(nonce >> 8)

	bytesNeeded := 576
	if gamma1 == gamma1Exp19 {
		bytesNeeded = 640
	}
	buf := make([]byte, bytesNeeded)
	xof.Shake256Sum(buf, seed[:])
	p.unpackZ(buf, gamma1)
}

// sampleInBall expands the commitment hash c-tilde into the challenge
// polynomial, a signed polynomial with exactly tau nonzero coefficients set
// to +-1, FIPS 204 Algorithm 29 (SampleInBall): a Fisher-Yates-style shuffle
// driven by rejection-sampled index bytes plus a block of sign bits.
func sampleInBall(cTilde []byte, tau int) *poly {
	c := new(poly)

	shake := xof.NewShake256()
	shake.Write(cTilde)

	const rate = 136
	buf := make([]byte, rate)
	shake.Read(buf)

	var signs uint64
	for i := 0; i < 8; i++ {
		signs |= uint64(buf[i]) << uint(8*i)
	}
	pos := 8

	for i := n - tau; i < n; i++ {
		var b int
		for {
			if pos >= rate {
				shake.Read(buf)
				pos = 0
			}
			b = int(buf[pos])
			pos++
			if b <= i {
				break
			}
		}
		c.coeffs[i] = c.coeffs[b]
		c.coeffs[b] = 1 - 2*int32(signs&1)
		signs >>= 1
	}

	return c
}

// ctEqualCTilde compares two commitment-hash strings in constant time.
func ctEqualCTilde(a, b []byte) bool {
	return ct.Equal(a, b)
}

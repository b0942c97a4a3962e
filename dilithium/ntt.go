package dilithium

// Negacyclic NTT over Z_8380417, root of unity zeta=1753. Same construction
// as kyber/ntt.go (zetas table derived at init time by modular
// exponentiation in bit-reversed order, rather than a hardcoded table), just
// over a tree of depth 8 (N=256) instead of 7 (N=128), and operating on
// int32 Montgomery-form coefficients instead of Kyber's uint16.

var zetas [256]int32

const invNTTScale = 41978 // Montgomery-domain constant for R^2 * N^-1 mod q.

func init() {
	const primitiveRoot = 1753
	for i := 0; i < 256; i++ {
		e := bitrev8(byte(i))
		v := modExpQ(primitiveRoot, uint(e))
		zetas[i] = toMont(v)
	}
}

func bitrev8(a byte) byte {
	var r byte
	for i := 0; i < 8; i++ {
		r |= ((a >> uint(i)) & 1) << uint(7-i)
	}
	return r
}

func modExpQ(base int32, exp uint) int32 {
	r := int64(1)
	b := int64(base) % q
	for exp > 0 {
		if exp&1 == 1 {
			r = (r * b) % q
		}
		b = (b * b) % q
		exp >>= 1
	}
	return int32(r)
}

// nttRef computes the forward NTT in place, FIPS 204 Algorithm 41: input in
// normal order, output in bit-reversed order, coefficients end up scaled by
// an implicit R=2^32 (Montgomery domain).
func nttRef(p *[n]int32) {
	k := 0
	for length := 128; length > 0; length >>= 1 {
		for start := 0; start < n; start += 2 * length {
			k++
			zeta := zetas[k]
			for j := start; j < start+length; j++ {
				t := montgomeryReduce(int64(zeta) * int64(p[j+length]))
				p[j+length] = p[j] - t
				p[j] = p[j] + t
			}
		}
	}
}

// invnttRef computes the inverse NTT in place, FIPS 204 Algorithm 42: input
// in bit-reversed order, output in normal order and back in Montgomery form
// (the reference's invntt_tomont convention, matched here so pointwise
// products chain without an extra lift).
func invnttRef(p *[n]int32) {
	k := 256
	for length := 1; length < n; length <<= 1 {
		for start := 0; start < n; start += 2 * length {
			k--
			zeta := -zetas[k]
			for j := start; j < start+length; j++ {
				t := p[j]
				p[j] = t + p[j+length]
				p[j+length] = t - p[j+length]
				p[j+length] = montgomeryReduce(int64(zeta) * int64(p[j+length]))
			}
		}
	}

	for i := range p {
		p[i] = montgomeryReduce(int64(invNTTScale) * int64(p[i]))
	}
}

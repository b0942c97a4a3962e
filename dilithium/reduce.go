package dilithium

// Montgomery and partial-Barrett-style reduction for Q=8380417, R=2^32, the
// FIPS 204 modulus. Mirrors kyber/reduce.go's split of montgomeryReduce /
// reduce32 / caddq, just re-derived for Dilithium's wider coefficients
// (int32 instead of uint16, since Q no longer fits 13 bits).
const (
	qinv = 58728449 // inverse_mod(q, 2^32)

	montR    = 4193792  // 2^32 mod q, the Montgomery constant.
	montRSq  = 2365951  // 2^64 mod q, used to lift plain values into Montgomery form.
)

// montgomeryReduce computes a signed 32-bit integer congruent to
// a * R^-1 mod q, for |a| <= 2^31*q (the product of two bounded int32s).
func montgomeryReduce(a int64) int32 {
	t := int32(a) * qinv
	return int32((a - int64(t)*q) >> 32)
}

// reduce32 computes r == a (mod q), |r| < 2^23, for |a| <= 2^31.
func reduce32(a int32) int32 {
	t := (a + (1 << 22)) >> 23
	return a - t*q
}

// caddq conditionally adds q so that a in (-q, 0) is mapped into [0, q),
// leaving a in [0, q) unchanged; branchless via signed shift, not a
// compare-and-branch.
func caddq(a int32) int32 {
	return a + ((a >> 31) & q)
}

// toMont lifts a plain representative into Montgomery form (a*R mod q).
func toMont(a int32) int32 {
	return montgomeryReduce(int64(a) * montRSq)
}

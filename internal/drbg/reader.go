package drbg

import "io"

// seedLen is the size, in bytes, of the entropy draw used to key a Seeded
// or SeededHCG session.
const seedLen = 32

// Reader adapts a keyed CSG or HCG into a plain io.Reader, so the
// asymmetric primitives' key generation, encapsulation, and signing paths
// — which already take an io.Reader for their randomness — can sit a DRBG
// in front of their entropy source without changing call shape. Exactly
// one of csg/hcg is set.
type Reader struct {
	csg *CSG
	hcg *HCG
}

// Read fills p via the wrapped generator's Generate method.
func (r *Reader) Read(p []byte) (int, error) {
	if r.csg != nil {
		if err := r.csg.Generate(p); err != nil {
			return 0, err
		}
		return len(p), nil
	}
	if err := r.hcg.Generate(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Seeded draws a seed from entropy and returns an io.Reader backed by a CSG
// (cSHAKE-256) keyed from it, with predictive resistance enabled so a
// caller squeezing many bytes reseeds from entropy automatically rather
// than running the sponge past its budget unrefreshed. info is bound in as
// the cSHAKE customization string, domain-separating independent call
// sites (key generation vs. encapsulation, say) that happen to share an
// entropy source. This is spec.md §4.10's "used internally wherever the
// asymmetric primitives require randomness" wiring point for kyber,
// mceliece, and dilithium key generation.
func Seeded(entropy io.Reader, info []byte) (*Reader, error) {
	seed := make([]byte, seedLen)
	if _, err := io.ReadFull(entropy, seed); err != nil {
		return nil, err
	}
	g := NewCSG(entropy)
	g.Init(seed, info, true)
	return &Reader{csg: g}, nil
}

// SeededHCG is Seeded's HMAC_DRBG-based sibling: dilithium's signing-coin
// draw routes through this instead of CSG, so both DRBG personalities
// spec.md §4.10 names have a live call site rather than just CSG's.
func SeededHCG(entropy io.Reader, info []byte) (*Reader, error) {
	seed := make([]byte, seedLen)
	if _, err := io.ReadFull(entropy, seed); err != nil {
		return nil, err
	}
	g := NewHCG(entropy)
	g.Init(seed, info, true)
	return &Reader{hcg: g}, nil
}

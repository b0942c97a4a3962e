package drbg

import (
	"crypto/hmac"
	"crypto/sha512"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/QRCS-CORP/QSC-sub003/internal/pqcerr"
)

// hcgReseedThreshold is the byte budget (64 KiB of HMAC_DRBG output) after
// which, with predictive resistance enabled, HCG reseeds from OS entropy
// before continuing to generate.
const hcgReseedThreshold = 64 * 1024

// HCG is an HMAC-SHA512-based HMAC_DRBG-style generator: Init runs an
// HKDF-Extract over the seed to derive a keying state, and Generate expands
// from it with the HMAC_DRBG feedback construction (V = HMAC(K, V) per
// output block, no counter).
//
// Not safe for concurrent use; one instance per caller.
type HCG struct {
	entropy              io.Reader
	key                  []byte
	v                    []byte
	predictiveResistance bool
	sinceReseed          int
}

// NewHCG constructs an unkeyed HCG; call Init before Generate.
func NewHCG(entropy io.Reader) *HCG {
	return &HCG{entropy: entropy}
}

// Init keys the generator from seed and info (bound in as HKDF "info"/salt
// context) and enables or disables automatic reseeding.
func (g *HCG) Init(seed, info []byte, predictiveResistance bool) {
	g.predictiveResistance = predictiveResistance
	g.sinceReseed = 0
	g.key = hkdf.Extract(sha512.New, seed, info)
	g.v = make([]byte, sha512.Size)
	for i := range g.v {
		g.v[i] = 0x01
	}
	g.update(nil)
}

// update is the HMAC_DRBG update primitive: it folds additionalInput into
// (key, v) via two HMAC passes, per SP 800-90A §10.1.2.2.
func (g *HCG) update(additionalInput []byte) {
	mac := func() hash.Hash { return hmac.New(sha512.New, g.key) }

	h := mac()
	h.Write(g.v)
	h.Write([]byte{0x00})
	h.Write(additionalInput)
	g.key = h.Sum(nil)

	h = mac()
	h.Write(g.v)
	g.v = h.Sum(nil)

	if len(additionalInput) == 0 {
		return
	}

	h = mac()
	h.Write(g.v)
	h.Write([]byte{0x01})
	h.Write(additionalInput)
	g.key = h.Sum(nil)

	h = mac()
	h.Write(g.v)
	g.v = h.Sum(nil)
}

// Generate fills out with pseudorandom bytes, reseeding first if predictive
// resistance is enabled and the byte budget has been exhausted.
func (g *HCG) Generate(out []byte) error {
	if g.predictiveResistance && g.sinceReseed+len(out) > hcgReseedThreshold {
		if err := g.reseed(); err != nil {
			return err
		}
	}

	mac := func() hash.Hash { return hmac.New(sha512.New, g.key) }
	for off := 0; off < len(out); {
		h := mac()
		h.Write(g.v)
		g.v = h.Sum(nil)
		off += copy(out[off:], g.v)
	}
	g.update(nil)
	g.sinceReseed += len(out)
	return nil
}

// Update absorbs additional seed material into the running HMAC_DRBG state.
func (g *HCG) Update(seed []byte) {
	g.update(seed)
	g.sinceReseed = 0
}

func (g *HCG) reseed() error {
	var fresh [32]byte
	if _, err := g.entropy.Read(fresh[:]); err != nil {
		return pqcerr.ErrEntropyFailure
	}
	g.Update(fresh[:])
	return nil
}

// Dispose zeroizes the generator's retained state.
func (g *HCG) Dispose() {
	for i := range g.key {
		g.key[i] = 0
	}
	for i := range g.v {
		g.v[i] = 0
	}
}

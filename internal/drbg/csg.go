package drbg

import (
	"io"

	"github.com/QRCS-CORP/QSC-sub003/internal/pqcerr"
	"github.com/QRCS-CORP/QSC-sub003/internal/xof"
)

// csgReseedThreshold is the byte budget (1 MiB of cSHAKE output) after
// which, with predictive resistance enabled, CSG reseeds itself from OS
// entropy before continuing to squeeze.
const csgReseedThreshold = 1 << 20

// CSG is a cSHAKE-based deterministic random byte generator: a thin
// stateful wrapper around a cSHAKE-256 sponge. Init keys the sponge from a
// seed and an optional customization string, Generate squeezes output, and
// Update re-absorbs fresh seed material.
//
// CSG is not safe for concurrent use; each caller must hold its own
// instance — there is no shared mutable global state.
type CSG struct {
	sponge               xof.ShakeState
	entropy              io.Reader
	predictiveResistance bool
	sinceReseed          int
	info                 []byte
}

// NewCSG constructs an unkeyed CSG; call Init before Generate.
func NewCSG(entropy io.Reader) *CSG {
	return &CSG{entropy: entropy}
}

// Init keys the generator from seed and info (used as the cSHAKE
// customization string) and enables or disables automatic reseeding.
func (g *CSG) Init(seed, info []byte, predictiveResistance bool) {
	g.info = append([]byte(nil), info...)
	g.predictiveResistance = predictiveResistance
	g.sinceReseed = 0
	g.sponge = xof.NewCShake256([]byte("CSG"), g.info)
	g.sponge.Write(seed)
}

// Generate squeezes len(out) pseudorandom bytes into out, reseeding first
// if predictive resistance is enabled and the byte budget is exhausted.
func (g *CSG) Generate(out []byte) error {
	if g.predictiveResistance && g.sinceReseed+len(out) > csgReseedThreshold {
		if err := g.reseed(); err != nil {
			return err
		}
	}
	n, err := g.sponge.Read(out)
	g.sinceReseed += n
	if err != nil {
		return pqcerr.ErrEntropyFailure
	}
	return nil
}

// Update absorbs additional seed material into the running state. A sponge
// cannot absorb after squeezing, so it rekeys a fresh cSHAKE-256 instance
// from 64 bytes of the current output followed by seed.
func (g *CSG) Update(seed []byte) {
	var key [64]byte
	g.sponge.Read(key[:])
	g.sponge = xof.NewCShake256([]byte("CSG"), g.info)
	g.sponge.Write(key[:])
	g.sponge.Write(seed)
	g.sinceReseed = 0
}

// Dispose zeroizes the generator's retained state.
func (g *CSG) Dispose() {
	for i := range g.info {
		g.info[i] = 0
	}
	g.sponge.Reset()
	g.sponge = nil
}

func (g *CSG) reseed() error {
	var fresh [32]byte
	if _, err := g.entropy.Read(fresh[:]); err != nil {
		return err
	}
	g.Update(fresh[:])
	return nil
}

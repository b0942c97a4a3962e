package mceliece

import (
	"fmt"
	"io"
	"sort"

	"github.com/QRCS-CORP/QSC-sub003/internal/drbg"
	"github.com/QRCS-CORP/QSC-sub003/internal/gf2m"
	"github.com/QRCS-CORP/QSC-sub003/internal/pqcerr"
)

// sampleSupport draws a uniformly random permutation of GF(2^m)'s 2^m
// elements (by attaching a random 32-bit key to each index and sorting,
// rejecting collisions), then returns all 2^m bit-reversed images (the
// caller keeps the first n as the code's support L), together with the permutation's Beneš control bits (so a
// holder of the secret key can regenerate L exactly). Grounded on the
// "perm/buf sort, reject on tie" technique in
// _examples/other_examples/..._circl__kem-mceliece-...-mceliece.go.go.
//
// A collision among the sort keys is retried in place (redraw fresh keys,
// try again) up to keygenRetriesMax times, the same bounded-retry shape
// findIrreducible uses, rather than reporting a single failed draw back to
// GenerateKeyPair for it to silently fold into its own outer retry loop:
// exhausting this budget is its own named failure, errPermutationRetry.
func sampleSupport(f *gf2m.Field, rng io.Reader) (l []gf2m.Elt, controlBits []byte, err error) {
	size := f.Size()

	for attempt := 0; attempt < keygenRetriesMax; attempt++ {
		keys := make([]uint32, size)
		raw := make([]byte, 4*size)
		if _, err = io.ReadFull(rng, raw); err != nil {
			return nil, nil, err
		}
		for i := range keys {
			keys[i] = uint32(raw[4*i]) | uint32(raw[4*i+1])<<8 | uint32(raw[4*i+2])<<16 | uint32(raw[4*i+3])<<24
		}

		type pair struct {
			key uint32
			idx int32
		}
		buf := make([]pair, size)
		for i := range buf {
			buf[i] = pair{keys[i], int32(i)}
		}
		sort.Slice(buf, func(i, j int) bool { return buf[i].key < buf[j].key })

		collision := false
		for i := 1; i < size; i++ {
			if buf[i-1].key == buf[i].key {
				collision = true
				break
			}
		}
		if collision {
			continue
		}

		pi := make([]int32, size)
		for i, b := range buf {
			pi[i] = b.idx
		}

		controlBits = permControlBits(pi)

		l = make([]gf2m.Elt, f.Size())
		for i := range l {
			l[i] = f.BitRev(gf2m.Elt(pi[i]))
		}
		return l[:], controlBits, nil
	}

	return nil, nil, errPermutationRetry
}

// buildSystematicPK builds the public key's systematic generator columns
// from a Goppa polynomial g and support l, following pkGen in the circl
// reference: a (t*m) x n binary parity-check matrix derived from
// L[i]^j / g(L[i]), row-reduced to [I | T] form with NO column pivoting
// (a singular leading block simply fails and the caller redraws a fresh
// support/permutation, exactly as the reference does — the reserved
// 8-byte "pivots" field in the secret key layout is accordingly always
// zero here; see DESIGN.md).
func (p *ParameterSet) buildSystematicPK(f *gf2m.Field, g poly, l []gf2m.Elt) (pk []byte, ok bool) {
	n := p.n
	rows := p.pkNRows
	rowBytes := n / 8

	inv := make([]gf2m.Elt, n)
	for i := 0; i < n; i++ {
		inv[i] = f.Inv(g.eval(f, l[i]))
	}

	mat := make([][]byte, rows)
	for i := range mat {
		mat[i] = make([]byte, rowBytes)
	}

	for j := 0; j < p.t; j++ {
		for col := 0; col < n; col++ {
			if inv[col] == 0 {
				return nil, false
			}
			v := inv[col]
			for k := 0; k < f.M(); k++ {
				if (v>>uint(k))&1 != 0 {
					mat[j*f.M()+k][col/8] |= 1 << uint(col%8)
				}
			}
		}
		for col := 0; col < n; col++ {
			inv[col] = f.Mul(inv[col], l[col])
		}
	}

	for i := 0; i < (rows+7)/8; i++ {
		for j := 0; j < 8; j++ {
			row := i*8 + j
			if row >= rows {
				break
			}

			if (mat[row][i]>>uint(j))&1 == 0 {
				found := false
				for k := row + 1; k < rows; k++ {
					if (mat[k][i]>>uint(j))&1 != 0 {
						mat[row], mat[k] = mat[k], mat[row]
						found = true
						break
					}
				}
				if !found {
					return nil, false
				}
			}

			for k := 0; k < rows; k++ {
				if k == row {
					continue
				}
				if (mat[k][i]>>uint(j))&1 != 0 {
					for c := 0; c < rowBytes; c++ {
						mat[k][c] ^= mat[row][c]
					}
				}
			}
		}
	}

	pk = make([]byte, p.publicKeySize)
	for i := 0; i < rows; i++ {
		row := pk[i*p.pkRowBytes : (i+1)*p.pkRowBytes]
		for c := 0; c < p.pkNCols; c++ {
			col := rows + c
			row[c/8] |= ((mat[i][col/8] >> uint(col%8)) & 1) << uint(c%8)
		}
	}
	return pk, true
}

// GenerateKeyPair runs Classic McEliece key generation: sample an
// irreducible Goppa polynomial and a random support, build the systematic
// public key, and retry (bounded by keygenRetriesMax) if either the Goppa
// polynomial has a root in the support or the parity-check matrix is not
// full rank on its leading columns. A nil rng draws from the process's OS
// entropy source; otherwise rng's output seeds a CSG DRBG that supplies
// every random byte key generation consumes, per spec.md §4.10.
func (p *ParameterSet) GenerateKeyPair(rng io.Reader) (*PublicKey, *PrivateKey, error) {
	if rng == nil {
		rng = drbg.NewOSEntropy()
	}
	drbgRng, err := drbg.Seeded(rng, []byte("mceliece.GenerateKeyPair"))
	if err != nil {
		return nil, nil, fmt.Errorf("mceliece: seeding key-generation DRBG: %w", pqcerr.ErrEntropyFailure)
	}
	rng = drbgRng

	f := p.field()

	for attempt := 0; attempt < keygenRetriesMax; attempt++ {
		g, err := findIrreducible(f, rng, p.t)
		if err != nil {
			return nil, nil, err
		}

		l, controlBits, err := sampleSupport(f, rng)
		if err != nil {
			return nil, nil, err
		}
		l = l[:p.n]

		hasRoot := false
		for _, alpha := range l {
			if g.eval(f, alpha) == 0 {
				hasRoot = true
				break
			}
		}
		if hasRoot {
			continue
		}

		pkBytes, ok := p.buildSystematicPK(f, g, l)
		if !ok {
			continue
		}

		delta := make([]byte, 32)
		if _, err := io.ReadFull(rng, delta); err != nil {
			return nil, nil, err
		}
		s := make([]byte, p.n/8)
		if _, err := io.ReadFull(rng, s); err != nil {
			return nil, nil, err
		}

		skBytes := p.packPrivateKey(delta, g, controlBits, s)

		pub := &PublicKey{p: p, bytes: pkBytes}
		priv := &PrivateKey{
			PublicKey: *pub,
			delta:     delta,
			g:         g,
			l:         l,
			controlBits: controlBits,
			s:         s,
			bytes:     skBytes,
		}
		return pub, priv, nil
	}

	return nil, nil, errKeygenRetriesExhausted
}

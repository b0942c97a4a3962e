package mceliece

import (
	"io"

	"github.com/QRCS-CORP/QSC-sub003/internal/gf2m"
)

// poly is a polynomial over GF(2^m), coefficients stored low-degree first.
// A nil or empty poly represents the zero polynomial.
type poly []gf2m.Elt

func (p poly) deg() int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] != 0 {
			return i
		}
	}
	return -1 // zero polynomial
}

func (p poly) trim() poly {
	d := p.deg()
	if d < 0 {
		return nil
	}
	return p[:d+1]
}

func polyAdd(a, b poly) poly {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	r := make(poly, n)
	for i := range r {
		var av, bv gf2m.Elt
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		r[i] = av ^ bv
	}
	return r.trim()
}

func polyScale(f *gf2m.Field, a poly, c gf2m.Elt) poly {
	r := make(poly, len(a))
	for i, v := range a {
		r[i] = f.Mul(v, c)
	}
	return r.trim()
}

func polyMul(f *gf2m.Field, a, b poly) poly {
	if a.deg() < 0 || b.deg() < 0 {
		return nil
	}
	r := make(poly, len(a)+len(b)-1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			r[i+j] ^= f.Mul(av, bv)
		}
	}
	return r.trim()
}

// polyDivMod computes q, r such that a = q*b + r, deg(r) < deg(b).
func polyDivMod(f *gf2m.Field, a, b poly) (q, r poly) {
	bd := b.deg()
	if bd < 0 {
		panic("mceliece: division by zero polynomial")
	}
	lead := f.Inv(b[bd])

	rem := append(poly(nil), a...)
	qd := a.deg() - bd
	if qd < 0 {
		return nil, a.trim()
	}
	qc := make(poly, qd+1)

	for rem.deg() >= bd {
		rd := rem.deg()
		c := f.Mul(rem[rd], lead)
		shift := rd - bd
		qc[shift] = c
		for i, bv := range b {
			rem[shift+i] ^= f.Mul(c, bv)
		}
		rem = rem.trim()
		if rem == nil {
			break
		}
	}
	return qc.trim(), rem
}

func polyMod(f *gf2m.Field, a, m poly) poly {
	_, r := polyDivMod(f, a, m)
	return r
}

// polyGCD returns the monic gcd of a and b.
func polyGCD(f *gf2m.Field, a, b poly) poly {
	for b.deg() >= 0 {
		_, r := polyDivMod(f, a, b)
		a, b = b, r
	}
	if a.deg() < 0 {
		return a
	}
	lead := f.Inv(a[a.deg()])
	return polyScale(f, a, lead)
}

// polySqrMod squares a polynomial modulo m.
func polySqrMod(f *gf2m.Field, a, m poly) poly {
	return polyMod(f, polyMul(f, a, a), m)
}

// frobeniusPow computes x^(q^k) mod g, where q=2^m, via k*m repeated
// squarings (raising to the q-th power is m squarings since q is a power
// of two, so iterating that k times gives the full q^k-th power).
func frobeniusPow(f *gf2m.Field, g poly, k int) poly {
	cur := poly{0, 1}
	cur = polyMod(f, cur, g)
	for i := 0; i < k; i++ {
		for b := 0; b < f.M(); b++ {
			cur = polySqrMod(f, cur, g)
		}
	}
	return cur
}

// distinctPrimeFactors returns the distinct prime factors of n via trial
// division (n is always t <= 128 here, so this is instant).
func distinctPrimeFactors(n int) []int {
	var out []int
	for p := 2; p*p <= n; p++ {
		if n%p == 0 {
			out = append(out, p)
			for n%p == 0 {
				n /= p
			}
		}
	}
	if n > 1 {
		out = append(out, n)
	}
	return out
}

// isIrreducible runs Rabin's irreducibility test on monic polynomial g of
// degree t over GF(2^m).
func isIrreducible(f *gf2m.Field, g poly) bool {
	t := g.deg()
	if t <= 0 {
		return false
	}

	x := poly{0, 1}
	xqt := frobeniusPow(f, g, t)
	if !polyEqual(xqt, polyMod(f, x, g)) {
		return false
	}

	for _, pr := range distinctPrimeFactors(t) {
		xqk := frobeniusPow(f, g, t/pr)
		diff := polyAdd(xqk, x)
		if polyGCD(f, diff, g).deg() != 0 {
			return false
		}
	}
	return true
}

func polyEqual(a, b poly) bool {
	a, b = a.trim(), b.trim()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// eval evaluates p at x via Horner's method.
func (p poly) eval(f *gf2m.Field, x gf2m.Elt) gf2m.Elt {
	var r gf2m.Elt
	for i := len(p) - 1; i >= 0; i-- {
		r = f.Add(f.Mul(r, x), p[i])
	}
	return r
}

// findIrreducible samples random monic degree-t polynomials over GF(2^m)
// (low t coefficients drawn from rng, leading coefficient fixed to 1) until
// one passes isIrreducible, or returns an error after keygenRetriesMax
// attempts. This is the Goppa polynomial g driving the code's error
// correction capacity; any irreducible degree-t polynomial serves equally
// well as a Goppa polynomial for a randomly chosen support, so this module
// does not reproduce the reference's specific deterministic-from-seed
// derivation (see DESIGN.md).
func findIrreducible(f *gf2m.Field, rng io.Reader, t int) (poly, error) {
	buf := make([]byte, 2*t)
	for attempt := 0; attempt < keygenRetriesMax; attempt++ {
		if _, err := io.ReadFull(rng, buf); err != nil {
			return nil, err
		}
		g := make(poly, t+1)
		g[t] = 1
		for i := 0; i < t; i++ {
			v := (gf2m.Elt(buf[2*i]) | gf2m.Elt(buf[2*i+1])<<8) & f.Mask()
			g[i] = v
		}
		if isIrreducible(f, g) {
			return g, nil
		}
	}
	return nil, errIrreducibleRetry
}

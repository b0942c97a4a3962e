// Package gf2m implements the binary extension fields GF(2^12) and GF(2^13)
// the Classic McEliece parameter sets in spec.md §6 are built over (m ∈
// {12,13}, selected per parameter set so that 2^m >= n). Grounded on
// github.com/cloudflare/circl's gf4096 package (a fixed-m GF(2^12) used by
// its mceliece348864), generalized here to a runtime-selectable m.
//
// Every operation below is branchless and addresses no table by a secret
// element: spec.md §5 forbids secret-dependent control flow and memory
// addressing in GF inversion, and the field elements this package's callers
// feed through Mul/Sq/Inv (the Goppa polynomial, the BM discrepancy, error
// locator evaluation) are exactly the values §5 has in mind. Multiply is a
// carry-less shift-xor product followed by a fixed-length masked reduction
// against the field's primitive polynomial; inversion is Fermat exponentiation
// (a^(2^m-2)) built entirely out of that same Mul/Sq, so it carries the same
// timing profile for every input, including zero.
package gf2m

// Elt is an element of GF(2^m), always stored in the low m bits of a uint16.
type Elt = uint16

// primitivePolys gives, for each supported m, a primitive polynomial over
// GF(2) of degree m (bit i set means the x^i term is present, including the
// implicit leading x^m term), matching the reduction polynomials the
// Classic McEliece reference parameter sets use: x^12+x^3+1 for m=12,
// x^13+x^4+x^3+x+1 for m=13.
var primitivePolys = map[int]uint32{
	12: 0x1009,
	13: 0x201b,
}

// Field is a GF(2^m) arithmetic context: the extension degree and its
// reduction polynomial, shared by every field operation (multiply, invert,
// square, evaluate).
type Field struct {
	m    int
	size int    // 2^m
	mask Elt    // 2^m - 1
	poly uint32 // reduction polynomial, degree-m term included
}

// NewField builds a GF(2^m) context. m must be a key of primitivePolys (12
// or 13, the only degrees spec.md's parameter table needs).
func NewField(m int) *Field {
	poly, ok := primitivePolys[m]
	if !ok {
		panic("gf2m: unsupported extension degree")
	}

	size := 1 << uint(m)
	return &Field{
		m:    m,
		size: size,
		mask: Elt(size - 1),
		poly: poly,
	}
}

// M returns the field's extension degree.
func (f *Field) M() int { return f.m }

// Size returns 2^m, the number of field elements.
func (f *Field) Size() int { return f.size }

// Mask returns the bitmask selecting the low m bits an element occupies.
func (f *Field) Mask() Elt { return f.mask }

// Add returns a+b (=a^b, since the field has characteristic 2).
func (f *Field) Add(a, b Elt) Elt { return a ^ b }

// Mul returns a*b: a carry-less shift-xor product of the two m-bit operands
// followed by reduce's fixed-length masked reduction. No branch and no table
// index depends on a or b; the only data-dependent step is reduce's mask,
// which is applied to every iteration of a loop whose length is fixed by m
// (a public parameter), never by a or b.
func (f *Field) Mul(a, b Elt) Elt {
	ua, ub := uint32(a), uint32(b)
	var r uint32
	for i := 0; i < f.m; i++ {
		r ^= (-(ub & 1)) & (ua << uint(i))
		ub >>= 1
	}
	return f.reduce(r)
}

// reduce folds a degree <= 2m-2 polynomial r down to a field element modulo
// f.poly, processing bits top-down with a branchless mask instead of an "if
// bit set" conditional.
func (f *Field) reduce(r uint32) Elt {
	for i := 2*f.m - 2; i >= f.m; i-- {
		bit := (r >> uint(i)) & 1
		r ^= (-bit) & (f.poly << uint(i-f.m))
	}
	return Elt(r) & f.mask
}

// Sq returns a*a.
func (f *Field) Sq(a Elt) Elt {
	return f.Mul(a, a)
}

// Inv returns a^-1 (0 for a==0, which falls out of the exponentiation below
// without a special case). Computed as Fermat exponentiation a^(2^m-2) via
// the fixed square-and-multiply chain for that public exponent, built
// entirely out of Mul/Sq above, so every input — including zero — drives the
// same sequence of field operations.
func (f *Field) Inv(a Elt) Elt {
	r := a
	for i := 0; i < f.m-2; i++ {
		r = f.Sq(r)
		r = f.Mul(r, a)
	}
	return f.Sq(r)
}

// Div returns a/b (b must be nonzero).
func (f *Field) Div(a, b Elt) Elt {
	return f.Mul(a, f.Inv(b))
}

// BitRev reverses the low m bits of a.
func (f *Field) BitRev(a Elt) Elt {
	var r Elt
	for i := 0; i < f.m; i++ {
		r |= ((a >> uint(i)) & 1) << uint(f.m-1-i)
	}
	return r
}

package gf2m

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldAxioms(t *testing.T) {
	for _, m := range []int{12, 13} {
		t.Run(fieldName(m), func(t *testing.T) { doTestFieldAxioms(t, m) })
	}
}

func fieldName(m int) string {
	if m == 12 {
		return "m12"
	}
	return "m13"
}

func doTestFieldAxioms(t *testing.T, m int) {
	require := require.New(t)
	f := NewField(m)

	one := Elt(1)
	require.Equal(Elt(0), f.Mul(0, 0))
	require.Equal(Elt(0), f.Mul(0, 7))
	require.Equal(Elt(0), f.Mul(7, 0))
	require.Equal(one, f.Mul(one, one))

	// Sample a spread of elements rather than the full 2^13 field, for
	// test speed, but always include 0, 1, and the top element.
	samples := []Elt{0, 1, 2, 3, 5, 17, 255, f.Mask() - 1, f.Mask()}

	for _, a := range samples {
		require.Equal(f.Mul(a, a), f.Sq(a), "Sq must agree with Mul(a,a) for a=%d", a)

		inv := f.Inv(a)
		if a == 0 {
			require.Equal(Elt(0), inv, "Inv(0) must be 0")
			continue
		}
		require.Equal(one, f.Mul(a, inv), "a*Inv(a) must be 1 for a=%d", a)

		for _, b := range samples {
			require.Equal(f.Mul(a, b), f.Mul(b, a), "Mul must commute")
		}
	}

	for _, a := range samples {
		for _, b := range samples {
			for _, c := range samples {
				lhs := f.Mul(a, f.Add(b, c))
				rhs := f.Add(f.Mul(a, b), f.Mul(a, c))
				require.Equal(lhs, rhs, "multiplication must distribute over addition")
			}
		}
	}
}

func TestBitRevInvolution(t *testing.T) {
	require := require.New(t)
	f := NewField(12)
	for _, a := range []Elt{0, 1, 7, 4095, 2048} {
		require.Equal(a, f.BitRev(f.BitRev(a)))
	}
}
